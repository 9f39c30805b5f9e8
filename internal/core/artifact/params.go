package artifact

import (
	"strconv"

	"github.com/skylarkdrones/heimdall-libnpnt/internal/core/domain"
	"github.com/skylarkdrones/heimdall-libnpnt/internal/core/ports"
)

// Fixed offset applied when converting artifact timestamps, which are IST
// local civil time, toward UTC. The subtraction is applied to the hour and
// minute fields only; see domain.CivilTime.
const (
	istOffsetHours   = 5
	istOffsetMinutes = 30
)

// timestampLen is the exact length of an artifact timestamp,
// YYYY-MM-DDTHH:MM:SS.
const timestampLen = 19

// extractFlightParams reads the identity and flight-window attributes from
// a verified tree. Extraction is all-or-nothing: any missing or malformed
// field fails the whole call and no partial FlightParams is returned.
func extractFlightParams(doc ports.Document) (domain.FlightParams, error) {
	var params domain.FlightParams

	uaDetails := doc.Find("UADetails")
	if uaDetails == nil {
		return params, domain.InvalidFlightParamsError("document has no UADetails element", nil)
	}
	flightParams := doc.Find("FlightParameters")
	if flightParams == nil {
		return params, domain.InvalidFlightParamsError("document has no FlightParameters element", nil)
	}

	var ok bool
	if params.UINNo, ok = uaDetails.Attr("uinNo"); !ok {
		return domain.FlightParams{}, domain.InvalidFlightParamsError("UADetails is missing uinNo", nil)
	}
	if params.ADCNumber, ok = flightParams.Attr("adcNumber"); !ok {
		return domain.FlightParams{}, domain.InvalidFlightParamsError("FlightParameters is missing adcNumber", nil)
	}
	if params.FICNumber, ok = flightParams.Attr("ficNumber"); !ok {
		return domain.FlightParams{}, domain.InvalidFlightParamsError("FlightParameters is missing ficNumber", nil)
	}

	var err error
	if params.FlightStart, err = parseTimestampAttr(flightParams, "flightStartTime"); err != nil {
		return domain.FlightParams{}, err
	}
	if params.FlightEnd, err = parseTimestampAttr(flightParams, "flightEndTime"); err != nil {
		return domain.FlightParams{}, err
	}
	return params, nil
}

func parseTimestampAttr(node ports.Node, name string) (domain.CivilTime, error) {
	raw, ok := node.Attr(name)
	if !ok {
		return domain.CivilTime{}, domain.InvalidFlightParamsError("FlightParameters is missing "+name, nil)
	}
	ts, err := parseISTTimestamp(raw)
	if err != nil {
		return domain.CivilTime{}, domain.InvalidFlightParamsError(name+" is malformed", err)
	}
	return ts, nil
}

// parseISTTimestamp parses a 19-character YYYY-MM-DDTHH:MM:SS local-time
// string at fixed character positions and applies the IST offset to the
// hour and minute fields. No borrow into the date is performed on
// underflow; the raw fields are preserved as signers produced them and
// CivilTime.UTC normalizes when an instant is needed.
func parseISTTimestamp(s string) (domain.CivilTime, error) {
	if len(s) != timestampLen {
		return domain.CivilTime{}, domain.InvalidFlightParamsError("timestamp is not 19 characters", nil)
	}

	var ct domain.CivilTime
	fields := [...]struct {
		lo, hi int
		dst    *int
	}{
		{0, 4, &ct.Year},
		{5, 7, &ct.Month},
		{8, 10, &ct.Day},
		{11, 13, &ct.Hour},
		{14, 16, &ct.Minute},
		{17, 19, &ct.Second},
	}
	for _, f := range fields {
		val, err := strconv.Atoi(s[f.lo:f.hi])
		if err != nil {
			return domain.CivilTime{}, domain.InvalidFlightParamsError("timestamp has a non-numeric field", err)
		}
		*f.dst = val
	}

	ct.Hour -= istOffsetHours
	ct.Minute -= istOffsetMinutes
	return ct, nil
}
