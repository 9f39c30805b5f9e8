package domain

import "time"

// CivilTime is a broken-down calendar time as extracted from a permission
// artifact timestamp, after the fixed IST-to-UTC offset subtraction.
//
// The offset is applied to the Hour and Minute fields only, with no borrow
// into the date: a flight window starting before 05:30 IST yields a
// negative Hour or Minute. This matches the serialization existing signed
// artifacts were verified against and is preserved for compatibility.
// Month is 1-based.
type CivilTime struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// UTC returns the instant this CivilTime denotes. time.Date normalizes
// out-of-range components, so the un-borrowed Hour/Minute fields resolve
// to the correct instant (e.g. hour -3 rolls into the previous day).
func (c CivilTime) UTC() time.Time {
	return time.Date(c.Year, time.Month(c.Month), c.Day, c.Hour, c.Minute, c.Second, 0, time.UTC)
}

// FlightParams are the identity and flight-window fields a verified
// artifact authorizes. All fields are mandatory; a FlightParams value is
// only ever exposed fully populated.
type FlightParams struct {
	UINNo       string
	ADCNumber   string
	FICNumber   string
	FlightStart CivilTime
	FlightEnd   CivilTime
}
