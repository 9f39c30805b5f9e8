package artifact

import (
	"strconv"

	"github.com/skylarkdrones/heimdall-libnpnt/internal/core/domain"
	"github.com/skylarkdrones/heimdall-libnpnt/internal/core/ports"
)

// extractFence reads the geofence polygon from a verified tree.
//
// Two passes over the Coordinates element's children in document order:
// the first counts Coordinate elements (skipping text and any other
// sibling nodes), the second materializes a sequence of exactly that
// length. The returned slice is owned by the caller. Vertex order is
// document order; polygon winding is caller-significant.
func extractFence(doc ports.Document) ([]domain.Vertex, error) {
	coords := doc.Find("Coordinates")
	if coords == nil {
		return nil, domain.BadFenceError("document has no Coordinates element", nil)
	}

	nverts := 0
	for node := coords.FirstChild(); node != nil; node = node.NextSibling() {
		if node.Name() == "Coordinate" {
			nverts++
		}
	}
	if nverts == 0 {
		return nil, domain.BadFenceError("Coordinates element has no Coordinate children", nil)
	}

	vertices := make([]domain.Vertex, 0, nverts)
	for node := coords.FirstChild(); node != nil; node = node.NextSibling() {
		if node.Name() != "Coordinate" {
			continue
		}
		lat, err := parseCoordAttr(node, "latitude")
		if err != nil {
			return nil, err
		}
		lon, err := parseCoordAttr(node, "longitude")
		if err != nil {
			return nil, err
		}
		vertices = append(vertices, domain.Vertex{Latitude: lat, Longitude: lon})
	}
	return vertices, nil
}

func parseCoordAttr(node ports.Node, name string) (float64, error) {
	raw, ok := node.Attr(name)
	if !ok {
		return 0, domain.BadFenceError("Coordinate element is missing "+name, nil)
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, domain.BadFenceError("Coordinate "+name+" is not a number", err)
	}
	return val, nil
}

// extractMaxAltitude reads the maxAltitude attribute of FlightParameters.
func extractMaxAltitude(doc ports.Document) (float64, error) {
	flightParams := doc.Find("FlightParameters")
	if flightParams == nil {
		return 0, domain.InvalidAltitudeError("document has no FlightParameters element", nil)
	}
	raw, ok := flightParams.Attr("maxAltitude")
	if !ok {
		return 0, domain.InvalidAltitudeError("FlightParameters is missing maxAltitude", nil)
	}
	alt, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, domain.InvalidAltitudeError("maxAltitude is not a number", err)
	}
	return alt, nil
}
