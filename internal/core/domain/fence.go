package domain

// Vertex is a single geofence polygon vertex.
type Vertex struct {
	Latitude  float64
	Longitude float64
}

// Fence is the authorized geofence: an ordered polygon plus the maximum
// altitude the permission grants. Vertex order is document order from the
// artifact — polygon winding is significant to the flight controller and
// must never be sorted or deduplicated.
type Fence struct {
	Vertices    []Vertex
	MaxAltitude float64
}

// NumVertices returns the vertex count.
func (f *Fence) NumVertices() int {
	return len(f.Vertices)
}
