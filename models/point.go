package models

// Point is a located item stored in a geo index.
type Point struct {
	ID        string            `json:"id"`
	Latitude  float64           `json:"latitude"`
	Longitude float64           `json:"longitude"`
	Geohash   string            `json:"geohash"`
	Tags      map[string]string `json:"tags,omitempty"`
}
