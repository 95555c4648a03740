package entities

import "math"

// GeoPoint is a WGS84 latitude/longitude pair in decimal degrees.
type GeoPoint struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// IsFinite reports whether both coordinates are finite numbers.
func (p GeoPoint) IsFinite() bool {
	return isFinite(p.Latitude) && isFinite(p.Longitude)
}

// IsValid reports whether the point is finite and within
// [-90,90] latitude and [-180,180] longitude.
func (p GeoPoint) IsValid() bool {
	if !p.IsFinite() {
		return false
	}
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
