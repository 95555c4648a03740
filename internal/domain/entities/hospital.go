package entities

const (
	// DefaultHospitalName is used when a provider record has no name.
	DefaultHospitalName = "Unnamed Hospital"
	// DefaultHospitalAddress is used when a provider record has no address.
	DefaultHospitalAddress = "Address unavailable"
)

// HospitalCandidate is a provider record normalized into the internal shape,
// before a distance is attached. Nil coordinates mean the provider did not
// supply a usable value.
type HospitalCandidate struct {
	Name      string
	Address   string
	Latitude  *float64
	Longitude *float64
}

// Point returns the candidate's coordinates if both are present and finite.
func (c HospitalCandidate) Point() (GeoPoint, bool) {
	if c.Latitude == nil || c.Longitude == nil {
		return GeoPoint{}, false
	}
	p := GeoPoint{Latitude: *c.Latitude, Longitude: *c.Longitude}
	if !p.IsFinite() {
		return GeoPoint{}, false
	}
	return p, true
}

// RankedHospital is a candidate with its distance from the search origin.
// DistanceMeters is nil when the candidate had no usable coordinates.
type RankedHospital struct {
	HospitalCandidate
	DistanceMeters *float64
}

// HasDistance reports whether a numeric distance is attached.
func (h RankedHospital) HasDistance() bool {
	return h.DistanceMeters != nil
}
