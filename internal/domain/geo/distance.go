// Package geo holds the great-circle distance engine used to rank hospitals.
package geo

import (
	"math"
	"sort"

	"github.com/zatekoja/emergencyassist/backend/internal/domain/entities"
)

// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000.0

// MaxDistanceMeters is the antipodal distance, the upper bound of DistanceMeters.
const MaxDistanceMeters = math.Pi * EarthRadiusMeters

// DistanceMeters returns the great-circle distance between a and b using the
// haversine formula. Inputs must be finite; range checks are the caller's job.
func DistanceMeters(a, b entities.GeoPoint) float64 {
	lat1Rad := toRadians(a.Latitude)
	lat2Rad := toRadians(b.Latitude)
	deltaLat := toRadians(b.Latitude - a.Latitude)
	deltaLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	// rounding can push h a hair outside [0,1] for near-antipodal points
	h = math.Min(1, math.Max(0, h))

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusMeters * c
}

// RankByDistance attaches the distance from origin to every candidate and
// sorts ascending. Candidates without usable coordinates get a nil distance
// and are placed after every measured one. The sort is stable, so ties and
// unmeasured entries keep their input order. The full list is returned.
func RankByDistance(origin entities.GeoPoint, candidates []entities.HospitalCandidate) []entities.RankedHospital {
	ranked := make([]entities.RankedHospital, 0, len(candidates))
	for _, candidate := range candidates {
		entry := entities.RankedHospital{HospitalCandidate: candidate}
		if point, ok := candidate.Point(); ok {
			// huge finite degrees overflow to Inf in radians and yield NaN
			if d := DistanceMeters(origin, point); !math.IsNaN(d) && !math.IsInf(d, 0) {
				entry.DistanceMeters = &d
			}
		}
		ranked = append(ranked, entry)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return lessByDistance(ranked[i], ranked[j])
	})

	return ranked
}

func lessByDistance(a, b entities.RankedHospital) bool {
	switch {
	case !a.HasDistance():
		return false
	case !b.HasDistance():
		return true
	default:
		return *a.DistanceMeters < *b.DistanceMeters
	}
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
