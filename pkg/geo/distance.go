package geo

import (
	"math"

	"github.com/lintang-b-s/dynroute/pkg/util"
)

const (
	earthRadiusKM = 6371.0
)

// Coordinate is a WGS84 point in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{Lat: lat, Lon: lon}
}

// HaversineKm. great circle distance between a and b in km
func HaversineKm(a, b Coordinate) float64 {
	dLat := util.DegreeToRadians(b.Lat - a.Lat)
	dLon := util.DegreeToRadians(b.Lon - a.Lon)
	latA := util.DegreeToRadians(a.Lat)
	latB := util.DegreeToRadians(b.Lat)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(latA)*math.Cos(latB)*sinLon*sinLon
	return 2 * earthRadiusKM * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
