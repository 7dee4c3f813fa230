package geo

import (
	"github.com/golang/geo/s2"
)

// PolylineLengthKm returns the great circle length of the polyline through coords in km.
func PolylineLengthKm(coords []Coordinate) float64 {
	if len(coords) < 2 {
		return 0
	}
	points := make([]s2.Point, 0, len(coords))
	for _, c := range coords {
		points = append(points, s2.PointFromLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon)))
	}
	polyline := s2.Polyline(points)
	return polyline.Length().Radians() * earthRadiusKM
}
