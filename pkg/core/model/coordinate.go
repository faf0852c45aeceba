package model

import (
	"fmt"
	"math"
)

// earthRadiusKm is the mean Earth radius used by the haversine
// great-circle distance computation.
const earthRadiusKm = 6371.0

// Coordinate represents a geographical location with a latitude and
// longitude, both in decimal degrees. Participants and requests carry
// an optional Coordinate next to their free-text location, so the
// matching policies can rank volunteers by real distance.
type Coordinate struct {
	Lat, Lon float64 // latitude and longitude of the geo-location
}

// CoordinateError indicates a latitude or longitude which is out of
// its valid range. It carries the offending coordinate so a caller
// which detects the error mid-computation can report it verbatim.
type CoordinateError Coordinate

// Error implements the error interface, returning a string
// representation of the CoordinateError.
func (e CoordinateError) Error() string {
	return fmt.Sprintf("coordinate out of range: lat=%v, lon=%v", e.Lat, e.Lon)
}

// Validate returns nil if the latitude is within [-90, 90] and the
// longitude is within [-180, 180]. For out of range values, an
// instance of the CoordinateError will be returned.
func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 || c.Lon < -180 || c.Lon > 180 {
		return CoordinateError(c)
	}
	return nil
}

// Distance computes the great-circle distance between the a and b
// coordinates using the haversine formula, in kilometers, rounded to
// two decimal places. It is symmetric and returns zero for identical
// points. Invalid coordinates cause a CoordinateError.
func Distance(a, b Coordinate) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if err := b.Validate(); err != nil {
		return 0, err
	}
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dlat := radians(b.Lat - a.Lat)
	dlon := radians(b.Lon - a.Lon)
	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	d := earthRadiusKm * c
	return math.Round(d*100) / 100, nil
}

// SafeDistance computes the same distance as Distance, while treating
// a missing or invalid coordinate as an absent result instead of an
// error. It is meant for optional-location contexts where a nil
// distance simply excludes an item from distance-based decisions.
func SafeDistance(a, b *Coordinate) *float64 {
	if a == nil || b == nil {
		return nil
	}
	d, err := Distance(*a, *b)
	if err != nil {
		return nil
	}
	return &d
}

// DisplayDistance renders a distance in kilometers as a human readable
// string: distances below one kilometer in meters, distances below ten
// kilometers with one decimal, and larger distances as an integer
// kilometer count.
func DisplayDistance(km float64) string {
	switch {
	case km < 1:
		return fmt.Sprintf("%d m", int(km*1000))
	case km < 10:
		return fmt.Sprintf("%.1f km", km)
	default:
		return fmt.Sprintf("%d km", int(km))
	}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
