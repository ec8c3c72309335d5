// ABOUTME: Great-circle geometry for spot validation and ranking
// ABOUTME: Haversine distances, radius checks, and coordinate validation

package geo

import (
	"errors"
	"fmt"
	"math"
)

const (
	// EarthRadiusMeters is the mean earth radius used by DistanceMeters.
	EarthRadiusMeters = 6371e3

	// EarthRadiusKm is the mean earth radius used by DistanceKilometers.
	EarthRadiusKm = 6371.0

	// metersPerDegreeLat approximates one degree of latitude in meters.
	metersPerDegreeLat = 111320.0
)

// ErrInvalidCoordinate is returned when a coordinate is out of range or not a number.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Coordinate is a WGS 84 point in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// Validate checks that latitude and longitude are finite and within range.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) {
		return fmt.Errorf("%w: coordinates cannot be NaN", ErrInvalidCoordinate)
	}
	if math.IsInf(c.Latitude, 0) || math.IsInf(c.Longitude, 0) {
		return fmt.Errorf("%w: coordinates cannot be infinite", ErrInvalidCoordinate)
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrInvalidCoordinate)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrInvalidCoordinate)
	}
	return nil
}

// String renders the coordinate with four decimals, matching CLI output.
func (c Coordinate) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", c.Latitude, c.Longitude)
}

// DistanceMeters returns the haversine great-circle distance between a and b in meters.
func DistanceMeters(a, b Coordinate) float64 {
	phi1 := toRad(a.Latitude)
	phi2 := toRad(b.Latitude)
	dPhi := toRad(b.Latitude - a.Latitude)
	dLambda := toRad(b.Longitude - a.Longitude)

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	h = clampUnit(h)

	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// DistanceKilometers returns the haversine great-circle distance between a and b in kilometers.
func DistanceKilometers(a, b Coordinate) float64 {
	dLat := toRad(b.Latitude - a.Latitude)
	dLon := toRad(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Latitude))*math.Cos(toRad(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	h = clampUnit(h)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// IsWithinRadius reports whether candidate lies within radiusMeters of reference.
// The boundary is inclusive.
func IsWithinRadius(reference, candidate Coordinate, radiusMeters float64) bool {
	return DistanceMeters(reference, candidate) <= radiusMeters
}

// BoundingBox returns the south-west and north-east corners of the box
// enclosing a circle of radiusMeters around center.
func BoundingBox(center Coordinate, radiusMeters float64) (sw, ne Coordinate) {
	latDelta := radiusMeters / metersPerDegreeLat
	lonDelta := radiusMeters / (metersPerDegreeLat * math.Cos(toRad(center.Latitude)))

	sw = Coordinate{Latitude: center.Latitude - latDelta, Longitude: center.Longitude - lonDelta}
	ne = Coordinate{Latitude: center.Latitude + latDelta, Longitude: center.Longitude + lonDelta}
	return sw, ne
}

// Destination returns the point reached by travelling meters from origin
// along the initial bearing (degrees clockwise from north).
func Destination(origin Coordinate, bearingDeg, meters float64) Coordinate {
	delta := meters / EarthRadiusMeters
	theta := toRad(bearingDeg)
	phi1 := toRad(origin.Latitude)
	lambda1 := toRad(origin.Longitude)

	phi2 := math.Asin(math.Sin(phi1)*math.Cos(delta) +
		math.Cos(phi1)*math.Sin(delta)*math.Cos(theta))
	lambda2 := lambda1 + math.Atan2(
		math.Sin(theta)*math.Sin(delta)*math.Cos(phi1),
		math.Cos(delta)-math.Sin(phi1)*math.Sin(phi2))

	return Coordinate{
		Latitude:  toDeg(phi2),
		Longitude: normalizeLongitude(toDeg(lambda2)),
	}
}

// clampUnit keeps the haversine term in [0, 1]; rounding can push it just
// past 1 for near-antipodal points, which would make sqrt(1-h) NaN.
func clampUnit(h float64) float64 {
	if h < 0 {
		return 0
	}
	if h > 1 {
		return 1
	}
	return h
}

func normalizeLongitude(lon float64) float64 {
	lon = math.Mod(lon+540, 360) - 180
	if lon == -180 {
		return 180
	}
	return lon
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
