package feed

import (
	"fmt"
	"math"
)

// Bounds restricts the zone feed to a latitude/longitude box. The feed
// expects the four corners as lat1,lat2,lon1,lon2 where lat1 >= lat2
// (north then south) and lon1 <= lon2 (west then east).
type Bounds struct {
	Lat1 float64
	Lat2 float64
	Lon1 float64
	Lon2 float64
}

// String renders the comma-joined query form the feed expects.
func (b Bounds) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", b.Lat1, b.Lat2, b.Lon1, b.Lon2)
}

// BoundsAround builds a bounding box from a center point and radius in
// nautical miles. One nautical mile is one arc-minute of latitude; the
// longitude span widens with the cosine of latitude. The box clamps at the
// poles and is only an approximation near them, which is acceptable for
// feed filtering.
func BoundsAround(lat, lon, radiusNM float64) Bounds {
	dLat := radiusNM / 60.0

	cosLat := math.Cos(lat * math.Pi / 180.0)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	dLon := radiusNM / (60.0 * cosLat)

	return Bounds{
		Lat1: math.Min(lat+dLat, 90),
		Lat2: math.Max(lat-dLat, -90),
		Lon1: lon - dLon,
		Lon2: lon + dLon,
	}
}
