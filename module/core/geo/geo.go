// Package geo holds the spherical helpers shared by the tracker and the
// HTTP surface. Inputs are degrees; longitudes may be any real value.
package geo

import (
	"fmt"
	"math"
)

const EarthRadiusMeters = 6371000

// Distance returns the haversine great-circle distance in meters.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(normalizeLon(lon2 - lon1))
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	a = math.Min(1, math.Max(0, a))
	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Bearing returns the initial bearing from point 1 to point 2 in [0, 360),
// clockwise from north.
func Bearing(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRad(lat1)
	phi2 := toRad(lat2)
	dLon := toRad(normalizeLon(lon2 - lon1))

	y := math.Sin(dLon) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLon)
	return normalizeBearing(toDeg(math.Atan2(y, x)))
}

var compassPoints = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// ToCompass maps a bearing onto eight 45 degree sectors centred on each
// cardinal and intercardinal direction.
func ToCompass(bearing float64) string {
	b := normalizeBearing(bearing)
	idx := int(math.Floor((b+22.5)/45)) % len(compassPoints)
	return compassPoints[idx]
}

// FormatDistance renders whole meters below 1 km, else kilometers with one
// decimal.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%dm", int(meters))
	}
	return fmt.Sprintf("%.1fkm", meters/1000)
}

// BoundingBox returns the lat/lon box that contains every point within
// radiusKm of the centre. Near the poles, or when the box would cross the
// antimeridian, the longitude span is the whole globe.
func BoundingBox(lat, lon, radiusKm float64) (minLat, maxLat, minLon, maxLon float64) {
	const kmPerDegree = 111.0
	dLat := radiusKm / kmPerDegree
	minLat = math.Max(-90, lat-dLat)
	maxLat = math.Min(90, lat+dLat)

	cosLat := math.Cos(toRad(lat))
	if cosLat < 0.01 {
		return minLat, maxLat, -180, 180
	}
	lon = normalizeLon(lon)
	dLon := radiusKm / (kmPerDegree * cosLat)
	minLon, maxLon = lon-dLon, lon+dLon
	if minLon < -180 || maxLon > 180 {
		return minLat, maxLat, -180, 180
	}
	return minLat, maxLat, minLon, maxLon
}

func IsValidLatLon(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func normalizeLon(deg float64) float64 {
	return math.Remainder(deg, 360)
}

func normalizeBearing(deg float64) float64 {
	b := math.Mod(deg, 360)
	if b < 0 {
		b += 360
	}
	if b >= 360 {
		b = 0
	}
	return b
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
