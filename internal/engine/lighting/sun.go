package lighting

import "math"

// SunDirection converts longitude/latitude angles in degrees to a
// normalized direction vector pointing towards the sun. Longitude is
// rotation around the vertical axis (0-360), latitude is elevation from
// the horizon (0-90).
func SunDirection(longitude, latitude float32) [3]float32 {
	lonRad := float64(longitude) * math.Pi / 180.0
	latRad := float64(latitude) * math.Pi / 180.0

	x := float32(math.Cos(latRad) * math.Sin(lonRad))
	y := float32(math.Cos(latRad) * math.Cos(lonRad))
	z := float32(math.Sin(latRad))

	return [3]float32{x, y, z}
}
