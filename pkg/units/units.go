// Package units provides conversion factors between the aviation units used
// by external data feeds (feet, knots, feet per minute) and the SI units used
// internally (meters, meters per second).
package units

const (
	// FeetToMeters converts feet to meters (exact: 2.54 cm/in * 12 in/ft).
	FeetToMeters = 0.3048

	// KnotsToMetersPerSecond converts knots to meters per second.
	// One knot is one nautical mile (1852 m) per hour.
	KnotsToMetersPerSecond = 1852.0 / 3600.0

	// FeetPerMinuteToMetersPerSecond converts climb/descent rates
	// from feet per minute to meters per second (0.3048 / 60 = 0.00508).
	FeetPerMinuteToMetersPerSecond = FeetToMeters / 60.0
)

// FeetToM converts an altitude in feet to meters.
func FeetToM(feet float64) float64 {
	return feet * FeetToMeters
}

// KnotsToMS converts a horizontal speed in knots to meters per second.
func KnotsToMS(knots float64) float64 {
	return knots * KnotsToMetersPerSecond
}

// FpmToMS converts a vertical rate in feet per minute to meters per second.
func FpmToMS(fpm float64) float64 {
	return fpm * FeetPerMinuteToMetersPerSecond
}
