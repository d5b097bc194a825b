// Package feed implements the flightradar24-style telemetry ingestion
// pipeline: a polling client for the remote JSON zone feed, translation of
// raw positional records into semantic track updates, and a registry of live
// aircraft with merge and staleness semantics.
//
// The pipeline is deliberately storage-free. Consumers attach a sink to the
// Poller, read aircraft state out of the Registry, and use ExpiryTime to
// decide when an aircraft has gone quiet. Persistence, eviction, and any
// user-facing exposition belong to those consumers (see cmd/collector).
package feed

import "time"

const (
	// PollingInterval is the fixed period between feed fetches.
	PollingInterval = 8 * time.Second

	// DropUnheardTimeout is how long after the last heard message an
	// aircraft remains live. ExpiryTime returns last-heard plus this.
	DropUnheardTimeout = 60 * time.Second

	// DefaultBaseURL is the flightradar24 zone feed endpoint with the
	// query parameters the upstream web client uses.
	DefaultBaseURL = "https://data-live.flightradar24.com/zones/fcgi/feed.js?faa=1&mlat=1&flarm=1&adsb=1&gnd=0&air=1&vehicles=0&estimated=1&maxage=14400&gliders=1&stats=0"
)

// TelemetryItem is a single observed value with the feed-supplied
// observation time. Valid is false until the field has ever been observed;
// the zero TelemetryItem means "no information".
type TelemetryItem struct {
	Valid bool
	Value float64
	Time  time.Time
}

// Item constructs a valid TelemetryItem.
func Item(value float64, t time.Time) TelemetryItem {
	return TelemetryItem{Valid: true, Value: value, Time: t}
}

// Track holds the merged positional state of one aircraft, in SI units.
// Fields absent from a given feed record keep their previous value; a Track
// only ever accumulates information.
type Track struct {
	// Latitude and Longitude in decimal degrees (WGS84).
	Latitude  TelemetryItem
	Longitude TelemetryItem

	// Altitude above mean sea level in meters.
	Altitude TelemetryItem

	// Heading and TrackAngle in degrees (0 = north, 90 = east). The feed
	// reports a single bearing which populates both.
	Heading    TelemetryItem
	TrackAngle TelemetryItem

	// HSpeed is ground speed in meters per second.
	HSpeed TelemetryItem

	// VSpeed is vertical rate in meters per second, positive climbing.
	VSpeed TelemetryItem
}

// FlightInfo holds the identification fields of one aircraft. Unlike Track
// it is replaced wholesale on every merge; an empty string means the latest
// record did not carry that field.
type FlightInfo struct {
	// Callsign is the ICAO ATC call signature.
	Callsign string

	// Registration is the airframe registration (tail number).
	Registration string

	// Origin and Destination are airport IATA codes.
	Origin      string
	Destination string

	// Flight is the commercial flight number.
	Flight string

	// Squawk is the assigned transponder code.
	Squawk string

	// Model is the ICAO aircraft type designator.
	Model string
}
