package feed

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/s-martin/flightfeed/pkg/units"
)

// minRecordFields is the smallest positional array the feed is known to
// emit. Records shorter than this are rejected at the decode boundary.
const minRecordFields = 17

// RawRecord is one aircraft entry from the zone feed, decoded from its
// positional JSON array into named, typed fields. The feed is loosely
// typed: numeric slots are coerced to float64 and string slots keep only
// genuine JSON strings (anything else decodes to the zero value, which the
// translator treats as "no information").
//
// ModeS, Radar, OnGround, and Glider are decoded but not surfaced in Track
// or FlightInfo; they are retained here for future use.
type RawRecord struct {
	ModeS        string  // 0: ICAO 24-bit address, hex
	Latitude     float64 // 1: decimal degrees
	Longitude    float64 // 2: decimal degrees
	Bearing      float64 // 3: degrees
	AltitudeFt   float64 // 4: feet MSL
	SpeedKts     float64 // 5: ground speed, knots
	Squawk       string  // 6: transponder code
	Radar        string  // 7: feed data-source identifier
	Model        string  // 8: ICAO type designator
	Registration string  // 9: tail number
	Timestamp    float64 // 10: unix seconds
	Origin       string  // 11: airport IATA code
	Destination  string  // 12: airport IATA code
	Flight       string  // 13: flight number
	OnGround     bool    // 14
	ClimbRateFpm float64 // 15: feet per minute
	Callsign     string  // 16: ICAO ATC call signature
	Glider       bool    // 17
}

// UnmarshalJSON decodes the positional array form. A record that is not an
// array or carries fewer than minRecordFields slots is an error; the caller
// skips that record and continues with the rest of the batch.
func (r *RawRecord) UnmarshalJSON(data []byte) error {
	var fields []any
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("feed record is not an array: %w", err)
	}
	if len(fields) < minRecordFields {
		return fmt.Errorf("feed record has %d fields, want at least %d", len(fields), minRecordFields)
	}

	r.ModeS = fieldString(fields, 0)
	r.Latitude = fieldFloat(fields, 1)
	r.Longitude = fieldFloat(fields, 2)
	r.Bearing = fieldFloat(fields, 3)
	r.AltitudeFt = fieldFloat(fields, 4)
	r.SpeedKts = fieldFloat(fields, 5)
	r.Squawk = fieldString(fields, 6)
	r.Radar = fieldString(fields, 7)
	r.Model = fieldString(fields, 8)
	r.Registration = fieldString(fields, 9)
	r.Timestamp = fieldFloat(fields, 10)
	r.Origin = fieldString(fields, 11)
	r.Destination = fieldString(fields, 12)
	r.Flight = fieldString(fields, 13)
	r.OnGround = fieldBool(fields, 14)
	r.ClimbRateFpm = fieldFloat(fields, 15)
	r.Callsign = fieldString(fields, 16)
	r.Glider = fieldBool(fields, 17)

	return nil
}

// fieldString returns the string at index i, or "" when the slot is missing
// or holds a non-string value.
func fieldString(fields []any, i int) string {
	if i >= len(fields) {
		return ""
	}
	s, _ := fields[i].(string)
	return s
}

// fieldFloat returns the number at index i, or 0 when the slot is missing
// or holds a non-numeric value.
func fieldFloat(fields []any, i int) float64 {
	if i >= len(fields) {
		return 0
	}
	f, _ := fields[i].(float64)
	return f
}

// fieldBool interprets the slot as a flag: JSON booleans directly, numbers
// as nonzero-is-true (the feed encodes flags as 0/1).
func fieldBool(fields []any, i int) bool {
	if i >= len(fields) {
		return false
	}
	switch v := fields[i].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	default:
		return false
	}
}

// Translate maps a decoded record to a sparse Track update, a complete
// FlightInfo tuple, and the record's observation time.
//
// The Track update carries only fields the record actually supplies: a
// zero-valued slot leaves the corresponding field untouched on merge. The
// feed cannot distinguish "not reported" from a legitimate zero reading
// (altitude 0 ft, bearing 0°), so genuine zeros are dropped too; this is a
// known imprecision of the feed encoding, preserved as-is. Latitude and
// longitude are only taken as a pair.
//
// FlightInfo is always complete: all seven fields come verbatim from this
// record, each independently allowed to be empty.
func Translate(rec *RawRecord) (Track, FlightInfo, time.Time) {
	ts := unixTime(rec.Timestamp)

	var upd Track
	if rec.Latitude != 0 && rec.Longitude != 0 {
		upd.Latitude = Item(rec.Latitude, ts)
		upd.Longitude = Item(rec.Longitude, ts)
	}
	if rec.AltitudeFt != 0 {
		upd.Altitude = Item(units.FeetToM(rec.AltitudeFt), ts)
	}
	if rec.Bearing != 0 {
		upd.Heading = Item(rec.Bearing, ts)
		upd.TrackAngle = Item(rec.Bearing, ts)
	}
	if rec.SpeedKts != 0 {
		upd.HSpeed = Item(units.KnotsToMS(rec.SpeedKts), ts)
	}
	if rec.ClimbRateFpm != 0 {
		upd.VSpeed = Item(units.FpmToMS(rec.ClimbRateFpm), ts)
	}

	info := FlightInfo{
		Callsign:     rec.Callsign,
		Registration: rec.Registration,
		Origin:       rec.Origin,
		Destination:  rec.Destination,
		Flight:       rec.Flight,
		Squawk:       rec.Squawk,
		Model:        rec.Model,
	}

	return upd, info, ts
}

// unixTime converts the feed's fractional unix-seconds timestamp.
func unixTime(sec float64) time.Time {
	whole, frac := math.Modf(sec)
	return time.Unix(int64(whole), int64(frac*float64(time.Second))).UTC()
}
