package feed

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

// fullRecordJSON is a complete 18-slot feed record:
// mode-S, lat, lon, bearing, alt ft, speed kts, squawk, radar, model,
// registration, timestamp, origin, destination, flight, on-ground,
// climb rate, callsign, glider.
const fullRecordJSON = `["A12345", 40.0, -70.0, 90, 30000, 450, "1200", "T-ABC1", "B738", "N1", 1620000000, "JFK", "LAX", "UA123", 0, -1200, "UAL1", 0]`

// TestRawRecordUnmarshal tests decoding of the positional array form.
func TestRawRecordUnmarshal(t *testing.T) {
	t.Run("Full record", func(t *testing.T) {
		var rec RawRecord
		if err := json.Unmarshal([]byte(fullRecordJSON), &rec); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		if rec.ModeS != "A12345" {
			t.Errorf("Expected mode-S A12345, got %s", rec.ModeS)
		}
		if rec.Latitude != 40.0 || rec.Longitude != -70.0 {
			t.Errorf("Expected position (40, -70), got (%f, %f)", rec.Latitude, rec.Longitude)
		}
		if rec.Bearing != 90 {
			t.Errorf("Expected bearing 90, got %f", rec.Bearing)
		}
		if rec.AltitudeFt != 30000 {
			t.Errorf("Expected altitude 30000 ft, got %f", rec.AltitudeFt)
		}
		if rec.SpeedKts != 450 {
			t.Errorf("Expected speed 450 kts, got %f", rec.SpeedKts)
		}
		if rec.Squawk != "1200" {
			t.Errorf("Expected squawk 1200, got %s", rec.Squawk)
		}
		if rec.Model != "B738" {
			t.Errorf("Expected model B738, got %s", rec.Model)
		}
		if rec.Registration != "N1" {
			t.Errorf("Expected registration N1, got %s", rec.Registration)
		}
		if rec.Timestamp != 1620000000 {
			t.Errorf("Expected timestamp 1620000000, got %f", rec.Timestamp)
		}
		if rec.Origin != "JFK" || rec.Destination != "LAX" {
			t.Errorf("Expected route JFK-LAX, got %s-%s", rec.Origin, rec.Destination)
		}
		if rec.Flight != "UA123" {
			t.Errorf("Expected flight UA123, got %s", rec.Flight)
		}
		if rec.OnGround {
			t.Error("Expected on-ground false")
		}
		if rec.ClimbRateFpm != -1200 {
			t.Errorf("Expected climb rate -1200, got %f", rec.ClimbRateFpm)
		}
		if rec.Callsign != "UAL1" {
			t.Errorf("Expected callsign UAL1, got %s", rec.Callsign)
		}
		if rec.Glider {
			t.Error("Expected glider false")
		}
	})

	t.Run("17-slot record accepted", func(t *testing.T) {
		// Some feed variants omit the trailing glider flag.
		var rec RawRecord
		data := `["A12345", 40.0, -70.0, 90, 30000, 450, "1200", "T-ABC1", "B738", "N1", 1620000000, "JFK", "LAX", "UA123", 0, -1200, "UAL1"]`
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if rec.Callsign != "UAL1" {
			t.Errorf("Expected callsign UAL1, got %s", rec.Callsign)
		}
		if rec.Glider {
			t.Error("Expected missing glider slot to default to false")
		}
	})

	t.Run("Short record rejected", func(t *testing.T) {
		var rec RawRecord
		if err := json.Unmarshal([]byte(`["A12345", 40.0, -70.0]`), &rec); err == nil {
			t.Fatal("Expected error for short record, got nil")
		}
	})

	t.Run("Non-array rejected", func(t *testing.T) {
		var rec RawRecord
		if err := json.Unmarshal([]byte(`{"version": 1}`), &rec); err == nil {
			t.Fatal("Expected error for non-array record, got nil")
		}
	})

	t.Run("Type mismatches coerce to zero values", func(t *testing.T) {
		// String where a number belongs and vice versa: the field goes
		// to its zero value instead of failing the whole record.
		var rec RawRecord
		data := `[0, "north", -70.0, 90, 30000, 450, 1200, "T-ABC1", "B738", 0, 1620000000, "JFK", "LAX", "UA123", 0, -1200, "UAL1", 0]`
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if rec.ModeS != "" {
			t.Errorf("Expected numeric mode-S slot to decode empty, got %q", rec.ModeS)
		}
		if rec.Latitude != 0 {
			t.Errorf("Expected string latitude slot to decode zero, got %f", rec.Latitude)
		}
		if rec.Squawk != "" {
			t.Errorf("Expected numeric squawk slot to decode empty, got %q", rec.Squawk)
		}
	})
}

// TestTranslate tests the record to track-update/flight-info mapping.
func TestTranslate(t *testing.T) {
	t.Run("Full record", func(t *testing.T) {
		var rec RawRecord
		if err := json.Unmarshal([]byte(fullRecordJSON), &rec); err != nil {
			t.Fatalf("Failed to decode record: %v", err)
		}

		upd, info, ts := Translate(&rec)

		want := time.Unix(1620000000, 0).UTC()
		if !ts.Equal(want) {
			t.Errorf("Expected timestamp %v, got %v", want, ts)
		}

		assertItem(t, "latitude", upd.Latitude, 40.0, 1e-9)
		assertItem(t, "longitude", upd.Longitude, -70.0, 1e-9)
		assertItem(t, "altitude", upd.Altitude, 9144.0, 1e-6)
		assertItem(t, "heading", upd.Heading, 90.0, 1e-9)
		assertItem(t, "track angle", upd.TrackAngle, 90.0, 1e-9)
		assertItem(t, "h speed", upd.HSpeed, 231.5, 1e-6)
		assertItem(t, "v speed", upd.VSpeed, -6.096, 1e-9)

		if !upd.Latitude.Time.Equal(want) {
			t.Errorf("Expected item time %v, got %v", want, upd.Latitude.Time)
		}

		wantInfo := FlightInfo{
			Callsign:     "UAL1",
			Registration: "N1",
			Origin:       "JFK",
			Destination:  "LAX",
			Flight:       "UA123",
			Squawk:       "1200",
			Model:        "B738",
		}
		if info != wantInfo {
			t.Errorf("Expected flight info %+v, got %+v", wantInfo, info)
		}
	})

	t.Run("Zero-valued track fields are not supplied", func(t *testing.T) {
		// The feed cannot distinguish "absent" from a genuine zero, so
		// zeros never appear in the sparse update.
		rec := RawRecord{Latitude: 40.0, Longitude: -70.0, Timestamp: 1620000000}

		upd, _, _ := Translate(&rec)

		if !upd.Latitude.Valid || !upd.Longitude.Valid {
			t.Error("Expected position to be supplied")
		}
		if upd.Altitude.Valid {
			t.Error("Expected zero altitude to be absent from update")
		}
		if upd.Heading.Valid || upd.TrackAngle.Valid {
			t.Error("Expected zero bearing to be absent from update")
		}
		if upd.HSpeed.Valid || upd.VSpeed.Valid {
			t.Error("Expected zero speeds to be absent from update")
		}
	})

	t.Run("Latitude and longitude only as a pair", func(t *testing.T) {
		rec := RawRecord{Latitude: 40.0, Longitude: 0, AltitudeFt: 1000, Timestamp: 1620000000}

		upd, _, _ := Translate(&rec)

		if upd.Latitude.Valid || upd.Longitude.Valid {
			t.Error("Expected lone latitude to be dropped")
		}
		if !upd.Altitude.Valid {
			t.Error("Expected altitude to be supplied independently")
		}
	})

	t.Run("Flight info is complete even when track is empty", func(t *testing.T) {
		rec := RawRecord{Callsign: "UAL1", Timestamp: 1620000000}

		upd, info, _ := Translate(&rec)

		if upd != (Track{}) {
			t.Errorf("Expected empty track update, got %+v", upd)
		}
		if info.Callsign != "UAL1" {
			t.Errorf("Expected callsign UAL1, got %q", info.Callsign)
		}
		if info.Registration != "" {
			t.Errorf("Expected empty registration, got %q", info.Registration)
		}
	})

	t.Run("Fractional timestamp", func(t *testing.T) {
		rec := RawRecord{Timestamp: 1620000000.5}
		_, _, ts := Translate(&rec)
		want := time.Unix(1620000000, 500000000).UTC()
		if d := ts.Sub(want); d > time.Millisecond || d < -time.Millisecond {
			t.Errorf("Expected timestamp near %v, got %v", want, ts)
		}
	})
}

// assertItem checks a TelemetryItem is valid and close to want.
func assertItem(t *testing.T, name string, it TelemetryItem, want, tolerance float64) {
	t.Helper()
	if !it.Valid {
		t.Errorf("Expected %s to be set", name)
		return
	}
	if math.Abs(it.Value-want) > tolerance {
		t.Errorf("Expected %s %v, got %v", name, want, it.Value)
	}
}
