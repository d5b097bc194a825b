package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/s-martin/flightfeed/pkg/feed"
)

// AircraftRepository persists registry snapshots for the collector daemon.
// It is an external consumer of the feed pipeline: the registry itself
// never touches storage.
type AircraftRepository struct {
	db *DB
}

// NewAircraftRepository creates a new aircraft repository.
func NewAircraftRepository(db *DB) *AircraftRepository {
	return &AircraftRepository{db: db}
}

// Upsert writes one aircraft's current merged state. An aircraft that has
// never received a message is skipped: it carries no timestamp to anchor
// the row's lifecycle columns.
func (r *AircraftRepository) Upsert(ctx context.Context, a *feed.Aircraft) error {
	lastHeard, heard := a.LastHeard()
	if !heard {
		return nil
	}

	track := a.Track()
	info := a.FlightInfo()
	expiresAt := a.ExpiryTime()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO aircraft (
			object_id,
			callsign, registration, origin, destination,
			flight, squawk, model,
			latitude, longitude, altitude_m, heading_deg,
			track_angle_deg, h_speed_ms, v_speed_ms,
			first_seen, last_heard, expires_at, update_count
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14, $15,
			$16, $16, $17, 1
		)
		ON CONFLICT (object_id) DO UPDATE SET
			callsign = EXCLUDED.callsign,
			registration = EXCLUDED.registration,
			origin = EXCLUDED.origin,
			destination = EXCLUDED.destination,
			flight = EXCLUDED.flight,
			squawk = EXCLUDED.squawk,
			model = EXCLUDED.model,
			latitude = COALESCE(EXCLUDED.latitude, aircraft.latitude),
			longitude = COALESCE(EXCLUDED.longitude, aircraft.longitude),
			altitude_m = COALESCE(EXCLUDED.altitude_m, aircraft.altitude_m),
			heading_deg = COALESCE(EXCLUDED.heading_deg, aircraft.heading_deg),
			track_angle_deg = COALESCE(EXCLUDED.track_angle_deg, aircraft.track_angle_deg),
			h_speed_ms = COALESCE(EXCLUDED.h_speed_ms, aircraft.h_speed_ms),
			v_speed_ms = COALESCE(EXCLUDED.v_speed_ms, aircraft.v_speed_ms),
			last_heard = EXCLUDED.last_heard,
			expires_at = EXCLUDED.expires_at,
			update_count = aircraft.update_count + 1`,
		a.ID,
		nullString(info.Callsign), nullString(info.Registration),
		nullString(info.Origin), nullString(info.Destination),
		nullString(info.Flight), nullString(info.Squawk), nullString(info.Model),
		nullItem(track.Latitude), nullItem(track.Longitude),
		nullItem(track.Altitude), nullItem(track.Heading),
		nullItem(track.TrackAngle), nullItem(track.HSpeed), nullItem(track.VSpeed),
		lastHeard.UTC(), expiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert aircraft %s: %w", a.ID, err)
	}

	return nil
}

// DeleteExpired removes rows whose expiry has passed, returning the number
// of aircraft dropped. This implements the external sweeper side of the
// feed package's expiry contract.
func (r *AircraftRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM aircraft WHERE expires_at <= $1`,
		now.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired aircraft: %w", err)
	}
	return res.RowsAffected()
}

// nullString maps the flight-info "absent" encoding (empty string) to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullItem maps an unset TelemetryItem to SQL NULL.
func nullItem(it feed.TelemetryItem) sql.NullFloat64 {
	return sql.NullFloat64{Float64: it.Value, Valid: it.Valid}
}
