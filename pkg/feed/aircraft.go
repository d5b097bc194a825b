package feed

import (
	"fmt"
	"sync"
	"time"
)

// Aircraft is the live state of one feed object, keyed by the feed-assigned
// object ID. It is created empty by the Registry on first sight and mutated
// only through Merge. Aircraft are never destroyed by this package; an
// external sweeper decides eviction using ExpiryTime.
//
// All methods are safe for concurrent use: dispatch passes from overlapping
// fetches may merge into the same aircraft while consumers read it.
type Aircraft struct {
	// ID is the feed-assigned object identifier.
	ID string

	mu        sync.RWMutex
	track     Track
	info      FlightInfo
	lastHeard time.Time // zero until the first merge
}

// newAircraft returns an empty aircraft: track and flight info at their
// zero values, never heard from.
func newAircraft(id string) *Aircraft {
	return &Aircraft{ID: id}
}

// Merge applies one translated feed record: the sparse track update
// overwrites only the fields it supplies, the flight info is replaced
// wholesale, and last-heard becomes the record's timestamp.
//
// Last-heard is overwritten unconditionally, so an out-of-order feed can
// move it backward. That mirrors the feed's own semantics and is accepted
// behavior, not corrected here.
func (a *Aircraft) Merge(upd Track, info FlightInfo, timestamp time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if upd.Latitude.Valid {
		a.track.Latitude = upd.Latitude
	}
	if upd.Longitude.Valid {
		a.track.Longitude = upd.Longitude
	}
	if upd.Altitude.Valid {
		a.track.Altitude = upd.Altitude
	}
	if upd.Heading.Valid {
		a.track.Heading = upd.Heading
	}
	if upd.TrackAngle.Valid {
		a.track.TrackAngle = upd.TrackAngle
	}
	if upd.HSpeed.Valid {
		a.track.HSpeed = upd.HSpeed
	}
	if upd.VSpeed.Valid {
		a.track.VSpeed = upd.VSpeed
	}

	a.info = info
	a.lastHeard = timestamp
}

// IsInteresting reports whether the aircraft carries enough identifying or
// positional data to be worth surfacing to consumers: at least one of
// latitude, longitude, callsign, or registration is known.
func (a *Aircraft) IsInteresting() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.track.Latitude.Valid ||
		a.track.Longitude.Valid ||
		a.info.Callsign != "" ||
		a.info.Registration != ""
}

// ExpiryTime returns the instant after which an external sweeper may treat
// this aircraft as stale: last-heard plus DropUnheardTimeout.
//
// Calling ExpiryTime before any message has been merged is a caller bug and
// panics.
func (a *Aircraft) ExpiryTime() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.lastHeard.IsZero() {
		panic(fmt.Sprintf("feed: ExpiryTime on aircraft %q before any merge", a.ID))
	}
	return a.lastHeard.Add(DropUnheardTimeout)
}

// Track returns a copy of the merged positional state.
func (a *Aircraft) Track() Track {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.track
}

// FlightInfo returns a copy of the latest flight identification fields.
func (a *Aircraft) FlightInfo() FlightInfo {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.info
}

// LastHeard returns the timestamp of the last merged message, and whether
// any message has been merged at all.
func (a *Aircraft) LastHeard() (time.Time, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastHeard, !a.lastHeard.IsZero()
}
