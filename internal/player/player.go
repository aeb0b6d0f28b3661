// Package player reads playback state from whatever MPRIS-capable
// media player is running on the D-Bus session bus. It is strictly a
// consumer: position, status, and track identity are read, transport
// is never touched.
package player

import (
	"errors"
	"time"
)

// ErrUnavailable means no MPRIS player is reachable on the bus.
// Recoverable: the client keeps retrying discovery in the background.
var ErrUnavailable = errors.New("no MPRIS player available")

// Snapshot is one observation of the player's transport state.
// Connected=false means every other field is meaningless.
type Snapshot struct {
	Track     string
	TrackID   string
	Position  time.Duration
	Playing   bool
	Connected bool
}

// Client is the capability surface the editor depends on. Snapshot
// must return without blocking on the bus so a capture keystroke is
// never held up by a slow or absent player.
type Client interface {
	Connect() error
	Snapshot() Snapshot
	TrackPath() string
	Close() error
}
