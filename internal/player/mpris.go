package player

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/lecheel/lrc-maker/internal/logging"
)

const (
	mprisPrefix     = "org.mpris.MediaPlayer2."
	mprisPath       = "/org/mpris/MediaPlayer2"
	playerInterface = "org.mpris.MediaPlayer2.Player"

	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// DefaultPreferred lists well-behaved players tried before falling
// back to whatever else is on the bus (browser tabs register MPRIS
// names too and make poor sync sources).
var DefaultPreferred = []string{
	mprisPrefix + "audacious",
	mprisPrefix + "vlc",
	mprisPrefix + "rhythmbox",
}

// MPRIS polls a session-bus media player in the background and keeps
// the latest Snapshot in a single overwrite slot, so readers always
// see the freshest observation and never a queued stale one.
type MPRIS struct {
	preferred []string
	interval  time.Duration
	log       *logging.Logger

	mu        sync.Mutex
	snap      Snapshot
	trackPath string
	conn      *dbus.Conn
	player    dbus.BusObject
	name      string

	stop      chan struct{}
	done      chan struct{}
	started   bool
	closeOnce sync.Once
}

// NewMPRIS builds a client. preferred may be nil for the defaults;
// interval is clamped to a sane polling range.
func NewMPRIS(preferred []string, interval time.Duration, log *logging.Logger) *MPRIS {
	if len(preferred) == 0 {
		preferred = DefaultPreferred
	}
	if interval < 50*time.Millisecond {
		interval = 50 * time.Millisecond
	}
	if interval > time.Second {
		interval = time.Second
	}
	if log == nil {
		log = logging.Nop()
	}
	return &MPRIS{
		preferred: preferred,
		interval:  interval,
		log:       log,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Connect opens the session bus, attempts discovery once, and starts
// the background poller. ErrUnavailable from the initial discovery is
// recoverable: the poller keeps retrying on a backoff schedule.
func (m *MPRIS) Connect() error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	m.mu.Lock()
	m.conn = conn
	m.mu.Unlock()

	discoverErr := m.discover()
	m.poll()

	m.started = true
	go m.run()

	if discoverErr != nil {
		return discoverErr
	}
	return nil
}

// Snapshot returns the latest observation. Lock-copy only, no bus
// traffic.
func (m *MPRIS) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

// TrackPath returns the local filesystem path of the playing track,
// or "" when the player exposes no file URL.
func (m *MPRIS) TrackPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trackPath
}

// Close stops the poller and releases the bus connection. Safe to
// call more than once.
func (m *MPRIS) Close() error {
	var err error
	m.closeOnce.Do(func() {
		close(m.stop)
		if m.started {
			<-m.done
		}

		m.mu.Lock()
		conn := m.conn
		m.conn = nil
		m.player = nil
		m.mu.Unlock()

		if conn != nil {
			err = conn.Close()
		}
	})
	return err
}

func (m *MPRIS) run() {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	backoff := initialBackoff
	var nextRetry time.Time

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
		}

		m.mu.Lock()
		havePlayer := m.player != nil
		m.mu.Unlock()

		if !havePlayer {
			if time.Now().Before(nextRetry) {
				continue
			}
			if err := m.discover(); err != nil {
				nextRetry = time.Now().Add(backoff)
				backoff *= 2
				if backoff > maxBackoff {
					backoff = maxBackoff
				}
				continue
			}
			backoff = initialBackoff
			nextRetry = time.Time{}
		}

		m.poll()
	}
}

// discover finds an MPRIS bus name and binds the player object.
func (m *MPRIS) discover() error {
	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()
	if conn == nil {
		return ErrUnavailable
	}

	var names []string
	err := conn.BusObject().
		Call("org.freedesktop.DBus.ListNames", 0).
		Store(&names)
	if err != nil {
		return fmt.Errorf("failed to list bus names: %w", err)
	}

	name := pickPlayer(names, m.preferred)
	if name == "" {
		return ErrUnavailable
	}

	m.log.Debugw("connected to MPRIS player", "name", name)

	m.mu.Lock()
	m.name = name
	m.player = conn.Object(name, mprisPath)
	m.mu.Unlock()
	return nil
}

// poll reads the player once and publishes the result. Any bus error
// flips the slot to disconnected and drops the player binding so the
// loop goes back to discovery.
func (m *MPRIS) poll() {
	m.mu.Lock()
	player := m.player
	m.mu.Unlock()

	if player == nil {
		m.publish(Snapshot{}, "")
		return
	}

	snap, trackPath, err := readPlayer(player)
	if err != nil {
		m.log.Debugw("player poll failed", "name", m.name, "error", err)
		m.mu.Lock()
		m.player = nil
		m.name = ""
		m.mu.Unlock()
		m.publish(Snapshot{}, "")
		return
	}

	m.publish(snap, trackPath)
}

func (m *MPRIS) publish(snap Snapshot, trackPath string) {
	m.mu.Lock()
	m.snap = snap
	if trackPath != "" {
		m.trackPath = trackPath
	}
	m.mu.Unlock()
}

func readPlayer(player dbus.BusObject) (Snapshot, string, error) {
	statusVar, err := player.GetProperty(playerInterface + ".PlaybackStatus")
	if err != nil {
		return Snapshot{}, "", fmt.Errorf("failed to read PlaybackStatus: %w", err)
	}
	status, _ := statusVar.Value().(string)

	posVar, err := player.GetProperty(playerInterface + ".Position")
	if err != nil {
		return Snapshot{}, "", fmt.Errorf("failed to read Position: %w", err)
	}
	posUsec, _ := posVar.Value().(int64)

	metaVar, err := player.GetProperty(playerInterface + ".Metadata")
	if err != nil {
		return Snapshot{}, "", fmt.Errorf("failed to read Metadata: %w", err)
	}
	meta, _ := metaVar.Value().(map[string]dbus.Variant)

	snap := Snapshot{
		Track:     trackLabel(meta),
		TrackID:   metaString(meta, "mpris:trackid"),
		Position:  time.Duration(posUsec) * time.Microsecond,
		Playing:   status == "Playing",
		Connected: true,
	}
	return snap, fileURLToPath(metaString(meta, "xesam:url")), nil
}

// pickPlayer chooses a bus name: first match from the preferred list,
// otherwise the first MPRIS name found.
func pickPlayer(names, preferred []string) string {
	var players []string
	for _, n := range names {
		if strings.HasPrefix(n, mprisPrefix) {
			players = append(players, n)
		}
	}
	if len(players) == 0 {
		return ""
	}
	for _, want := range preferred {
		for _, p := range players {
			if strings.HasPrefix(p, want) {
				return p
			}
		}
	}
	return players[0]
}

// trackLabel formats "title - artist" from MPRIS metadata.
func trackLabel(meta map[string]dbus.Variant) string {
	title := metaString(meta, "xesam:title")
	if title == "" {
		return ""
	}
	if v, ok := meta["xesam:artist"]; ok {
		if artists, ok := v.Value().([]string); ok && len(artists) > 0 {
			return title + " - " + artists[0]
		}
	}
	return title
}

func metaString(meta map[string]dbus.Variant, key string) string {
	v, ok := meta[key]
	if !ok {
		return ""
	}
	switch val := v.Value().(type) {
	case string:
		return val
	case dbus.ObjectPath:
		return string(val)
	}
	return ""
}

// fileURLToPath converts a file:// URL to a local path, "" otherwise.
func fileURLToPath(raw string) string {
	if !strings.HasPrefix(raw, "file://") {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Path
}
