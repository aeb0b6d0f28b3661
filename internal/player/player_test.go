package player

import (
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
)

func TestPickPlayer(t *testing.T) {
	names := []string{
		"org.freedesktop.DBus",
		"org.mpris.MediaPlayer2.chromium.instance123",
		"org.mpris.MediaPlayer2.vlc",
		"com.example.Other",
	}

	if got := pickPlayer(names, DefaultPreferred); got != "org.mpris.MediaPlayer2.vlc" {
		t.Errorf("expected vlc preferred, got %q", got)
	}

	// no preferred match falls back to the first MPRIS name
	browserOnly := []string{
		"org.freedesktop.DBus",
		"org.mpris.MediaPlayer2.chromium.instance123",
	}
	if got := pickPlayer(browserOnly, DefaultPreferred); got != "org.mpris.MediaPlayer2.chromium.instance123" {
		t.Errorf("expected fallback to first player, got %q", got)
	}

	if got := pickPlayer([]string{"org.freedesktop.DBus"}, DefaultPreferred); got != "" {
		t.Errorf("expected empty result with no players, got %q", got)
	}
}

func TestTrackLabel(t *testing.T) {
	meta := map[string]dbus.Variant{
		"xesam:title":  dbus.MakeVariant("Song"),
		"xesam:artist": dbus.MakeVariant([]string{"Artist", "Feat"}),
	}
	if got := trackLabel(meta); got != "Song - Artist" {
		t.Errorf("expected 'Song - Artist', got %q", got)
	}

	titleOnly := map[string]dbus.Variant{
		"xesam:title": dbus.MakeVariant("Solo"),
	}
	if got := trackLabel(titleOnly); got != "Solo" {
		t.Errorf("expected 'Solo', got %q", got)
	}

	if got := trackLabel(map[string]dbus.Variant{}); got != "" {
		t.Errorf("expected empty label, got %q", got)
	}
}

func TestMetaStringObjectPath(t *testing.T) {
	meta := map[string]dbus.Variant{
		"mpris:trackid": dbus.MakeVariant(dbus.ObjectPath("/track/1")),
	}
	if got := metaString(meta, "mpris:trackid"); got != "/track/1" {
		t.Errorf("expected '/track/1', got %q", got)
	}
}

func TestFileURLToPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"file:///home/user/music/song.mp3", "/home/user/music/song.mp3"},
		{"file:///home/user/My%20Music/a.mp3", "/home/user/My Music/a.mp3"},
		{"https://example.com/stream", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := fileURLToPath(c.in); got != c.want {
			t.Errorf("fileURLToPath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestPublishLastWriteWins(t *testing.T) {
	m := NewMPRIS(nil, 150*time.Millisecond, nil)

	m.publish(Snapshot{Position: time.Second, Connected: true}, "/a.mp3")
	m.publish(Snapshot{Position: 2 * time.Second, Connected: true}, "/a.mp3")
	m.publish(Snapshot{Position: 3 * time.Second, Connected: true}, "")

	snap := m.Snapshot()
	if snap.Position != 3*time.Second {
		t.Errorf("expected latest position 3s, got %v", snap.Position)
	}
	// track path survives a publish that omits it
	if m.TrackPath() != "/a.mp3" {
		t.Errorf("expected track path retained, got %q", m.TrackPath())
	}
}

func TestPublishDisconnect(t *testing.T) {
	m := NewMPRIS(nil, 150*time.Millisecond, nil)
	m.publish(Snapshot{Position: time.Second, Connected: true}, "/a.mp3")
	m.publish(Snapshot{}, "")

	snap := m.Snapshot()
	if snap.Connected {
		t.Errorf("expected disconnected snapshot")
	}
	if snap.Position != 0 {
		t.Errorf("disconnected snapshot should carry no position, got %v", snap.Position)
	}
}

func TestNewMPRISClampsInterval(t *testing.T) {
	if m := NewMPRIS(nil, time.Millisecond, nil); m.interval != 50*time.Millisecond {
		t.Errorf("expected floor of 50ms, got %v", m.interval)
	}
	if m := NewMPRIS(nil, time.Minute, nil); m.interval != time.Second {
		t.Errorf("expected cap of 1s, got %v", m.interval)
	}
}

func TestMock(t *testing.T) {
	m := NewMock()
	if m.Snapshot().Connected {
		t.Fatal("mock should start disconnected")
	}
	m.Set(Snapshot{Position: 1500 * time.Millisecond, Playing: true, Connected: true})
	snap := m.Snapshot()
	if !snap.Connected || snap.Position != 1500*time.Millisecond {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if !m.Closed() {
		t.Errorf("Closed() should report true after Close")
	}
}
