package lrc

import (
	"fmt"
	"time"
)

// Line is a single lyric line. Timestamp is only meaningful when
// HasTimestamp is set; document order is playback order.
type Line struct {
	Text         string
	Timestamp    time.Duration
	HasTimestamp bool
}

// Timestamped builds a line with a timestamp attached.
func Timestamped(text string, ts time.Duration) Line {
	return Line{Text: text, Timestamp: ts, HasTimestamp: true}
}

// Plain builds an untimestamped line.
func Plain(text string) Line {
	return Line{Text: text}
}

// ParseError reports a malformed timestamp bracket. Line numbers are
// 1-based to match what an editor shows.
type ParseError struct {
	Line  int
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed timestamp at line %d: %q", e.Line, e.Input)
}

// FormatTimestamp renders a duration as an LRC tag [MM:SS.CC].
// Centiseconds are truncated, not rounded, so repeated load/save
// cycles never drift.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int(d / time.Minute)
	seconds := int(d/time.Second) % 60
	centis := int(d/(10*time.Millisecond)) % 100

	return fmt.Sprintf("[%02d:%02d.%02d]", minutes, seconds, centis)
}
