// Package document holds the in-memory lyric document being edited:
// an ordered sequence of lines, a cursor, and a dirty flag. It is
// mutated from a single goroutine (the editor's update loop) and is
// the only state that ever reaches disk.
package document

import (
	"errors"
	"time"

	"github.com/lecheel/lrc-maker/internal/lrc"
)

// ErrIndexOutOfRange reports an index outside [0, Len). The editor
// keeps the cursor in range, so hitting this is a bug in the caller,
// not a user error.
var ErrIndexOutOfRange = errors.New("line index out of range")

// Document is the editable line collection bound to a file path.
type Document struct {
	lines  []lrc.Line
	cursor int
	dirty  bool
	path   string
}

// New builds a document for path. An empty line set is replaced with
// a single blank line so the cursor invariant holds from the start.
func New(path string, lines []lrc.Line) *Document {
	if len(lines) == 0 {
		lines = []lrc.Line{lrc.Plain("")}
	}
	return &Document{lines: lines, path: path}
}

func (d *Document) Len() int     { return len(d.lines) }
func (d *Document) Cursor() int  { return d.cursor }
func (d *Document) Path() string { return d.path }
func (d *Document) Dirty() bool  { return d.dirty }

// Line returns a copy of the line at index i.
func (d *Document) Line(i int) (lrc.Line, error) {
	if i < 0 || i >= len(d.lines) {
		return lrc.Line{}, ErrIndexOutOfRange
	}
	return d.lines[i], nil
}

// Lines returns a copy of all lines, in document order.
func (d *Document) Lines() []lrc.Line {
	out := make([]lrc.Line, len(d.lines))
	copy(out, d.lines)
	return out
}

// MoveCursor shifts the cursor by delta, clamped to [0, Len).
// Moving past either end is a no-op, not an error.
func (d *Document) MoveCursor(delta int) {
	d.cursor += delta
	if d.cursor < 0 {
		d.cursor = 0
	}
	if d.cursor >= len(d.lines) {
		d.cursor = len(d.lines) - 1
	}
}

// SetCursor places the cursor on line i.
func (d *Document) SetCursor(i int) error {
	if i < 0 || i >= len(d.lines) {
		return ErrIndexOutOfRange
	}
	d.cursor = i
	return nil
}

// SetText replaces the text of line i, keeping its timestamp.
func (d *Document) SetText(i int, text string) error {
	if i < 0 || i >= len(d.lines) {
		return ErrIndexOutOfRange
	}
	if d.lines[i].Text == text {
		return nil
	}
	d.lines[i].Text = text
	d.dirty = true
	return nil
}

// SetTimestamp binds ts to line i. Lines are never reordered; an
// out-of-order result is left for OutOfOrder to surface.
func (d *Document) SetTimestamp(i int, ts time.Duration) error {
	if i < 0 || i >= len(d.lines) {
		return ErrIndexOutOfRange
	}
	d.lines[i].Timestamp = ts
	d.lines[i].HasTimestamp = true
	d.dirty = true
	return nil
}

// ClearTimestamp removes the timestamp from line i, keeping its text.
func (d *Document) ClearTimestamp(i int) error {
	if i < 0 || i >= len(d.lines) {
		return ErrIndexOutOfRange
	}
	if !d.lines[i].HasTimestamp {
		return nil
	}
	d.lines[i].Timestamp = 0
	d.lines[i].HasTimestamp = false
	d.dirty = true
	return nil
}

// InsertAfter adds a blank line after line i.
func (d *Document) InsertAfter(i int) error {
	if i < 0 || i >= len(d.lines) {
		return ErrIndexOutOfRange
	}
	d.lines = append(d.lines, lrc.Line{})
	copy(d.lines[i+2:], d.lines[i+1:])
	d.lines[i+1] = lrc.Plain("")
	d.dirty = true
	return nil
}

// DeleteAt removes line i. The last remaining line is cleared rather
// than removed so the document never becomes empty.
func (d *Document) DeleteAt(i int) error {
	if i < 0 || i >= len(d.lines) {
		return ErrIndexOutOfRange
	}
	if len(d.lines) == 1 {
		d.lines[0] = lrc.Plain("")
		d.dirty = true
		return nil
	}
	d.lines = append(d.lines[:i], d.lines[i+1:]...)
	if d.cursor >= len(d.lines) {
		d.cursor = len(d.lines) - 1
	}
	d.dirty = true
	return nil
}

// ClearDirty marks the document as saved.
func (d *Document) ClearDirty() { d.dirty = false }

// MarkDirty flags unsaved changes.
func (d *Document) MarkDirty() { d.dirty = true }

// OutOfOrder returns the indices of timestamped lines whose timestamp
// exceeds that of the next timestamped line. The document is never
// auto-sorted; inversions stay until the user fixes them.
func (d *Document) OutOfOrder() []int {
	var bad []int
	last := -1
	for i, line := range d.lines {
		if !line.HasTimestamp {
			continue
		}
		if last >= 0 && d.lines[last].Timestamp > line.Timestamp {
			bad = append(bad, last)
		}
		last = i
	}
	return bad
}

// ClosestTo returns the index of the timestamped line nearest to pos.
// Reports false when no line has a timestamp.
func (d *Document) ClosestTo(pos time.Duration) (int, bool) {
	best := -1
	var bestDiff time.Duration
	for i, line := range d.lines {
		if !line.HasTimestamp {
			continue
		}
		diff := line.Timestamp - pos
		if diff < 0 {
			diff = -diff
		}
		if best < 0 || diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}
