package lrc

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	content := `[00:01.50]first line
[00:03.20]second line
untimed line

[01:02.99]last line
`
	lines, err := Parse(strings.NewReader(content))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}

	if lines[0].Timestamp != 1500*time.Millisecond {
		t.Errorf(
			"line 0: expected timestamp 1.5s, got %v",
			lines[0].Timestamp,
		)
	}
	if lines[0].Text != "first line" {
		t.Errorf("line 0: expected 'first line', got %q", lines[0].Text)
	}

	if lines[2].HasTimestamp {
		t.Errorf("line 2: expected no timestamp")
	}
	if lines[2].Text != "untimed line" {
		t.Errorf("line 2: expected 'untimed line', got %q", lines[2].Text)
	}

	if lines[3].Text != "" || lines[3].HasTimestamp {
		t.Errorf("line 3: expected preserved blank line, got %+v", lines[3])
	}

	want := time.Minute + 2*time.Second + 990*time.Millisecond
	if lines[4].Timestamp != want {
		t.Errorf("line 4: expected %v, got %v", want, lines[4].Timestamp)
	}
}

func TestParseMillisecondFraction(t *testing.T) {
	lines, err := Parse(strings.NewReader("[00:01.234]text\n[00:02.5]more\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if lines[0].Timestamp != 1234*time.Millisecond {
		t.Errorf("expected 1.234s, got %v", lines[0].Timestamp)
	}
	if lines[1].Timestamp != 2500*time.Millisecond {
		t.Errorf("expected 2.5s, got %v", lines[1].Timestamp)
	}
}

func TestParseMalformedBracket(t *testing.T) {
	cases := []string{
		"[bad]hello",
		"[1:2.3]short seconds",
		"[00:75.00]seconds overflow",
		"[00:10missing bracket",
	}

	for _, input := range cases {
		content := "[00:01.00]good line\n" + input + "\n"
		_, err := Parse(strings.NewReader(content))

		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("input %q: expected ParseError, got %v", input, err)
			continue
		}
		if perr.Line != 2 {
			t.Errorf("input %q: expected error at line 2, got %d", input, perr.Line)
		}
	}
}

func TestParseBOM(t *testing.T) {
	lines, err := Parse(strings.NewReader("\ufeff[00:00.10]opening\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(lines) != 1 || !lines[0].HasTimestamp {
		t.Fatalf("BOM prefix broke the first timestamp: %+v", lines)
	}
}

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "[00:00.00]"},
		{1500 * time.Millisecond, "[00:01.50]"},
		{3200 * time.Millisecond, "[00:03.20]"},
		{5 * time.Second, "[00:05.00]"},
		{62*time.Minute + 3*time.Second, "[62:03.00]"},
		// truncation, never rounding
		{999 * time.Millisecond, "[00:00.99]"},
		{1999999 * time.Microsecond, "[00:01.99]"},
		{-time.Second, "[00:00.00]"},
	}

	for _, c := range cases {
		if got := FormatTimestamp(c.d); got != c.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", c.d, got, c.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	original := []Line{
		Timestamped("one", 1500*time.Millisecond),
		Timestamped("two", 3200*time.Millisecond),
		Plain("no stamp yet"),
		Plain(""),
		Timestamped("", 90*time.Second),
	}

	data := Serialize(original)
	parsed, err := Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reparse failed: %v", err)
	}

	if len(parsed) != len(original) {
		t.Fatalf("expected %d lines, got %d", len(original), len(parsed))
	}
	for i := range original {
		if parsed[i] != original[i] {
			t.Errorf("line %d: round-trip mismatch: %+v != %+v",
				i, parsed[i], original[i])
		}
	}
}

func TestSerializeIdempotent(t *testing.T) {
	lines := []Line{
		Timestamped("alpha", 1230*time.Millisecond),
		Plain("beta"),
	}

	first := Serialize(lines)
	second := Serialize(lines)
	if !bytes.Equal(first, second) {
		t.Errorf("repeated serialization differs: %q vs %q", first, second)
	}

	reparsed, err := Parse(bytes.NewReader(first))
	if err != nil {
		t.Fatalf("reparse failed: %v", err)
	}
	if !bytes.Equal(Serialize(reparsed), first) {
		t.Errorf("serialize after round-trip is not byte-identical")
	}
}

func TestLoadAndSaveFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "song.lrc")

	lines := []Line{
		Timestamped("hello", 500*time.Millisecond),
		Plain("world"),
	}
	if err := SaveFile(path, lines); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded) != 2 || loaded[0] != lines[0] || loaded[1] != lines[1] {
		t.Errorf("loaded lines differ: %+v", loaded)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "[00:00.50]hello\nworld\n" {
		t.Errorf("unexpected file contents: %q", data)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.lrc"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
