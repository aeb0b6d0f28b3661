package lrc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// [mm:ss.xx] with an optional 1-3 digit fraction; minutes may exceed 59.
var timestampRegex = regexp.MustCompile(`^\[(\d+):(\d{2})(?:\.(\d{1,3}))?\]`)

// Parse reads an LRC document. Lines are either `[mm:ss.xx]text`,
// bare text, or empty (preserved). A line opening with `[` that is
// not a well-formed timestamp tag stops the parse with a *ParseError
// naming the offending line.
func Parse(r io.Reader) ([]Line, error) {
	var lines []Line
	scanner := bufio.NewScanner(r)

	lineNum := 0
	for scanner.Scan() {
		text := scanner.Text()
		lineNum++

		if lineNum == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}

		if !strings.HasPrefix(text, "[") {
			lines = append(lines, Plain(text))
			continue
		}

		matches := timestampRegex.FindStringSubmatch(text)
		if matches == nil {
			return nil, &ParseError{Line: lineNum, Input: text}
		}

		ts, err := parseTimestamp(matches[1], matches[2], matches[3])
		if err != nil {
			return nil, &ParseError{Line: lineNum, Input: text}
		}
		lines = append(lines, Timestamped(text[len(matches[0]):], ts))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading LRC input: %w", err)
	}

	return lines, nil
}

// LoadFile parses the LRC file at path.
func LoadFile(path string) ([]Line, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open LRC file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

func parseTimestamp(minutes, seconds, fraction string) (time.Duration, error) {
	m, err := strconv.Atoi(minutes)
	if err != nil {
		return 0, err
	}
	s, err := strconv.Atoi(seconds)
	if err != nil {
		return 0, err
	}
	if s > 59 {
		return 0, fmt.Errorf("seconds out of range: %d", s)
	}

	d := time.Duration(m)*time.Minute + time.Duration(s)*time.Second

	if fraction != "" {
		f, err := strconv.Atoi(fraction)
		if err != nil {
			return 0, err
		}
		// 1 digit is tenths, 2 is centiseconds, 3 is milliseconds
		switch len(fraction) {
		case 1:
			d += time.Duration(f) * 100 * time.Millisecond
		case 2:
			d += time.Duration(f) * 10 * time.Millisecond
		case 3:
			d += time.Duration(f) * time.Millisecond
		}
	}

	return d, nil
}
