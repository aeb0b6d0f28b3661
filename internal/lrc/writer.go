package lrc

import (
	"fmt"
	"os"
	"strings"
)

// Serialize renders lines back to LRC bytes. Untimestamped lines are
// written bare, so Parse(Serialize(x)) == x for any input whose
// timestamps are already at centisecond precision.
func Serialize(lines []Line) []byte {
	var sb strings.Builder
	for _, line := range lines {
		if line.HasTimestamp {
			sb.WriteString(FormatTimestamp(line.Timestamp))
		}
		sb.WriteString(line.Text)
		sb.WriteString("\n")
	}
	return []byte(sb.String())
}

// SaveFile writes lines to path, replacing its contents.
func SaveFile(path string, lines []Line) error {
	if err := os.WriteFile(path, Serialize(lines), 0644); err != nil {
		return fmt.Errorf("failed to write LRC file: %w", err)
	}
	return nil
}
