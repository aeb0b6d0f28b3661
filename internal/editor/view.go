package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lecheel/lrc-maker/internal/lrc"
)

var (
	headerStyle = lipgloss.NewStyle().
			Reverse(true).
			Bold(true)

	cursorLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2")) // green, as the original

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6"))

	positionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3")) // yellow status, as the original

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3")).
			Bold(true)
)

const headerHints = "space:stamp  x:remove  e:mode  s:save  q:quit"

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	width := m.width
	if width <= 0 {
		width = 80
	}
	height := m.height
	if height <= 0 {
		height = 24
	}

	var sb strings.Builder
	sb.WriteString(m.renderHeader(width))
	sb.WriteString("\n")
	sb.WriteString(m.renderLines(width, height-3))
	sb.WriteString(m.renderStatus(width))
	return sb.String()
}

func (m *Model) renderHeader(width int) string {
	track := m.snap.Track
	if track == "" {
		track = "no track"
	}
	header := fmt.Sprintf(" lrc-maker [%s] %s — %s ", m.mode, track, headerHints)
	return headerStyle.Render(truncate(header, width))
}

func (m *Model) renderLines(width, visible int) string {
	if visible < 1 {
		visible = 1
	}

	cursor := m.doc.Cursor()
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > m.doc.Len() {
		end = m.doc.Len()
	}

	var sb strings.Builder
	for i := start; i < end; i++ {
		line, err := m.doc.Line(i)
		if err != nil {
			break
		}

		tag := ""
		if line.HasTimestamp {
			tag = timestampStyle.Render(lrc.FormatTimestamp(line.Timestamp))
		}

		if i == cursor {
			if m.mode == ModeEdit {
				sb.WriteString("> " + tag + m.input.View())
			} else {
				sb.WriteString(cursorLineStyle.Render("> ") + tag +
					cursorLineStyle.Render(truncate(line.Text, width-12)))
			}
		} else {
			sb.WriteString("  " + tag + truncate(line.Text, width-12))
		}
		sb.WriteString("\n")
	}
	for i := end - start; i < visible; i++ {
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *Model) renderStatus(width int) string {
	if m.confirmQuit {
		return promptStyle.Render(
			" unsaved changes — y: save and quit, n: discard, esc: cancel ")
	}

	var parts []string
	if m.snap.Connected {
		state := "paused"
		if m.snap.Playing {
			state = "playing"
		}
		parts = append(parts, positionStyle.Render(
			fmt.Sprintf("%s %s", lrc.FormatTimestamp(m.snap.Position), state)))
	} else {
		parts = append(parts, dimStyle.Render("player: disconnected"))
	}

	if m.doc.Dirty() {
		parts = append(parts, dimStyle.Render("[+]"))
	}
	parts = append(parts, dimStyle.Render(
		fmt.Sprintf("%d/%d", m.doc.Cursor()+1, m.doc.Len())))

	if m.status != "" {
		parts = append(parts, noticeStyle.Render(truncate(m.status, width/2)))
	}

	return strings.Join(parts, "  ")
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
