package logtail

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette styles the parts of a rendered log line.
type Palette struct {
	Time  lipgloss.Style
	Debug lipgloss.Style
	Info  lipgloss.Style
	Warn  lipgloss.Style
	Error lipgloss.Style
	Key   lipgloss.Style
	Value lipgloss.Style
}

// DefaultPalette is tuned for dark terminal backgrounds.
func DefaultPalette() Palette {
	return Palette{
		Time:  lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")),
		Debug: lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true),
		Info:  lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F")).Bold(true),
		Warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
		Error: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		Key:   lipgloss.NewStyle().Foreground(lipgloss.Color("#87AFFF")),
		Value: lipgloss.NewStyle().Foreground(lipgloss.Color("#D7AFFF")),
	}
}

// Colorize renders a log line with p. Unparseable lines are returned as is.
func Colorize(line string, p Palette) string {
	entry, ok := Parse(line)
	if !ok {
		return line
	}

	var b strings.Builder
	if entry.Time != "" {
		b.WriteString(p.Time.Render(shortTime(entry.Time)))
		b.WriteByte(' ')
	}
	level := strings.ToUpper(entry.Level)
	if len(level) > 4 {
		level = level[:4]
	}
	b.WriteString(p.level(entry.Level).Render(level))
	b.WriteByte(' ')
	b.WriteString(entry.Message)
	for _, f := range entry.Fields {
		b.WriteByte(' ')
		b.WriteString(p.Key.Render(f.Key + "="))
		b.WriteString(p.Value.Render(f.Value))
	}
	return b.String()
}

// ColorizeLines applies Colorize to each line.
func ColorizeLines(lines []string, p Palette) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = Colorize(line, p)
	}
	return out
}

func (p Palette) level(level string) lipgloss.Style {
	switch strings.ToLower(level) {
	case "debug", "trace":
		return p.Debug
	case "warn", "warning":
		return p.Warn
	case "error", "fatal", "panic":
		return p.Error
	}
	return p.Info
}

// shortTime drops the date from an RFC 3339 timestamp.
func shortTime(ts string) string {
	if i := strings.IndexByte(ts, 'T'); i >= 0 && i+1 < len(ts) {
		rest := ts[i+1:]
		if j := strings.IndexAny(rest, "Z+-"); j > 0 {
			return rest[:j]
		}
		return rest
	}
	return ts
}
