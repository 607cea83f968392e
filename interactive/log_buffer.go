package interactive

import (
	"fmt"
	"strings"

	"github.com/joshyorko/sstui/logbuf"
)

// FormatLogEntry returns a formatted log line using ViewStyles
func FormatLogEntry(e logbuf.LogEntry, vs ViewStyles, showTime bool) string {
	var b strings.Builder

	// Time (optional)
	if showTime {
		b.WriteString(vs.Subtext.Render(e.Time.Format("15:04:05")))
		b.WriteString(" ")
	}

	// Level icon with color
	levelStyle := vs.Text
	switch e.Level {
	case logbuf.LogTrace, logbuf.LogDebug:
		levelStyle = vs.Subtext
	case logbuf.LogInfo:
		levelStyle = vs.Info
	case logbuf.LogWarn:
		levelStyle = vs.Warning
	case logbuf.LogError:
		levelStyle = vs.Error
	}
	b.WriteString(levelStyle.Render(e.Level.Icon()))
	b.WriteString(" ")

	// Source (if present)
	if e.Source != "" {
		b.WriteString(vs.Subtext.Render("[" + e.Source + "]"))
		b.WriteString(" ")
	}

	b.WriteString(vs.Text.Render(e.Message))
	return b.String()
}

// FormatLogStats returns a formatted stats summary
func FormatLogStats(lb *logbuf.LogBuffer, vs ViewStyles) string {
	stats := lb.Stats()
	if stats.Total == 0 {
		return ""
	}

	var parts []string
	if stats.Errors > 0 {
		parts = append(parts, vs.Error.Render(fmt.Sprintf("%d errors", stats.Errors)))
	}
	if stats.Warns > 0 {
		parts = append(parts, vs.Warning.Render(fmt.Sprintf("%d warnings", stats.Warns)))
	}
	parts = append(parts, vs.Subtext.Render(fmt.Sprintf("%d total", stats.Total)))

	return strings.Join(parts, " · ")
}
