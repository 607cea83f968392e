// Package dialog has the modal layers: yes/no confirmation, info or error
// acknowledgement, and waiting for background work.
package dialog

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const minimumWidth = 24

type Styles struct {
	Box          lipgloss.Style
	ErrorBox     lipgloss.Style
	Title        lipgloss.Style
	Message      lipgloss.Style
	Muted        lipgloss.Style
	Button       lipgloss.Style
	ButtonActive lipgloss.Style
}

// DefaultStyles are used by every dialog; the TUI replaces them with its
// theme at startup.
var DefaultStyles = Styles{
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#82aaff")).
		Padding(1, 2),
	ErrorBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#ff5370")).
		Padding(1, 2),
	Title:        lipgloss.NewStyle().Bold(true),
	Message:      lipgloss.NewStyle(),
	Muted:        lipgloss.NewStyle().Faint(true),
	Button:       lipgloss.NewStyle().Padding(0, 1),
	ButtonActive: lipgloss.NewStyle().Padding(0, 1).Reverse(true).Bold(true),
}

// frame wraps content lines into a box no narrower than minimumWidth and
// no wider than the screen.
func frame(box lipgloss.Style, width int, lines ...string) string {
	inner := minimumWidth
	for _, line := range lines {
		if w := lipgloss.Width(line); w > inner {
			inner = w
		}
	}
	limit := width - box.GetHorizontalFrameSize()
	if limit > 0 && inner > limit {
		inner = limit
	}
	body := lipgloss.NewStyle().Width(inner).Align(lipgloss.Center).Render(strings.Join(lines, "\n"))
	return box.Render(body)
}
