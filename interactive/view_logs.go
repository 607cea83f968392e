package interactive

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshyorko/sstui/logbuf"
)

// LogPane shows the shared log buffer. It follows newest lines unless the
// user has scrolled up.
type LogPane struct {
	logs     *logbuf.LogBuffer
	viewport viewport.Model
	seen     int
	follow   bool
}

func NewLogPane(logs *logbuf.LogBuffer) *LogPane {
	return &LogPane{
		logs:     logs,
		viewport: viewport.New(40, 5),
		follow:   true,
	}
}

func (v *LogPane) Update(msg tea.Msg) {
	press, ok := msg.(tea.KeyMsg)
	if !ok {
		return
	}
	switch {
	case key.Matches(press, keys.Up):
		v.viewport.LineUp(1)
	case key.Matches(press, keys.Down):
		v.viewport.LineDown(1)
	case key.Matches(press, keys.PageUp):
		v.viewport.HalfViewUp()
	case key.Matches(press, keys.PageDown):
		v.viewport.HalfViewDown()
	case key.Matches(press, keys.Clear):
		v.logs.Clear()
	}
	v.follow = v.viewport.AtBottom()
}

// View renders the pane into given inner size.
func (v *LogPane) View(vs ViewStyles, width, height int) string {
	if width < 10 {
		width = 10
	}
	if height < 1 {
		height = 1
	}
	v.viewport.Width = width
	v.viewport.Height = height

	entries := v.logs.All()
	if len(entries) != v.seen || v.seen == 0 {
		lines := make([]string, 0, len(entries))
		for _, entry := range entries {
			lines = append(lines, FormatLogEntry(entry, vs, true))
		}
		if len(lines) == 0 {
			lines = append(lines, vs.Subtext.Render("No logs yet..."))
		}
		v.viewport.SetContent(strings.Join(lines, "\n"))
		v.seen = len(entries)
	}
	if v.follow {
		v.viewport.GotoBottom()
	}
	return v.viewport.View()
}
