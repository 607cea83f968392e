package interactive

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/joshyorko/sstui/common"
)

// ViewStyles are the lipgloss styles every view draws with.
type ViewStyles struct {
	Title     lipgloss.Style
	Subtext   lipgloss.Style
	Label     lipgloss.Style
	Text      lipgloss.Style
	Accent    lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Info      lipgloss.Style
	Separator lipgloss.Style

	// status line
	Badge       lipgloss.Style
	BadgeActive lipgloss.Style

	Panel        lipgloss.Style
	PanelFocused lipgloss.Style

	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastWarning lipgloss.Style
	ToastError   lipgloss.Style

	// asset table and server list
	TableHeader      lipgloss.Style
	TableRow         lipgloss.Style
	ListItemSelected lipgloss.Style

	// footer
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style
}

func NewViewStyles(theme Theme) ViewStyles {
	plain := lipgloss.NewStyle()
	bold := plain.Bold(true)
	box := plain.Border(lipgloss.RoundedBorder()).Padding(0, 1)
	return ViewStyles{
		Title:     bold.Foreground(theme.Primary),
		Subtext:   plain.Foreground(theme.TextMuted),
		Label:     plain.Foreground(theme.TextDim).Width(14),
		Text:      plain.Foreground(theme.Text),
		Accent:    plain.Foreground(theme.Accent),
		Success:   plain.Foreground(theme.Success),
		Warning:   plain.Foreground(theme.Warning),
		Error:     plain.Foreground(theme.Error),
		Info:      plain.Foreground(theme.Info),
		Separator: plain.Foreground(theme.BorderDim),

		Badge:       plain.Foreground(theme.Text).Background(theme.Surface).Padding(0, 1),
		BadgeActive: bold.Foreground(theme.Surface).Background(theme.Accent).Padding(0, 1),

		Panel:        box.BorderForeground(theme.BorderDim),
		PanelFocused: box.BorderForeground(theme.Primary),

		ToastInfo:    bold.Foreground(theme.Info),
		ToastSuccess: bold.Foreground(theme.Success),
		ToastWarning: bold.Foreground(theme.Warning),
		ToastError:   bold.Foreground(theme.Error),

		TableHeader:      bold.Foreground(theme.Secondary).BorderBottom(true).BorderStyle(lipgloss.NormalBorder()).BorderForeground(theme.BorderDim),
		TableRow:         plain.Foreground(theme.Text).Padding(0, 1),
		ListItemSelected: bold.Foreground(theme.TextBright).Background(theme.Highlight),

		HelpKey:  bold.Foreground(theme.Accent).Background(theme.Surface).Padding(0, 1),
		HelpDesc: plain.Foreground(theme.TextMuted),
	}
}

// RenderHeader draws "sstui VERSION | TITLE subtitle" over a rule.
func RenderHeader(vs ViewStyles, viewTitle string, subtitle string, contentWidth int) string {
	var b strings.Builder
	b.WriteString(vs.Title.Render(common.Product))
	b.WriteString(vs.Subtext.Render(" " + common.Version + " "))
	b.WriteString(vs.Separator.Render("|"))
	b.WriteString(" ")
	b.WriteString(vs.Accent.Bold(true).Render(viewTitle))
	if subtitle != "" {
		b.WriteString(" ")
		b.WriteString(vs.Subtext.Render(subtitle))
	}
	b.WriteString("\n")
	b.WriteString(vs.Separator.Render(strings.Repeat("─", contentWidth)))
	b.WriteString("\n")
	return b.String()
}

func RenderFooter(vs ViewStyles, hints []KeyHint, contentWidth int) string {
	parts := make([]string, 0, len(hints))
	for _, hint := range hints {
		parts = append(parts, vs.HelpKey.Render(hint.Key)+" "+vs.HelpDesc.Render(hint.Desc))
	}
	return vs.Separator.Render(strings.Repeat("─", contentWidth)) + "\n" + strings.Join(parts, "  ")
}

type KeyHint struct {
	Key  string
	Desc string
}
