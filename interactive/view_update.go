package interactive

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/joshyorko/sstui/anywork"
	"github.com/joshyorko/sstui/common"
	"github.com/joshyorko/sstui/dialog"
	"github.com/joshyorko/sstui/layer"
	"github.com/joshyorko/sstui/operations"
)

// UpdateView lists assets of latest sslocal release and installs the one
// user picks.
type UpdateView struct {
	ctx       *Context
	release   *operations.Release
	table     table.Model
	installed bool
	done      bool
}

func NewUpdateView(ctx *Context) *UpdateView {
	columns := []table.Column{
		{Title: "Name", Width: 48},
		{Title: "Size", Width: 10},
		{Title: "Download link", Width: 40},
	}
	model := table.New(table.WithColumns(columns), table.WithFocused(true))
	styles := table.DefaultStyles()
	styles.Header = ctx.Styles.TableHeader
	styles.Cell = ctx.Styles.TableRow
	styles.Selected = ctx.Styles.ListItemSelected
	model.SetStyles(styles)
	return &UpdateView{ctx: ctx, table: model}
}

// Installed tells whether a download finished before view was left.
func (v *UpdateView) Installed() bool {
	return v.installed
}

func (v *UpdateView) Setup(stack *layer.Stack) error {
	handle := anywork.Spawn(func() (*operations.Release, error) {
		client, err := v.ctx.Feed()
		if err != nil {
			return nil, err
		}
		return operations.FetchLatest(client)
	})
	waiting := dialog.NewCancelable("Fetching latest release…", handle, nil)
	dialog.Wait(stack, waiting, func(it *dialog.Cancelable[*operations.Release]) {
		if it.Outcome() != dialog.Complete {
			v.done = true
			return
		}
		release, err := it.Result()
		if err != nil {
			common.Error("fetch latest release", err)
			dialog.Fail(stack, operations.Describe(err), func() { v.done = true })
			return
		}
		v.setRelease(release)
		if notify := operations.VersionCheck(v.ctx.Installed, release); notify != nil {
			notify()
		}
		question := fmt.Sprintf("latest version: %s, download it?", release.Tag)
		dialog.Ask(stack, question, func(answer dialog.Answer) {
			if answer != dialog.Yes {
				v.done = true
			}
		})
	})
	return nil
}

func (v *UpdateView) setRelease(release *operations.Release) {
	v.release = release
	rows := make([]table.Row, 0, len(release.Assets))
	for _, asset := range release.Assets {
		rows = append(rows, table.Row{asset.Name, humanize.Bytes(uint64(asset.Size)), asset.DownloadURL})
	}
	v.table.SetRows(rows)
}

func (v *UpdateView) selected() *operations.Asset {
	if v.release == nil {
		return nil
	}
	cursor := v.table.Cursor()
	if cursor < 0 || cursor >= len(v.release.Assets) {
		return nil
	}
	return v.release.Assets[cursor]
}

func (v *UpdateView) Update(stack *layer.Stack, msg tea.Msg) error {
	press, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(press, keys.Back):
		v.done = true
	case key.Matches(press, keys.Select):
		v.choose(stack)
	default:
		v.table, _ = v.table.Update(press)
	}
	return nil
}

func (v *UpdateView) choose(stack *layer.Stack) {
	asset := v.selected()
	if asset == nil {
		return
	}
	if !operations.Supported(asset.Name) {
		dialog.Fail(stack, fmt.Sprintf("Unsupported archive format: %s", asset.Name), nil)
		return
	}
	dialog.Ask(stack, fmt.Sprintf("download '%s' ?", asset.Name), func(answer dialog.Answer) {
		if answer != dialog.Yes {
			return
		}
		startDownload(stack, v.ctx, asset, func(installed bool) {
			if installed {
				v.installed = true
				v.done = true
			}
		})
	})
}

func (v *UpdateView) Done() bool {
	return v.done
}

func (v *UpdateView) View(width, height int) string {
	vs := v.ctx.Styles
	subtitle := ""
	if v.release != nil {
		subtitle = fmt.Sprintf("%s, %d assets", v.release.Tag, len(v.release.Assets))
	}
	header := RenderHeader(vs, "Update sslocal", subtitle, width)
	footer := RenderFooter(vs, []KeyHint{
		{"↑/↓", "move"},
		{"enter", "download"},
		{"esc", "back"},
	}, width)

	linkWidth := width - 48 - 10 - 6
	if linkWidth < 10 {
		linkWidth = 10
	}
	v.table.SetColumns([]table.Column{
		{Title: "Name", Width: 48},
		{Title: "Size", Width: 10},
		{Title: "Download link", Width: linkWidth},
	})
	bodyHeight := height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	v.table.SetHeight(bodyHeight - 1)

	var b strings.Builder
	b.WriteString(header)
	b.WriteString(lipgloss.NewStyle().Height(bodyHeight).Render(v.table.View()))
	b.WriteString("\n")
	b.WriteString(footer)
	return b.String()
}
