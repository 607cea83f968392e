package interactive

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joshyorko/sstui/anywork"
	"github.com/joshyorko/sstui/common"
	"github.com/joshyorko/sstui/dialog"
	"github.com/joshyorko/sstui/layer"
	"github.com/joshyorko/sstui/operations"
	"github.com/joshyorko/sstui/subscription"
)

var errMissingField = errors.New("group name and update url are both needed")

// ImportView is a two field form adding subscription group.
type ImportView struct {
	ctx    *Context
	fields []textinput.Model
	focus  int
	added  *subscription.Group
	done   bool
}

func newField(placeholder string, width int) textinput.Model {
	field := textinput.New()
	field.Placeholder = placeholder
	field.CharLimit = 2048
	field.Width = width
	field.Cursor.SetMode(cursor.CursorStatic)
	return field
}

func NewImportView(ctx *Context) *ImportView {
	fields := []textinput.Model{
		newField("group name", 40),
		newField("https://example.com/subscription", 60),
	}
	fields[0].Focus()
	return &ImportView{ctx: ctx, fields: fields}
}

// Added is the group fetched and stored, or nil.
func (v *ImportView) Added() *subscription.Group {
	return v.added
}

func (v *ImportView) switchFocus() {
	v.fields[v.focus].Blur()
	v.focus = (v.focus + 1) % len(v.fields)
	v.fields[v.focus].Focus()
}

func (v *ImportView) Update(stack *layer.Stack, msg tea.Msg) error {
	press, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(press, keys.Back):
		v.done = true
	case key.Matches(press, keys.Tab):
		v.switchFocus()
	case press.Type == tea.KeyDelete:
		v.fields[v.focus].SetValue("")
	case key.Matches(press, keys.Select):
		v.submit(stack)
	default:
		v.fields[v.focus], _ = v.fields[v.focus].Update(press)
	}
	return nil
}

func (v *ImportView) submit(stack *layer.Stack) {
	name := strings.TrimSpace(v.fields[0].Value())
	link := strings.TrimSpace(v.fields[1].Value())
	if len(name) == 0 || len(link) == 0 {
		dialog.Fail(stack, operations.Describe(errMissingField), nil)
		return
	}
	group := subscription.NewGroup(name, link)
	fetch := v.ctx.Fetch
	handle := anywork.Spawn(func() (*subscription.Group, error) {
		return group, group.Refresh(fetch)
	})
	waiting := dialog.NewCancelable(fmt.Sprintf("Fetching group %q…", name), handle, nil)
	dialog.Wait(stack, waiting, func(it *dialog.Cancelable[*subscription.Group]) {
		if it.Outcome() != dialog.Complete {
			return
		}
		fetched, err := it.Result()
		if err != nil {
			common.Error("import group", err)
			dialog.Fail(stack, operations.Describe(err), nil)
			return
		}
		v.ctx.Userdata.AddGroup(fetched)
		v.ctx.save()
		v.added = fetched
		message := fmt.Sprintf("Group %q has %d servers.", fetched.Name, len(fetched.Servers))
		dialog.Tell(stack, "Imported", message, func() { v.done = true })
	})
}

func (v *ImportView) Done() bool {
	return v.done
}

func (v *ImportView) View(width, height int) string {
	vs := v.ctx.Styles
	header := RenderHeader(vs, "Import subscription", "", width)
	footer := RenderFooter(vs, []KeyHint{
		{"tab", "next field"},
		{"del", "clear"},
		{"enter", "fetch"},
		{"esc", "back"},
	}, width)

	labels := []string{"Group name", "Update URL"}
	var body strings.Builder
	for index, field := range v.fields {
		field.Width = width - 20
		panel := vs.Panel
		if index == v.focus {
			panel = vs.PanelFocused
		}
		body.WriteString(vs.Label.Render(labels[index]))
		body.WriteString("\n")
		body.WriteString(panel.Width(width - 4).Render(field.View()))
		body.WriteString("\n")
	}
	bodyHeight := height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return header + lipgloss.NewStyle().Height(bodyHeight).Render(body.String()) + "\n" + footer
}
