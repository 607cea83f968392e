package interactive

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/joshyorko/sstui/anywork"
	"github.com/joshyorko/sstui/common"
	"github.com/joshyorko/sstui/dialog"
	"github.com/joshyorko/sstui/layer"
	"github.com/joshyorko/sstui/operations"
	"github.com/joshyorko/sstui/subscription"
)

// Focus states
const (
	focusServers = 0
	focusLogs    = 1
)

const noVersion = "None"

// row is one line of server list; server is -1 on group header rows.
type row struct {
	group  int
	server int
}

// MainView is the root layer: server groups on top, sslocal log below.
type MainView struct {
	ctx     *Context
	logs    *LogPane
	focus   int
	cursor  int
	toast   *Toast
	done    bool
	version string

	executable string
	probe      *anywork.Handle[string]
	strays     *anywork.Handle[[]operations.Stray]
	session    *operations.Session
	reported   bool
}

func NewMainView(ctx *Context) *MainView {
	return &MainView{
		ctx:     ctx,
		logs:    NewLogPane(ctx.Logs),
		focus:   focusServers,
		version: noVersion,
	}
}

func (v *MainView) Setup(stack *layer.Stack) error {
	v.strays = anywork.Spawn(func() ([]operations.Stray, error) {
		return operations.FindStrays()
	})
	if !v.locate() {
		dialog.Ask(stack, "sslocal not found, download it?", func(answer dialog.Answer) {
			if answer == dialog.Yes {
				v.openUpdate(stack)
			}
		})
	}
	v.focusSelected()
	return nil
}

// locate finds sslocal and starts version probe in background.
func (v *MainView) locate() bool {
	executable, err := operations.FindSslocal(v.ctx.Userdata.SslocalPath, v.ctx.Home)
	if err != nil {
		common.Debug("%v", err)
		v.executable, v.version, v.ctx.Installed = "", noVersion, ""
		return false
	}
	v.executable = executable
	v.probe = anywork.Spawn(func() (string, error) {
		return operations.ProbeVersion(executable)
	})
	return true
}

func (v *MainView) openUpdate(stack *layer.Stack) {
	update := NewUpdateView(v.ctx)
	stack.Push(update, func(layer.Layer) {
		if update.Installed() {
			v.locate()
			v.notify(ToastSuccess, "sslocal installed")
		}
	})
}

func (v *MainView) notify(kind ToastType, message string) {
	v.toast = NewToast(kind, message)
}

func (v *MainView) rows() []row {
	result := []row{}
	for groupIndex, group := range v.ctx.Userdata.ServerGroups {
		result = append(result, row{group: groupIndex, server: -1})
		for serverIndex := range group.Servers {
			result = append(result, row{group: groupIndex, server: serverIndex})
		}
	}
	return result
}

func (v *MainView) current() (row, bool) {
	rows := v.rows()
	if len(rows) == 0 {
		return row{}, false
	}
	v.cursor = clamp(v.cursor, 0, len(rows)-1)
	return rows[v.cursor], true
}

func (v *MainView) focusSelected() {
	selection := v.ctx.Userdata.SelectedServer
	if selection == nil {
		return
	}
	for index, candidate := range v.rows() {
		if candidate.group == selection.Group && candidate.server == selection.Server {
			v.cursor = index
			return
		}
	}
}

func clamp(value, low, high int) int {
	if value > high {
		value = high
	}
	if value < low {
		value = low
	}
	return value
}

// poll collects finished background work, called on idle ticks.
func (v *MainView) poll() {
	if v.probe != nil && v.probe.IsFinished() {
		version, err := v.probe.Join()
		v.probe = nil
		if err != nil {
			common.Uncritical("sslocal version probe", err)
			version = ""
		}
		v.ctx.Installed = version
		v.version = noVersion
		if len(version) > 0 {
			v.version = version
		}
	}
	if v.strays != nil && v.strays.IsFinished() {
		strays, err := v.strays.Join()
		v.strays = nil
		if err != nil {
			common.Uncritical("stray check", err)
		} else if len(strays) > 0 {
			common.Log("Found %d sslocal processes not started by this session, see 'sstui stop'.", len(strays))
			v.notify(ToastWarning, fmt.Sprintf("%d other sslocal processes running", len(strays)))
		}
	}
	if v.session != nil && !v.session.Running() && !v.reported {
		v.reported = true
		v.notify(ToastError, "sslocal exited: "+operations.Describe(v.session.ExitError()))
	}
}

func (v *MainView) Update(stack *layer.Stack, msg tea.Msg) error {
	if _, ok := msg.(layer.Idle); ok {
		v.poll()
		return nil
	}
	press, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(press, keys.Back):
		dialog.Ask(stack, "exit?", func(answer dialog.Answer) {
			v.done = answer == dialog.Yes
		})
		return nil
	case key.Matches(press, keys.Tab):
		v.focus = (v.focus + 1) % 2
		return nil
	case key.Matches(press, keys.Update):
		v.openUpdate(stack)
		return nil
	}
	if v.focus == focusLogs {
		v.logs.Update(press)
		return nil
	}
	switch {
	case key.Matches(press, keys.Up):
		v.cursor--
	case key.Matches(press, keys.Down):
		v.cursor++
	case key.Matches(press, keys.PageUp):
		v.cursor -= 10
	case key.Matches(press, keys.PageDown):
		v.cursor += 10
	case key.Matches(press, keys.Select):
		v.launchCurrent()
	case key.Matches(press, keys.Import):
		v.openImport(stack)
	case key.Matches(press, keys.Refresh):
		v.refreshCurrent(stack)
	case key.Matches(press, keys.Delete):
		v.deleteCurrent(stack)
	case key.Matches(press, keys.Lan):
		v.toggleLan()
	case key.Matches(press, keys.Stop):
		v.stopSession()
		v.notify(ToastInfo, "sslocal stopped")
	case key.Matches(press, keys.Clear):
		v.ctx.Logs.Clear()
	}
	v.current()
	return nil
}

func (v *MainView) openImport(stack *layer.Stack) {
	form := NewImportView(v.ctx)
	stack.Push(form, func(layer.Layer) {
		if added := form.Added(); added != nil {
			v.notify(ToastSuccess, fmt.Sprintf("group %q imported", added.Name))
		}
	})
}

func (v *MainView) launchCurrent() {
	at, ok := v.current()
	if !ok || at.server < 0 {
		return
	}
	if !v.ctx.Userdata.Select(at.group, at.server) {
		return
	}
	v.ctx.save()
	v.launch()
}

// launch stops previous session and starts one for selected server.
func (v *MainView) launch() {
	v.stopSession()
	_, server, ok := v.ctx.Userdata.Selected()
	if !ok {
		return
	}
	if len(v.executable) == 0 {
		v.notify(ToastError, operations.Describe(operations.ErrSslocalMissing))
		return
	}
	userdata := v.ctx.Userdata
	spec := operations.LaunchSpec{
		Executable: v.executable,
		Server:     *server,
		LocalPort:  userdata.LocalPort,
		LanSupport: userdata.LanSupport,
		UdpRelay:   userdata.UdpRelay,
		Verbose:    userdata.Verbose,
		ExtraArgs:  userdata.ExtraArgs,
	}
	session, err := operations.Launch(spec, v.ctx.Logs)
	if err != nil {
		common.Error("launch sslocal", err)
		v.notify(ToastError, operations.Describe(err))
		return
	}
	v.session, v.reported = session, false
	v.notify(ToastSuccess, fmt.Sprintf("%s on %s", server.Title(), spec.BindAddress()))
}

func (v *MainView) stopSession() {
	if v.session == nil {
		return
	}
	v.session.Stop()
	v.session = nil
}

func (v *MainView) refreshCurrent(stack *layer.Stack) {
	at, ok := v.current()
	if !ok {
		return
	}
	original := v.ctx.Userdata.ServerGroups[at.group]
	if len(original.UpdateURL) == 0 {
		v.notify(ToastWarning, fmt.Sprintf("group %q has no update url", original.Name))
		return
	}
	working := *original
	working.Servers = append([]subscription.Server(nil), original.Servers...)
	fetch := v.ctx.Fetch
	handle := anywork.Spawn(func() (*subscription.Group, error) {
		return &working, working.Refresh(fetch)
	})
	waiting := dialog.NewCancelable(fmt.Sprintf("Updating group %q…", original.Name), handle, nil)
	dialog.Wait(stack, waiting, func(it *dialog.Cancelable[*subscription.Group]) {
		if it.Outcome() != dialog.Complete {
			return
		}
		group, err := it.Result()
		if err != nil {
			common.Error("refresh group", err)
			dialog.Fail(stack, operations.Describe(err), nil)
			return
		}
		v.ctx.Userdata.AddGroup(group)
		v.ctx.save()
		v.focusSelected()
		v.notify(ToastSuccess, fmt.Sprintf("group %q has %d servers", group.Name, len(group.Servers)))
	})
}

func (v *MainView) deleteCurrent(stack *layer.Stack) {
	at, ok := v.current()
	if !ok {
		return
	}
	name := v.ctx.Userdata.ServerGroups[at.group].Name
	dialog.Ask(stack, fmt.Sprintf("delete group '%s' ?", name), func(answer dialog.Answer) {
		if answer != dialog.Yes {
			return
		}
		selected := v.ctx.Userdata.SelectedServer
		if selected != nil && selected.Group == at.group {
			v.stopSession()
		}
		if v.ctx.Userdata.RemoveGroup(name) {
			v.ctx.save()
			v.notify(ToastInfo, fmt.Sprintf("group %q deleted", name))
		}
		v.current()
	})
}

func (v *MainView) toggleLan() {
	userdata := v.ctx.Userdata
	userdata.LanSupport = !userdata.LanSupport
	v.ctx.save()
	if v.session != nil {
		v.launch()
	}
}

func (v *MainView) Done() bool {
	return v.done
}

func (v *MainView) Close() {
	v.stopSession()
	v.ctx.save()
}

func (v *MainView) View(width, height int) string {
	vs := v.ctx.Styles
	header := RenderHeader(vs, "Servers", "Version: "+v.version, width)
	hints := []KeyHint{
		{"tab", "next"},
		{"↑/↓", "move"},
		{"enter", "select"},
		{"i", "import"},
		{"r", "update group"},
		{"d", "delete"},
		{"l", "lan"},
		{"s", "stop"},
		{"U", "update sslocal"},
		{"esc", "exit"},
	}
	footer := RenderFooter(vs, hints, width)
	status := v.statusLine(vs, width)
	if v.toast.Active(time.Now()) {
		status = ansi.Truncate(v.toast.Render(vs), width, "…")
	}

	// panels carry border and padding
	available := height - lipgloss.Height(header) - lipgloss.Height(footer) - 1
	logHeight := clamp(available*3/10, 3, 15)
	listHeight := available - logHeight - 4
	if listHeight < 1 {
		listHeight = 1
	}
	inner := width - 4
	if inner < 10 {
		inner = 10
	}

	servers, logs := vs.Panel, vs.Panel
	if v.focus == focusServers {
		servers = vs.PanelFocused
	} else {
		logs = vs.PanelFocused
	}
	listBox := servers.Width(inner + 2).Render(v.serverList(vs, inner, listHeight))
	logBox := logs.Width(inner + 2).Render(v.logs.View(vs, inner, logHeight))

	var b strings.Builder
	b.WriteString(header)
	b.WriteString(listBox)
	b.WriteString("\n")
	b.WriteString(logBox)
	b.WriteString("\n")
	b.WriteString(status)
	b.WriteString("\n")
	b.WriteString(footer)
	return b.String()
}

func (v *MainView) statusLine(vs ViewStyles, width int) string {
	userdata := v.ctx.Userdata
	lan := vs.Badge.Render("lan off")
	if userdata.LanSupport {
		lan = vs.BadgeActive.Render("lan on")
	}
	parts := []string{
		vs.Badge.Render(fmt.Sprintf("port %d", userdata.LocalPort)),
		lan,
	}
	if v.session != nil && v.session.Running() {
		parts = append(parts, vs.Success.Render(fmt.Sprintf("● sslocal pid %d", v.session.Pid())))
		if last := v.session.LastLine(); len(last) > 0 {
			parts = append(parts, vs.Text.Render(last))
		}
	} else {
		parts = append(parts, vs.Subtext.Render("○ sslocal idle"))
	}
	return ansi.Truncate(strings.Join(parts, "  "), width, "…")
}

func (v *MainView) serverList(vs ViewStyles, width, height int) string {
	rows := v.rows()
	if len(rows) == 0 {
		lines := []string{
			vs.Subtext.Render("No server groups yet."),
			vs.Subtext.Render("Press i to import a subscription."),
		}
		return lipgloss.NewStyle().Height(height).Render(strings.Join(lines, "\n"))
	}
	first := 0
	if v.cursor >= height {
		first = v.cursor - height + 1
	}
	last := min(first+height, len(rows))
	selection := v.ctx.Userdata.SelectedServer
	lines := make([]string, 0, height)
	for index := first; index < last; index++ {
		at := rows[index]
		group := v.ctx.Userdata.ServerGroups[at.group]
		var text string
		if at.server < 0 {
			text = vs.Title.Render(fmt.Sprintf("%s (%d)", group.Name, len(group.Servers)))
		} else {
			server := group.Servers[at.server]
			marker := "  "
			if selection != nil && selection.Group == at.group && selection.Server == at.server {
				marker = vs.Success.Render("● ")
			}
			text = marker + vs.Text.Render(server.Title()) + " " + vs.Subtext.Render(server.Address()+" "+server.Method)
		}
		text = ansi.Truncate(text, width, "…")
		if index == v.cursor && v.focus == focusServers {
			text = vs.ListItemSelected.Render(ansi.Strip(text))
		}
		lines = append(lines, text)
	}
	return lipgloss.NewStyle().Height(height).Render(strings.Join(lines, "\n"))
}
