package interactive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
	"github.com/klauspost/compress/zip"

	"github.com/joshyorko/sstui/cloud"
	"github.com/joshyorko/sstui/dialog"
	"github.com/joshyorko/sstui/layer"
	"github.com/joshyorko/sstui/logbuf"
	"github.com/joshyorko/sstui/operations"
	"github.com/joshyorko/sstui/settings"
	"github.com/joshyorko/sstui/subscription"
)

const serversJSON = `[
  {"remarks": "tokyo", "server": "10.0.0.1", "server_port": 8388, "method": "aes-256-gcm", "password": "secret"},
  {"remarks": "paris", "server": "10.0.0.2", "server_port": 8389, "method": "chacha20-ietf-poly1305", "password": "other"},
]`

func press(kind tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: kind}
}

func typed(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

func testContext(t *testing.T) *Context {
	t.Helper()
	home := t.TempDir()
	userdata := settings.Load(filepath.Join(home, "userdata.yaml"))
	ctx := NewContext(userdata, logbuf.NewLogBuffer(100), home)
	ctx.Fetch = func(string) ([]byte, error) {
		return []byte(serversJSON), nil
	}
	return ctx
}

func send(t *testing.T, stack *layer.Stack, messages ...tea.Msg) {
	t.Helper()
	for _, msg := range messages {
		if err := stack.Dispatch(msg); err != nil {
			t.Fatal(err)
		}
	}
}

// pump delivers idle ticks until condition holds.
func pump(t *testing.T, stack *layer.Stack, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !condition() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not reached, top is %T", stack.Top())
		}
		send(t, stack, layer.Idle{})
		time.Sleep(5 * time.Millisecond)
	}
}

func topIs[T any](stack *layer.Stack) func() bool {
	return func() bool {
		_, ok := stack.Top().(T)
		return ok
	}
}

func TestInterceptorMapsLevels(t *testing.T) {
	logs := logbuf.NewLogBuffer(10)
	intercept := Interceptor(logs)

	if !intercept(log.ErrorLevel, "broken") {
		t.Error("interceptor should swallow messages")
	}
	intercept(log.WarnLevel, "careful")
	intercept(log.InfoLevel, "hello")
	intercept(log.DebugLevel, "[T] detail")
	intercept(log.DebugLevel, "debugging")

	expected := []logbuf.LogLevel{logbuf.LogError, logbuf.LogWarn, logbuf.LogInfo, logbuf.LogTrace, logbuf.LogDebug}
	entries := logs.All()
	if len(entries) != len(expected) {
		t.Fatalf("expected %d entries, got %d", len(expected), len(entries))
	}
	for index, entry := range entries {
		if entry.Level != expected[index] {
			t.Errorf("entry %d: expected %v, got %v", index, expected[index], entry.Level)
		}
	}
}

func TestImportViewAddsGroup(t *testing.T) {
	ctx := testContext(t)
	form := NewImportView(ctx)
	stack := layer.NewStack(form)
	if err := stack.Prepare(); err != nil {
		t.Fatal(err)
	}

	send(t, stack, typed("work"), press(tea.KeyTab), typed("https://example.com/sub"), press(tea.KeyEnter))
	pump(t, stack, topIs[*dialog.Info](stack))
	send(t, stack, press(tea.KeyEnter))

	if !form.Done() {
		t.Fatal("form should close after acknowledgement")
	}
	added := form.Added()
	if added == nil || added.Name != "work" || len(added.Servers) != 2 {
		t.Fatalf("unexpected group %#v", added)
	}
	if added.Format != subscription.FormatJSON {
		t.Errorf("format should be cached, got %q", added.Format)
	}
	reloaded := settings.Load(ctx.Userdata.Filename())
	if index, _ := reloaded.FindGroup("work"); index != 0 {
		t.Error("group was not saved")
	}
}

func TestImportViewNeedsBothFields(t *testing.T) {
	ctx := testContext(t)
	form := NewImportView(ctx)
	stack := layer.NewStack(form)
	stack.Prepare()

	send(t, stack, typed("lonely"), press(tea.KeyEnter))
	if _, ok := stack.Top().(*dialog.Info); !ok {
		t.Fatalf("expected error dialog, got %T", stack.Top())
	}
	send(t, stack, press(tea.KeyEnter), press(tea.KeyDelete))
	if value := form.fields[0].Value(); value != "" {
		t.Errorf("delete should clear field, got %q", value)
	}
	send(t, stack, press(tea.KeyEsc))
	if !form.Done() || form.Added() != nil {
		t.Error("escape should leave without a group")
	}
}

func releaseServer(t *testing.T, assets map[string][]byte) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == operations.LatestRelease {
			release := operations.Release{Tag: "v1.21.2"}
			for _, name := range []string{"sslocal.zip", "sslocal.zip.sha256", "sslocal.deb"} {
				release.Assets = append(release.Assets, &operations.Asset{
					Name:        name,
					Size:        int64(len(assets[name])),
					DownloadURL: server.URL + "/download/" + name,
				})
			}
			json.NewEncoder(w).Encode(release)
			return
		}
		w.Write(assets[strings.TrimPrefix(r.URL.Path, "/download/")])
	}))
	t.Cleanup(server.Close)
	return server
}

func zipped(t *testing.T, name, content string) []byte {
	t.Helper()
	buffer := &bytes.Buffer{}
	writer := zip.NewWriter(buffer)
	entry, err := writer.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	entry.Write([]byte(content))
	writer.Close()
	return buffer.Bytes()
}

func pointFeed(ctx *Context, endpoint string) {
	ctx.Feed = func() (cloud.Client, error) {
		return cloud.NewUnsafeClient(endpoint, "")
	}
	ctx.Download = func() (operations.Opener, error) {
		return cloud.NewUnsafeClient(endpoint, "")
	}
}

func TestUpdateViewInstallsAsset(t *testing.T) {
	server := releaseServer(t, map[string][]byte{
		"sslocal.zip": zipped(t, "sslocal", "binary"),
		"sslocal.deb": []byte("debian"),
	})
	ctx := testContext(t)
	pointFeed(ctx, server.URL)

	update := NewUpdateView(ctx)
	stack := layer.NewStack(update)
	if err := stack.Prepare(); err != nil {
		t.Fatal(err)
	}
	pump(t, stack, topIs[*dialog.Confirm](stack))
	send(t, stack, press(tea.KeyLeft), press(tea.KeyEnter))

	if rows := len(update.table.Rows()); rows != 2 {
		t.Fatalf("checksum asset should be hidden, got %d rows", rows)
	}

	// second asset has no known archive suffix
	send(t, stack, press(tea.KeyDown), press(tea.KeyEnter))
	if _, ok := stack.Top().(*dialog.Info); !ok {
		t.Fatalf("unsupported asset should be refused, got %T", stack.Top())
	}
	send(t, stack, press(tea.KeyEnter), press(tea.KeyUp), press(tea.KeyEnter))
	if _, ok := stack.Top().(*dialog.Confirm); !ok {
		t.Fatalf("expected download question, got %T", stack.Top())
	}
	send(t, stack, press(tea.KeyLeft), press(tea.KeyEnter))
	pump(t, stack, topIs[*dialog.Info](stack))
	send(t, stack, press(tea.KeyEnter))

	if !update.Installed() || !update.Done() {
		t.Fatal("update view should finish after install")
	}
	content, err := os.ReadFile(filepath.Join(ctx.Home, "sslocal"))
	if err != nil || string(content) != "binary" {
		t.Errorf("expected extracted sslocal, got %q (%v)", content, err)
	}
}

func TestUpdateViewDeclined(t *testing.T) {
	server := releaseServer(t, map[string][]byte{})
	ctx := testContext(t)
	pointFeed(ctx, server.URL)

	update := NewUpdateView(ctx)
	stack := layer.NewStack(update)
	stack.Prepare()
	pump(t, stack, topIs[*dialog.Confirm](stack))
	send(t, stack, press(tea.KeyEsc))

	if !stack.Empty() {
		t.Errorf("declining should leave update view, top is %T", stack.Top())
	}
}

func TestMainViewOffersDownloadWhenSslocalMissing(t *testing.T) {
	t.Setenv("PATH", "")
	ctx := testContext(t)
	view := NewMainView(ctx)
	stack := layer.NewStack(view)
	if err := stack.Prepare(); err != nil {
		t.Fatal(err)
	}
	if _, ok := stack.Top().(*dialog.Confirm); !ok {
		t.Fatalf("expected download question, got %T", stack.Top())
	}
	if visible := stack.Visible(); len(visible) != 1 || visible[0] == layer.Layer(view) {
		t.Errorf("main view must stay hidden behind its setup dialog, got %d layers", len(visible))
	}
	send(t, stack, press(tea.KeyEsc))
	if stack.Top() != layer.Layer(view) {
		t.Fatalf("expected main view on top, got %T", stack.Top())
	}
	if !strings.Contains(stack.View(), "Version: None") {
		t.Error("header should show missing version")
	}

	send(t, stack, press(tea.KeyEsc))
	send(t, stack, press(tea.KeyLeft), press(tea.KeyEnter))
	if !stack.Empty() {
		t.Error("confirmed exit should empty stack")
	}
}

func fakeSslocal(t *testing.T, home string) {
	t.Helper()
	script := "#!/bin/sh\n" +
		"if [ \"$1\" = \"--version\" ]; then echo 'shadowsocks 1.21.2'; exit 0; fi\n" +
		"echo \"INFO listening on $2\"\n" +
		"exec sleep 30\n"
	if err := os.WriteFile(filepath.Join(home, operations.SslocalName()), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
}

func TestMainViewLaunchesSelectedServer(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses shell script as sslocal")
	}
	ctx := testContext(t)
	fakeSslocal(t, ctx.Home)
	group := subscription.NewGroup("work", "https://example.com/sub")
	if err := group.Refresh(ctx.Fetch); err != nil {
		t.Fatal(err)
	}
	ctx.Userdata.AddGroup(group)

	view := NewMainView(ctx)
	stack := layer.NewStack(view)
	if err := stack.Prepare(); err != nil {
		t.Fatal(err)
	}
	pump(t, stack, func() bool { return view.version != noVersion })
	if view.version != "shadowsocks 1.21.2" {
		t.Errorf("unexpected version %q", view.version)
	}

	send(t, stack, press(tea.KeyDown), press(tea.KeyDown), press(tea.KeyEnter))
	_, server, ok := ctx.Userdata.Selected()
	if !ok || server.Remarks != "paris" {
		t.Fatalf("expected paris selected, got %#v", server)
	}
	if view.session == nil {
		t.Fatal("session should be running")
	}
	session := view.session
	pump(t, stack, func() bool { return strings.Contains(session.LastLine(), "listening") })

	view.Close()
	select {
	case <-session.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("session should be stopped on close")
	}
	reloaded := settings.Load(ctx.Userdata.Filename())
	if reloaded.SelectedServer == nil || reloaded.SelectedServer.Server != 1 {
		t.Error("selection should be saved on close")
	}
}

func TestLogPaneShowsEntries(t *testing.T) {
	logs := logbuf.NewLogBuffer(10)
	pane := NewLogPane(logs)
	vs := NewViewStyles(DefaultTheme())

	if !strings.Contains(pane.View(vs, 40, 3), "No logs yet") {
		t.Error("empty pane should say so")
	}
	for index := 0; index < 5; index++ {
		logs.Add(logbuf.LogInfo, "sslocal", fmt.Sprintf("line %d", index))
	}
	if view := pane.View(vs, 40, 3); !strings.Contains(view, "line 4") {
		t.Errorf("pane should follow newest line, got %q", view)
	}
	pane.Update(press(tea.KeyUp))
	pane.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	if logs.Len() != 0 {
		t.Error("c should clear log buffer")
	}
}

func TestStatusLineAndFooter(t *testing.T) {
	ctx := testContext(t)
	view := NewMainView(ctx)
	vs := ctx.Styles

	line := ansi.Strip(view.statusLine(vs, 200))
	for _, expected := range []string{"port 10808", "lan off", "sslocal idle"} {
		if !strings.Contains(line, expected) {
			t.Errorf("status line %q is missing %q", line, expected)
		}
	}
	ctx.Userdata.LanSupport = true
	if line := ansi.Strip(view.statusLine(vs, 200)); !strings.Contains(line, "lan on") {
		t.Errorf("lan badge should follow setting, got %q", line)
	}

	footer := RenderFooter(vs, []KeyHint{{"esc", "exit"}, {"tab", "next"}}, 30)
	lines := strings.Split(ansi.Strip(footer), "\n")
	if len(lines) != 2 || ansi.StringWidth(lines[0]) != 30 {
		t.Fatalf("footer should be rule plus hints, got %q", footer)
	}
	if !strings.Contains(lines[1], "esc  exit") || !strings.Contains(lines[1], "tab  next") {
		t.Errorf("unexpected hints %q", lines[1])
	}
}
