package dialog_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/joshyorko/sstui/anywork"
	"github.com/joshyorko/sstui/dialog"
	"github.com/joshyorko/sstui/layer"
)

func key(kind tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: kind}
}

func TestConfirmKeys(t *testing.T) {
	cases := []struct {
		name     string
		keys     []tea.KeyType
		expected dialog.Answer
	}{
		{"enter keeps default", []tea.KeyType{tea.KeyEnter}, dialog.No},
		{"tab from no", []tea.KeyType{tea.KeyTab, tea.KeyEnter}, dialog.Yes},
		{"tab twice", []tea.KeyType{tea.KeyTab, tea.KeyTab, tea.KeyEnter}, dialog.No},
		{"left forces yes", []tea.KeyType{tea.KeyLeft, tea.KeyLeft, tea.KeyEnter}, dialog.Yes},
		{"right forces no", []tea.KeyType{tea.KeyLeft, tea.KeyRight, tea.KeyEnter}, dialog.No},
		{"escape after yes", []tea.KeyType{tea.KeyLeft, tea.KeyEsc}, dialog.No},
		{"escape after tab", []tea.KeyType{tea.KeyTab, tea.KeyEsc}, dialog.No},
	}
	for _, each := range cases {
		confirm := dialog.NewConfirm("exit?")
		for _, kind := range each.keys {
			if confirm.Done() {
				t.Fatalf("%s: closed too early", each.name)
			}
			confirm.Update(nil, key(kind))
		}
		if !confirm.Done() {
			t.Errorf("%s: should be closed", each.name)
		}
		if confirm.Answer() != each.expected {
			t.Errorf("%s: expected %v, got %v", each.name, each.expected, confirm.Answer())
		}
	}
}

func TestAskDeliversAnswerThroughStack(t *testing.T) {
	root := dialog.NewInfo("", "root")
	stack := layer.NewStack(root)
	var answer *dialog.Answer
	dialog.Ask(stack, "download?", func(got dialog.Answer) {
		answer = &got
	})
	stack.Dispatch(key(tea.KeyTab))
	if answer != nil {
		t.Fatal("answer too early")
	}
	stack.Dispatch(key(tea.KeyEnter))
	if answer == nil || *answer != dialog.Yes {
		t.Fatalf("expected Yes, got %v", answer)
	}
	if stack.Top() != root {
		t.Error("root should be on top again")
	}
}

func TestInfoClosesOnEnterOrEscape(t *testing.T) {
	for _, kind := range []tea.KeyType{tea.KeyEnter, tea.KeyEsc} {
		info := dialog.NewError("broken")
		info.Update(nil, key(tea.KeyRunes))
		if info.Done() {
			t.Fatal("other keys should not close")
		}
		info.Update(nil, key(kind))
		if !info.Done() {
			t.Errorf("%v should close info", kind)
		}
	}
}

func TestEmptyMessageRendersMinimumBox(t *testing.T) {
	for _, view := range []string{
		dialog.NewConfirm("").View(80, 24),
		dialog.NewInfo("", "").View(80, 24),
	} {
		if width := ansi.StringWidth(strings.Split(view, "\n")[0]); width < 24 {
			t.Errorf("box too narrow: %d", width)
		}
	}
}

func finishedHandle(t *testing.T, value int, err error) *anywork.Handle[int] {
	handle := anywork.Spawn(func() (int, error) { return value, err })
	deadline := time.Now().Add(2 * time.Second)
	for !handle.IsFinished() {
		if time.Now().After(deadline) {
			t.Fatal("handle did not finish")
		}
		time.Sleep(time.Millisecond)
	}
	return handle
}

func TestCancelableCompletes(t *testing.T) {
	failure := errors.New("nope")
	waiting := dialog.NewCancelable("loading", finishedHandle(t, 7, failure), nil)
	waiting.Update(nil, layer.Idle{})
	if !waiting.Done() || waiting.Outcome() != dialog.Complete {
		t.Fatalf("expected complete, got %v", waiting.Outcome())
	}
	value, err := waiting.Result()
	if value != 7 || !errors.Is(err, failure) {
		t.Errorf("unexpected result %v %v", value, err)
	}
}

func TestCancelableWithoutTokenDetaches(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	handle := anywork.Spawn(func() (int, error) { <-release; return 1, nil })
	waiting := dialog.NewCancelable("loading", handle, nil)
	waiting.Update(nil, layer.Idle{})
	if waiting.Done() {
		t.Fatal("running work should keep dialog open")
	}
	waiting.Update(nil, key(tea.KeyEsc))
	if waiting.Outcome() != dialog.Detached {
		t.Errorf("expected detached, got %v", waiting.Outcome())
	}
}

func TestCancelableRaisesToken(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	token := anywork.NewCancelToken()
	handle := anywork.Spawn(func() (int, error) { <-release; return 1, nil })
	waiting := dialog.NewCancelable("loading", handle, token)
	waiting.Update(nil, key(tea.KeyEnter))
	if !token.IsCanceled() || waiting.Outcome() != dialog.Canceled {
		t.Errorf("expected canceled with raised token, got %v", waiting.Outcome())
	}
}

func TestCancelableAwaitsWorker(t *testing.T) {
	token := anywork.NewCancelToken()
	handle := anywork.Spawn(func() (int, error) {
		for !token.IsCanceled() {
			time.Sleep(time.Millisecond)
		}
		return 0, errors.New("stopped")
	})
	waiting := dialog.NewCancelable("downloading", handle, token).Await()
	waiting.Update(nil, key(tea.KeyEsc))
	if waiting.Done() {
		t.Fatal("awaiting dialog should stay open until worker returns")
	}
	if !waiting.Cancelling() || !strings.Contains(waiting.View(80, 24), "Cancelling") {
		t.Error("dialog should show cancelling state")
	}
	deadline := time.Now().Add(2 * time.Second)
	for !waiting.Done() {
		if time.Now().After(deadline) {
			t.Fatal("worker did not acknowledge cancel")
		}
		waiting.Update(nil, layer.Idle{})
		time.Sleep(time.Millisecond)
	}
	if waiting.Outcome() != dialog.Canceled {
		t.Errorf("expected canceled, got %v", waiting.Outcome())
	}
}
