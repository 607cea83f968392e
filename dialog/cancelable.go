package dialog

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshyorko/sstui/anywork"
	"github.com/joshyorko/sstui/layer"
)

type Outcome int

const (
	Pending Outcome = iota
	// Complete means work finished and its result was joined.
	Complete
	// Canceled means user asked to stop and the token was raised.
	Canceled
	// Detached means user stopped waiting but work keeps running, since
	// there was no token to raise.
	Detached
)

func (it Outcome) String() string {
	switch it {
	case Complete:
		return "complete"
	case Canceled:
		return "canceled"
	case Detached:
		return "detached"
	default:
		return "pending"
	}
}

// Cancelable waits for a background handle. Enter or Esc stops waiting and
// raises token when there is one. With Await, dialog stays open after
// cancel until worker returns.
type Cancelable[T any] struct {
	message    string
	handle     *anywork.Handle[T]
	token      *anywork.CancelToken
	await      bool
	cancelling bool
	body       func(width int) string
	started    time.Time
	outcome    Outcome
	value      T
	err        error
}

func NewCancelable[T any](message string, handle *anywork.Handle[T], token *anywork.CancelToken) *Cancelable[T] {
	return &Cancelable[T]{
		message: message,
		handle:  handle,
		token:   token,
		started: time.Now(),
	}
}

// Await keeps dialog open after cancel until worker acknowledges it.
func (it *Cancelable[T]) Await() *Cancelable[T] {
	it.await = it.token != nil
	return it
}

// WithBody replaces spinner line with custom content, like progress gauge.
func (it *Cancelable[T]) WithBody(body func(width int) string) *Cancelable[T] {
	it.body = body
	return it
}

// Wait pushes dialog and hands it to then once it closes.
func Wait[T any](stack *layer.Stack, dialog *Cancelable[T], then func(*Cancelable[T])) {
	stack.Push(dialog, func(layer.Layer) {
		if then != nil {
			then(dialog)
		}
	})
}

func (it *Cancelable[T]) Result() (T, error) {
	return it.value, it.err
}

func (it *Cancelable[T]) Outcome() Outcome {
	return it.outcome
}

func (it *Cancelable[T]) Cancelling() bool {
	return it.cancelling
}

func (it *Cancelable[T]) Update(stack *layer.Stack, msg tea.Msg) error {
	if it.outcome != Pending {
		return nil
	}
	if it.handle.IsFinished() {
		it.value, it.err = it.handle.Join()
		it.outcome = Complete
		if it.cancelling {
			it.outcome = Canceled
		}
		return nil
	}
	press, ok := msg.(tea.KeyMsg)
	if !ok || it.cancelling {
		return nil
	}
	switch press.Type {
	case tea.KeyEnter, tea.KeyEsc:
		if it.token == nil {
			it.outcome = Detached
			return nil
		}
		it.token.Cancel()
		if it.await {
			it.cancelling = true
			return nil
		}
		it.outcome = Canceled
	}
	return nil
}

func (it *Cancelable[T]) Done() bool {
	return it.outcome != Pending
}

func (it *Cancelable[T]) Transparent() bool {
	return true
}

func (it *Cancelable[T]) View(width, height int) string {
	styles := DefaultStyles
	status := ""
	if it.body != nil {
		status = it.body(width)
	} else {
		frames := spinner.Dot.Frames
		index := int(time.Since(it.started)/spinner.Dot.FPS) % len(frames)
		status = frames[index] + " " + styles.Muted.Render("working")
	}
	button := styles.ButtonActive.Render("Cancel")
	if it.cancelling {
		button = styles.Muted.Render("Cancelling…")
	}
	return frame(styles.Box, width, styles.Message.Render(it.message), "", status, "", button)
}
