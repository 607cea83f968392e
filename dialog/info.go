package dialog

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshyorko/sstui/layer"
)

// Info shows a message until acknowledged with Enter or Esc.
type Info struct {
	title   string
	message string
	failure bool
	done    bool
}

func NewInfo(title, message string) *Info {
	return &Info{title: title, message: message}
}

func NewError(message string) *Info {
	return &Info{title: "Error", message: message, failure: true}
}

// Tell pushes info dialog, then runs after acknowledgement.
func Tell(stack *layer.Stack, title, message string, then func()) {
	stack.Push(NewInfo(title, message), func(layer.Layer) {
		if then != nil {
			then()
		}
	})
}

// Fail pushes error dialog with already humanized message.
func Fail(stack *layer.Stack, message string, then func()) {
	stack.Push(NewError(message), func(layer.Layer) {
		if then != nil {
			then()
		}
	})
}

func (it *Info) Update(stack *layer.Stack, msg tea.Msg) error {
	if press, ok := msg.(tea.KeyMsg); ok {
		switch press.Type {
		case tea.KeyEnter, tea.KeyEsc:
			it.done = true
		}
	}
	return nil
}

func (it *Info) Done() bool {
	return it.done
}

func (it *Info) Transparent() bool {
	return true
}

func (it *Info) View(width, height int) string {
	styles := DefaultStyles
	box := styles.Box
	if it.failure {
		box = styles.ErrorBox
	}
	lines := []string{}
	if len(it.title) > 0 {
		lines = append(lines, styles.Title.Render(it.title), "")
	}
	lines = append(lines, styles.Message.Render(it.message), "", styles.ButtonActive.Render("OK"))
	return frame(box, width, lines...)
}
