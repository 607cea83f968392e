package dialog

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshyorko/sstui/layer"
)

type Answer int

const (
	No Answer = iota
	Yes
)

func (it Answer) String() string {
	if it == Yes {
		return "Yes"
	}
	return "No"
}

// Confirm asks a yes/no question; No is highlighted first.
type Confirm struct {
	message string
	choice  Answer
	done    bool
}

func NewConfirm(message string) *Confirm {
	return &Confirm{message: message, choice: No}
}

// Ask pushes a confirmation and calls then with the answer once it closes.
func Ask(stack *layer.Stack, message string, then func(Answer)) *Confirm {
	confirm := NewConfirm(message)
	stack.Push(confirm, func(layer.Layer) {
		if then != nil {
			then(confirm.choice)
		}
	})
	return confirm
}

func (it *Confirm) Answer() Answer {
	return it.choice
}

func (it *Confirm) Update(stack *layer.Stack, msg tea.Msg) error {
	press, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch press.Type {
	case tea.KeyLeft:
		it.choice = Yes
	case tea.KeyRight:
		it.choice = No
	case tea.KeyTab:
		if it.choice == Yes {
			it.choice = No
		} else {
			it.choice = Yes
		}
	case tea.KeyEnter:
		it.done = true
	case tea.KeyEsc:
		it.choice = No
		it.done = true
	}
	return nil
}

func (it *Confirm) Done() bool {
	return it.done
}

func (it *Confirm) Transparent() bool {
	return true
}

func (it *Confirm) View(width, height int) string {
	styles := DefaultStyles
	yes, no := styles.Button, styles.Button
	if it.choice == Yes {
		yes = styles.ButtonActive
	} else {
		no = styles.ButtonActive
	}
	buttons := yes.Render("Yes") + "   " + no.Render("No")
	return frame(styles.Box, width, styles.Message.Render(it.message), "", buttons)
}
