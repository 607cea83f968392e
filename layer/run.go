package layer

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshyorko/sstui/common"
)

const pollInterval = 10 * time.Millisecond

type model struct {
	stack *Stack
	err   error
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return Idle{}
	})
}

func (it *model) Init() tea.Cmd {
	if err := it.stack.Prepare(); err != nil {
		it.err = err
		it.stack.CloseAll()
		return tea.Quit
	}
	return tick()
}

func (it *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var next tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		it.stack.Resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			common.Debug("Interrupted, closing all layers.")
			it.stack.CloseAll()
			return it, tea.Quit
		}
	case Idle:
		next = tick()
	}
	if err := it.stack.Dispatch(msg); err != nil {
		it.err = err
		it.stack.CloseAll()
		return it, tea.Quit
	}
	if it.stack.Empty() {
		return it, tea.Quit
	}
	return it, next
}

func (it *model) View() string {
	return it.stack.View()
}

// Run drives stack until it becomes empty. Error from a setup hook or a
// layer update ends the whole session and is returned.
func Run(stack *Stack, options ...tea.ProgramOption) error {
	options = append([]tea.ProgramOption{tea.WithAltScreen()}, options...)
	program := tea.NewProgram(&model{stack: stack}, options...)
	final, err := program.Run()
	if err != nil {
		return err
	}
	if result, ok := final.(*model); ok {
		return result.err
	}
	return nil
}
