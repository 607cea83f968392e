package common

import "github.com/charmbracelet/log"

// ExitCode is panicked by commands that want out; main recovers it, prints
// the message and exits with Code.
type ExitCode struct {
	Code    int
	Message string
}

func (it ExitCode) ShowMessage() {
	if len(it.Message) == 0 {
		return
	}
	if it.Code == 0 {
		Log("%s", it.Message)
	} else {
		printout(log.ErrorLevel, it.Message)
	}
}
