package pretty

import (
	"fmt"

	"github.com/joshyorko/sstui/common"
)

func Ok() {
	common.Log("%sOK.%s", Green, Reset)
}

func Warning(format string, rest ...interface{}) {
	common.Log("%sWarning: %s%s", Yellow, fmt.Sprintf(format, rest...), Reset)
}

// Exit unwinds to main through panic, so deferred cleanups still run.
func Exit(code int, format string, rest ...interface{}) {
	var message string
	if len(format) > 0 {
		message = fmt.Sprintf(format, rest...)
		if code != 0 {
			message = Red + message + Reset
		}
	}
	panic(common.ExitCode{Code: code, Message: message})
}

func Guard(truth bool, code int, format string, rest ...interface{}) {
	if !truth {
		Exit(code, format, rest...)
	}
}
