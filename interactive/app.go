package interactive

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/joshyorko/sstui/common"
	"github.com/joshyorko/sstui/dialog"
	"github.com/joshyorko/sstui/layer"
	"github.com/joshyorko/sstui/logbuf"
	"github.com/joshyorko/sstui/settings"
)

const logCapacity = 1000

func levelOf(level log.Level, message string) logbuf.LogLevel {
	switch {
	case level >= log.ErrorLevel:
		return logbuf.LogError
	case level == log.WarnLevel:
		return logbuf.LogWarn
	case level == log.InfoLevel:
		return logbuf.LogInfo
	case strings.HasPrefix(message, "[T]"):
		return logbuf.LogTrace
	default:
		return logbuf.LogDebug
	}
}

// Interceptor routes logger output into buffer, so nothing is printed over
// the alternate screen.
func Interceptor(logs *logbuf.LogBuffer) func(log.Level, string) bool {
	return func(level log.Level, message string) bool {
		logs.Add(levelOf(level, message), common.Product, message)
		return true
	}
}

// Run shows main view until user exits. User data is saved on the way out.
func Run(userdata *settings.UserData, home string) error {
	logs := logbuf.NewLogBuffer(logCapacity)
	ctx := NewContext(userdata, logs, home)
	dialog.DefaultStyles = DialogStyles(DefaultTheme())

	common.SetLogInterceptor(Interceptor(logs))
	defer common.ClearLogInterceptor()

	common.Debug("Starting TUI, home is %q.", home)
	err := layer.Run(layer.NewStack(NewMainView(ctx)))
	ctx.save()
	return err
}
