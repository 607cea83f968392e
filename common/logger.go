package common

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	logsource  = make(logwriters)
	logbarrier = sync.WaitGroup{}

	// logInterceptor allows the TUI to capture log output while it owns the screen.
	// When set and returns true, the message is considered handled and won't be printed.
	logInterceptor func(level log.Level, message string) bool
	logMu          sync.RWMutex

	sink = log.NewWithOptions(os.Stderr, log.Options{Level: log.DebugLevel})
)

// SetLogInterceptor sets a function that intercepts log messages.
func SetLogInterceptor(interceptor func(level log.Level, message string) bool) {
	logMu.Lock()
	logInterceptor = interceptor
	logMu.Unlock()
}

// ClearLogInterceptor removes the current log interceptor
func ClearLogInterceptor() {
	logMu.Lock()
	logInterceptor = nil
	logMu.Unlock()
}

// SetLogOutput redirects the log sink, for example into a log file.
func SetLogOutput(out io.Writer) {
	logMu.Lock()
	sink = log.NewWithOptions(out, log.Options{Level: log.DebugLevel, ReportTimestamp: TraceFlag()})
	logMu.Unlock()
}

func interceptLog(level log.Level, message string) bool {
	logMu.RLock()
	interceptor := logInterceptor
	logMu.RUnlock()

	if interceptor != nil {
		return interceptor(level, message)
	}
	return false
}

func currentSink() *log.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return sink
}

type logwriter func() (log.Level, string)
type logwriters chan logwriter

func loggerLoop(writers logwriters) {
	line := uint64(0)
	for todo := range writers {
		line += 1
		level, message := todo()
		if LogLinenumbers {
			message = fmt.Sprintf("%3d %s", line, message)
		}
		currentSink().Log(level, message)
		logbarrier.Done()
	}
}

func init() {
	go loggerLoop(logsource)
}

func AcceptableOutput(message string) bool {
	for _, fragment := range LogHides {
		if strings.Contains(message, fragment) {
			return false
		}
	}
	return true
}

func printout(level log.Level, message string) {
	if !AcceptableOutput(message) {
		return
	}
	if interceptLog(level, message) {
		return
	}
	logbarrier.Add(1)
	logsource <- func() (log.Level, string) {
		return level, message
	}
}

func Fatal(context string, err error) {
	if err != nil {
		printout(log.FatalLevel, fmt.Sprintf("Fatal [%s]: %v", context, err))
	}
}

func Error(context string, err error) {
	if err != nil {
		printout(log.ErrorLevel, fmt.Sprintf("Error [%s]: %v", context, err))
	}
}

func Uncritical(context string, err error) {
	if err != nil {
		printout(log.WarnLevel, fmt.Sprintf("Warning [%s; not critical]: %v", context, err))
	}
}

func Log(format string, details ...interface{}) {
	if !Silent() {
		printout(log.InfoLevel, fmt.Sprintf(format, details...))
	}
}

func Debug(format string, details ...interface{}) error {
	if DebugFlag() {
		printout(log.DebugLevel, fmt.Sprintf(format, details...))
	}
	return nil
}

func Trace(format string, details ...interface{}) error {
	if TraceFlag() {
		printout(log.DebugLevel, fmt.Sprintf("[T] "+format, details...))
	}
	return nil
}

// Timeline marks a step of a longer operation; visible with --trace.
func Timeline(format string, details ...interface{}) {
	Trace("timeline: "+format, details...)
}

func Stdout(format string, details ...interface{}) {
	message := format
	if len(details) > 0 {
		message = fmt.Sprintf(format, details...)
	}
	if AcceptableOutput(message) {
		fmt.Fprint(os.Stdout, message)
		os.Stdout.Sync()
	}
}

func WaitLogs() {
	runtime.Gosched()
	logbarrier.Wait()
}
