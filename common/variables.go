package common

import (
	"fmt"
	"runtime"
)

const (
	Product = `sstui`
)

var (
	Version        = `v0.4.0`
	LogLinenumbers bool
	LogHides       []string

	verbosity verbosityLevel
)

type verbosityLevel int

const (
	Normal verbosityLevel = iota
	Silence
	Debugging
	Tracing
)

// DefineVerbosity applies the global verbosity flags; trace wins over debug
// and both win over silent.
func DefineVerbosity(silent, debug, trace bool) {
	switch {
	case trace:
		verbosity = Tracing
	case debug:
		verbosity = Debugging
	case silent:
		verbosity = Silence
	default:
		verbosity = Normal
	}
}

func Silent() bool {
	return verbosity == Silence
}

func DebugFlag() bool {
	return verbosity >= Debugging
}

func TraceFlag() bool {
	return verbosity == Tracing
}

func UserAgent() string {
	return fmt.Sprintf("%s/%s (%s %s)", Product, Version, runtime.GOOS, runtime.GOARCH)
}
