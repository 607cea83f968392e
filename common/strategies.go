package common

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	SSTUI_HOME_VARIABLE = `SSTUI_HOME`
	USERDATA_FILE       = `userdata.yaml`
)

type (
	// LocationStrategy decides where the program keeps its user data and
	// where downloaded binaries get unpacked.
	LocationStrategy interface {
		ForceHome(string)
		HomeVariable() string
		Home() string
		UserdataFile() string
	}

	portableStrategy struct {
		forcedHome string
		executable func() (string, error)
	}
)

func PortableMode() LocationStrategy {
	return &portableStrategy{executable: os.Executable}
}

func (it *portableStrategy) ForceHome(value string) {
	it.forcedHome = value
}

func (it *portableStrategy) HomeVariable() string {
	return SSTUI_HOME_VARIABLE
}

func (it *portableStrategy) Home() string {
	if len(it.forcedHome) > 0 {
		return ExpandPath(it.forcedHome)
	}
	if home := os.Getenv(SSTUI_HOME_VARIABLE); len(home) > 0 {
		return ExpandPath(home)
	}
	return ExecutableDir(it.executable)
}

func (it *portableStrategy) UserdataFile() string {
	return filepath.Join(it.Home(), USERDATA_FILE)
}

// ExecutableDir returns directory of running binary, or "." when that
// cannot be resolved.
func ExecutableDir(locate func() (string, error)) string {
	if locate == nil {
		locate = os.Executable
	}
	location, err := locate()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(location); err == nil {
		location = resolved
	}
	return filepath.Dir(location)
}

func ExpandPath(entry string) string {
	if strings.HasPrefix(entry, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			entry = filepath.Join(home, entry[1:])
		}
	}
	result, err := filepath.Abs(os.ExpandEnv(entry))
	if err != nil {
		return entry
	}
	return result
}
