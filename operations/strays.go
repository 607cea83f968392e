package operations

import (
	"os"
	"strings"

	ps "github.com/mitchellh/go-ps"

	"github.com/joshyorko/sstui/common"
)

type Stray struct {
	Pid        int
	Executable string
}

// FindStrays lists running sslocal processes, except the excluded pids.
func FindStrays(exclude ...int) ([]Stray, error) {
	processes, err := ps.Processes()
	if err != nil {
		return nil, err
	}
	skip := make(map[int]bool, len(exclude)+1)
	skip[os.Getpid()] = true
	for _, pid := range exclude {
		skip[pid] = true
	}
	wanted := strings.ToLower(SslocalName())
	result := []Stray{}
	for _, process := range processes {
		if skip[process.Pid()] {
			continue
		}
		if strings.ToLower(process.Executable()) == wanted {
			result = append(result, Stray{Pid: process.Pid(), Executable: process.Executable()})
		}
	}
	return result, nil
}

// KillStrays kills given processes and returns how many went down.
func KillStrays(strays []Stray) int {
	killed := 0
	for _, stray := range strays {
		process, err := os.FindProcess(stray.Pid)
		if err != nil {
			common.Uncritical("find process", err)
			continue
		}
		if err := process.Kill(); err != nil {
			common.Uncritical("kill process", err)
			continue
		}
		common.Log("Killed stray %s with pid %d.", stray.Executable, stray.Pid)
		killed++
	}
	return killed
}
