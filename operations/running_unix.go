//go:build !windows

package operations

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// isolate puts sslocal into its own process group, so the whole group can
// be killed at once.
func isolate(command *exec.Cmd) {
	command.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func terminate(command *exec.Cmd) error {
	if command.Process == nil {
		return nil
	}
	pid := command.Process.Pid
	if err := unix.Kill(-pid, unix.SIGKILL); err != nil {
		return command.Process.Kill()
	}
	return nil
}
