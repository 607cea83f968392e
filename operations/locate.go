package operations

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joshyorko/sstui/common"
)

const probeTimeout = 5 * time.Second

func SslocalName() string {
	if runtime.GOOS == "windows" {
		return "sslocal.exe"
	}
	return "sslocal"
}

func isExecutable(location string) bool {
	stat, err := os.Stat(location)
	return err == nil && stat.Mode().IsRegular()
}

// FindSslocal looks for sslocal in configured location, then beside the
// running binary (home), then on PATH.
func FindSslocal(configured, home string) (string, error) {
	if len(configured) > 0 {
		candidate := common.ExpandPath(configured)
		if isExecutable(candidate) {
			return candidate, nil
		}
		common.Debug("Configured sslocal %q is not usable.", candidate)
	}
	candidate := filepath.Join(home, SslocalName())
	if isExecutable(candidate) {
		return candidate, nil
	}
	found, err := exec.LookPath(SslocalName())
	if err == nil {
		return found, nil
	}
	return "", fmt.Errorf("%w: looked in %q and PATH", ErrSslocalMissing, home)
}

// ProbeVersion runs "sslocal --version" and returns trimmed first line. It
// blocks, so UI calls it through anywork.Spawn.
func ProbeVersion(executable string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	output, err := exec.CommandContext(ctx, executable, "--version").Output()
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if err != nil {
		return "", fmt.Errorf("probing %q failed: %w", executable, err)
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(output)), "\n")
	return strings.TrimSpace(line), nil
}
