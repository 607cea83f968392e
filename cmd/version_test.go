package cmd

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/joshyorko/sstui/operations"
)

func captureStdout(t *testing.T, work func()) string {
	t.Helper()
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	saved := os.Stdout
	os.Stdout = writer
	work()
	os.Stdout = saved
	writer.Close()
	output, err := io.ReadAll(reader)
	if err != nil {
		t.Fatal(err)
	}
	return string(output)
}

func TestReportSslocalMissing(t *testing.T) {
	t.Setenv("PATH", "")
	var found bool
	output := captureStdout(t, func() {
		found = reportSslocal("", t.TempDir())
	})
	if found {
		t.Error("nothing should be found in empty home")
	}
	if !strings.Contains(output, "sslocal: None") {
		t.Errorf("expected None notice, got %q", output)
	}
}

func TestReportSslocalVersion(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses shell script as sslocal")
	}
	home := t.TempDir()
	script := "#!/bin/sh\necho 'shadowsocks 1.21.2'\n"
	if err := os.WriteFile(filepath.Join(home, operations.SslocalName()), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	var found bool
	output := captureStdout(t, func() {
		found = reportSslocal("", home)
	})
	if !found || !strings.Contains(output, "sslocal: shadowsocks 1.21.2") {
		t.Errorf("expected version line, got %q (found %v)", output, found)
	}
}

func TestReportSslocalSilentBinary(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses shell script as sslocal")
	}
	home := t.TempDir()
	script := "#!/bin/sh\nexit 3\n"
	if err := os.WriteFile(filepath.Join(home, operations.SslocalName()), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	var found bool
	output := captureStdout(t, func() {
		found = reportSslocal("", home)
	})
	if found || !strings.Contains(output, "did not report a version") {
		t.Errorf("expected probe failure line, got %q (found %v)", output, found)
	}
}
