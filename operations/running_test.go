package operations_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/joshyorko/sstui/logbuf"
	"github.com/joshyorko/sstui/operations"
	"github.com/joshyorko/sstui/subscription"
)

func sampleSpec(executable string) operations.LaunchSpec {
	return operations.LaunchSpec{
		Executable: executable,
		Server:     subscription.Server{Server: "example.com", ServerPort: 8388, Method: "aes-256-gcm", Password: "secret"},
		LocalPort:  10808,
		UdpRelay:   true,
		Verbose:    true,
	}
}

func TestArgumentsShape(t *testing.T) {
	spec := sampleSpec("sslocal")
	spec.ExtraArgs = `--acl "my rules.acl"`
	args, err := spec.Arguments()
	if err != nil {
		t.Fatal(err)
	}
	expected := []string{"-b", "127.0.0.1:10808", "-s", "example.com:8388", "-m", "aes-256-gcm", "-k", "secret", "-U", "-v", "--acl", "my rules.acl"}
	if strings.Join(args, "|") != strings.Join(expected, "|") {
		t.Errorf("expected %q, got %q", expected, args)
	}

	spec.LanSupport = true
	spec.UdpRelay = false
	spec.Verbose = false
	spec.ExtraArgs = ""
	args, _ = spec.Arguments()
	if args[1] != "0.0.0.0:10808" || len(args) != 8 {
		t.Errorf("unexpected lan arguments %q", args)
	}

	spec.ExtraArgs = `"unclosed`
	if _, err := spec.Arguments(); err == nil {
		t.Error("broken quoting should fail")
	}
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are unix only")
	}
	filename := filepath.Join(t.TempDir(), "fake-sslocal")
	if err := os.WriteFile(filename, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
	return filename
}

func eventually(t *testing.T, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !condition() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSessionCapturesOutputAndStops(t *testing.T) {
	script := writeScript(t, "echo \"listening $2\"\necho \"ERROR oops\" 1>&2\nexec sleep 30\n")
	logs := logbuf.NewLogBuffer(50)

	session, err := operations.Launch(sampleSpec(script), logs)
	if err != nil {
		t.Fatal(err)
	}
	eventually(t, func() bool { return logs.Len() >= 2 })
	if !session.Running() {
		t.Fatal("session should be running")
	}
	if line := session.LastLine(); line != "listening 127.0.0.1:10808" && line != "ERROR oops" {
		t.Errorf("unexpected last line %q", line)
	}
	if stats := logs.Stats(); stats.Errors != 1 {
		t.Errorf("stderr line should be captured as error, got %+v", stats)
	}

	session.Stop()
	select {
	case <-session.Done():
	case <-time.After(3 * time.Second):
		t.Fatal("session did not die after stop")
	}
	session.Stop()
	if session.Running() {
		t.Error("session should be stopped")
	}
}

func TestLaunchMissingExecutable(t *testing.T) {
	_, err := operations.Launch(sampleSpec(filepath.Join(t.TempDir(), "missing")), nil)
	if err == nil {
		t.Fatal("expected launch failure")
	}
}

func TestFindSslocalAndProbe(t *testing.T) {
	script := writeScript(t, "echo 'shadowsocks 1.18.2'\n")
	home := t.TempDir()
	t.Setenv("PATH", "")

	if _, err := operations.FindSslocal("", home); err == nil {
		t.Error("expected missing sslocal")
	}
	found, err := operations.FindSslocal(script, home)
	if err != nil || found != script {
		t.Fatalf("configured path should win, got %q %v", found, err)
	}
	beside := filepath.Join(home, operations.SslocalName())
	os.WriteFile(beside, []byte("x"), 0o755)
	found, err = operations.FindSslocal("", home)
	if err != nil || found != beside {
		t.Fatalf("expected %q, got %q %v", beside, found, err)
	}

	version, err := operations.ProbeVersion(script)
	if err != nil || version != "shadowsocks 1.18.2" {
		t.Fatalf("unexpected probe result %q %v", version, err)
	}
}
