package operations

import (
	"fmt"
	"io"
	"net"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/shlex"
	"github.com/google/uuid"

	"github.com/joshyorko/sstui/common"
	"github.com/joshyorko/sstui/logbuf"
	"github.com/joshyorko/sstui/subscription"
)

// LaunchSpec is everything needed to start one sslocal child.
type LaunchSpec struct {
	Executable string
	Server     subscription.Server
	LocalPort  uint16
	LanSupport bool
	UdpRelay   bool
	Verbose    bool
	ExtraArgs  string
}

func (it LaunchSpec) BindAddress() string {
	host := "127.0.0.1"
	if it.LanSupport {
		host = "0.0.0.0"
	}
	return net.JoinHostPort(host, strconv.Itoa(int(it.LocalPort)))
}

// Arguments builds sslocal command line, without executable itself.
func (it LaunchSpec) Arguments() ([]string, error) {
	args := []string{
		"-b", it.BindAddress(),
		"-s", it.Server.Address(),
		"-m", it.Server.Method,
		"-k", it.Server.Password,
	}
	if it.UdpRelay {
		args = append(args, "-U")
	}
	if it.Verbose {
		args = append(args, "-v")
	}
	extra, err := shlex.Split(it.ExtraArgs)
	if err != nil {
		return nil, fmt.Errorf("bad extra arguments %q: %w", it.ExtraArgs, err)
	}
	return append(args, extra...), nil
}

// lineWriter splits child output into lines, keeps the latest one and feeds
// every line into the log buffer, until stop flag is raised.
type lineWriter struct {
	session *Session
	buffer  []byte
}

func (w *lineWriter) Write(p []byte) (n int, err error) {
	for _, b := range p {
		if b == '\n' {
			w.session.observe(string(w.buffer))
			w.buffer = w.buffer[:0]
		} else {
			w.buffer = append(w.buffer, b)
		}
	}
	return len(p), nil
}

// Session is one running sslocal child process.
type Session struct {
	id       string
	command  *exec.Cmd
	logs     *logbuf.LogBuffer
	stopped  atomic.Bool
	done     chan struct{}
	mu       sync.RWMutex
	lastLine string
	exitErr  error
}

// Launch starts sslocal. Stdout and stderr are merged into the same line
// capture. Caller owns the session and must Stop it.
func Launch(spec LaunchSpec, logs *logbuf.LogBuffer) (*Session, error) {
	args, err := spec.Arguments()
	if err != nil {
		return nil, err
	}
	session := &Session{
		id:   uuid.NewString()[:8],
		logs: logs,
		done: make(chan struct{}),
	}
	writer := &lineWriter{session: session, buffer: make([]byte, 0, 256)}
	session.command = exec.Command(spec.Executable, args...)
	session.command.Stdout = writer
	session.command.Stderr = writer
	session.command.Stdin = nil
	isolate(session.command)

	if err := session.command.Start(); err != nil {
		return nil, fmt.Errorf("starting %q failed: %w", spec.Executable, err)
	}
	common.Log("Session %s: started sslocal pid %d for %s on %s.", session.id, session.command.Process.Pid, spec.Server.Title(), spec.BindAddress())
	common.Trace("Session %s: %s %s", session.id, spec.Executable, strings.Join(redacted(args), " "))
	go session.wait()
	return session, nil
}

func redacted(args []string) []string {
	result := make([]string, len(args))
	copy(result, args)
	for index := 0; index+1 < len(result); index++ {
		if result[index] == "-k" {
			result[index+1] = "******"
		}
	}
	return result
}

func (it *Session) wait() {
	err := it.command.Wait()
	it.mu.Lock()
	it.exitErr = err
	it.mu.Unlock()
	close(it.done)
	if !it.stopped.Load() {
		common.Log("Session %s: sslocal exited: %v", it.id, err)
	}
}

func (it *Session) observe(line string) {
	if it.stopped.Load() {
		return
	}
	line = strings.TrimRight(line, "\r")
	it.mu.Lock()
	it.lastLine = line
	it.mu.Unlock()
	if it.logs != nil {
		it.logs.AddLine("sslocal", line)
	}
}

func (it *Session) ID() string {
	return it.id
}

func (it *Session) Pid() int {
	return it.command.Process.Pid
}

// LastLine is the most recent output line, safe to call from render loop.
func (it *Session) LastLine() string {
	it.mu.RLock()
	defer it.mu.RUnlock()
	return it.lastLine
}

func (it *Session) Running() bool {
	select {
	case <-it.done:
		return false
	default:
		return true
	}
}

// ExitError reports how the child ended, nil while running.
func (it *Session) ExitError() error {
	it.mu.RLock()
	defer it.mu.RUnlock()
	return it.exitErr
}

// Stop raises stop flag and kills the child unconditionally. It does not
// wait for the process to go away.
func (it *Session) Stop() {
	if it == nil || it.stopped.Swap(true) {
		return
	}
	if err := terminate(it.command); err != nil && it.Running() {
		common.Uncritical("session stop", err)
	}
	common.Debug("Session %s: stop requested.", it.id)
}

// Done is closed once the child has been reaped.
func (it *Session) Done() <-chan struct{} {
	return it.done
}

var _ io.Writer = (*lineWriter)(nil)
