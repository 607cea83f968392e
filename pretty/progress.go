package pretty

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"
	"golang.org/x/time/rate"

	"github.com/joshyorko/sstui/common"
	"github.com/joshyorko/sstui/progresscore"
)

const redrawInterval = 100 * time.Millisecond

// ProgressIndicator defines the interface for progress visualization
type ProgressIndicator interface {
	Start()
	Stop(success bool)
	IsRunning() bool
}

// getTerminalWidth returns the terminal width or 80 as fallback
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		common.Trace("Failed to get terminal width, using fallback: %v", err)
		return 80
	}
	return width
}

// setupSignalHandler restores cursor visibility on Ctrl+C
func setupSignalHandler(cleanup func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cleanup()
		os.Exit(1)
	}()
}

func finalMark(success bool) (string, string) {
	switch {
	case success && Iconic:
		return "✓", Green
	case success:
		return "[OK]", Green
	case Iconic:
		return "✗", Red
	default:
		return "[FAIL]", Red
	}
}

// Spinner shows a rotating frame while something is fetched.
type Spinner struct {
	message  string
	frames   []string
	running  bool
	stopChan chan bool
	mu       sync.Mutex
}

func NewSpinner(message string) *Spinner {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	if !Interactive || !Iconic {
		frames = []string{"|", "/", "-", "\\"}
	}
	return &Spinner{
		message:  message,
		frames:   frames,
		stopChan: make(chan bool, 1),
	}
}

func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	if !Interactive {
		common.Stdout("%s\n", s.message)
		return
	}
	setupSignalHandler(cleanupLine)
	common.Stdout("%s", csif("?25l"))
	go s.animate()
}

func (s *Spinner) animate() {
	ticker := time.NewTicker(redrawInterval)
	defer ticker.Stop()

	for index := 0; ; index = (index + 1) % len(s.frames) {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			common.Stdout("\r%s%s %s", csif("0K"), s.frames[index], s.message)
		}
	}
}

func (s *Spinner) Stop(success bool) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	if !Interactive {
		return
	}
	s.stopChan <- true
	cleanupLine()
	status, color := finalMark(success)
	common.Stdout("\r%s%s%s %s%s\n", csif("0K"), color, status, s.message, Reset)
}

func (s *Spinner) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// DownloadBar draws tracker progress on one line. Redraws are throttled,
// since tracker reports after every chunk.
type DownloadBar struct {
	tracker *progresscore.DownloadTracker
	limiter *rate.Limiter
	width   int
	running bool
	mu      sync.Mutex
}

func NewDownloadBar(tracker *progresscore.DownloadTracker) *DownloadBar {
	return &DownloadBar{
		tracker: tracker,
		limiter: rate.NewLimiter(rate.Every(redrawInterval), 1),
		width:   getTerminalWidth(),
	}
}

func (p *DownloadBar) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.mu.Unlock()

	p.tracker.SetOnUpdate(p.Refresh)
	if !Interactive {
		common.Stdout("Downloading %s ...\n", p.tracker.Stats().Name)
		return
	}
	common.Stdout("%s", csif("?25l"))
	p.draw()
}

// Refresh redraws, unless last redraw was too recent.
func (p *DownloadBar) Refresh() {
	if Interactive && p.IsRunning() && p.limiter.Allow() {
		p.draw()
	}
}

func (p *DownloadBar) Stop(success bool) {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.mu.Unlock()

	p.tracker.SetOnUpdate(nil)
	stats := p.tracker.Stats()
	status, color := finalMark(success)
	summary := fmt.Sprintf("%s %s in %s", stats.Name, humanize.Bytes(uint64(stats.Bytes)), stats.Elapsed.Round(time.Millisecond))
	if len(stats.Reason) > 0 {
		summary = fmt.Sprintf("%s (%s)", summary, stats.Reason)
	}
	if !Interactive {
		common.Stdout("%s %s\n", status, summary)
		return
	}
	cleanupLine()
	common.Stdout("\r%s%s%s %s%s\n", csif("0K"), color, status, summary, Reset)
}

func (p *DownloadBar) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *DownloadBar) draw() {
	common.Stdout("\r%s%s", csif("0K"), p.Line())
}

// Line renders "[=====>    ]  45% 1.2 MB / 2.7 MB fetching".
func (p *DownloadBar) Line() string {
	stats := p.tracker.Stats()
	percentage := int(stats.Ratio * 100)
	detail := fmt.Sprintf("%s / %s", humanize.Bytes(uint64(stats.Bytes)), humanize.Bytes(uint64(stats.Total)))
	if stats.ETA > 0 {
		detail = fmt.Sprintf("%s %s left", detail, stats.ETA.Round(time.Second))
	}
	state := stats.State.String()
	state = StateColor(state) + state + Reset

	barWidth := p.width - len(detail) - len(stats.State.String()) - 12
	if barWidth < 10 {
		barWidth = 10
	}
	if barWidth > 50 {
		barWidth = 50
	}
	filled := percentage * barWidth / 100
	bar := strings.Repeat("=", filled)
	if filled > 0 && filled < barWidth {
		bar = bar[:filled-1] + ">"
	}
	bar += strings.Repeat(" ", barWidth-len(bar))
	return fmt.Sprintf("[%s] %3d%% %s %s", bar, percentage, detail, state)
}

func cleanupLine() {
	common.Stdout("\r%s", csif("0K"))
	common.Stdout("%s", csif("?25h"))
}
