// Package progresscore tracks the state of one asset download, shared by the
// download pipeline, the TUI overlay and the CLI progress bar.
package progresscore

import (
	"sync"
	"time"
)

type DownloadState int

const (
	Pending DownloadState = iota
	Fetching
	Extracting
	Installed
	Failed
	Cancelled
)

func (it DownloadState) String() string {
	switch it {
	case Pending:
		return "pending"
	case Fetching:
		return "fetching"
	case Extracting:
		return "extracting"
	case Installed:
		return "installed"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

func (it DownloadState) Terminal() bool {
	return it == Installed || it == Failed || it == Cancelled
}

// DownloadTracker ensures state and byte count only move forward.
type DownloadTracker struct {
	name      string
	total     int64
	state     DownloadState
	reason    string
	bytes     int64
	startTime time.Time
	fetchTime time.Time
	endTime   time.Time
	mu        sync.RWMutex
	onUpdate  func()
}

// DownloadStats is a point in time copy of tracker state.
type DownloadStats struct {
	Name    string
	State   DownloadState
	Reason  string
	Bytes   int64
	Total   int64
	Ratio   float64
	Elapsed time.Duration
	Rate    float64
	ETA     time.Duration
}

func NewDownloadTracker(name string, total int64) *DownloadTracker {
	return &DownloadTracker{
		name:  name,
		total: total,
		state: Pending,
	}
}

// SetOnUpdate sets a callback for when tracker changes
func (dt *DownloadTracker) SetOnUpdate(fn func()) {
	dt.mu.Lock()
	defer dt.mu.Unlock()
	dt.onUpdate = fn
}

// canTransition checks if a state transition is valid (forward-only)
func canTransition(from, to DownloadState) bool {
	switch from {
	case Pending:
		return to == Fetching || to == Failed
	case Fetching:
		return to == Extracting || to == Failed || to == Cancelled
	case Extracting:
		return to == Installed || to == Failed || to == Cancelled
	default:
		return false
	}
}

func (dt *DownloadTracker) transition(to DownloadState, reason string) bool {
	dt.mu.Lock()
	if !canTransition(dt.state, to) {
		dt.mu.Unlock()
		return false
	}
	now := time.Now()
	switch to {
	case Fetching:
		dt.startTime = now
	case Extracting:
		dt.fetchTime = now
	default:
		dt.endTime = now
	}
	dt.state = to
	dt.reason = reason
	callback := dt.onUpdate
	dt.mu.Unlock()

	if callback != nil {
		callback()
	}
	return true
}

func (dt *DownloadTracker) Begin() bool {
	return dt.transition(Fetching, "")
}

func (dt *DownloadTracker) Extract() bool {
	return dt.transition(Extracting, "")
}

func (dt *DownloadTracker) Install() bool {
	return dt.transition(Installed, "")
}

func (dt *DownloadTracker) Fail(reason string) bool {
	return dt.transition(Failed, reason)
}

func (dt *DownloadTracker) Cancel() bool {
	return dt.transition(Cancelled, "cancelled by user")
}

// Observe records consumed byte count; lower values than already seen are ignored.
func (dt *DownloadTracker) Observe(bytes int64) {
	dt.mu.Lock()
	if bytes <= dt.bytes || dt.state.Terminal() {
		dt.mu.Unlock()
		return
	}
	dt.bytes = bytes
	callback := dt.onUpdate
	dt.mu.Unlock()

	if callback != nil {
		callback()
	}
}

func (dt *DownloadTracker) State() DownloadState {
	dt.mu.RLock()
	defer dt.mu.RUnlock()
	return dt.state
}

func (dt *DownloadTracker) Stats() DownloadStats {
	dt.mu.RLock()
	defer dt.mu.RUnlock()

	stats := DownloadStats{
		Name:   dt.name,
		State:  dt.state,
		Reason: dt.reason,
		Bytes:  dt.bytes,
		Total:  dt.total,
	}
	if dt.total > 0 {
		stats.Ratio = float64(dt.bytes) / float64(dt.total)
		if stats.Ratio > 1 {
			stats.Ratio = 1
		}
	}
	if dt.startTime.IsZero() {
		return stats
	}
	finish := dt.endTime
	if finish.IsZero() {
		finish = time.Now()
	}
	stats.Elapsed = finish.Sub(dt.startTime)

	fetching := stats.Elapsed
	if !dt.fetchTime.IsZero() {
		fetching = dt.fetchTime.Sub(dt.startTime)
	}
	if seconds := fetching.Seconds(); seconds > 0 {
		stats.Rate = float64(dt.bytes) / seconds
	}
	if dt.state == Fetching && stats.Rate > 0 && dt.total > dt.bytes {
		stats.ETA = time.Duration(float64(dt.total-dt.bytes) / stats.Rate * float64(time.Second))
	}
	return stats
}
