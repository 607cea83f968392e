package common_test

import (
	"testing"
	"time"

	"github.com/joshyorko/sstui/common"
)

func TestCanUseStopwatch(t *testing.T) {
	sut := common.Stopwatch("hello")
	if sut == nil {
		t.Fatal("expected stopwatch")
	}
	limit := common.Duration(100 * time.Millisecond)
	if sut.Report() >= limit {
		t.Errorf("stopwatch reported too much time: %v", sut.Report())
	}
}

func TestDurationFormatsAsSeconds(t *testing.T) {
	if got := common.Duration(1500 * time.Millisecond).String(); got != "1.500" {
		t.Errorf("expected 1.500, got %q", got)
	}
}
