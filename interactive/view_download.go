package interactive

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/dustin/go-humanize"

	"github.com/joshyorko/sstui/anywork"
	"github.com/joshyorko/sstui/common"
	"github.com/joshyorko/sstui/dialog"
	"github.com/joshyorko/sstui/layer"
	"github.com/joshyorko/sstui/operations"
	"github.com/joshyorko/sstui/progresscore"
)

const megabyte = 1024 * 1024

// gauge renders download progress from counter the worker updates.
type gauge struct {
	bar     progress.Model
	counter *anywork.Counter
	tracker *progresscore.DownloadTracker
}

func newGauge(tracker *progresscore.DownloadTracker, counter *anywork.Counter) *gauge {
	return &gauge{
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		counter: counter,
		tracker: tracker,
	}
}

func sizeLine(done, total int64) string {
	return fmt.Sprintf("%.1f MB / %.1f MB", float64(done)/megabyte, float64(total)/megabyte)
}

func (it *gauge) View(width int) string {
	stats := it.tracker.Stats()
	done := it.counter.Load()
	ratio := 0.0
	if stats.Total > 0 {
		ratio = float64(done) / float64(stats.Total)
	}
	if ratio > 1 {
		ratio = 1
	}
	barWidth := width/2 - 8
	if barWidth < 10 {
		barWidth = 10
	}
	it.bar.Width = barWidth
	detail := sizeLine(done, stats.Total)
	if stats.Rate > 0 && stats.State == progresscore.Fetching {
		detail = fmt.Sprintf("%s  %s/s", detail, humanize.Bytes(uint64(stats.Rate)))
	}
	return it.bar.ViewAs(ratio) + "\n" + detail + "  " + stats.State.String()
}

// startDownload runs pipeline for asset behind a cancelable gauge overlay.
// then gets true when sslocal was installed.
func startDownload(stack *layer.Stack, ctx *Context, asset *operations.Asset, then func(installed bool)) {
	finish := func(installed bool) {
		if then != nil {
			then(installed)
		}
	}
	source, err := ctx.Download()
	if err != nil {
		dialog.Fail(stack, operations.Describe(err), func() { finish(false) })
		return
	}
	tracker := progresscore.NewDownloadTracker(asset.Name, asset.Size)
	pipeline := operations.NewPipeline(source, ctx.Home)
	pipeline.Tracker = tracker
	token := anywork.NewCancelToken()
	counter := &anywork.Counter{}

	handle := anywork.Spawn(func() (struct{}, error) {
		return struct{}{}, pipeline.Acquire(asset, token, counter)
	})
	body := newGauge(tracker, counter)
	waiting := dialog.NewCancelable(fmt.Sprintf("Downloading %s", asset.Name), handle, token).
		Await().
		WithBody(body.View)

	dialog.Wait(stack, waiting, func(it *dialog.Cancelable[struct{}]) {
		_, err := it.Result()
		switch {
		case it.Outcome() == dialog.Complete && err == nil:
			common.Log("Installed %s into %s.", asset.Name, ctx.Home)
			dialog.Tell(stack, "Installed", fmt.Sprintf("%s unpacked into %s", asset.Name, ctx.Home), func() { finish(true) })
		case errors.Is(err, operations.ErrCancelled):
			common.Log("Download of %s cancelled.", asset.Name)
			finish(false)
		case err != nil:
			common.Error("download", err)
			dialog.Fail(stack, operations.Describe(err), func() { finish(false) })
		default:
			common.Log("Download of %s stopped at %s.", asset.Name, tracker.State())
			finish(tracker.State() == progresscore.Installed)
		}
	})
}
