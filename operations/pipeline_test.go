package operations_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/joshyorko/sstui/anywork"
	"github.com/joshyorko/sstui/cloud"
	"github.com/joshyorko/sstui/operations"
	"github.com/joshyorko/sstui/progresscore"
)

type fakeSource struct {
	reader io.Reader
	opened int
}

func (it *fakeSource) NewRequest(url string) *cloud.Request {
	return &cloud.Request{Url: url, Headers: map[string]string{}}
}

func (it *fakeSource) Open(request *cloud.Request) (*cloud.Stream, error) {
	it.opened++
	return &cloud.Stream{ReadCloser: io.NopCloser(it.reader), Status: 200}, nil
}

// hookReader calls hook after every successful read.
type hookReader struct {
	reader io.Reader
	reads  int
	hook   func(reads int)
}

func (it *hookReader) Read(p []byte) (int, error) {
	count, err := it.reader.Read(p)
	if count > 0 {
		it.reads++
		it.hook(it.reads)
	}
	return count, err
}

type countingExtractor struct {
	calls int
	size  int
}

func (it *countingExtractor) formats() []operations.Format {
	extract := func(blob []byte, target string, cancel *anywork.CancelToken) error {
		it.calls++
		it.size = len(blob)
		return nil
	}
	return []operations.Format{{Suffix: ".zip", Extract: extract}, {Suffix: ".tar.xz", Extract: extract}}
}

func newTestPipeline(reader io.Reader, extractor *countingExtractor, target string) (*operations.Pipeline, *fakeSource) {
	source := &fakeSource{reader: reader}
	pipeline := operations.NewPipeline(source, target)
	pipeline.ChunkSize = 250
	pipeline.Formats = extractor.formats()
	return pipeline, source
}

func TestAcquireEndToEnd(t *testing.T) {
	extractor := &countingExtractor{}
	chunks := 0
	reader := &hookReader{reader: bytes.NewReader(make([]byte, 1000)), hook: func(int) { chunks++ }}
	pipeline, _ := newTestPipeline(reader, extractor, t.TempDir())
	progress := &anywork.Counter{}

	asset := &operations.Asset{Name: "ss-1.2.3.zip", Size: 1000, DownloadURL: "https://example.com/ss.zip"}
	if err := pipeline.Acquire(asset, anywork.NewCancelToken(), progress); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunks != 4 {
		t.Errorf("expected 4 chunks, got %d", chunks)
	}
	if progress.Load() != 1000 {
		t.Errorf("expected progress 1000, got %d", progress.Load())
	}
	if extractor.calls != 1 || extractor.size != 1000 {
		t.Errorf("extractor should run once with all bytes, got %d calls and %d bytes", extractor.calls, extractor.size)
	}
	if state := pipeline.Tracker.State(); state != progresscore.Installed {
		t.Errorf("expected installed, got %v", state)
	}
}

func TestAcquireEmptyAssetFailsImmediately(t *testing.T) {
	extractor := &countingExtractor{}
	pipeline, source := newTestPipeline(strings.NewReader(""), extractor, t.TempDir())

	err := pipeline.Acquire(&operations.Asset{Name: "empty.zip"}, nil, &anywork.Counter{})
	if !errors.Is(err, operations.ErrEmptyAsset) {
		t.Fatalf("expected ErrEmptyAsset, got %v", err)
	}
	if source.opened != 0 || extractor.calls != 0 {
		t.Error("nothing should be fetched or extracted")
	}
	if pipeline.Tracker.State() != progresscore.Failed {
		t.Errorf("expected failed, got %v", pipeline.Tracker.State())
	}
}

func TestAcquireTruncatedStream(t *testing.T) {
	extractor := &countingExtractor{}
	pipeline, _ := newTestPipeline(bytes.NewReader(make([]byte, 600)), extractor, t.TempDir())
	progress := &anywork.Counter{}

	err := pipeline.Acquire(&operations.Asset{Name: "ss.zip", Size: 1000}, nil, progress)
	if !errors.Is(err, operations.ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	if errors.Is(err, operations.ErrCancelled) {
		t.Error("truncation is not cancellation")
	}
	if extractor.calls != 0 {
		t.Error("truncated download must not be extracted")
	}
	if progress.Load() != 600 {
		t.Errorf("expected progress 600, got %d", progress.Load())
	}
	if pipeline.Tracker.State() != progresscore.Failed {
		t.Errorf("expected failed, got %v", pipeline.Tracker.State())
	}
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestAcquireConnectionErrorIsTruncated(t *testing.T) {
	extractor := &countingExtractor{}
	reader := io.MultiReader(bytes.NewReader(make([]byte, 100)), brokenReader{})
	pipeline, _ := newTestPipeline(reader, extractor, t.TempDir())

	err := pipeline.Acquire(&operations.Asset{Name: "ss.zip", Size: 1000}, nil, &anywork.Counter{})
	if !errors.Is(err, operations.ErrTruncated) || !strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("expected truncated with cause, got %v", err)
	}
}

func TestAcquireOversizedStream(t *testing.T) {
	extractor := &countingExtractor{}
	pipeline, _ := newTestPipeline(bytes.NewReader(make([]byte, 1200)), extractor, t.TempDir())

	err := pipeline.Acquire(&operations.Asset{Name: "ss.zip", Size: 1000}, nil, &anywork.Counter{})
	if !errors.Is(err, operations.ErrSizeMismatch) {
		t.Fatalf("expected ErrSizeMismatch, got %v", err)
	}
	if extractor.calls != 0 {
		t.Error("oversized download must not be extracted")
	}
}

func TestAcquireRejectsHugeAsset(t *testing.T) {
	extractor := &countingExtractor{}
	pipeline, source := newTestPipeline(bytes.NewReader(make([]byte, 10)), extractor, t.TempDir())
	pipeline.MaxSize = 100

	err := pipeline.Acquire(&operations.Asset{Name: "ss.zip", Size: 1 << 62}, nil, &anywork.Counter{})
	if !errors.Is(err, operations.ErrAssetTooLarge) {
		t.Fatalf("expected ErrAssetTooLarge, got %v", err)
	}
	if source.opened != 0 || extractor.calls != 0 {
		t.Error("nothing should be fetched or extracted")
	}
	if pipeline.Tracker.State() != progresscore.Failed {
		t.Errorf("expected failed, got %v", pipeline.Tracker.State())
	}
}

func TestAcquireAgainStartsFreshTracker(t *testing.T) {
	extractor := &countingExtractor{}
	pipeline, source := newTestPipeline(bytes.NewReader(make([]byte, 600)), extractor, t.TempDir())
	asset := &operations.Asset{Name: "ss.zip", Size: 1000}

	if err := pipeline.Acquire(asset, nil, &anywork.Counter{}); !errors.Is(err, operations.ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	first := pipeline.Tracker

	source.reader = bytes.NewReader(make([]byte, 1000))
	if err := pipeline.Acquire(asset, nil, &anywork.Counter{}); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if pipeline.Tracker == first {
		t.Error("finished tracker should be replaced on next acquire")
	}
	if state := pipeline.Tracker.State(); state != progresscore.Installed {
		t.Errorf("expected installed, got %v", state)
	}
	if first.State() != progresscore.Failed {
		t.Errorf("first attempt should stay failed, got %v", first.State())
	}
}

func TestAcquireCancelledBeforeStart(t *testing.T) {
	extractor := &countingExtractor{}
	pipeline, source := newTestPipeline(bytes.NewReader(make([]byte, 1000)), extractor, t.TempDir())
	token := anywork.NewCancelToken()
	token.Cancel()

	err := pipeline.Acquire(&operations.Asset{Name: "ss.zip", Size: 1000}, token, &anywork.Counter{})
	if !errors.Is(err, operations.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if source.opened != 0 {
		t.Error("cancelled acquire should not open stream")
	}
	if pipeline.Tracker.State() != progresscore.Cancelled {
		t.Errorf("expected cancelled, got %v", pipeline.Tracker.State())
	}
}

func TestAcquireCancelledMidStream(t *testing.T) {
	extractor := &countingExtractor{}
	token := anywork.NewCancelToken()
	reader := &hookReader{reader: bytes.NewReader(make([]byte, 1000)), hook: func(reads int) {
		if reads == 2 {
			token.Cancel()
		}
	}}
	pipeline, _ := newTestPipeline(reader, extractor, t.TempDir())
	progress := &anywork.Counter{}

	err := pipeline.Acquire(&operations.Asset{Name: "ss.zip", Size: 1000}, token, progress)
	if !errors.Is(err, operations.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if extractor.calls != 0 {
		t.Error("cancelled download must not be extracted")
	}
	if progress.Load() >= 1000 {
		t.Errorf("cancel should stop before all bytes, got %d", progress.Load())
	}
	if pipeline.Tracker.State() != progresscore.Cancelled {
		t.Errorf("expected cancelled, got %v", pipeline.Tracker.State())
	}
}

func TestAcquireUnsupportedFormat(t *testing.T) {
	extractor := &countingExtractor{}
	pipeline, _ := newTestPipeline(bytes.NewReader(make([]byte, 10)), extractor, t.TempDir())

	err := pipeline.Acquire(&operations.Asset{Name: "ss.7z", Size: 10}, nil, &anywork.Counter{})
	if !errors.Is(err, operations.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if extractor.calls != 0 {
		t.Error("no extractor should be invoked")
	}
}

func TestSupportedSuffixes(t *testing.T) {
	cases := map[string]bool{
		"shadowsocks-v1.18.0.x86_64-pc-windows-msvc.zip":      true,
		"shadowsocks-v1.18.0.x86_64-unknown-linux-gnu.tar.xz": true,
		"shadowsocks-v1.18.0.x86_64-unknown-linux-gnu.tar.gz": false,
		"shadowsocks.deb": false,
	}
	for name, expected := range cases {
		if got := operations.Supported(name); got != expected {
			t.Errorf("%s: expected %v, got %v", name, expected, got)
		}
	}
}
