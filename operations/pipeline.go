package operations

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/joshyorko/sstui/anywork"
	"github.com/joshyorko/sstui/cloud"
	"github.com/joshyorko/sstui/common"
	"github.com/joshyorko/sstui/progresscore"
)

const (
	DefaultChunkSize = 4096
	DefaultMaxSize   = 256 << 20
	cancelPoll       = 100 * time.Millisecond
)

// Opener is the part of cloud.Client pipeline needs.
type Opener interface {
	NewRequest(string) *cloud.Request
	Open(request *cloud.Request) (*cloud.Stream, error)
}

// Pipeline downloads one asset into memory and unpacks it into Target.
type Pipeline struct {
	Source    Opener
	Target    string
	ChunkSize int
	Formats   []Format
	MaxSize   int64
	// Tracker follows the latest Acquire; a finished one is replaced.
	Tracker *progresscore.DownloadTracker
}

func NewPipeline(source Opener, target string) *Pipeline {
	return &Pipeline{
		Source:    source,
		Target:    target,
		ChunkSize: DefaultChunkSize,
		Formats:   DefaultFormats(),
		MaxSize:   DefaultMaxSize,
	}
}

func (it *Pipeline) chunkSize() int {
	if it.ChunkSize > 0 {
		return it.ChunkSize
	}
	return DefaultChunkSize
}

func (it *Pipeline) tracker(asset *Asset) *progresscore.DownloadTracker {
	if it.Tracker == nil || it.Tracker.State().Terminal() {
		it.Tracker = progresscore.NewDownloadTracker(asset.Name, asset.Size)
	}
	return it.Tracker
}

// Acquire fetches asset in chunks, adding consumed bytes to progress, and
// extracts it once exactly asset.Size bytes have arrived. Cancel is checked
// before every chunk read and between extracted entries.
func (it *Pipeline) Acquire(asset *Asset, cancel *anywork.CancelToken, progress *anywork.Counter) (err error) {
	tracker := it.tracker(asset)
	defer func() {
		switch {
		case err == nil:
			tracker.Install()
		case errors.Is(err, ErrCancelled):
			tracker.Cancel()
		default:
			tracker.Fail(Describe(err))
		}
	}()

	if asset.Size <= 0 {
		return fmt.Errorf("%w: %s", ErrEmptyAsset, asset.Name)
	}
	if it.MaxSize > 0 && asset.Size > it.MaxSize {
		return fmt.Errorf("%w: %s announces %d bytes", ErrAssetTooLarge, asset.Name, asset.Size)
	}
	tracker.Begin()
	stopwatch := common.Stopwatch("Download of %s took", asset.Name)
	blob, err := it.fetch(asset, cancel, progress)
	if err != nil {
		return err
	}
	stopwatch.Report()

	tracker.Extract()
	extract, err := SelectExtractor(it.Formats, asset.Name)
	if err != nil {
		return err
	}
	common.Timeline("extracting %s into %s", asset.Name, it.Target)
	return extract(blob, it.Target, cancel)
}

func (it *Pipeline) fetch(asset *Asset, cancel *anywork.CancelToken, progress *anywork.Counter) ([]byte, error) {
	if cancel.IsCanceled() {
		return nil, ErrCancelled
	}
	stream, err := it.Source.Open(it.Source.NewRequest(asset.DownloadURL))
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	chunks := make(chan []byte, 16)
	failure := make(chan error, 1)
	quit := make(chan struct{})
	defer close(quit)

	go produce(stream, it.chunkSize(), cancel, chunks, failure, quit)

	buffer := make([]byte, 0, asset.Size)
	ticker := time.NewTicker(cancelPoll)
	defer ticker.Stop()
	for open := true; open; {
		select {
		case chunk, ok := <-chunks:
			if !ok {
				open = false
				break
			}
			if int64(len(buffer)+len(chunk)) > asset.Size {
				return nil, fmt.Errorf("%w: %s announced %d bytes", ErrSizeMismatch, asset.Name, asset.Size)
			}
			buffer = append(buffer, chunk...)
			progress.Add(len(chunk))
			it.Tracker.Observe(int64(len(buffer)))
		case <-ticker.C:
		}
		if cancel.IsCanceled() {
			return nil, ErrCancelled
		}
	}

	var cause error
	select {
	case cause = <-failure:
	default:
	}
	if int64(len(buffer)) < asset.Size {
		if cause != nil {
			return nil, fmt.Errorf("%w: got %d of %d bytes: %w", ErrTruncated, len(buffer), asset.Size, cause)
		}
		return nil, fmt.Errorf("%w: got %d of %d bytes", ErrTruncated, len(buffer), asset.Size)
	}
	return buffer, nil
}

// produce reads the stream until EOF, error, cancel or quit.
func produce(stream io.Reader, size int, cancel *anywork.CancelToken, chunks chan<- []byte, failure chan<- error, quit <-chan struct{}) {
	defer close(chunks)
	for {
		if cancel.IsCanceled() {
			return
		}
		chunk := make([]byte, size)
		count, err := stream.Read(chunk)
		if count > 0 {
			select {
			case chunks <- chunk[:count]:
			case <-quit:
				return
			}
		}
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			failure <- err
			return
		}
	}
}

// Supported tells if asset name has a known archive suffix.
func Supported(name string) bool {
	_, err := SelectExtractor(DefaultFormats(), name)
	return err == nil
}

func SelectExtractor(formats []Format, name string) (Extractor, error) {
	lower := strings.ToLower(name)
	for _, format := range formats {
		if strings.HasSuffix(lower, format.Suffix) {
			return format.Extract, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
}
