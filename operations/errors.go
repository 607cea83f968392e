package operations

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os/exec"
	"strings"

	"github.com/joshyorko/sstui/anywork"
	"github.com/joshyorko/sstui/cloud"
	"github.com/joshyorko/sstui/subscription"
)

var (
	ErrCancelled         = errors.New("operation cancelled")
	ErrTruncated         = errors.New("download truncated")
	ErrSizeMismatch      = errors.New("download larger than announced")
	ErrEmptyAsset        = errors.New("asset has no size")
	ErrAssetTooLarge     = errors.New("asset is too large")
	ErrUnsupportedFormat = errors.New("unsupported archive format")
	ErrUnsafePath        = errors.New("archive entry escapes target directory")
	ErrSslocalMissing    = errors.New("sslocal executable not found")
)

// Describe turns any error into one short line fit for a dialog.
func Describe(err error) string {
	if err == nil {
		return "OK"
	}
	var status *cloud.StatusError
	var panicked *anywork.PanicError
	var network net.Error
	var dns *net.DNSError
	switch {
	case errors.Is(err, ErrCancelled):
		return "Cancelled."
	case errors.Is(err, ErrEmptyAsset):
		return "Release asset reports zero size, nothing to verify download against."
	case errors.Is(err, ErrAssetTooLarge):
		return "Release asset is suspiciously large, refusing to download."
	case errors.Is(err, ErrSizeMismatch):
		return "Download was larger than the release announced."
	case errors.Is(err, ErrTruncated):
		return "Download ended before the whole file arrived."
	case errors.Is(err, ErrUnsupportedFormat):
		return "Unsupported archive format, only .zip and .tar.xz can be installed."
	case errors.Is(err, ErrUnsafePath):
		return "Archive contains unsafe paths, refusing to extract."
	case errors.Is(err, ErrSslocalMissing), errors.Is(err, exec.ErrNotFound):
		return "sslocal executable was not found."
	case errors.Is(err, subscription.ErrUnknownContent):
		return "Subscription content is neither JSON nor a list of ss:// links."
	case errors.Is(err, subscription.ErrNoServers):
		return "Subscription did not contain any servers."
	case errors.Is(err, context.DeadlineExceeded):
		return "Timed out."
	case errors.As(err, &status):
		return fmt.Sprintf("Server answered %d.", status.Status)
	case errors.As(err, &panicked):
		return fmt.Sprintf("Internal failure: %v", panicked.Value)
	case errors.As(err, &dns):
		return fmt.Sprintf("Cannot resolve %s.", dns.Name)
	case errors.As(err, &network) && network.Timeout():
		return "Network timed out."
	case errors.As(err, &network):
		return "Network failure, check connection or proxy."
	}
	text := err.Error()
	if index := strings.IndexByte(text, '\n'); index > 0 {
		text = text[:index]
	}
	if len(text) > 120 {
		text = text[:117] + "..."
	}
	return text
}
