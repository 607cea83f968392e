package subscription

import (
	"fmt"

	"github.com/joshyorko/sstui/cloud"
	"github.com/joshyorko/sstui/common"
)

// Fetcher loads subscription content from a link or local file.
type Fetcher func(location string) ([]byte, error)

// ProxyFetcher fetches through optional http or socks5 proxy.
func ProxyFetcher(proxy string) Fetcher {
	return func(location string) ([]byte, error) {
		return cloud.ReadFile(location, proxy)
	}
}

// Refresh reloads servers from UpdateURL. Format is sniffed only on first
// successful fetch and reused later. On failure old servers stay.
func (it *Group) Refresh(fetch Fetcher) error {
	stopwatch := common.Stopwatch("Refresh of group %q took", it.Name)
	defer stopwatch.Report()

	content, err := fetch(it.UpdateURL)
	if err != nil {
		return fmt.Errorf("fetching group %q: %w", it.Name, err)
	}
	format := it.Format
	if format == FormatUnknown {
		format, err = Classify(content)
		if err != nil {
			return err
		}
	}
	servers, err := Decode(format, content)
	if err != nil {
		return err
	}
	if len(servers) == 0 {
		return ErrNoServers
	}
	it.Format = format
	it.Servers = servers
	common.Debug("Group %q [%s] has %d servers in %s format.", it.Name, it.ID, len(servers), format)
	return nil
}
