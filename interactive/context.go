package interactive

import (
	"github.com/joshyorko/sstui/cloud"
	"github.com/joshyorko/sstui/common"
	"github.com/joshyorko/sstui/logbuf"
	"github.com/joshyorko/sstui/operations"
	"github.com/joshyorko/sstui/settings"
	"github.com/joshyorko/sstui/subscription"
)

// Context is what every view of one TUI session shares. It is only touched
// from UI loop; background work gets copies.
type Context struct {
	Userdata *settings.UserData
	Logs     *logbuf.LogBuffer
	Home     string
	Styles   ViewStyles

	// Installed is probed sslocal version, empty when unknown.
	Installed string

	// Feed is release metadata client; Download opens asset streams.
	Feed     func() (cloud.Client, error)
	Download func() (operations.Opener, error)
	Fetch    subscription.Fetcher
}

func NewContext(userdata *settings.UserData, logs *logbuf.LogBuffer, home string) *Context {
	proxy := userdata.Proxy
	return &Context{
		Userdata: userdata,
		Logs:     logs,
		Home:     home,
		Styles:   NewViewStyles(DefaultTheme()),
		Feed:     func() (cloud.Client, error) { return feedClient(proxy) },
		Download: func() (operations.Opener, error) { return feedClient(proxy) },
		Fetch: subscription.ProxyFetcher(proxy),
	}
}

func feedClient(proxy string) (cloud.Client, error) {
	client, err := cloud.NewClient(operations.ReleaseFeed, proxy)
	if err != nil {
		return nil, err
	}
	return cloud.Traced(client), nil
}

// save persists user data, reporting but not failing on errors.
func (it *Context) save() {
	if err := it.Userdata.Save(); err != nil {
		common.Error("save user data", err)
	}
}
