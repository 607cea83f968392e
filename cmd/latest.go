package cmd

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/joshyorko/sstui/cloud"
	"github.com/joshyorko/sstui/common"
	"github.com/joshyorko/sstui/operations"
	"github.com/joshyorko/sstui/pretty"
)

func fetchLatest(proxy string) *operations.Release {
	client, err := cloud.NewClient(operations.ReleaseFeed, proxy)
	pretty.Guard(err == nil, 2, "Could not create client: %v", err)
	client = cloud.Traced(client)
	spinner := pretty.NewSpinner("Fetching latest sslocal release ...")
	spinner.Start()
	release, err := operations.FetchLatest(client)
	spinner.Stop(err == nil)
	pretty.Guard(err == nil, 3, "%s", operations.Describe(err))
	return release
}

var latestCmd = &cobra.Command{
	Use:     "latest",
	Aliases: []string{"releases"},
	Short:   "Show latest shadowsocks-rust release and its assets.",
	Run: func(cmd *cobra.Command, args []string) {
		release := fetchLatest(loadUserdata().Proxy)
		pretty.Header(release.Tag)
		for _, asset := range release.Assets {
			mark := " "
			if operations.Supported(asset.Name) {
				mark = "*"
			}
			common.Stdout("%s %-60s %10s\n", mark, asset.Name, humanize.Bytes(uint64(asset.Size)))
		}
		common.Stdout("\n%s* can be installed with 'sstui install PATTERN'.%s\n", pretty.Grey, pretty.Reset)
	},
}

func init() {
	rootCmd.AddCommand(latestCmd)
}
