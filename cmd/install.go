package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/joshyorko/sstui/anywork"
	"github.com/joshyorko/sstui/cloud"
	"github.com/joshyorko/sstui/common"
	"github.com/joshyorko/sstui/operations"
	"github.com/joshyorko/sstui/pretty"
	"github.com/joshyorko/sstui/progresscore"
	"github.com/joshyorko/sstui/wizard"
)

var installYesFlag bool

// defaultPattern guesses release asset name fragment for this platform.
func defaultPattern() string {
	arch := map[string]string{"amd64": "x86_64", "arm64": "aarch64", "386": "i686"}[runtime.GOARCH]
	if len(arch) == 0 {
		arch = runtime.GOARCH
	}
	switch runtime.GOOS {
	case "darwin":
		return arch + "-apple-darwin"
	case "windows":
		return arch + "-pc-windows-msvc"
	default:
		return arch + "-unknown-linux-gnu"
	}
}

func installable(release *operations.Release, pattern string) []*operations.Asset {
	result := []*operations.Asset{}
	for _, asset := range release.Matching(pattern) {
		if operations.Supported(asset.Name) {
			result = append(result, asset)
		}
	}
	return result
}

var installCmd = &cobra.Command{
	Use:   "install [PATTERN]",
	Short: "Download and unpack sslocal from latest release.",
	Long: `Install downloads latest shadowsocks-rust release asset whose name contains
PATTERN and unpacks it into sstui home. Without PATTERN, a guess for current
platform is used.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pattern := defaultPattern()
		if len(args) > 0 {
			pattern = args[0]
		}
		userdata := loadUserdata()
		release := fetchLatest(userdata.Proxy)
		assets := installable(release, pattern)
		names := make([]string, 0, len(assets))
		for _, asset := range assets {
			names = append(names, asset.Name)
		}
		index, err := wizard.Choose("Which asset?", names)
		pretty.Guard(err == nil, 4, "No single installable asset matches %q: %v", pattern, err)
		asset := assets[index]

		home := location.Home()
		question := fmt.Sprintf("Download %s into %s?", asset.Name, home)
		confirmed, err := wizard.Confirm(question, installYesFlag)
		pretty.Guard(err == nil, 5, "%v", err)
		if !confirmed {
			return
		}

		client, err := cloud.NewClient(operations.ReleaseFeed, userdata.Proxy)
		pretty.Guard(err == nil, 2, "Could not create client: %v", err)
		client = cloud.Traced(client)
		tracker := progresscore.NewDownloadTracker(asset.Name, asset.Size)
		pipeline := operations.NewPipeline(client, home)
		pipeline.Tracker = tracker

		token := anywork.NewCancelToken()
		interrupts := make(chan os.Signal, 1)
		signal.Notify(interrupts, os.Interrupt)
		defer func() {
			signal.Stop(interrupts)
			close(interrupts)
		}()
		go func() {
			if _, ok := <-interrupts; ok {
				token.Cancel()
			}
		}()

		bar := pretty.NewDownloadBar(tracker)
		bar.Start()
		err = pipeline.Acquire(asset, token, &anywork.Counter{})
		bar.Stop(err == nil)
		pretty.Guard(err == nil, 6, "%s", operations.Describe(err))
		common.Log("Installed %s from %s.", operations.SslocalName(), release.Tag)
		pretty.Ok()
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
	wizard.AddYesFlag(installCmd, &installYesFlag)
}
