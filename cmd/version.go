package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshyorko/sstui/common"
	"github.com/joshyorko/sstui/operations"
	"github.com/joshyorko/sstui/pretty"
)

// reportSslocal prints where sslocal is and which version it claims.
func reportSslocal(configured, home string) bool {
	executable, err := operations.FindSslocal(configured, home)
	if err != nil {
		pretty.WarnMessage("sslocal: None, use 'sstui install' to get it.")
		return false
	}
	version, err := operations.ProbeVersion(executable)
	if err != nil {
		pretty.Error(fmt.Sprintf("sslocal at %s did not report a version: %s", executable, operations.Describe(err)))
		return false
	}
	pretty.Success(fmt.Sprintf("sslocal: %s (%s)", version, executable))
	return true
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show sstui and installed sslocal versions.",
	Run: func(cmd *cobra.Command, args []string) {
		common.Stdout("%s %s\n", common.Product, common.Version)
		reportSslocal(loadUserdata().SslocalPath, location.Home())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
