package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshyorko/sstui/common"
	"github.com/joshyorko/sstui/operations"
	"github.com/joshyorko/sstui/pretty"
	"github.com/joshyorko/sstui/wizard"
)

var stopYesFlag bool

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop sslocal processes left running by earlier sessions.",
	Run: func(cmd *cobra.Command, args []string) {
		strays, err := operations.FindStrays()
		pretty.Guard(err == nil, 2, "Could not list processes: %v", err)
		if len(strays) == 0 {
			common.Log("No sslocal processes running.")
			return
		}
		for _, stray := range strays {
			common.Stdout("  %d %s\n", stray.Pid, stray.Executable)
		}
		confirmed, err := wizard.Confirm(fmt.Sprintf("Kill %d sslocal processes?", len(strays)), stopYesFlag)
		pretty.Guard(err == nil, 5, "%v", err)
		if !confirmed {
			return
		}
		killed := operations.KillStrays(strays)
		pretty.Guard(killed == len(strays), 3, "Killed %d of %d processes.", killed, len(strays))
		pretty.Ok()
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
	wizard.AddYesFlag(stopCmd, &stopYesFlag)
}
