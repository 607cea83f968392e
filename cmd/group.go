package cmd

import (
	"sync"

	"github.com/spf13/cobra"

	"github.com/joshyorko/sstui/anywork"
	"github.com/joshyorko/sstui/common"
	"github.com/joshyorko/sstui/operations"
	"github.com/joshyorko/sstui/pretty"
	"github.com/joshyorko/sstui/settings"
	"github.com/joshyorko/sstui/subscription"
	"github.com/joshyorko/sstui/wizard"
)

var (
	groupAllFlag   bool
	groupLinksFlag bool
	groupYesFlag   bool
)

var groupCmd = &cobra.Command{
	Use:     "group",
	Aliases: []string{"groups", "g"},
	Short:   "Manage subscription server groups.",
}

// listGroups prints groups and their servers, optionally as ss:// links.
func listGroups(userdata *settings.UserData, links bool) {
	if len(userdata.ServerGroups) == 0 {
		common.Stdout("No server groups. Add one with 'sstui group add NAME URL'.\n")
		return
	}
	selected := userdata.SelectedServer
	for groupIndex, group := range userdata.ServerGroups {
		pretty.Header(group.Name)
		common.Stdout("  %s%s [%s]%s\n", pretty.Grey, group.UpdateURL, group.Format, pretty.Reset)
		for serverIndex, server := range group.Servers {
			mark := " "
			if selected != nil && selected.Group == groupIndex && selected.Server == serverIndex {
				mark = pretty.Green + "*" + pretty.Reset
			}
			if links {
				common.Stdout("  %s %s\n", mark, server.URL())
				continue
			}
			common.Stdout("  %s %-30s %s %s\n", mark, server.Title(), server.Address(), server.Method)
		}
	}
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List server groups and their servers.",
	Run: func(cmd *cobra.Command, args []string) {
		listGroups(loadUserdata(), groupLinksFlag)
	},
}

var groupAddCmd = &cobra.Command{
	Use:   "add NAME URL",
	Short: "Fetch a subscription and store it as server group.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		userdata := loadUserdata()
		group := subscription.NewGroup(args[0], args[1])
		err := group.Refresh(subscription.ProxyFetcher(userdata.Proxy))
		pretty.Guard(err == nil, 3, "%s", operations.Describe(err))
		userdata.AddGroup(group)
		save(userdata)
		common.Log("Group %q has %d servers.", group.Name, len(group.Servers))
		pretty.Ok()
	},
}

// refreshGroups refreshes copies of groups in parallel and stores the ones
// that succeeded.
func refreshGroups(userdata *settings.UserData, groups []*subscription.Group) int {
	fetch := subscription.ProxyFetcher(userdata.Proxy)
	common.Debug("Refreshing %d groups with %d workers.", len(groups), anywork.Scale())
	var mu sync.Mutex
	refreshed := []*subscription.Group{}
	for _, original := range groups {
		working := *original
		working.Servers = append([]subscription.Server(nil), original.Servers...)
		anywork.Backlog(func() {
			if err := working.Refresh(fetch); err != nil {
				pretty.Warning("Group %q: %s", working.Name, operations.Describe(err))
				return
			}
			mu.Lock()
			refreshed = append(refreshed, &working)
			mu.Unlock()
		})
	}
	err := anywork.Sync()
	pretty.Guard(err == nil, 4, "Refresh failed: %v", err)
	for _, group := range refreshed {
		userdata.AddGroup(group)
		common.Log("Group %q has %d servers.", group.Name, len(group.Servers))
	}
	return len(refreshed)
}

var groupUpdateCmd = &cobra.Command{
	Use:   "update [NAME]",
	Short: "Refresh server group from its update url.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		userdata := loadUserdata()
		groups := userdata.ServerGroups
		if !groupAllFlag {
			pretty.Guard(len(args) == 1, 1, "Give group NAME or use --all.")
			_, group := userdata.FindGroup(args[0])
			pretty.Guard(group != nil, 1, "No group named %q.", args[0])
			groups = []*subscription.Group{group}
		}
		count := refreshGroups(userdata, groups)
		save(userdata)
		pretty.Guard(count == len(groups), 5, "Only %d of %d groups were refreshed.", count, len(groups))
		pretty.Ok()
	},
}

var groupRemoveCmd = &cobra.Command{
	Use:     "remove NAME",
	Aliases: []string{"rm", "delete"},
	Short:   "Remove server group.",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		userdata := loadUserdata()
		_, group := userdata.FindGroup(args[0])
		pretty.Guard(group != nil, 1, "No group named %q.", args[0])
		confirmed, err := wizard.Confirm("Remove group "+group.Name+"?", groupYesFlag)
		pretty.Guard(err == nil, 5, "%v", err)
		if !confirmed {
			return
		}
		userdata.RemoveGroup(group.Name)
		save(userdata)
		pretty.Ok()
	},
}

func init() {
	rootCmd.AddCommand(groupCmd)
	groupCmd.AddCommand(groupListCmd)
	groupCmd.AddCommand(groupAddCmd)
	groupCmd.AddCommand(groupUpdateCmd)
	groupCmd.AddCommand(groupRemoveCmd)

	groupListCmd.Flags().BoolVarP(&groupLinksFlag, "links", "l", false, "Print servers as ss:// links for sharing.")
	groupUpdateCmd.Flags().BoolVarP(&groupAllFlag, "all", "a", false, "Refresh every group.")
	wizard.AddYesFlag(groupRemoveCmd, &groupYesFlag)
}
