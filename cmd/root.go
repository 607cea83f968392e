package cmd

import (
	"github.com/spf13/cobra"

	"github.com/joshyorko/sstui/common"
	"github.com/joshyorko/sstui/interactive"
	"github.com/joshyorko/sstui/pretty"
	"github.com/joshyorko/sstui/settings"
)

var (
	silentFlag bool
	debugFlag  bool
	traceFlag  bool
	configFile string
	homeFlag   string
	proxyFlag  string

	location = common.PortableMode()
)

var rootCmd = &cobra.Command{
	Use:   "sstui",
	Short: "Terminal front-end for shadowsocks sslocal.",
	Long: `sstui manages shadowsocks server groups, runs sslocal against the selected
server and keeps sslocal itself up to date.

Without a subcommand it opens the interactive terminal UI.

Navigation:
  ↑/↓        Move in server list or log pane
  Tab        Switch between server list and log pane
  Enter      Start sslocal with selected server
  i          Import subscription group
  r          Update group under cursor
  d          Delete group under cursor
  l          Toggle LAN access
  s          Stop sslocal
  c          Clear log pane
  u/U        Download newer sslocal
  Esc        Exit`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		common.DefineVerbosity(silentFlag, debugFlag, traceFlag)
		pretty.Setup()
		if len(homeFlag) > 0 {
			location.ForceHome(homeFlag)
		}
		common.Trace("Home is %q, user data in %q.", location.Home(), userdataFile())
	},
	Run: func(cmd *cobra.Command, args []string) {
		pretty.Guard(pretty.Interactive, 1, "The UI requires an interactive terminal (TTY), see 'sstui --help' for commands.")
		err := interactive.Run(loadUserdata(), location.Home())
		pretty.Guard(err == nil, 1, "UI error: %v", err)
	},
}

func userdataFile() string {
	if len(configFile) > 0 {
		return common.ExpandPath(configFile)
	}
	return location.UserdataFile()
}

// loadUserdata reads user data, letting --proxy win over file and env.
func loadUserdata() *settings.UserData {
	userdata := settings.Load(userdataFile())
	if len(proxyFlag) > 0 {
		userdata.Proxy = proxyFlag
	}
	return userdata
}

func save(userdata *settings.UserData) {
	err := userdata.Save()
	pretty.Guard(err == nil, 2, "Could not save user data to %q: %v", userdata.Filename(), err)
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&silentFlag, "silent", "", false, "Be less verbose on output.")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "", false, "Turn on debugging output.")
	rootCmd.PersistentFlags().BoolVarP(&traceFlag, "trace", "", false, "Turn on tracing output.")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "", "", "Location of user data file, default is userdata.yaml beside home.")
	rootCmd.PersistentFlags().StringVarP(&homeFlag, "home", "", "", "Directory for sslocal and user data, default is beside sstui executable (or $SSTUI_HOME).")
	rootCmd.PersistentFlags().StringVarP(&proxyFlag, "proxy", "", "", "Proxy for downloads, like socks5://127.0.0.1:10808 or http://proxy:8080.")
}
