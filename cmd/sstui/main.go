package main

import (
	"os"

	"github.com/joshyorko/sstui/cmd"
	"github.com/joshyorko/sstui/common"
)

func ExitProtection() {
	status := recover()
	if status != nil {
		exit, ok := status.(common.ExitCode)
		if ok {
			exit.ShowMessage()
			common.WaitLogs()
			os.Exit(exit.Code)
		}
		common.WaitLogs()
		panic(status)
	}
	common.WaitLogs()
}

func main() {
	defer ExitProtection()

	if err := cmd.Execute(); err != nil {
		common.WaitLogs()
		os.Exit(1)
	}
}
