// Package main provides the entry point for the mavenmenu CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/mavenmenu/cmd/mavenmenu/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
