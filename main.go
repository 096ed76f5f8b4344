package main

import (
	"os"

	"github.com/emonic-labs/emonic-admin/internal/cli"
)

// version, commit, and date are set via ldflags at build time.
var (
	version = ""
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := cli.Execute(version, commit, date); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
