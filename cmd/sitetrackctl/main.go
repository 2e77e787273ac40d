package main

import "github.com/terra-clan/sitetrack/internal/cli"

// These variables are set at build time via -ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersion(version, commit, date)
	cli.Execute()
}
