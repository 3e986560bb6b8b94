package main

import (
	"os"

	"github.com/sdejongh/hadidi/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.BuildDate = date

	os.Exit(cli.Execute(cli.NewRootCommand()))
}
