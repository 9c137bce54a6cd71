package main

import (
	"os"

	"vincit.fi/picture-triage/cli"
)

var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
