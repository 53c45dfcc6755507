package main

import (
	"os"

	"cmdref/cli"
)

func main() {
	os.Exit(cli.Execute())
}
