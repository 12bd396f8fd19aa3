package main

import (
	"os"

	"github.com/aledsdavies/mrecognizer/cli"
)

func main() {
	os.Exit(cli.Execute())
}
