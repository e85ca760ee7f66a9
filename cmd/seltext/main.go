package main

import (
	"os"

	"seltext/internal/cli"
)

func main() {
	os.Exit(cli.Run(cli.RootCmd(), os.Args[1:]))
}
