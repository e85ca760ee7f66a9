// Command seltext-listen prints the selection each time a global hotkey is
// released. It is separate from seltext because the hotkey library needs a
// display as soon as it is loaded.
package main

import (
	"os"

	"golang.design/x/hotkey/mainthread"

	"seltext/internal/cli"
)

const appName = "seltext-listen"

func main() {
	code := cli.ExitOK
	// hotkey registration on macOS must happen on the main thread
	mainthread.Init(func() {
		code = cli.Run(rootCmd(), os.Args[1:])
	})
	os.Exit(code)
}
