// Package cli holds the seltext commands shared by the seltext and
// seltext-listen binaries. It never imports the global hotkey package, which
// needs a display at init time.
package cli

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"seltext/pkg/selection"
)

var (
	version = "0.1.0"
	commit  = "unknown"
	date    = "unknown"
)

// AppName is the name of the main binary
const AppName = "seltext"

// exit codes
const (
	ExitOK          = 0
	ExitError       = 1
	ExitNoSelection = 2
)

// Flags are the persistent flags every command understands
type Flags struct {
	ConfigPath string
	Verbose    bool
	Backend    string
	Keystroke  string
}

// Run executes root with args and maps the result to an exit code
func Run(root *cobra.Command, args []string) int {
	root.SetArgs(args)

	err := root.Execute()
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, selection.ErrNoSelection) {
		return ExitNoSelection
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", root.Name(), err)
	return ExitError
}

// NewRoot creates a root command carrying the persistent flags
func NewRoot(use, short string) (*cobra.Command, *Flags) {
	flags := &Flags{}

	root := &cobra.Command{
		Use:           use,
		Short:         short,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.ConfigPath, "config", "c", "", "config file (default ~/.config/seltext/config.yaml, or $SELTEXT_CONFIG)")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "log to stderr")
	pf.StringVar(&flags.Backend, "backend", "", "clipboard backend: native or command (default from config)")
	pf.StringVar(&flags.Keystroke, "keystroke", "", "copy keystroke: auto, xtest, xdotool, wtype or robotgo (default from config)")
	return root, flags
}

// RootCmd builds the seltext command tree
func RootCmd() *cobra.Command {
	root, flags := NewRoot(AppName, "Read the text selected in the focused application")

	root.AddCommand(
		getCmd(flags),
		watchCmd(flags),
		stopCmd(flags),
		statusCmd(flags),
		reportCmd(flags),
		clearCmd(flags),
		configCmd(flags),
		VersionCmd(AppName),
	)
	return root
}

// VersionCmd prints the build information of name
func VersionCmd(name string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s version %s\n", name, version)
			fmt.Fprintf(out, "  commit: %s\n", commit)
			fmt.Fprintf(out, "  built:  %s\n", date)
		},
	}
}
