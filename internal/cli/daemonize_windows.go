package cli

import (
	"os"

	"github.com/pkg/errors"
)

// ChildEnv is set to "1" in the environment of a daemonized process
const ChildEnv = "SELTEXT_DAEMON_CHILD"

// IsDaemonChild reports whether this process was started by Daemonize
func IsDaemonChild() bool {
	return os.Getenv(ChildEnv) == "1"
}

// Daemonize is not supported on Windows
func Daemonize() (int, error) {
	return 0, errors.New("--background is not supported on Windows")
}
