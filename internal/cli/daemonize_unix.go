//go:build !windows

package cli

import (
	"os"
	"syscall"

	"github.com/pkg/errors"
)

// ChildEnv is set to "1" in the environment of a daemonized process
const ChildEnv = "SELTEXT_DAEMON_CHILD"

// IsDaemonChild reports whether this process was started by Daemonize
func IsDaemonChild() bool {
	return os.Getenv(ChildEnv) == "1"
}

// Daemonize re-executes the current command detached from the terminal
func Daemonize() (int, error) {
	env := append(os.Environ(), ChildEnv+"=1")

	procAttr := &os.ProcAttr{
		Env:   env,
		Files: []*os.File{nil, nil, nil}, // stdin, stdout, stderr to /dev/null
		Sys: &syscall.SysProcAttr{
			Setsid: true,
		},
	}

	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}

	process, err := os.StartProcess(exe, os.Args, procAttr)
	if err != nil {
		return 0, errors.Wrap(err, "failed to start background process")
	}
	return process.Pid, nil
}
