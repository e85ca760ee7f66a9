// Package daemon keeps a PID file so only one long-running seltext process
// injects copy keystrokes at a time, and so `seltext stop` can find it.
package daemon

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/pkg/errors"
)

type Daemon struct {
	pidFile string
}

func New(pidFile string) *Daemon {
	return &Daemon{pidFile: pidFile}
}

// Acquire writes our PID unless another live process holds the file
func (d *Daemon) Acquire() error {
	running, pid, err := d.IsRunning()
	if err != nil {
		return err
	}
	if running && pid != os.Getpid() {
		return errors.Errorf("seltext is already running (PID: %d)", pid)
	}
	return d.WritePID()
}

func (d *Daemon) WritePID() error {
	if err := os.WriteFile(d.pidFile, fmt.Appendf(nil, "%d", os.Getpid()), 0644); err != nil {
		return errors.Wrap(err, "failed to write PID file")
	}
	return nil
}

func (d *Daemon) ReadPID() (int, error) {
	data, err := os.ReadFile(d.pidFile)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "failed to read PID file")
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, errors.Wrap(err, "invalid PID in file")
	}

	return pid, nil
}

func (d *Daemon) RemovePID() error {
	if err := os.Remove(d.pidFile); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove PID file")
	}
	return nil
}

// IsRunning reports whether the PID file names a live process. A stale file
// is removed.
func (d *Daemon) IsRunning() (bool, int, error) {
	pid, err := d.ReadPID()
	if err != nil {
		return false, 0, err
	}

	if pid == 0 {
		return false, 0, nil
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false, 0, nil
	}

	if err := process.Signal(syscall.Signal(0)); err != nil {
		_ = d.RemovePID()
		return false, 0, nil
	}

	return true, pid, nil
}

// Stop sends SIGTERM to the recorded process
func (d *Daemon) Stop() error {
	running, pid, err := d.IsRunning()
	if err != nil {
		return errors.Wrap(err, "error checking daemon status")
	}

	if !running {
		return errors.New("seltext is not running or PID file is stale")
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return errors.Wrap(err, "failed to find process")
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			_ = d.RemovePID()
			return errors.New("seltext process already terminated")
		}
		return errors.Wrap(err, "failed to send SIGTERM")
	}

	return d.RemovePID()
}
