package clipsim

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/go-vgo/robotgo"
	"github.com/pkg/errors"
)

// CommandKeystroker runs an external tool that synthesizes the shortcut
type CommandKeystroker struct {
	name string
	args []string
}

// NewXdotoolKeystroker presses ctrl+c with xdotool (X11 and XWayland)
func NewXdotoolKeystroker() *CommandKeystroker {
	return &CommandKeystroker{name: "xdotool", args: []string{"key", "--clearmodifiers", "ctrl+c"}}
}

// NewWtypeKeystroker presses ctrl+c with wtype (wlroots compositors)
func NewWtypeKeystroker() *CommandKeystroker {
	return &CommandKeystroker{name: "wtype", args: []string{"-M", "ctrl", "c", "-m", "ctrl"}}
}

func (k *CommandKeystroker) Name() string {
	return k.name
}

// Available reports whether the tool is on PATH
func (k *CommandKeystroker) Available() bool {
	_, err := exec.LookPath(k.name)
	return err == nil
}

func (k *CommandKeystroker) Copy() error {
	out, err := exec.Command(k.name, k.args...).CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "%s: %s", k.name, strings.TrimSpace(string(out)))
	}
	return nil
}

// RobotgoKeystroker taps the copy shortcut with robotgo
type RobotgoKeystroker struct {
	modifier string
	toggle   func(key string, args ...interface{}) error
	tap      func(key string, args ...interface{}) error
}

// NewRobotgoKeystroker uses cmd on macOS and ctrl elsewhere
func NewRobotgoKeystroker() *RobotgoKeystroker {
	return &RobotgoKeystroker{
		modifier: copyModifier(runtime.GOOS),
		toggle:   robotgo.KeyToggle,
		tap:      robotgo.KeyTap,
	}
}

func copyModifier(goos string) string {
	if goos == "darwin" {
		return "cmd"
	}
	return "ctrl"
}

// heldModifiers are released before the tap; a hotkey such as ctrl+shift+c
// fires while the user still holds them.
var heldModifiers = []string{"shift", "alt", "ctrl", "cmd"}

func (k *RobotgoKeystroker) Name() string {
	return "robotgo"
}

func (k *RobotgoKeystroker) Copy() error {
	for _, mod := range heldModifiers {
		if err := k.toggle(mod, "up"); err != nil {
			return errors.Wrapf(err, "failed to release %s", mod)
		}
	}
	return k.tap("c", k.modifier)
}
