//go:build linux

package detector

import (
	"github.com/pkg/errors"

	"seltext/pkg/integrations/atspi"
	"seltext/pkg/integrations/clipsim"
	"seltext/pkg/integrations/hybrid"
	"seltext/pkg/integrations/wayland"
	"seltext/pkg/integrations/x11"
	"seltext/pkg/selection"
	"seltext/pkg/window"
)

// newDetector chains the native Wayland detector before X11, which also
// covers XWayland clients.
func newDetector() (window.Detector, error) {
	d, err := hybrid.NewDetector(wayland.NewDetector(), x11.NewDetector())
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (c *Components) accessibility() selection.Extractor {
	e := atspi.NewExtractor()
	c.closers = append(c.closers, e.Close)
	return e
}

func (c *Components) keystroker(name, displayServer string) (clipsim.Keystroker, error) {
	if name == "" || name == "auto" {
		name = autoKeystroke(displayServer, commandExists)
	}

	switch name {
	case "xtest":
		k := x11.NewCopyKeystroker()
		c.closers = append(c.closers, k.Close)
		return k, nil
	case "xdotool":
		return clipsim.NewXdotoolKeystroker(), nil
	case "wtype":
		return clipsim.NewWtypeKeystroker(), nil
	case "robotgo":
		return clipsim.NewRobotgoKeystroker(), nil
	default:
		return nil, errors.Errorf("unknown keystroke method %q", name)
	}
}

// autoKeystroke picks XTEST on X11. On Wayland wtype reaches native clients;
// without it xdotool still reaches XWayland windows.
func autoKeystroke(displayServer string, has func(string) bool) string {
	if displayServer != "wayland" {
		return "xtest"
	}
	if has("wtype") {
		return "wtype"
	}
	return "xdotool"
}

func commandExists(name string) bool {
	switch name {
	case "wtype":
		return clipsim.NewWtypeKeystroker().Available()
	case "xdotool":
		return clipsim.NewXdotoolKeystroker().Available()
	}
	return false
}
