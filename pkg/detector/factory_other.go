//go:build !linux && !darwin

package detector

import (
	"runtime"

	"github.com/pkg/errors"

	"seltext/pkg/integrations/clipsim"
	"seltext/pkg/selection"
	"seltext/pkg/window"
)

func newDetector() (window.Detector, error) {
	return nil, errors.Errorf("window detection is not supported on %s", runtime.GOOS)
}

func (c *Components) accessibility() selection.Extractor {
	return Unavailable("accessibility", errors.Errorf("not supported on %s", runtime.GOOS))
}

func (c *Components) keystroker(name, _ string) (clipsim.Keystroker, error) {
	switch name {
	case "", "auto", "robotgo":
		return clipsim.NewRobotgoKeystroker(), nil
	default:
		return nil, errors.Errorf("keystroke method %q is not supported on %s", name, runtime.GOOS)
	}
}
