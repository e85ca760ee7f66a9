//go:build darwin

package detector

import (
	"github.com/pkg/errors"

	"seltext/pkg/integrations/clipsim"
	"seltext/pkg/integrations/darwin"
	"seltext/pkg/selection"
	"seltext/pkg/window"
)

func newDetector() (window.Detector, error) {
	return darwin.NewDetector(), nil
}

func (c *Components) accessibility() selection.Extractor {
	return darwin.NewAccessibilityExtractor()
}

func (c *Components) keystroker(name, _ string) (clipsim.Keystroker, error) {
	switch name {
	case "", "auto", "robotgo":
		return clipsim.NewRobotgoKeystroker(), nil
	default:
		return nil, errors.Errorf("keystroke method %q is not supported on macOS", name)
	}
}
