package window

import (
	"strings"

	"github.com/pkg/errors"
)

// Unknown is the placeholder app name detectors report when a window was
// found but could not be attributed to an application.
const Unknown = "Unknown"

// Resolver turns a Detector into an application identifier source for the
// selection package. The identifier is the application name, falling back to
// the process name.
type Resolver struct {
	detector Detector
}

// NewResolver creates a Resolver backed by d
func NewResolver(d Detector) *Resolver {
	return &Resolver{detector: d}
}

// ActiveAppID returns the identifier of the focused application
func (r *Resolver) ActiveAppID() (string, error) {
	info, err := r.detector.GetFocusedWindow()
	if err != nil {
		return "", errors.Wrap(err, "failed to get focused window")
	}

	if id := AppID(info); id != "" {
		return id, nil
	}
	return "", errors.New("focused window has no application name")
}

// AppID derives the cache key for a window, or "" when the window cannot be
// attributed to an application.
func AppID(info *WindowInfo) string {
	if info == nil {
		return ""
	}
	for _, name := range []string{info.AppName, info.ProcessName} {
		name = strings.TrimSpace(name)
		if name != "" && name != Unknown {
			return name
		}
	}
	return ""
}
