package selection

import "github.com/pkg/errors"

// Strategy records which extraction mechanism last produced a non-empty
// selection for an application.
type Strategy uint8

const (
	AccessibilityFirst Strategy = iota
	ClipboardFirst
)

// String returns the strategy name used in logs and the journal
func (s Strategy) String() string {
	switch s {
	case AccessibilityFirst:
		return "accessibility"
	case ClipboardFirst:
		return "clipboard"
	default:
		return "unknown"
	}
}

var (
	// ErrNoActiveWindow is returned when the focused application cannot be determined.
	ErrNoActiveWindow = errors.New("no active window found")

	// ErrNoSelection is returned when an extractor reached the focused target
	// but found no selectable element or no selected text.
	ErrNoSelection = errors.New("no selection")

	// ErrExtractorUnavailable is returned for mechanism-level failures such as
	// denied accessibility permission or a failed keystroke injection.
	ErrExtractorUnavailable = errors.New("extractor unavailable")
)

// Resolver resolves the identifier of the currently focused application.
type Resolver interface {
	ActiveAppID() (string, error)
}

// Extractor is one mechanism for reading the selected text.
type Extractor interface {
	// Name identifies the mechanism in logs
	Name() string

	// Extract returns the selected text. An empty string with a nil error
	// means the target was reachable but nothing is selected.
	Extract() (string, error)
}
