// Package detector assembles the platform collaborators of the selector: the
// focused-window detector, the accessibility extractor and the clipboard
// simulation extractor.
package detector

import (
	"log"
	"os"
	"time"

	"github.com/pkg/errors"

	"seltext/pkg/integrations/clipsim"
	"seltext/pkg/selection"
	"seltext/pkg/window"
)

// Options selects the clipboard simulation stack
type Options struct {
	ClipboardBackend string // native or command
	Keystroke        string // auto, xtest, xdotool, wtype or robotgo
	PreCopyDelay     time.Duration
	SettleDelay      time.Duration
}

// DefaultOptions returns the options used when no configuration is given
func DefaultOptions() Options {
	return Options{
		ClipboardBackend: "native",
		Keystroke:        "auto",
		PreCopyDelay:     clipsim.DefaultPreCopyDelay,
		SettleDelay:      clipsim.DefaultSettleDelay,
	}
}

// Components holds everything a Selector needs on this platform
type Components struct {
	Detector      window.Detector
	Accessibility selection.Extractor
	Clipboard     selection.Extractor

	closers []func() error
}

// New builds the platform components. It only fails when no window detector
// works; a missing extractor is replaced by one that reports
// ErrExtractorUnavailable.
func New(opts Options) (*Components, error) {
	det, err := newDetector()
	if err != nil {
		return nil, err
	}

	c := &Components{Detector: det}
	c.closers = append(c.closers, det.Close)

	c.Accessibility = c.accessibility()
	c.Clipboard = c.clipboard(opts, det.GetDisplayServer())
	return c, nil
}

// Selector returns a selector over these components sharing cache. A nil
// cache selects the process-wide one.
func (c *Components) Selector(cache *selection.StrategyCache) *selection.Selector {
	return selection.NewSelector(window.NewResolver(c.Detector), c.Accessibility, c.Clipboard, cache)
}

func (c *Components) clipboard(opts Options, displayServer string) selection.Extractor {
	backend, err := NewBackend(opts.ClipboardBackend)
	if err != nil {
		log.Printf("detector: clipboard disabled: %v", err)
		return Unavailable("clipboard", err)
	}

	keys, err := c.keystroker(opts.Keystroke, displayServer)
	if err != nil {
		log.Printf("detector: clipboard disabled: %v", err)
		return Unavailable("clipboard", err)
	}

	return clipsim.NewExtractor(backend, keys, opts.PreCopyDelay, opts.SettleDelay)
}

// NewBackend opens the named clipboard backend. native falls back to the
// command backend when the display cannot be opened in-process.
func NewBackend(name string) (clipsim.Backend, error) {
	switch name {
	case "", "native":
		b, err := clipsim.NewNativeBackend()
		if err == nil {
			return b, nil
		}
		log.Printf("detector: %v, using command clipboard", err)
		return clipsim.NewCommandBackend()
	case "command":
		return clipsim.NewCommandBackend()
	default:
		return nil, errors.Errorf("unknown clipboard backend %q", name)
	}
}

// Close releases every component
func (c *Components) Close() error {
	var first error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// DetectDisplayServer guesses the display server from the session environment
func DetectDisplayServer() string {
	sessionType := os.Getenv("XDG_SESSION_TYPE")
	waylandDisplay := os.Getenv("WAYLAND_DISPLAY")
	x11Display := os.Getenv("DISPLAY")

	if sessionType == "wayland" || waylandDisplay != "" {
		return "wayland"
	}

	if sessionType == "x11" || x11Display != "" {
		return "x11"
	}

	return "unknown"
}

type unavailable struct {
	name string
	err  error
}

// Unavailable returns an extractor that always fails with
// ErrExtractorUnavailable
func Unavailable(name string, cause error) selection.Extractor {
	return &unavailable{name: name, err: cause}
}

func (u *unavailable) Name() string {
	return u.name + " (unavailable)"
}

func (u *unavailable) Extract() (string, error) {
	return "", errors.Wrap(selection.ErrExtractorUnavailable, u.err.Error())
}
