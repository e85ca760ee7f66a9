// Package clipsim reads the selection by driving the system clipboard: it
// saves the clipboard, presses the copy shortcut in the focused window, reads
// what landed on the clipboard and puts the old contents back.
package clipsim

import (
	"log"
	"time"

	"github.com/pkg/errors"

	"seltext/pkg/selection"
)

const (
	DefaultPreCopyDelay = 50 * time.Millisecond
	DefaultSettleDelay  = 100 * time.Millisecond
)

// Snapshot is the clipboard state saved before a copy
type Snapshot struct {
	Text    string
	HasText bool
	Image   []byte
}

// Empty reports whether there was nothing to restore
func (s Snapshot) Empty() bool {
	return !s.HasText && len(s.Image) == 0
}

// Backend reads and writes the system clipboard
type Backend interface {
	Name() string
	ReadText() (string, error)
	WriteText(text string) error
	Snapshot() (Snapshot, error)
	Restore(s Snapshot) error
}

// Keystroker sends the platform copy shortcut to the focused window
type Keystroker interface {
	Name() string
	Copy() error
}

// Extractor implements selection.Extractor with clipboard simulation
type Extractor struct {
	backend      Backend
	keys         Keystroker
	preCopyDelay time.Duration
	settleDelay  time.Duration
	sleep        func(time.Duration)
}

// NewExtractor wires a backend and a keystroker. Zero delays fall back to the
// defaults.
func NewExtractor(backend Backend, keys Keystroker, preCopyDelay, settleDelay time.Duration) *Extractor {
	if preCopyDelay <= 0 {
		preCopyDelay = DefaultPreCopyDelay
	}
	if settleDelay <= 0 {
		settleDelay = DefaultSettleDelay
	}
	return &Extractor{
		backend:      backend,
		keys:         keys,
		preCopyDelay: preCopyDelay,
		settleDelay:  settleDelay,
		sleep:        time.Sleep,
	}
}

// Name identifies the mechanism in logs
func (e *Extractor) Name() string {
	return "clipboard/" + e.backend.Name() + "+" + e.keys.Name()
}

// Extract copies the selection through the clipboard. An empty result means
// the copy shortcut put nothing on the clipboard.
func (e *Extractor) Extract() (string, error) {
	snap, err := e.backend.Snapshot()
	if err != nil {
		// an unreadable clipboard is treated as empty; restore will clear it
		log.Printf("clipsim: clipboard snapshot failed: %v", err)
		snap = Snapshot{}
	}

	// the placeholder lets us tell "nothing copied" from "copied the old contents"
	if err := e.backend.WriteText(""); err != nil {
		return "", errors.Wrap(selection.ErrExtractorUnavailable, "clipboard write failed: "+err.Error())
	}
	defer e.restore(snap)

	e.sleep(e.preCopyDelay)

	if err := e.keys.Copy(); err != nil {
		return "", errors.Wrap(selection.ErrExtractorUnavailable, e.keys.Name()+": copy keystroke failed: "+err.Error())
	}

	e.sleep(e.settleDelay)

	text, err := e.backend.ReadText()
	if err != nil {
		return "", errors.Wrap(selection.ErrExtractorUnavailable, "clipboard read failed: "+err.Error())
	}
	return text, nil
}

func (e *Extractor) restore(snap Snapshot) {
	if err := e.backend.Restore(snap); err != nil {
		log.Printf("clipsim: failed to restore clipboard: %v", err)
	}
}
