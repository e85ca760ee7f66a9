// Package atspi reads the selected text of the focused widget through the
// AT-SPI2 accessibility bus used by GTK, Qt, Firefox and Chromium on Linux.
package atspi

import (
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/pkg/errors"

	"seltext/pkg/selection"
)

const (
	a11yBusName = "org.a11y.Bus"
	a11yBusPath = dbus.ObjectPath("/org/a11y/bus")

	registryName = "org.a11y.atspi.Registry"
	rootPath     = dbus.ObjectPath("/org/a11y/atspi/accessible/root")

	ifaceAccessible = "org.a11y.atspi.Accessible"
	ifaceText       = "org.a11y.atspi.Text"

	stateActive  = 1
	stateFocused = 12

	// DefaultMaxNodes bounds the focused-element search in very large trees
	DefaultMaxNodes = 5000
)

// Ref addresses one accessible object; it is the (so) struct AT-SPI uses
type Ref struct {
	Name string
	Path dbus.ObjectPath
}

// Bus is the subset of AT-SPI calls the extractor needs
type Bus interface {
	Children(ref Ref) ([]Ref, error)
	States(ref Ref) ([]uint32, error)
	Selections(ref Ref) ([][2]int32, error)
	Text(ref Ref, start, end int32) (string, error)
}

// Extractor implements selection.Extractor over AT-SPI
type Extractor struct {
	mu       sync.Mutex
	bus      Bus
	dial     func() (Bus, error)
	maxNodes int
}

// NewExtractor creates an extractor that connects to the accessibility bus
// on first use.
func NewExtractor() *Extractor {
	return &Extractor{dial: dialBus, maxNodes: DefaultMaxNodes}
}

// NewExtractorWithBus wires a custom bus; used by tests
func NewExtractorWithBus(bus Bus) *Extractor {
	return &Extractor{bus: bus, maxNodes: DefaultMaxNodes}
}

// Name identifies the mechanism in logs
func (e *Extractor) Name() string {
	return "atspi"
}

func (e *Extractor) connection() (Bus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.bus != nil {
		return e.bus, nil
	}
	bus, err := e.dial()
	if err != nil {
		return nil, errors.Wrap(selection.ErrExtractorUnavailable, err.Error())
	}
	e.bus = bus
	return bus, nil
}

// drop forgets a dead connection so the next call dials again. A bus given
// to NewExtractorWithBus has no dialer and is kept.
func (e *Extractor) drop(bus Bus) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.dial == nil || e.bus != bus {
		return
	}
	if closer, ok := bus.(interface{ Close() error }); ok {
		closer.Close()
	}
	e.bus = nil
}

// Extract returns the selected text of the focused accessible
func (e *Extractor) Extract() (string, error) {
	bus, err := e.connection()
	if err != nil {
		return "", err
	}

	focused, err := e.findFocused(bus)
	if err != nil {
		return "", err
	}

	ranges, err := bus.Selections(focused)
	if err != nil {
		return "", errors.Wrap(selection.ErrNoSelection, "focused element exposes no text")
	}

	parts := make([]string, 0, len(ranges))
	for _, r := range ranges {
		if r[1] <= r[0] {
			continue
		}
		text, err := bus.Text(focused, r[0], r[1])
		if err != nil {
			return "", errors.Wrap(selection.ErrExtractorUnavailable, err.Error())
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n"), nil
}

// findFocused locates the focused accessible inside the active window
func (e *Extractor) findFocused(bus Bus) (Ref, error) {
	apps, err := bus.Children(Ref{Name: registryName, Path: rootPath})
	if err != nil {
		// the registry always answers on a live bus; reconnect next time
		e.drop(bus)
		return Ref{}, errors.Wrap(selection.ErrExtractorUnavailable, err.Error())
	}

	for _, app := range apps {
		frames, err := bus.Children(app)
		if err != nil {
			continue
		}
		for _, frame := range frames {
			if !hasState(bus, frame, stateActive) {
				continue
			}
			if ref, ok := e.search(bus, frame); ok {
				return ref, nil
			}
		}
	}

	return Ref{}, errors.Wrap(selection.ErrNoSelection, "no focused element")
}

// search walks the subtree breadth-first for the focused element
func (e *Extractor) search(bus Bus, root Ref) (Ref, bool) {
	queue := []Ref{root}
	for visited := 0; len(queue) > 0 && visited < e.maxNodes; visited++ {
		ref := queue[0]
		queue = queue[1:]

		if hasState(bus, ref, stateFocused) {
			return ref, true
		}

		children, err := bus.Children(ref)
		if err != nil {
			continue
		}
		queue = append(queue, children...)
	}
	return Ref{}, false
}

func hasState(bus Bus, ref Ref, state uint) bool {
	states, err := bus.States(ref)
	if err != nil {
		return false
	}
	return stateSet(states, state)
}

// stateSet tests a bit in the two-word AT-SPI state set
func stateSet(states []uint32, state uint) bool {
	word := state / 32
	if int(word) >= len(states) {
		return false
	}
	return states[word]&(1<<(state%32)) != 0
}

// Close disconnects from the accessibility bus
func (e *Extractor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if closer, ok := e.bus.(interface{ Close() error }); ok {
		e.bus = nil
		return closer.Close()
	}
	return nil
}
