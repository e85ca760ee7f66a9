// Package selectedtext is the one-call entry point: it builds the platform
// selector on first use and shares the process-wide strategy cache.
package selectedtext

import (
	"sync"

	"seltext/pkg/detector"
	"seltext/pkg/selection"
)

// lazySelector builds a selector on the first successful call. A failed
// build is not kept, so a display that comes up later is picked up.
type lazySelector struct {
	mu       sync.Mutex
	selector *selection.Selector
	build    func() (*selection.Selector, error)
}

func (l *lazySelector) get() (*selection.Selector, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.selector != nil {
		return l.selector, nil
	}
	s, err := l.build()
	if err != nil {
		return nil, err
	}
	l.selector = s
	return s, nil
}

var defaultSelector = &lazySelector{build: func() (*selection.Selector, error) {
	components, err := detector.New(detector.DefaultOptions())
	if err != nil {
		return nil, err
	}
	return components.Selector(selection.SharedCache()), nil
}}

// Get returns the text selected in the focused application. See
// selection.Selector.GetSelectedText for the fallback rules.
func Get() (string, error) {
	s, err := defaultSelector.get()
	if err != nil {
		return "", err
	}
	return s.GetSelectedText()
}
