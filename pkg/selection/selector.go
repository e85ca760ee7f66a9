package selection

import (
	"log"
	"time"

	"github.com/pkg/errors"
)

// Attempt describes one extractor invocation.
type Attempt struct {
	AppID     string
	Mechanism Strategy
	// Pinned is true when the mechanism was chosen from the cache rather
	// than tried as part of the cold-start chain.
	Pinned     bool
	TextLength int
	Latency    time.Duration
	Err        error
}

// Observer is notified after every extractor invocation. It runs on the
// calling goroutine and must not call back into the Selector.
type Observer interface {
	ObserveAttempt(Attempt)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(Attempt)

func (f ObserverFunc) ObserveAttempt(a Attempt) { f(a) }

// Selector picks the extraction mechanism for the focused application,
// remembers what worked and falls back on a cold cache.
type Selector struct {
	resolver      Resolver
	accessibility Extractor
	clipboard     Extractor
	cache         *StrategyCache
	observer      Observer
}

// NewSelector wires a selector. A nil cache means the process-wide SharedCache.
func NewSelector(resolver Resolver, accessibility, clipboard Extractor, cache *StrategyCache) *Selector {
	if cache == nil {
		cache = SharedCache()
	}
	return &Selector{
		resolver:      resolver,
		accessibility: accessibility,
		clipboard:     clipboard,
		cache:         cache,
	}
}

// SetObserver installs o to receive every Attempt. Call before first use.
func (s *Selector) SetObserver(o Observer) {
	s.observer = o
}

// Cache returns the strategy cache used by the selector.
func (s *Selector) Cache() *StrategyCache {
	return s.cache
}

// GetSelectedText returns the text selected in the focused application.
//
// Without a cached strategy the accessibility extractor runs first and the
// clipboard extractor is the fallback for a failure or an empty result. The
// mechanism that produced non-empty text is remembered. With a cached
// strategy only that mechanism runs and its result is returned unchanged.
func (s *Selector) GetSelectedText() (string, error) {
	appID, err := s.resolver.ActiveAppID()
	if err != nil {
		return "", errors.Wrap(ErrNoActiveWindow, err.Error())
	}

	if strategy, ok := s.cache.Lookup(appID); ok {
		return s.run(appID, strategy, true)
	}

	text, err := s.run(appID, AccessibilityFirst, false)
	if err == nil && text != "" {
		s.cache.Record(appID, AccessibilityFirst)
		return text, nil
	}
	if err != nil {
		log.Printf("selection: accessibility failed for %q, trying clipboard: %v", appID, err)
	}

	text, err = s.run(appID, ClipboardFirst, false)
	if err != nil {
		return "", err
	}
	if text != "" {
		s.cache.Record(appID, ClipboardFirst)
	}
	return text, nil
}

func (s *Selector) run(appID string, strategy Strategy, pinned bool) (string, error) {
	extractor := s.accessibility
	if strategy == ClipboardFirst {
		extractor = s.clipboard
	}

	start := time.Now()
	text, err := extractor.Extract()
	if err != nil {
		text = ""
	}

	if s.observer != nil {
		s.observer.ObserveAttempt(Attempt{
			AppID:      appID,
			Mechanism:  strategy,
			Pinned:     pinned,
			TextLength: len(text),
			Latency:    time.Since(start),
			Err:        err,
		})
	}

	return text, err
}
