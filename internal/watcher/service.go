// Package watcher polls the selection and reports it whenever it changes.
package watcher

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/pkg/errors"

	"seltext/internal/config"
	"seltext/pkg/selection"
)

// TextSource is satisfied by *selection.Selector
type TextSource interface {
	GetSelectedText() (string, error)
}

// ErrorSink stores failed polls; satisfied by *journal.Recorder
type ErrorSink interface {
	RecordError(source string, err error)
}

// Selection is one change observed by the watcher
type Selection struct {
	Text string
	At   time.Time
}

type Service struct {
	interval time.Duration
	source   TextSource
	sink     ErrorSink
	emit     func(Selection)

	mu       sync.Mutex
	stopChan chan struct{}
	running  bool

	last    string
	lastErr string
}

// NewService creates a watcher. sink may be nil when the journal is off.
func NewService(cfg *config.Config, source TextSource, sink ErrorSink, emit func(Selection)) *Service {
	return &Service{
		interval: cfg.Watch.PollInterval,
		source:   source,
		sink:     sink,
		emit:     emit,
		stopChan: make(chan struct{}),
	}
}

// Start polls until ctx is done or Stop is called
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("watcher is already running")
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	log.Printf("watcher: polling every %v", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.pollOnce()

	for {
		select {
		case <-ctx.Done():
			log.Println("watcher: stopped by context")
			return ctx.Err()

		case <-s.stopChan:
			log.Println("watcher: stopped")
			return nil

		case <-ticker.C:
			s.pollOnce()
		}
	}
}

// Stop ends a running Start loop
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		close(s.stopChan)
		s.running = false
	}
}

// pollOnce reads the selection and emits it when it differs from the last
// one. An empty selection resets the comparison so selecting the same text
// again is reported.
func (s *Service) pollOnce() {
	text, err := s.source.GetSelectedText()
	if err != nil {
		s.storeError(err)
		return
	}
	s.lastErr = ""

	if text == "" {
		s.last = ""
		return
	}
	if text == s.last {
		return
	}

	s.last = text
	s.emit(Selection{Text: text, At: time.Now()})
}

// storeError journals failures other than "nothing selected", once per
// distinct message
func (s *Service) storeError(err error) {
	if errors.Is(err, selection.ErrNoSelection) {
		s.last = ""
		return
	}
	if err.Error() == s.lastErr {
		return
	}
	s.lastErr = err.Error()

	log.Printf("watcher: %v", err)
	if s.sink != nil {
		s.sink.RecordError("watch", err)
	}
}
