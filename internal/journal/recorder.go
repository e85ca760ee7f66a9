// Package journal writes every extraction attempt to the database so the
// report command can show which mechanism works for which application.
package journal

import (
	"log"
	"time"

	"github.com/google/uuid"

	"seltext/internal/database"
	"seltext/internal/models"
	"seltext/pkg/selection"
)

// Store is the part of the repository the recorder writes to
type Store interface {
	Create(event *models.ExtractionEvent) error
	CreateErrorLog(errorLog *models.ErrorLog) error
}

// Recorder implements selection.Observer
type Recorder struct {
	store     Store
	sessionID string
	now       func() time.Time
}

// NewRecorder starts a new journal session
func NewRecorder(store Store) *Recorder {
	return &Recorder{
		store:     store,
		sessionID: uuid.NewString(),
		now:       time.Now,
	}
}

// NewRepositoryRecorder is NewRecorder over a database repository
func NewRepositoryRecorder(repo *database.Repository) *Recorder {
	return NewRecorder(repo)
}

// SessionID identifies the events written by this process
func (r *Recorder) SessionID() string {
	return r.sessionID
}

// ObserveAttempt stores one attempt. Storage errors are logged; they never
// reach the caller of GetSelectedText.
func (r *Recorder) ObserveAttempt(a selection.Attempt) {
	event := &models.ExtractionEvent{
		Timestamp:  r.now(),
		SessionID:  r.sessionID,
		AppName:    a.AppID,
		Mechanism:  a.Mechanism.String(),
		Pinned:     a.Pinned,
		Outcome:    Outcome(a),
		TextLength: a.TextLength,
		LatencyMs:  a.Latency.Milliseconds(),
	}
	if a.Err != nil {
		event.ErrorMsg = a.Err.Error()
	}

	if err := r.store.Create(event); err != nil {
		log.Printf("journal: failed to record attempt: %v", err)
	}
}

// RecordError stores a failed GetSelectedText call
func (r *Recorder) RecordError(source string, err error) {
	errorLog := &models.ErrorLog{
		Timestamp: r.now(),
		Source:    source,
		ErrorMsg:  err.Error(),
	}
	if storeErr := r.store.CreateErrorLog(errorLog); storeErr != nil {
		log.Printf("journal: failed to store error log: %v", storeErr)
	}
}

// Outcome classifies an attempt as text, empty or error
func Outcome(a selection.Attempt) string {
	switch {
	case a.Err != nil:
		return models.OutcomeError
	case a.TextLength == 0:
		return models.OutcomeEmpty
	default:
		return models.OutcomeText
	}
}
