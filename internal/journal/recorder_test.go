package journal

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"seltext/internal/models"
	"seltext/pkg/selection"
)

type mockStore struct {
	events []*models.ExtractionEvent
	errors []*models.ErrorLog
	err    error
}

func (m *mockStore) Create(event *models.ExtractionEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockStore) CreateErrorLog(errorLog *models.ErrorLog) error {
	if m.err != nil {
		return m.err
	}
	m.errors = append(m.errors, errorLog)
	return nil
}

func TestObserveAttempt(t *testing.T) {
	store := &mockStore{}
	r := NewRecorder(store)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	r.ObserveAttempt(selection.Attempt{
		AppID:      "Firefox",
		Mechanism:  selection.ClipboardFirst,
		Pinned:     true,
		TextLength: 42,
		Latency:    153 * time.Millisecond,
	})

	if len(store.events) != 1 {
		t.Fatalf("stored %d events, want 1", len(store.events))
	}
	ev := store.events[0]
	if ev.AppName != "Firefox" || ev.Mechanism != "clipboard" || !ev.Pinned {
		t.Errorf("event = %+v", ev)
	}
	if ev.Outcome != models.OutcomeText || ev.TextLength != 42 || ev.LatencyMs != 153 {
		t.Errorf("event = %+v", ev)
	}
	if !ev.Timestamp.Equal(fixed) || ev.SessionID != r.SessionID() {
		t.Errorf("event = %+v", ev)
	}
	if _, err := uuid.Parse(ev.SessionID); err != nil {
		t.Errorf("SessionID %q is not a UUID: %v", ev.SessionID, err)
	}
}

func TestObserveAttemptError(t *testing.T) {
	store := &mockStore{}
	r := NewRecorder(store)

	r.ObserveAttempt(selection.Attempt{
		AppID:     "kitty",
		Mechanism: selection.AccessibilityFirst,
		Err:       errors.Wrap(selection.ErrNoSelection, "no focused element"),
	})

	ev := store.events[0]
	if ev.Outcome != models.OutcomeError || ev.ErrorMsg != "no focused element: no selection" {
		t.Errorf("event = %+v", ev)
	}
}

func TestStoreFailureIsSwallowed(t *testing.T) {
	r := NewRecorder(&mockStore{err: errors.New("database is locked")})

	r.ObserveAttempt(selection.Attempt{AppID: "x"})
	r.RecordError("watch", errors.New("boom"))
}

func TestRecordError(t *testing.T) {
	store := &mockStore{}
	r := NewRecorder(store)

	r.RecordError("listen", selection.ErrNoActiveWindow)

	if len(store.errors) != 1 {
		t.Fatalf("stored %d error logs, want 1", len(store.errors))
	}
	if store.errors[0].Source != "listen" || store.errors[0].ErrorMsg != "no active window found" {
		t.Errorf("error log = %+v", store.errors[0])
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		name    string
		attempt selection.Attempt
		want    string
	}{
		{"text", selection.Attempt{TextLength: 3}, models.OutcomeText},
		{"empty", selection.Attempt{}, models.OutcomeEmpty},
		{"error", selection.Attempt{Err: selection.ErrExtractorUnavailable}, models.OutcomeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Outcome(tt.attempt); got != tt.want {
				t.Errorf("Outcome() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSessionsAreDistinct(t *testing.T) {
	if NewRecorder(&mockStore{}).SessionID() == NewRecorder(&mockStore{}).SessionID() {
		t.Error("two recorders share a session id")
	}
}

func TestRecorderIsObserver(t *testing.T) {
	var _ selection.Observer = (*Recorder)(nil)
}
