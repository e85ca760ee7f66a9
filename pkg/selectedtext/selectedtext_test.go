package selectedtext

import (
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"

	"seltext/pkg/selection"
)

// The clipboard fallback presses ctrl+c in the focused window, which would
// interrupt a test run started from a terminal.
func requireInteractive(t *testing.T) {
	t.Helper()
	if os.Getenv("SELTEXT_INTERACTIVE_TESTS") != "1" {
		t.Skip("set SELTEXT_INTERACTIVE_TESTS=1 to run against the live desktop")
	}
}

func TestGet(t *testing.T) {
	requireInteractive(t)

	text, err := Get()
	switch {
	case err == nil:
		t.Logf("selected %d bytes", len(text))
	case errors.Is(err, selection.ErrNoActiveWindow),
		errors.Is(err, selection.ErrNoSelection),
		errors.Is(err, selection.ErrExtractorUnavailable):
		t.Skipf("no usable desktop session: %v", err)
	default:
		t.Skipf("platform components unavailable: %v", err)
	}
}

func TestLazySelectorRetriesAfterFailure(t *testing.T) {
	built := selection.NewSelector(nil, nil, nil, selection.NewStrategyCache(1))
	calls := 0
	l := &lazySelector{build: func() (*selection.Selector, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("no display")
		}
		return built, nil
	}}

	if _, err := l.get(); err == nil {
		t.Fatal("get() error = nil on a failed build")
	}

	for i := 0; i < 2; i++ {
		s, err := l.get()
		if err != nil {
			t.Fatalf("get() after failure error: %v", err)
		}
		if s != built {
			t.Error("get() returned a different selector")
		}
	}
	if calls != 2 {
		t.Errorf("build called %d times, want 2", calls)
	}
}

func TestLazySelectorConcurrentGet(t *testing.T) {
	var calls atomic.Int32
	l := &lazySelector{build: func() (*selection.Selector, error) {
		calls.Add(1)
		return selection.NewSelector(nil, nil, nil, selection.NewStrategyCache(1)), nil
	}}

	var wg sync.WaitGroup
	got := make([]*selection.Selector, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], _ = l.get()
		}(i)
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("build called %d times, want 1", calls.Load())
	}
	for i := range got {
		if got[i] != got[0] {
			t.Fatal("concurrent get() returned distinct selectors")
		}
	}
}

func TestDefaultSelectorUsesSharedCache(t *testing.T) {
	requireInteractive(t)

	s, err := defaultSelector.get()
	if err != nil {
		t.Skipf("platform components unavailable: %v", err)
	}
	if s.Cache() != selection.SharedCache() {
		t.Error("default selector does not use the shared cache")
	}
}
