package clipsim

import (
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"

	"seltext/pkg/selection"
)

// fakeBackend is an in-memory clipboard
type fakeBackend struct {
	contents   string
	image      []byte
	snapErr    error
	writeErr   error
	readErr    error
	restored   []Snapshot
	restoreErr error
	writes     []string
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) ReadText() (string, error) {
	if f.readErr != nil {
		return "", f.readErr
	}
	return f.contents, nil
}

func (f *fakeBackend) WriteText(text string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes = append(f.writes, text)
	f.contents = text
	return nil
}

func (f *fakeBackend) Snapshot() (Snapshot, error) {
	if f.snapErr != nil {
		return Snapshot{}, f.snapErr
	}
	return Snapshot{Text: f.contents, HasText: f.contents != "", Image: f.image}, nil
}

func (f *fakeBackend) Restore(s Snapshot) error {
	f.restored = append(f.restored, s)
	f.contents = s.Text
	return f.restoreErr
}

// fakeKeys simulates the focused app answering the copy shortcut
type fakeKeys struct {
	backend *fakeBackend
	copies  string // empty means the app has no selection
	err     error
	presses int
}

func (k *fakeKeys) Name() string { return "fakekeys" }

func (k *fakeKeys) Copy() error {
	k.presses++
	if k.err != nil {
		return k.err
	}
	if k.copies != "" {
		k.backend.contents = k.copies
	}
	return nil
}

func newTestExtractor(b *fakeBackend, k *fakeKeys) (*Extractor, *[]time.Duration) {
	e := NewExtractor(b, k, 0, 0)
	var slept []time.Duration
	e.sleep = func(d time.Duration) { slept = append(slept, d) }
	return e, &slept
}

func TestExtractCopiesAndRestores(t *testing.T) {
	b := &fakeBackend{contents: "previous clipboard"}
	k := &fakeKeys{backend: b, copies: "selected words"}
	e, slept := newTestExtractor(b, k)

	text, err := e.Extract()
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if text != "selected words" {
		t.Errorf("Extract() = %q, want %q", text, "selected words")
	}
	if b.contents != "previous clipboard" {
		t.Errorf("clipboard after Extract() = %q, want it restored", b.contents)
	}
	if len(b.writes) != 1 || b.writes[0] != "" {
		t.Errorf("writes = %q, want a single empty placeholder", b.writes)
	}
	if len(*slept) != 2 || (*slept)[0] != DefaultPreCopyDelay || (*slept)[1] != DefaultSettleDelay {
		t.Errorf("delays = %v, want [%v %v]", *slept, DefaultPreCopyDelay, DefaultSettleDelay)
	}
}

func TestExtractNothingCopied(t *testing.T) {
	b := &fakeBackend{contents: "stale"}
	k := &fakeKeys{backend: b}
	e, _ := newTestExtractor(b, k)

	text, err := e.Extract()
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if text != "" {
		t.Errorf("Extract() = %q, want empty so stale contents are not reported", text)
	}
	if b.contents != "stale" {
		t.Errorf("clipboard = %q, want restored", b.contents)
	}
}

func TestExtractKeystrokeFailure(t *testing.T) {
	b := &fakeBackend{contents: "keep me"}
	k := &fakeKeys{backend: b, err: errors.New("xdotool: not found")}
	e, _ := newTestExtractor(b, k)

	_, err := e.Extract()
	if !errors.Is(err, selection.ErrExtractorUnavailable) {
		t.Errorf("Extract() error = %v, want ErrExtractorUnavailable", err)
	}
	if len(b.restored) != 1 || b.contents != "keep me" {
		t.Errorf("clipboard not restored after failure: restored=%d contents=%q", len(b.restored), b.contents)
	}
}

func TestExtractWriteFailure(t *testing.T) {
	b := &fakeBackend{writeErr: errors.New("clipboard locked")}
	k := &fakeKeys{backend: b}
	e, _ := newTestExtractor(b, k)

	if _, err := e.Extract(); !errors.Is(err, selection.ErrExtractorUnavailable) {
		t.Errorf("Extract() error = %v, want ErrExtractorUnavailable", err)
	}
	if k.presses != 0 {
		t.Errorf("copy pressed %d times, want 0", k.presses)
	}
	if len(b.restored) != 0 {
		t.Errorf("restore called %d times, want 0 when nothing was overwritten", len(b.restored))
	}
}

func TestExtractReadFailure(t *testing.T) {
	b := &fakeBackend{readErr: errors.New("pipe closed")}
	k := &fakeKeys{backend: b, copies: "x"}
	e, _ := newTestExtractor(b, k)

	if _, err := e.Extract(); !errors.Is(err, selection.ErrExtractorUnavailable) {
		t.Errorf("Extract() error = %v, want ErrExtractorUnavailable", err)
	}
}

func TestExtractSnapshotFailureTolerated(t *testing.T) {
	b := &fakeBackend{snapErr: errors.New("unsupported format")}
	k := &fakeKeys{backend: b, copies: "picked"}
	e, _ := newTestExtractor(b, k)

	text, err := e.Extract()
	if err != nil || text != "picked" {
		t.Fatalf("Extract() = %q, %v; want picked, nil", text, err)
	}
	if len(b.restored) != 1 || !b.restored[0].Empty() {
		t.Errorf("restored = %+v, want one empty snapshot", b.restored)
	}
}

func TestExtractRestoreFailureIgnored(t *testing.T) {
	b := &fakeBackend{restoreErr: errors.New("gone")}
	k := &fakeKeys{backend: b, copies: "fine"}
	e, _ := newTestExtractor(b, k)

	if text, err := e.Extract(); err != nil || text != "fine" {
		t.Errorf("Extract() = %q, %v; want fine, nil", text, err)
	}
}

func TestCustomDelays(t *testing.T) {
	b := &fakeBackend{}
	k := &fakeKeys{backend: b}
	e := NewExtractor(b, k, 10*time.Millisecond, 300*time.Millisecond)
	var slept []time.Duration
	e.sleep = func(d time.Duration) { slept = append(slept, d) }

	if _, err := e.Extract(); err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if slept[0] != 10*time.Millisecond || slept[1] != 300*time.Millisecond {
		t.Errorf("delays = %v", slept)
	}
}

func TestName(t *testing.T) {
	b := &fakeBackend{}
	e := NewExtractor(b, &fakeKeys{backend: b}, 0, 0)
	if got := e.Name(); got != "clipboard/fake+fakekeys" {
		t.Errorf("Name() = %q", got)
	}
}

func TestSnapshotEmpty(t *testing.T) {
	tests := []struct {
		snap Snapshot
		want bool
	}{
		{Snapshot{}, true},
		{Snapshot{HasText: true}, false},
		{Snapshot{Image: []byte{0x89, 'P', 'N', 'G'}}, false},
	}
	for _, tt := range tests {
		if got := tt.snap.Empty(); got != tt.want {
			t.Errorf("%+v.Empty() = %v, want %v", tt.snap, got, tt.want)
		}
	}
}

func TestCopyModifier(t *testing.T) {
	if got := copyModifier("darwin"); got != "cmd" {
		t.Errorf("copyModifier(darwin) = %q, want cmd", got)
	}
	if got := copyModifier("linux"); got != "ctrl" {
		t.Errorf("copyModifier(linux) = %q, want ctrl", got)
	}
}

func TestRobotgoReleasesModifiersBeforeTap(t *testing.T) {
	var calls []string
	k := &RobotgoKeystroker{
		modifier: "cmd",
		toggle: func(key string, args ...interface{}) error {
			calls = append(calls, key+" "+args[0].(string))
			return nil
		},
		tap: func(key string, args ...interface{}) error {
			calls = append(calls, "tap "+key+"+"+args[0].(string))
			return nil
		},
	}

	if err := k.Copy(); err != nil {
		t.Fatalf("Copy() error: %v", err)
	}

	want := []string{"shift up", "alt up", "ctrl up", "cmd up", "tap c+cmd"}
	if strings.Join(calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestRobotgoReleaseFailure(t *testing.T) {
	tapped := false
	k := &RobotgoKeystroker{
		modifier: "ctrl",
		toggle:   func(string, ...interface{}) error { return errors.New("no accessibility permission") },
		tap:      func(string, ...interface{}) error { tapped = true; return nil },
	}

	if err := k.Copy(); err == nil {
		t.Error("Copy() error = nil, want error")
	}
	if tapped {
		t.Error("tapped the chord after failing to release modifiers")
	}
}

func TestCommandKeystrokerArgs(t *testing.T) {
	x := NewXdotoolKeystroker()
	if x.Name() != "xdotool" || x.args[len(x.args)-1] != "ctrl+c" {
		t.Errorf("xdotool keystroker = %+v", x)
	}
	w := NewWtypeKeystroker()
	if w.Name() != "wtype" || len(w.args) != 5 {
		t.Errorf("wtype keystroker = %+v", w)
	}
}

func TestInterfaces(t *testing.T) {
	var _ selection.Extractor = (*Extractor)(nil)
	var _ Backend = (*NativeBackend)(nil)
	var _ Backend = (*CommandBackend)(nil)
	var _ Keystroker = (*CommandKeystroker)(nil)
	var _ Keystroker = (*RobotgoKeystroker)(nil)
}
