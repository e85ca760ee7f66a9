// Package hotkey registers a global shortcut and runs a callback each time it
// is released.
package hotkey

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.design/x/hotkey"
)

// ErrHotkeyConflict is returned when the combo is already grabbed by another
// application.
var ErrHotkeyConflict = errors.New("hotkey: key combination already registered by another application")

// ErrHotkeyInvalid is returned when the combo string cannot be parsed.
var ErrHotkeyInvalid = errors.New("hotkey: invalid key combination")

// backend abstracts golang.design/x/hotkey so tests can use a mock
type backend interface {
	Register() error
	Unregister() error
	Keyup() <-chan struct{}
}

// realBackend creates the hotkey.Hotkey lazily in Register so that
// constructing a Service spawns no cgo goroutines.
type realBackend struct {
	hk        *hotkey.Hotkey
	mods      []hotkey.Modifier
	key       hotkey.Key
	keyCh     chan struct{}
	closeOnce sync.Once
}

func newRealBackend(combo string) (*realBackend, error) {
	mods, key, err := parseHotkey(combo)
	if err != nil {
		return nil, err
	}
	return &realBackend{mods: mods, key: key}, nil
}

func (r *realBackend) Register() error {
	r.hk = hotkey.New(r.mods, r.key)
	if err := r.hk.Register(); err != nil {
		_ = r.hk.Unregister()
		r.hk = nil
		return errors.Wrap(ErrHotkeyConflict, err.Error())
	}

	// Relay releases rather than presses so the trigger key is already up
	// when ctrl+c is injected. The modifiers may still be held; the copy
	// keystrokers deal with those.
	r.keyCh = make(chan struct{}, 4)
	src := r.hk.Keyup()
	go func() {
		for range src {
			select {
			case r.keyCh <- struct{}{}:
			default: // drop if buffer full (rapid presses)
			}
		}
		r.closeOnce.Do(func() { close(r.keyCh) })
	}()
	return nil
}

func (r *realBackend) Unregister() error {
	if r.hk == nil {
		return nil
	}
	return r.hk.Unregister()
}

func (r *realBackend) Keyup() <-chan struct{} {
	return r.keyCh
}

// Service owns one registered hotkey
type Service struct {
	mu         sync.Mutex
	backend    backend
	combo      string
	registered atomic.Bool
	doneCh     chan struct{}
	cancel     context.CancelFunc
}

// NewService parses combo and prepares the OS registration
func NewService(combo string) (*Service, error) {
	b, err := newRealBackend(combo)
	if err != nil {
		return nil, err
	}
	return &Service{backend: b, combo: Normalize(combo)}, nil
}

func newServiceWithBackend(b backend, combo string) *Service {
	return &Service{backend: b, combo: combo}
}

// Start registers the hotkey and calls onTrigger on every release until ctx
// is cancelled or Stop is called. Triggers are handled one at a time; presses
// arriving while onTrigger runs are buffered or dropped.
func (s *Service) Start(ctx context.Context, onTrigger func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.registered.Load() {
		return fmt.Errorf("hotkey: %s is already registered", s.combo)
	}

	if err := s.backend.Register(); err != nil {
		return err
	}
	s.registered.Store(true)
	log.Printf("hotkey: %s registered", s.combo)

	listenCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	b := s.backend
	combo := s.combo
	keyup := b.Keyup()
	doneCh := make(chan struct{})
	s.doneCh = doneCh

	go func() {
		defer func() {
			if err := b.Unregister(); err != nil {
				log.Printf("hotkey: unregister %s: %v", combo, err)
			}
			s.registered.Store(false)
			log.Printf("hotkey: %s unregistered", combo)
			close(doneCh)
		}()
		for {
			select {
			case <-listenCtx.Done():
				return
			case _, ok := <-keyup:
				if !ok {
					return
				}
				onTrigger()
			}
		}
	}()
	return nil
}

// Stop cancels the listener and waits briefly for it to exit
func (s *Service) Stop() {
	s.mu.Lock()
	doneCh := s.doneCh
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	if doneCh == nil {
		return
	}
	select {
	case <-doneCh:
	case <-time.After(200 * time.Millisecond):
		log.Printf("hotkey: Stop() timed out waiting for listener to exit")
	}
}

// Done is closed when the listener exits; nil before Start
func (s *Service) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doneCh
}

// Combo returns the registered combo string
func (s *Service) Combo() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.combo
}

var keyMap = map[string]hotkey.Key{
	"space":  hotkey.KeySpace,
	"tab":    hotkey.KeyTab,
	"return": hotkey.KeyReturn,
	"enter":  hotkey.KeyReturn,
	"a":      hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,
	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,
	"f1": hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3, "f4": hotkey.KeyF4,
	"f5": hotkey.KeyF5, "f6": hotkey.KeyF6, "f7": hotkey.KeyF7, "f8": hotkey.KeyF8,
	"f9": hotkey.KeyF9, "f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,
}

// Normalize lowercases a combo and strips blanks around the parts
func Normalize(combo string) string {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(combo)), "+")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, "+")
}

// Validate reports whether combo can be registered on this platform
func Validate(combo string) error {
	_, _, err := parseHotkey(combo)
	return err
}

// parseHotkey turns "ctrl+shift+c" into modifiers and a key. Modifier names
// are platform specific, see modMap.
func parseHotkey(combo string) ([]hotkey.Modifier, hotkey.Key, error) {
	parts := strings.Split(Normalize(combo), "+")
	if len(parts) < 2 {
		return nil, 0, errors.Wrapf(ErrHotkeyInvalid, "%q needs at least one modifier", combo)
	}
	keyPart := parts[len(parts)-1]
	modParts := parts[:len(parts)-1]

	key, ok := keyMap[keyPart]
	if !ok {
		return nil, 0, errors.Wrapf(ErrHotkeyInvalid, "unknown key %q", keyPart)
	}

	var mods []hotkey.Modifier
	seen := map[hotkey.Modifier]bool{}
	for _, m := range modParts {
		mod, ok := modMap[m]
		if !ok {
			return nil, 0, errors.Wrapf(ErrHotkeyInvalid, "unknown modifier %q", m)
		}
		if seen[mod] {
			continue
		}
		seen[mod] = true
		mods = append(mods, mod)
	}
	return mods, key, nil
}
