package x11

import (
	"sync"
	"time"

	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgb/xtest"
	"github.com/pkg/errors"
)

const (
	keysymControlL xproto.Keysym = 0xffe3
	keysymC        xproto.Keysym = 0x0063

	// shift, control, alt and super; lock and num lock are latched and harmless
	chordMask = xproto.ModMaskShift | xproto.ModMaskControl | xproto.ModMask1 | xproto.ModMask4

	modifierWait = 500 * time.Millisecond
	modifierPoll = 10 * time.Millisecond
)

// rows of the modifier map matching chordMask
var chordModifiers = []int{0, 2, 3, 6}

// CopyKeystroker sends ctrl+c to the focused window through the XTEST
// extension.
type CopyKeystroker struct {
	mu     sync.Mutex
	client *Client
	ctrl   xproto.Keycode
	c      xproto.Keycode
}

// NewCopyKeystroker creates a keystroker; the X connection is opened on
// first use.
func NewCopyKeystroker() *CopyKeystroker {
	return &CopyKeystroker{}
}

// Name identifies the injector in logs
func (k *CopyKeystroker) Name() string {
	return "xtest"
}

func (k *CopyKeystroker) init() error {
	if k.client != nil {
		return nil
	}

	client, err := Dial()
	if err != nil {
		return err
	}
	if err := xtest.Init(client.conn); err != nil {
		client.Close()
		return errors.Wrap(err, "XTEST extension unavailable")
	}

	ctrl, err := client.keycodeFor(keysymControlL)
	if err != nil {
		client.Close()
		return err
	}
	c, err := client.keycodeFor(keysymC)
	if err != nil {
		client.Close()
		return err
	}

	k.client, k.ctrl, k.c = client, ctrl, c
	return nil
}

// Copy presses and releases ctrl+c. Modifiers the user still holds, such as
// the shift of a ctrl+shift+c hotkey, would turn the chord into a different
// shortcut, so Copy waits for them to be let go and releases them itself when
// they are not.
func (k *CopyKeystroker) Copy() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := k.init(); err != nil {
		return err
	}

	if err := k.releaseModifiers(); err != nil {
		k.reset()
		return err
	}

	events := []struct {
		kind byte
		code xproto.Keycode
	}{
		{xproto.KeyPress, k.ctrl},
		{xproto.KeyPress, k.c},
		{xproto.KeyRelease, k.c},
		{xproto.KeyRelease, k.ctrl},
	}

	for _, ev := range events {
		if err := k.fake(ev.kind, ev.code); err != nil {
			k.reset()
			return err
		}
	}
	return nil
}

func (k *CopyKeystroker) fake(kind byte, code xproto.Keycode) error {
	err := xtest.FakeInputChecked(k.client.conn, kind, byte(code), 0, k.client.root, 0, 0, 0).Check()
	return errors.Wrap(err, "xtest fake input failed")
}

func (k *CopyKeystroker) reset() {
	k.client.Close()
	k.client = nil
}

func (k *CopyKeystroker) modifierMask() (uint16, error) {
	reply, err := xproto.QueryPointer(k.client.conn, k.client.root).Reply()
	if err != nil {
		return 0, errors.Wrap(err, "failed to query modifier state")
	}
	return reply.Mask, nil
}

// releaseModifiers waits for the chord modifiers to come up and sends key
// releases for those still down after modifierWait.
func (k *CopyKeystroker) releaseModifiers() error {
	up, err := waitForModifiers(k.modifierMask, modifierWait, modifierPoll, time.Sleep)
	if err != nil || up {
		return err
	}

	keymap, err := xproto.QueryKeymap(k.client.conn).Reply()
	if err != nil {
		return errors.Wrap(err, "failed to query keymap")
	}
	modmap, err := xproto.GetModifierMapping(k.client.conn).Reply()
	if err != nil {
		return errors.Wrap(err, "failed to read modifier mapping")
	}

	for _, code := range heldModifiers(keymap.Keys, modmap.Keycodes, int(modmap.KeycodesPerModifier)) {
		if err := k.fake(xproto.KeyRelease, code); err != nil {
			return err
		}
	}
	return nil
}

// waitForModifiers polls mask until no chord modifier is down or timeout
// passes. It reports whether the modifiers came up.
func waitForModifiers(mask func() (uint16, error), timeout, poll time.Duration, sleep func(time.Duration)) (bool, error) {
	for waited := time.Duration(0); ; waited += poll {
		m, err := mask()
		if err != nil {
			return false, err
		}
		if m&chordMask == 0 {
			return true, nil
		}
		if waited >= timeout {
			return false, nil
		}
		sleep(poll)
	}
}

// heldModifiers returns the pressed keycodes bound to a chord modifier. keys
// is the 32 byte QueryKeymap bit vector, keycodes the GetModifierMapping
// table with perModifier entries per modifier.
func heldModifiers(keys []byte, keycodes []xproto.Keycode, perModifier int) []xproto.Keycode {
	var held []xproto.Keycode
	for _, mod := range chordModifiers {
		for i := 0; i < perModifier; i++ {
			idx := mod*perModifier + i
			if idx >= len(keycodes) {
				break
			}
			code := keycodes[idx]
			if code == 0 || int(code/8) >= len(keys) {
				continue
			}
			if keys[code/8]&(1<<(code%8)) != 0 {
				held = append(held, code)
			}
		}
	}
	return held
}

// Close releases the X connection
func (k *CopyKeystroker) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.client != nil {
		k.client.Close()
		k.client = nil
	}
	return nil
}

// keycodeFor finds the first keycode whose mapping contains sym
func (c *Client) keycodeFor(sym xproto.Keysym) (xproto.Keycode, error) {
	setup := xproto.Setup(c.conn)
	first := setup.MinKeycode
	count := byte(setup.MaxKeycode - setup.MinKeycode + 1)

	reply, err := xproto.GetKeyboardMapping(c.conn, first, count).Reply()
	if err != nil {
		return 0, errors.Wrap(err, "failed to read keyboard mapping")
	}

	code, ok := findKeycode(reply.Keysyms, int(reply.KeysymsPerKeycode), first, sym)
	if !ok {
		return 0, errors.Errorf("no keycode mapped to keysym 0x%x", uint32(sym))
	}
	return code, nil
}

// findKeycode scans a GetKeyboardMapping reply laid out as perKeycode
// keysyms for every keycode starting at first.
func findKeycode(keysyms []xproto.Keysym, perKeycode int, first xproto.Keycode, sym xproto.Keysym) (xproto.Keycode, bool) {
	if perKeycode <= 0 {
		return 0, false
	}
	for i := 0; i*perKeycode < len(keysyms); i++ {
		for j := 0; j < perKeycode && i*perKeycode+j < len(keysyms); j++ {
			if keysyms[i*perKeycode+j] == sym {
				return first + xproto.Keycode(i), true
			}
		}
	}
	return 0, false
}
