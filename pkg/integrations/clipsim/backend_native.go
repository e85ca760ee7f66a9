package clipsim

import (
	"sync"

	"github.com/pkg/errors"
	"golang.design/x/clipboard"
)

var (
	nativeInitOnce sync.Once
	nativeInitErr  error
)

// NativeBackend talks to the clipboard in-process through
// golang.design/x/clipboard. It can save and restore images as well as text.
type NativeBackend struct{}

// NewNativeBackend initializes the native clipboard once per process
func NewNativeBackend() (*NativeBackend, error) {
	nativeInitOnce.Do(func() {
		nativeInitErr = clipboard.Init()
	})
	if nativeInitErr != nil {
		return nil, errors.Wrap(nativeInitErr, "native clipboard unavailable")
	}
	return &NativeBackend{}, nil
}

func (b *NativeBackend) Name() string {
	return "native"
}

func (b *NativeBackend) ReadText() (string, error) {
	return string(clipboard.Read(clipboard.FmtText)), nil
}

func (b *NativeBackend) WriteText(text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

func (b *NativeBackend) Snapshot() (Snapshot, error) {
	var snap Snapshot
	if text := clipboard.Read(clipboard.FmtText); text != nil {
		snap.Text = string(text)
		snap.HasText = true
	}
	if !snap.HasText {
		snap.Image = clipboard.Read(clipboard.FmtImage)
	}
	return snap, nil
}

func (b *NativeBackend) Restore(s Snapshot) error {
	switch {
	case s.HasText:
		clipboard.Write(clipboard.FmtText, []byte(s.Text))
	case len(s.Image) > 0:
		clipboard.Write(clipboard.FmtImage, s.Image)
	default:
		clipboard.Write(clipboard.FmtText, nil)
	}
	return nil
}
