package clipsim

import (
	"github.com/atotto/clipboard"
	"github.com/pkg/errors"
)

// CommandBackend shells out to pbcopy/pbpaste, xclip, xsel or wl-clipboard
// through github.com/atotto/clipboard. It needs no cgo but only handles text.
type CommandBackend struct{}

// NewCommandBackend fails when none of the clipboard utilities is installed
func NewCommandBackend() (*CommandBackend, error) {
	if clipboard.Unsupported {
		return nil, errors.New("no clipboard utility found (install xclip, xsel or wl-clipboard)")
	}
	return &CommandBackend{}, nil
}

func (b *CommandBackend) Name() string {
	return "command"
}

func (b *CommandBackend) ReadText() (string, error) {
	return clipboard.ReadAll()
}

func (b *CommandBackend) WriteText(text string) error {
	return clipboard.WriteAll(text)
}

func (b *CommandBackend) Snapshot() (Snapshot, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Text: text, HasText: text != ""}, nil
}

func (b *CommandBackend) Restore(s Snapshot) error {
	return clipboard.WriteAll(s.Text)
}
