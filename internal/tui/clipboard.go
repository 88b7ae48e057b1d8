package tui

import (
	"errors"

	"github.com/atotto/clipboard"
)

var errClipboardUnsupported = errors.New("clipboard: no clipboard utility found")

// systemClipboard writes to the OS clipboard (pbcopy, xclip/xsel/wl-copy, or the
// Windows API). Over SSH or in a bare container there is usually none, and the
// session falls back to a prompt.
type systemClipboard struct{}

func (systemClipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return errClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}
