package session

import "errors"

var errNoClipboard = errors.New("clipboard: not available")
