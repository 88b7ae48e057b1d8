package tui

import (
	"errors"
	"io"
	"os/exec"
	"runtime"
	"strings"
)

var errEmptyURL = errors.New("empty url")

// osOpener hands links to the desktop's default handler.
type osOpener struct{}

func (osOpener) Open(u string) error {
	u = strings.TrimSpace(u)
	if u == "" {
		return errEmptyURL
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", u)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", u)
	default:
		cmd = exec.Command("xdg-open", u)
	}
	// Keep helper output from drawing over the UI.
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
