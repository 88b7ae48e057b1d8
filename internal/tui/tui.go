// Package tui is the terminal front end of the catalog browser.
package tui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"showcase-cli/internal/deeplink"
	"showcase-cli/internal/model"
	"showcase-cli/internal/session"
	"showcase-cli/internal/store"
)

type Options struct {
	Store *store.Store
	// Loader re-fetches the catalog on ctrl+r; nil disables manual reload.
	Loader  *store.Loader
	Link    deeplink.Selection
	PageURL string
	Logger  *zap.Logger
	// Theme is light, dark or auto.
	Theme     string
	Clipboard session.Clipboard
	Opener    session.Opener

	// Input and Output default to the process terminal.
	Input  io.Reader
	Output io.Writer
}

// ReloadedMsg replaces the displayed catalog. Send it with Program.Send, e.g.
// from a store.Watcher.
type ReloadedMsg struct {
	Catalog model.Catalog
}

func NewProgram(ctx context.Context, opts Options) *tea.Program {
	applyColorProfilePreference()
	applyThemePreference(opts.Theme)

	popts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if opts.Input != nil {
		popts = append(popts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		popts = append(popts, tea.WithOutput(opts.Output))
	}
	return tea.NewProgram(newAppModel(opts), popts...)
}

// Run blocks until the user quits or ctx is done.
func Run(p *tea.Program) error {
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
