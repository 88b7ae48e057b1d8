package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"showcase-cli/internal/config"
	"showcase-cli/internal/deeplink"
	"showcase-cli/internal/format"
	"showcase-cli/internal/logging"
	"showcase-cli/internal/model"
	"showcase-cli/internal/store"
)

type App struct {
	Config config.Config

	Data    string
	BaseURL string
	Link    string
	Format  string
	Pretty  bool
	Verbose bool
	Watch   bool
	LogFile string
}

func NewRootCmd() *cobra.Command {
	cfg, cfgErr := config.Load()
	app := &App{Config: cfg}
	var theme string

	cmd := &cobra.Command{
		Use:          "showcase",
		Short:        "Browse the projects showcase catalog (TUI, web page, scriptable commands)",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		Example: strings.TrimSpace(`
  # Start the interactive terminal browser
  showcase

  # Open a shared deep link (shortcut for: showcase --link <url>)
  showcase "http://127.0.0.1:3335/?p=todo&e=full"

  # Serve the web page and reload when the catalog file changes
  showcase --watch web

  # Scriptable commands
  showcase list --tag dom
  showcase link todo --edition full
`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgErr != nil {
				return writeErr(cmd, fmt.Errorf("config: %w", cfgErr))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app, theme)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.Data, "data", cfg.Data, "Catalog source: file path, file:// or http(s) URL")
	pf.StringVar(&app.BaseURL, "base-url", cfg.BaseURL, "Page address deep links are built from")
	pf.StringVar(&app.Link, "link", "", "Deep link to open (?p=<id>&e=express|full)")
	pf.StringVar(&app.Format, "format", cfg.Format, "Output format (json|yaml)")
	pf.BoolVar(&app.Pretty, "pretty", false, "Pretty-print JSON output")
	pf.BoolVarP(&app.Verbose, "verbose", "v", false, "Debug logging")
	pf.BoolVar(&app.Watch, "watch", cfg.Watch, "Reload when a local catalog file changes")
	pf.StringVar(&app.LogFile, "log-file", cfg.LogFile, "Write logs to this file")
	cmd.Flags().StringVar(&theme, "theme", cfg.Theme, "Terminal theme (auto|light|dark)")

	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newWebTUICmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newTagsCmd(app))
	cmd.AddCommand(newPathCmd(app))
	cmd.AddCommand(newLinkCmd(app))
	cmd.AddCommand(newResolveCmd(app))
	cmd.AddCommand(newValidateCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// logger builds the command logger. The TUI passes discard so nothing is
// written over the UI unless --log-file is set.
func (app *App) logger(discard bool) (*zap.Logger, error) {
	level := app.Config.LogLevel
	if app.Verbose {
		level = "debug"
	}
	return logging.New(logging.Options{Level: level, File: app.LogFile, Discard: discard})
}

func (app *App) loader(log *zap.Logger) store.Loader {
	return store.Loader{Source: strings.TrimSpace(app.Data), Logger: log}
}

// loadCatalog loads the catalog with fallback, like the page does on start.
func (app *App) loadCatalog(ctx context.Context, log *zap.Logger) model.Catalog {
	return app.loader(log).Load(ctx)
}

// selection decodes --link; an empty link selects the express edition.
func (app *App) selection() (deeplink.Selection, error) {
	link := strings.TrimSpace(app.Link)
	if link == "" {
		return deeplink.Selection{Edition: model.EditionExpress}, nil
	}
	sel, err := deeplink.Parse(link)
	if err != nil {
		return deeplink.Selection{}, errUsage("invalid --link %q: %v", link, err)
	}
	return sel, nil
}

// pageURL is the address copied links are built from: the opened link keeps
// its other parameters, otherwise the base URL.
func (app *App) pageURL() string {
	if link := strings.TrimSpace(app.Link); strings.Contains(link, "://") {
		return link
	}
	return strings.TrimSpace(app.BaseURL)
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.Pretty)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
