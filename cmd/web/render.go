package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/irammini/ecosystem/internal/app"
	"github.com/irammini/ecosystem/internal/config"
	"github.com/irammini/ecosystem/internal/observability"
	"github.com/irammini/ecosystem/internal/prefs"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a static snapshot of the page",
	Long: `Render writes the page as it would be served to a first-time visitor,
without the live channel. Flags take the same values as the page's query
parameters.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		// stdout may carry the page; keep logs on stderr
		logger := observability.NewWriterLogger(os.Stderr, cfg.Log.Level)
		defer func() { _ = logger.Sync() }()

		cfg.Prefs.Backend = config.PrefsMemory
		web, err := newServer(cfg, logger)
		if err != nil {
			return err
		}
		defer web.Close()

		seed := app.Seed{}
		seed.Lang, _ = cmd.Flags().GetString("lang")
		seed.Filter, _ = cmd.Flags().GetString("filter")
		seed.Tab, _ = cmd.Flags().GetString("tab")
		seed.Theme, _ = cmd.Flags().GetString("theme")
		seed.Search, _ = cmd.Flags().GetString("q")
		seed.Bot, _ = cmd.Flags().GetString("bot")

		out := cmd.OutOrStdout()
		if path, _ := cmd.Flags().GetString("out"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("creating %s: %w", path, err)
			}
			defer f.Close()
			out = f
		}
		if _, err := web.renderHome(out, prefs.Map{}, seed, ""); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	f := renderCmd.Flags()
	f.String("lang", "", "display language")
	f.String("filter", "", "active filter chip")
	f.String("tab", "", "active tab (overview, updates)")
	f.String("theme", "", "theme id")
	f.String("q", "", "search term")
	f.String("bot", "", "open the detail modal of this bot")
	f.String("out", "", "write to this file instead of stdout")
}
