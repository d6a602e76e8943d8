package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"blogsearch/internal/content"
	"blogsearch/internal/domain"
	"blogsearch/internal/eventbus"
	"blogsearch/internal/locale"
	"blogsearch/internal/ui"
)

type tuiOptions struct {
	lang string
}

func (o *tuiOptions) bindFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.lang, "lang", "", "locale to browse (default from LC_ALL/LANG)")
}

func newTUICmd(g *globalOptions) *cobra.Command {
	opts := &tuiOptions{}
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse and search posts interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, g, opts)
		},
	}
	opts.bindFlags(cmd)
	return cmd
}

func runTUI(cmd *cobra.Command, g *globalOptions, opts *tuiOptions) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	cleanup, err := setupLogging(cfg, true, cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	bus := eventbus.New()
	defer bus.Close()

	cat, err := openCatalog(ctx, cfg, bus)
	if err != nil {
		return err
	}

	neg := locale.NewNegotiator(cat.Locales())
	loc := neg.FromEnv()
	if opts.lang != "" {
		loc = neg.Match(opts.lang)
	}
	slog.Info("starting tui", "locale", loc, "content", cfg.ContentDir)

	model := ui.NewModel(cat, cfg, loc, bus)
	var progOpts []tea.ProgramOption
	if cfg.UISettings.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	progOpts = append(progOpts, tea.WithContext(ctx))
	p := tea.NewProgram(model, progOpts...)
	model.SetProgram(p)

	// Forward content events to the UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	forward := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			slog.Warn("event channel full, dropping event", "type", e.Type())
		}
	}
	unsubReload := bus.Subscribe(domain.EventCorpusReloaded, forward)
	unsubError := bus.Subscribe(domain.EventError, forward)
	defer unsubReload()
	defer unsubError()

	go func() {
		for {
			select {
			case e := <-eventChan:
				p.Send(ui.EventMsg{Event: e})
			case <-ctx.Done():
				return
			}
		}
	}()

	if cfg.Watch.Enabled {
		w, err := content.NewWatcher(cfg.ContentDir, cat, time.Duration(cfg.Watch.DebounceMs)*time.Millisecond)
		if err != nil {
			slog.Warn("content watching disabled", "error", err)
		} else {
			watchCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			go func() { _ = w.Run(watchCtx) }()
		}
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
