// Package cli provides the blogsearch command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"blogsearch/internal/catalog"
	"blogsearch/internal/config"
	"blogsearch/internal/eventbus"
	"blogsearch/internal/logging"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	configPath string
	contentDir string
	logLevel   string
}

// Execute runs the root command with a context cancelled on SIGINT/SIGTERM
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd creates the root command. Without a subcommand it starts
// the TUI.
func NewRootCmd() *cobra.Command {
	g := &globalOptions{}
	tui := &tuiOptions{}

	cmd := &cobra.Command{
		Use:   "blogsearch",
		Short: "Search a Markdown blog from the terminal or over HTTP",
		Long: `blogsearch indexes a directory of Markdown and MDX posts and searches
titles and bodies case-insensitively. Results link to the section that
contains the match.

Run without a subcommand to open the interactive browser.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, g, tui)
		},
	}

	cmd.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default is "+config.DefaultFileName+")")
	cmd.PersistentFlags().StringVar(&g.contentDir, "content", "", "content directory, overrides content_dir")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	tui.bindFlags(cmd)

	cmd.AddCommand(newTUICmd(g))
	cmd.AddCommand(newSearchCmd(g))
	cmd.AddCommand(newServeCmd(g))
	cmd.AddCommand(newIndexCmd(g))
	cmd.AddCommand(newConfigCmd(g))

	return cmd
}

// loadConfig reads the config file and applies flag overrides
func (g *globalOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.NewConfigService(g.configPath).Load()
	if err != nil {
		return nil, err
	}
	if g.contentDir != "" {
		cfg.ContentDir = g.contentDir
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setupLogging installs the slog logger. The TUI logs to the configured
// file because it owns the terminal.
func setupLogging(cfg *config.Config, toFile bool, cmd *cobra.Command) (func(), error) {
	lc := logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	}
	if toFile {
		lc.FilePath = cfg.Log.File
	}
	return logging.Setup(lc)
}

// openCatalog loads the content tree. bus may be nil.
func openCatalog(ctx context.Context, cfg *config.Config, bus eventbus.EventBus) (*catalog.Catalog, error) {
	cat := catalog.New(cfg, bus)
	if err := cat.Load(ctx); err != nil {
		return nil, err
	}
	return cat, nil
}
