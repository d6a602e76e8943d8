package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"blogsearch/internal/anchor"
	"blogsearch/internal/locale"
	"blogsearch/internal/server"
)

type searchOptions struct {
	lang   string
	limit  int
	asJSON bool
}

func newSearchCmd(g *globalOptions) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search posts and print the results",
		Long: `Search titles and bodies for a literal, case-insensitive query.

Each result shows the post title, the link to the matching section and an
excerpt around the first match.

Examples:
  blogsearch search "deep dive"
  blogsearch search --lang de Anleitung
  blogsearch search --json --limit 5 hello`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, g, opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVar(&opts.lang, "lang", "", "locale to search (default from LC_ALL/LANG)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 10, "maximum results, 0 for all")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print results as JSON")

	return cmd
}

func runSearch(cmd *cobra.Command, g *globalOptions, opts *searchOptions, query string) error {
	if opts.limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	cleanup, err := setupLogging(cfg, false, cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	cat, err := openCatalog(cmd.Context(), cfg, nil)
	if err != nil {
		return err
	}

	neg := locale.NewNegotiator(cat.Locales())
	loc := neg.FromEnv()
	if opts.lang != "" {
		loc = neg.Match(opts.lang)
	}

	all := cat.Search(loc, query)
	results := all
	if opts.limit > 0 && len(results) > opts.limit {
		results = results[:opts.limit]
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		resp := server.SearchResponse{
			Query:   query,
			Locale:  loc,
			Total:   len(all),
			Results: make([]server.ResultJSON, 0, len(results)),
		}
		for _, r := range results {
			resp.Results = append(resp.Results, server.NewResultJSON(cat.BasePath(), r))
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	if len(results) == 0 {
		fmt.Fprintf(out, "No results for %q\n", query)
		return nil
	}
	for i, r := range results {
		fmt.Fprintf(out, "%d. %s\n", i+1, r.Title)
		fmt.Fprintf(out, "   %s\n", anchor.Target(cat.BasePath(), r))
		if excerpt := strings.Join(strings.Fields(r.Excerpt), " "); excerpt != "" {
			fmt.Fprintf(out, "   %s\n", excerpt)
		}
	}
	if len(results) < len(all) {
		fmt.Fprintf(out, "\nShowing %d of %d results\n", len(results), len(all))
	}
	return nil
}
