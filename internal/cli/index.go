package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newIndexCmd(g *globalOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Load the content tree and report what was indexed",
		Long: `Load every post, print the number of posts per locale and list files
that were skipped. With --strict the command fails when any file was
skipped, which is useful in CI.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			out := cmd.OutOrStdout()
			counts := cat.Counts()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LOCALE\tPOSTS")
			total := 0
			for _, loc := range cat.Locales() {
				fmt.Fprintf(tw, "%s\t%d\n", loc, counts[loc])
				total += counts[loc]
			}
			fmt.Fprintf(tw, "total\t%d\n", total)
			if err := tw.Flush(); err != nil {
				return err
			}

			problems := cat.Problems()
			if len(problems) == 0 {
				return nil
			}
			fmt.Fprintf(out, "\n%d file(s) skipped:\n", len(problems))
			for _, p := range problems {
				fmt.Fprintf(out, "  %v\n", p)
			}
			if strict {
				return fmt.Errorf("%d file(s) could not be indexed", len(problems))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any file is skipped")
	return cmd
}
