package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bag2csv/internal/bag"
)

func newFindCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "find",
		Short: "List the recordings discovery would convert",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}

			found, ignored, err := bag.Discover(os.DirFS(cfg.Root))
			if err != nil {
				return fmt.Errorf("discover recordings: %w", err)
			}

			if getOutputFormat(cmd) == "json" {
				listing := map[string][]string{"found": found}
				if all {
					listing["ignored"] = ignored
				}
				return printJSON(os.Stdout, listing)
			}

			w := cmd.OutOrStdout()
			for _, p := range found {
				fmt.Fprintln(w, p)
			}
			if all {
				for _, p := range ignored {
					fmt.Fprintf(w, "%s (ignored)\n", p)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Also list recordings opted out via "+bag.IgnoreMarker)

	return cmd
}
