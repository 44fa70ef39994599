package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bag2csv/internal/pipeline"
)

func newMergeCmd() *cobra.Command {
	var (
		match    string
		out      string
		compress bool
	)

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge exported tables into one time-ordered table per group",
		Long:  "Gathers the exported CSV tables of each recording group, concatenates them ordered by timestamp and writes the combined table into the group directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("match") {
				cfg.Merge.Match = match
			}
			if cmd.Flags().Changed("out") {
				cfg.Merge.Output = out
			}
			if cmd.Flags().Changed("compress") {
				cfg.Compress = compress
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			report, err := pipeline.NewMerger(cfg, newLogger(cfg)).Run(cmd.Context())
			if err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				if err := printJSON(os.Stdout, report); err != nil {
					return err
				}
			} else {
				printReport(cmd.OutOrStdout(), report)
			}
			if report.Failed() {
				return fmt.Errorf("%d groups failed to merge", len(report.Failures))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&match, "match", "", "Substring that merge candidates must contain (overrides the config file)")
	cmd.Flags().StringVar(&out, "out", "", "Merged file name written per group (overrides the config file)")
	cmd.Flags().BoolVar(&compress, "compress", false, "Write a zstd-compressed merged table (overrides the config file)")

	return cmd
}
