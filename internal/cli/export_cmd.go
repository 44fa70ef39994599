package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bag2csv/internal/pipeline"
)

func newExportCmd() *cobra.Command {
	var (
		compress  bool
		overwrite bool
		separator string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Convert every recording's configured topics to CSV tables",
		Long:  "Walks the root for recordings and writes one flat CSV table per (recording, conversion) pair into the recording's group directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			if len(cfg.Conversions) == 0 {
				return errors.New("no conversions configured")
			}
			if cmd.Flags().Changed("compress") {
				cfg.Compress = compress
			}
			if cmd.Flags().Changed("overwrite") {
				cfg.Overwrite = overwrite
			}
			if cmd.Flags().Changed("separator") {
				cfg.Separator = separator
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			report, err := pipeline.NewExporter(cfg, newLogger(cfg)).Run(cmd.Context())
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
				return fmt.Errorf("%d conversions failed", len(report.Failures))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&compress, "compress", false, "Write zstd-compressed tables (overrides the config file)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Keep the last value on duplicate column keys instead of failing")
	cmd.Flags().StringVar(&separator, "separator", "", "Separator between prefix and field names in column keys")

	return cmd
}
