package cli

import (
	"os"

	"github.com/spf13/cobra"

	"bag2csv/internal/bag"
)

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "topics <recording>",
		Short: "List the topics stored in one recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := bag.Open(args[0])
			if err != nil {
				return err
			}
			defer r.Close()

			topics, err := r.Topics(cmd.Context())
			if err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, topics)
			}

			rows := make([][]string, len(topics))
			for i, ti := range topics {
				rows[i] = []string{ti.Name, ti.Type, ti.Format}
			}
			printTable(cmd.OutOrStdout(), []string{"name", "type", "format"}, rows)
			return nil
		},
	}
}
