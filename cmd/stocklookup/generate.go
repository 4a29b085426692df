package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"StockLookup/internal/config"
	"StockLookup/internal/stock"
)

func newGenerateCmd(f *flags) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic record set to a .json or .yaml file",
		Long: `Write a synthetic record set to a file that the file source can load.

Use --seed to make the output reproducible.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Read(f.envFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Stock.Seed = f.seed
			}
			if cmd.Flags().Changed("size") {
				cfg.Stock.Size = f.size
			}
			cfg.Stock.Source = config.SourceGenerator
			if err := cfg.Validate(); err != nil {
				return err
			}

			records, err := newSource(cfg.Stock).Load(cmd.Context())
			if err != nil {
				return err
			}
			if err := stock.WriteFile(out, records); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records to %s\n", len(records), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "stock.json", "output file")
	return cmd
}
