package main

import (
	"time"

	"github.com/spf13/cobra"

	"StockLookup/internal/config"
	"StockLookup/internal/stock"
)

const service = "stock"

type flags struct {
	envFile string
	port    string
	source  string
	file    string
	seed    int64
	size    int
}

func newRootCmd() *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:           "stocklookup",
		Short:         "Read-only warehouse physical stock lookup API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, &f)
		},
	}

	bindFlags(root, &f)
	root.AddCommand(newServeCmd(&f), newGenerateCmd(&f))
	return root
}

func bindFlags(cmd *cobra.Command, f *flags) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.port, "port", "", "listen port (overrides PORT)")
	pf.StringVar(&f.envFile, "env-file", "", "optional .env file to load before reading the environment")
	pf.StringVar(&f.source, "source", "", "record source: generator or file (overrides STOCK_SOURCE)")
	pf.StringVar(&f.file, "file", "", "static record file, .json or .yaml (overrides STOCK_FILE)")
	pf.Int64Var(&f.seed, "seed", 0, "generator seed, 0 picks one from the clock (overrides STOCK_SEED)")
	pf.IntVar(&f.size, "size", 0, "generator record count (overrides STOCK_SIZE)")
}

// loadConfig applies flags that were set explicitly on top of the
// environment and validates the merged result.
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg, err := config.Read(f.envFile)
	if err != nil {
		return nil, err
	}

	fs := cmd.Flags()
	if fs.Changed("port") {
		cfg.Server.Port = f.port
	}
	if fs.Changed("source") {
		cfg.Stock.Source = f.source
	}
	if fs.Changed("file") {
		cfg.Stock.File = f.file
		if !fs.Changed("source") {
			cfg.Stock.Source = config.SourceFile
		}
	}
	if fs.Changed("seed") {
		cfg.Stock.Seed = f.seed
	}
	if fs.Changed("size") {
		cfg.Stock.Size = f.size
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newSource(cfg config.StockConfig) stock.Source {
	if cfg.Source == config.SourceFile {
		return stock.NewFileSource(cfg.File)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return stock.NewGenerator(cfg.Size, seed)
}
