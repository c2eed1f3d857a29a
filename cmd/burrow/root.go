package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/burrowscan/burrow/pkg/burrow/config"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "burrow [path]",
		Short: "Scan a directory tree and report where the space went",
		Long: `Burrow walks a directory subtree with a pool of concurrent workers,
collects per-entry metadata, rolls directory sizes up from the leaves, and
prints a summary of the largest entries.

Examples:
  burrow                     # Scan the current directory
  burrow ~/Downloads         # Scan a specific directory
  burrow -w 8 /var           # Scan with 8 workers
  burrow -e node_modules .   # Skip matching paths
  burrow -m 100M /var/log    # Hide summary entries below 100 MiB`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScan,
	}
)

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default: "+config.DefaultConfigPath()+")")
	rootCmd.Flags().IntP("workers", "w", 0, "override worker count (0=config default)")
	rootCmd.Flags().StringSliceP("exclude", "e", nil, "exclude patterns (can be specified multiple times)")
	rootCmd.Flags().StringP("min-size", "m", "", "hide summary entries smaller than this (e.g. 10M)")
	rootCmd.Flags().IntP("top", "t", 10, "number of largest entries to print")
	rootCmd.Flags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.Flags().BoolP("verbose", "v", false, "debug output, including per-entry discovery")
}

// loadConfig resolves the effective configuration: the config file and
// BURROW_ environment first, then explicit command-line flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFile(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if w, _ := flags.GetInt("workers"); flags.Changed("workers") && w > 0 {
		cfg.Scan.Workers = w
	}
	if flags.Changed("exclude") {
		cfg.Scan.Exclude, _ = flags.GetStringSlice("exclude")
	}
	if flags.Changed("min-size") {
		cfg.Scan.MinSize, _ = flags.GetString("min-size")
	}
	return cfg, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
