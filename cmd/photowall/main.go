// Command photowall is a desktop photo browser built around a
// virtualized thumbnail grid.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sarvarunajvm/ideal-goggles-sub001/internal/config"
)

var (
	cfgFile string
	libDir  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "photowall [folder]",
		Short: "browse a folder of photos in a virtualized grid",
		Args:  cobra.MaximumNArgs(1),
		RunE:  run,
	}
	rootCmd.Flags().StringVar(&cfgFile, "config", defaultConfigPath(), "path to YAML config file")
	rootCmd.Flags().StringVar(&libDir, "dir", "", "photo folder to open at startup")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	if libDir != "" {
		cfg.Library = libDir
	}
	if len(args) == 1 {
		cfg.Library = args[0]
	}

	runUI(cfg)
	return nil
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "photowall", "config.yaml")
}
