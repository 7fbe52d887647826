package main

import (
	"fmt"
	"os"

	"conceptlab/internal/config"
	"conceptlab/internal/logging"

	"github.com/spf13/cobra"
)

var cfg *config.Config

func init() {
	cfg = config.Load()
	rootCmd.PersistentFlags().String("log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	rootCmd.AddCommand(scoreCmd, runCmd, seedCmd)
}

var rootCmd = &cobra.Command{
	Use:  "conceptlab",
	Long: `Evaluate product concepts against synthetic consumer personas`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, _ := cmd.Flags().GetString("log-level")
		// logs go to stderr so reports can be piped
		logging.Setup(level, os.Stderr)
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
