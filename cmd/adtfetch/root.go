package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	quiet      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "adtfetch",
	Short: "Bulk downloader for WoW ADT map tiles from the wago.tools CASC API",
	Long: `adtfetch downloads ADT terrain tiles by CASC file ID from wago.tools.

It fetches each ID, resolves the real filename from the response headers,
keeps only Kalimdor/Azeroth tile files, and writes them atomically to the
output directory. Runs are idempotent: tiles already on disk are skipped,
so an interrupted run can simply be restarted.

ID sources:
  - a manifest listing (one "<id>;<path>" per line), or
  - an explicit numeric ID range with a step`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is $HOME/.adtfetch.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress per-tile output, print failures and the summary only")

	rootCmd.SetVersionTemplate(`adtfetch {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
