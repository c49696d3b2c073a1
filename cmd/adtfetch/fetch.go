package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"adtfetch/pkg/auth"
	"adtfetch/pkg/config"
	errs "adtfetch/pkg/errors"
	"adtfetch/pkg/fetcher"
	"adtfetch/pkg/logger"
	"adtfetch/pkg/manifest"
	"adtfetch/pkg/ui"
)

var (
	// ID source flags
	manifestPath string
	wantPrefix   string
	rangeStart   int
	rangeEnd     int
	rangeStep    int

	// Output and filtering
	outDir   string
	mapName  string
	nameCase string

	// Tunables
	timeoutSec int
	retries    int
	backoffSec float64
	sleepSec   float64
	concurrent int
	maxCount   int
	forceRange bool
	tokenFlag  string
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download ADT tiles by CASC file ID",
	Long: `Download ADT tiles from the wago.tools CASC API.

IDs come from exactly one source:
  - a manifest file (--manifest), one "<id>;<path>" record per line, or
  - a numeric range (--start/--end/--step)

Large ranges are refused by a safety cap (default 20000 IDs) unless --force
is given; manifests are trusted and bypass the cap. The exit status is 2
when any ID failed, so scripted runs can detect partial results.`,
	Example: `  # Fetch a manifest of Azeroth tile IDs
  adtfetch fetch --manifest azeroth_adts.txt --want-prefix world/maps/azeroth/

  # Probe an explicit ID range, every 5th ID
  adtfetch fetch --start 780000 --end 800000 --step 5

  # Keep only Kalimdor tiles, four downloads in flight
  adtfetch fetch --manifest ids.txt --map kalimdor --concurrent 4`,
	Args: cobra.NoArgs,
	Run:  runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "manifest file with \"<id>;<path>\" records")
	fetchCmd.Flags().StringVar(&wantPrefix, "want-prefix", "", "keep only manifest records whose path starts with this prefix")
	fetchCmd.Flags().IntVar(&rangeStart, "start", 0, "first file ID of the range")
	fetchCmd.Flags().IntVar(&rangeEnd, "end", 0, "last file ID of the range (inclusive)")
	fetchCmd.Flags().IntVar(&rangeStep, "step", 5, "ID increment in range mode")

	fetchCmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default: adts_out)")
	fetchCmd.Flags().StringVar(&mapName, "map", "", "keep only tiles of one map (kalimdor, azeroth; default: any)")
	fetchCmd.Flags().StringVar(&nameCase, "name-case", "", "map prefix casing for written files (as-is, capitalize, lower)")

	fetchCmd.Flags().IntVar(&timeoutSec, "timeout", 0, "per-request timeout in seconds (default: 60)")
	fetchCmd.Flags().IntVar(&retries, "retries", 0, "attempts per ID before giving up (default: 6)")
	fetchCmd.Flags().Float64Var(&backoffSec, "backoff", -1, "backoff base in seconds, delay grows linearly per attempt (default: 1.5)")
	fetchCmd.Flags().Float64Var(&sleepSec, "sleep", -1, "pause between requests in seconds (default: 0)")
	fetchCmd.Flags().IntVar(&concurrent, "concurrent", 0, "downloads in flight at once (default: 1)")
	fetchCmd.Flags().IntVar(&maxCount, "max-count", 0, "safety cap on range-mode ID count (default: 20000)")
	fetchCmd.Flags().BoolVar(&forceRange, "force", false, "process a range larger than the safety cap")
	fetchCmd.Flags().StringVar(&tokenFlag, "token", "", "API bearer token (overrides the stored token)")
}

func runFetch(cmd *cobra.Command, args []string) {
	flags := buildFlagOverrides(cmd)

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	log := logger.GetLogger()

	src, err := buildSource(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if len(src.IDs) == 0 {
		fmt.Fprintln(os.Stderr, "no IDs to fetch")
		os.Exit(1)
	}

	resolveToken(cfg)

	f, err := fetcher.New(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize: %v\n", err)
		os.Exit(1)
	}

	if removed, err := f.Writer().CleanStaging(); err != nil {
		log.WithError(err).Warn("staging cleanup failed")
	} else if removed > 0 {
		log.WithField("removed", removed).Info("removed stale staging files")
	}

	printer := ui.NewPrinter(os.Stdout, quiet)
	printer.Banner(src.Mode, len(src.IDs), cfg.Output.Directory)
	f.OnEvent(printer.Event)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	counters, err := f.Run(ctx, src)
	if err != nil {
		if errs.IsType(err, errs.ErrorTypeConfig) {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
		os.Exit(1)
	}

	printer.Summary(counters, time.Since(started))

	if counters.Failed > 0 {
		os.Exit(2)
	}
}

// buildFlagOverrides collects only the flags the user actually set, so file
// and environment values survive untouched defaults.
func buildFlagOverrides(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	if outDir != "" {
		flags["out"] = outDir
	}
	if mapName != "" {
		flags["map"] = mapName
	}
	if nameCase != "" {
		flags["name-case"] = nameCase
	}
	if cmd.Flags().Changed("timeout") {
		flags["timeout"] = timeoutSec
	}
	if cmd.Flags().Changed("retries") {
		flags["retries"] = retries
	}
	if cmd.Flags().Changed("backoff") {
		flags["backoff"] = backoffSec
	}
	if cmd.Flags().Changed("sleep") {
		flags["sleep"] = sleepSec
	}
	if cmd.Flags().Changed("concurrent") {
		flags["concurrent"] = concurrent
	}
	if cmd.Flags().Changed("max-count") {
		flags["max-count"] = maxCount
	}
	if forceRange {
		flags["force"] = true
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	return flags
}

// buildSource resolves the ID source from the mutually exclusive flag sets
func buildSource(cmd *cobra.Command) (*manifest.Source, error) {
	haveManifest := manifestPath != ""
	haveRange := cmd.Flags().Changed("start") || cmd.Flags().Changed("end")

	switch {
	case haveManifest && haveRange:
		return nil, fmt.Errorf("--manifest and --start/--end are mutually exclusive")
	case haveManifest:
		return manifest.FromFile(manifestPath, wantPrefix)
	case haveRange:
		return manifest.FromRange(manifest.Range{Start: rangeStart, End: rangeEnd, Step: rangeStep})
	default:
		return nil, fmt.Errorf("an ID source is required: --manifest <file>, or --start and --end")
	}
}

// resolveToken fills the endpoint token: explicit flag first, then the
// stored token from the auth chain. A missing token is fine; the API is
// public for most files.
func resolveToken(cfg *config.Config) {
	if tokenFlag != "" {
		cfg.Endpoint.Token = tokenFlag
		return
	}
	if cfg.Endpoint.Token != "" {
		return
	}
	manager, err := auth.NewManager()
	if err != nil {
		return
	}
	if token, err := manager.Retrieve(); err == nil {
		cfg.Endpoint.Token = token
	}
}
