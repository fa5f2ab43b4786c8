package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/referee/packages/assertions"
	"github.com/abdul-hamid-achik/referee/packages/casefile"
	"github.com/abdul-hamid-achik/referee/packages/core/config"
	"github.com/abdul-hamid-achik/referee/packages/format"
	"github.com/abdul-hamid-achik/referee/packages/output"
	"github.com/abdul-hamid-achik/referee/packages/referee"
	"github.com/abdul-hamid-achik/referee/packages/runner"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <file|directory>...",
	Short: "Run match case documents",
	Long: `Run the cases defined in *.match.yaml, *.match.yml or *.match.json documents.

Examples:
  referee check users.match.yaml
  referee check ./cases/ --bail
  referee check ./cases/ --name admin --output json
  referee check ./cases/ --watch`,
	Args: cobra.MinimumNArgs(1),
	RunE: checkCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	configFlag      string
	outputFlag      string
	nameFlag        string
	verboseFlag     bool
	noColorFlag     bool
	bailFlag        bool
	parallelFlag    bool
	concurrencyFlag int
	watchFlag       bool
)

func init() {
	checkCmd.Flags().StringVar(&configFlag, "config", getEnvString("REFEREE_CONFIG", ""), "Path to config file (env: REFEREE_CONFIG)")
	checkCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("REFEREE_OUTPUT", ""), "Output format: console, json, tap (env: REFEREE_OUTPUT)")
	checkCmd.Flags().StringVarP(&nameFlag, "name", "n", "", "Run only cases whose name contains this text")
	checkCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("REFEREE_VERBOSE", false), "Show matcher and actual values (env: REFEREE_VERBOSE)")
	checkCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("REFEREE_NO_COLOR", false), "Disable colored output (env: REFEREE_NO_COLOR)")
	checkCmd.Flags().BoolVar(&bailFlag, "bail", getEnvBool("REFEREE_BAIL", false), "Stop a document after the first failure (env: REFEREE_BAIL)")
	checkCmd.Flags().BoolVarP(&parallelFlag, "parallel", "p", getEnvBool("REFEREE_PARALLEL", false), "Run cases in parallel (env: REFEREE_PARALLEL)")
	checkCmd.Flags().IntVar(&concurrencyFlag, "concurrency", getEnvInt("REFEREE_CONCURRENCY", 0), "Number of cases run at once in parallel mode (env: REFEREE_CONCURRENCY)")
	checkCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Re-run when documents change")
}

// loadConfig reads the config file and applies flags set on cmd on top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, withExitCode(ExitConfigError, fmt.Errorf("failed to load config: %w", err))
	}

	overrides := &config.Config{
		Concurrency: concurrencyFlag,
		Reporter:    outputFlag,
	}
	flags := cmd.Flags()
	if flags.Changed("no-color") || noColorFlag {
		overrides.NoColor = config.BoolPtr(noColorFlag)
	}
	if flags.Changed("verbose") || verboseFlag {
		overrides.Verbose = config.BoolPtr(verboseFlag)
	}
	if flags.Changed("bail") || bailFlag {
		overrides.Bail = config.BoolPtr(bailFlag)
	}
	if flags.Changed("parallel") || parallelFlag {
		overrides.Parallel = config.BoolPtr(parallelFlag)
	}
	return cfg.Merge(overrides), nil
}

func newFormatter(cfg *config.Config, w io.Writer) (output.Formatter, error) {
	switch strings.ToLower(cfg.Reporter) {
	case "", "console":
		return output.NewConsoleFormatter(
			output.WithWriter(w),
			output.WithVerbose(cfg.GetVerbose()),
			output.WithNoColor(cfg.GetNoColor()),
			output.WithValueFormatter(&format.Formatter{MaxDepth: cfg.MaxDepth, MaxLength: cfg.MaxLength}),
		), nil
	case "json":
		return output.NewJSONFormatter(output.JSONWithWriter(w)), nil
	case "tap":
		return output.NewTAPFormatter(output.TAPWithWriter(w)), nil
	}
	return nil, withExitCode(ExitUsageError, fmt.Errorf("unknown output format %q", cfg.Reporter))
}

type checkSummary struct {
	failed      int
	parseErrors int
	duration    time.Duration
}

func runDocuments(r *referee.Referee, cfg *config.Config, files []string, formatter output.Formatter) checkSummary {
	start := time.Now()
	run := runner.NewRunner(r, &runner.Config{
		Bail:        cfg.GetBail(),
		NameFilter:  nameFlag,
		Parallel:    cfg.GetParallel(),
		Concurrency: cfg.Concurrency,
	})

	var summary checkSummary
	for _, file := range files {
		result, err := run.RunFile(file)
		if err != nil {
			formatter.FormatError(err)
			summary.parseErrors++
			continue
		}
		formatter.FormatResult(result)
		summary.failed += result.Failed
	}
	summary.duration = time.Since(start)

	if flushable, ok := formatter.(output.Flushable); ok {
		if err := flushable.Flush(summary.duration); err != nil {
			formatter.FormatError(err)
		}
	}
	return summary
}

func checkCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	files, err := casefile.Collect(args)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}
	if len(files) == 0 {
		return withExitCode(ExitUsageError, fmt.Errorf("no case documents found"))
	}

	r, err := assertions.NewReferee(referee.WithConfig(cfg))
	if err != nil {
		return err
	}

	formatter, err := newFormatter(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	formatter.FormatHeader(version)
	summary := runDocuments(r, cfg, files, formatter)

	if !watchFlag {
		switch {
		case summary.parseErrors > 0:
			return withExitCode(ExitParseError, fmt.Errorf("%d document(s) could not be parsed", summary.parseErrors))
		case summary.failed > 0:
			return withExitCode(ExitTestFailure, fmt.Errorf("%d case(s) failed", summary.failed))
		}
		return nil
	}

	return watch(cmd, args, files, func() {
		formatter, err := newFormatter(cfg, cmd.OutOrStdout())
		if err != nil {
			return
		}
		runDocuments(r, cfg, files, formatter)
	}, formatter)
}

// serialize wraps fn so that concurrent calls run one at a time.
func serialize(fn func(changed string)) func(changed string) {
	var mu sync.Mutex
	return func(changed string) {
		mu.Lock()
		defer mu.Unlock()
		fn(changed)
	}
}

// watch re-runs the documents whenever one of them, or a file next to them,
// is written. It returns when interrupted.
func watch(cmd *cobra.Command, args, files []string, rerun func(), formatter output.Formatter) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	onChange := serialize(func(name string) {
		fmt.Fprintf(cmd.OutOrStdout(), "\n\nFile changed: %s\nRe-running cases...\n\n", name)
		rerun()
		fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n")
	})

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watchedDirs := make(map[string]bool)
	for _, file := range files {
		dir := filepath.Dir(file)
		if !watchedDirs[dir] {
			if err := watcher.Add(dir); err != nil {
				formatter.FormatError(fmt.Errorf("failed to watch %s: %w", dir, err))
			}
			watchedDirs[dir] = true
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err == nil && info.IsDir() {
			_ = filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if info.IsDir() && !watchedDirs[path] {
					_ = watcher.Add(path)
					watchedDirs[path] = true
				}
				return nil
			})
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	var debounceTimer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
				onChange(name)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			formatter.FormatError(fmt.Errorf("watcher error: %w", err))
		}
	}
}
