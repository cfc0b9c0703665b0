package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mvaughn/solvercheck/internal/config"
	"github.com/mvaughn/solvercheck/internal/fileutil"
	"github.com/mvaughn/solvercheck/internal/history"
	"github.com/mvaughn/solvercheck/internal/logger"
	"github.com/mvaughn/solvercheck/internal/models"
	"github.com/mvaughn/solvercheck/internal/parser"
	"github.com/mvaughn/solvercheck/internal/reporter"
	"github.com/mvaughn/solvercheck/internal/suite"
)

// runLogger bridges suite evaluation to the console reporter and the
// diagnostic logger. Result lines go to stdout, diagnostics to stderr.
type runLogger struct {
	console *reporter.Console
	diag    *logger.ConsoleLogger
}

// LogExampleStart logs a diagnostic before an example's log is scanned
func (l *runLogger) LogExampleStart(name, logPath string) {
	l.diag.Debugf("scanning %s for example %s", logPath, name)
}

// LogExampleComplete reports the evaluated example
func (l *runLogger) LogExampleComplete(result models.ExampleResult) {
	if result.LogMissing {
		l.diag.Warnf("log unavailable for example %s: %s", result.ExampleName, result.LogPath)
	}
	l.console.LogExampleComplete(result)
}

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <suite-file>...",
		Short: "Evaluate example problems against their solver logs",
		Long: `Evaluate every example declared in the given suite file(s).

Each example's log file is scanned top-to-bottom exactly once; all declared
values are resolved by that single pass, then each check is evaluated.
Examples are processed strictly sequentially. A missing log never aborts the
run: the example's checks are skipped and reported as such.

The mode selects which subset of examples to evaluate: examples may restrict
themselves to serial or parallel logs via the "modes" list in the suite file.

Output contract (consumed by CI tooling):
  <example> : .          every declared check was found and passed
  <example> : F ...      failure, with missing and out-of-tolerance details
  Test Summary : P/T     final line; P examples of T passed

Configuration is loaded from .solvercheck/config.yaml if present.
CLI flags override configuration file settings.

Arguments may be suite files or directories; a directory contributes every
.yaml/.yml file directly inside it.

Examples:
  solvercheck run examples.yaml
  solvercheck run suites/
  solvercheck run --mode parallel examples.yaml
  solvercheck run --verbose --no-history examples.yaml
  solvercheck run --config custom.yaml serial.yaml extra.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCommand,
	}

	// Add flags
	cmd.Flags().String("config", "", "Path to config file (default: .solvercheck/config.yaml)")
	cmd.Flags().String("mode", "", "Invocation mode: serial or parallel (default: from config)")
	cmd.Flags().Bool("verbose", false, "Show detailed scanning information")
	cmd.Flags().Bool("no-history", false, "Do not record this run in the history database")

	return cmd
}

// runCommand implements the run command logic
func runCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigFromFlags(cmd)
	if err != nil {
		return err
	}

	mode := cfg.DefaultMode
	diagLevel := cfg.LogLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		diagLevel = "debug"
	}

	diag := logger.NewConsoleLogger(cmd.ErrOrStderr(), diagLevel, cfg.Color)
	console := reporter.NewConsole(cmd.OutOrStdout(), cfg.Color)

	paths, err := fileutil.ExpandPaths(args)
	if err != nil {
		return err
	}

	// Construction errors (malformed tables, duplicate identifiers) are
	// caller bugs and fail here, before any log file is opened.
	s := suite.New()
	for _, path := range paths {
		sf, err := parser.ParseFile(path)
		if err != nil {
			return err
		}
		if err := sf.Build(s, mode); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	if s.Len() == 0 {
		return fmt.Errorf("no examples selected for mode %q", mode)
	}

	diag.Infof("evaluating %d example(s) in %s mode", s.Len(), mode)
	run := s.Run(mode, &runLogger{console: console, diag: diag})
	console.Summary(run)
	diag.Infof("run %s finished in %s", run.RunID, run.Duration.Round(time.Millisecond))

	if cfg.History.Enabled {
		recordHistory(cfg, run, diag)
	}

	// Exit status is not part of the contract; CI derives pass/fail from
	// the summary counts.
	return nil
}

// recordHistory persists the run, logging (not failing) on errors.
func recordHistory(cfg *config.Config, run models.RunResult, diag *logger.ConsoleLogger) {
	store, err := history.NewStore(cfg.History.DBPath)
	if err != nil {
		diag.Warnf("history disabled for this run: %v", err)
		return
	}
	defer store.Close()

	if err := store.RecordRun(run); err != nil {
		diag.Warnf("failed to record run history: %v", err)
		return
	}
	if err := store.Prune(cfg.History.KeepRuns); err != nil {
		diag.Warnf("failed to prune run history: %v", err)
	}
	diag.Debugf("recorded run %s in %s", run.RunID, cfg.History.DBPath)
}

// loadConfigFromFlags loads the config file and merges explicitly set flags.
func loadConfigFromFlags(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	var modePtr *string
	if cmd.Flags().Changed("mode") {
		mode, _ := cmd.Flags().GetString("mode")
		modePtr = &mode
	}
	var noHistoryPtr *bool
	if cmd.Flags().Changed("no-history") {
		noHistory, _ := cmd.Flags().GetBool("no-history")
		noHistoryPtr = &noHistory
	}
	cfg.MergeWithFlags(modePtr, nil, noHistoryPtr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
