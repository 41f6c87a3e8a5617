// Package cli implements the casefile command-line interface.
//
// Every command that touches data attaches the store, runs one operation,
// and detaches. Inputs are validated here, before any store call.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mesh-intelligence/casefile/internal/paths"
	"github.com/mesh-intelligence/casefile/pkg/sqlite"
	"github.com/mesh-intelligence/casefile/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	project   int64
	jsonMode  bool
	verbose   bool
}

// app is the state shared by one invocation of the root command.
type app struct {
	flags    rootFlags
	config   *viper.Viper
	logger   *zap.Logger
	registry *prometheus.Registry
}

// NewRootCmd creates the top-level "casefile" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "casefile",
		Short: "A local case store for criminal investigations",
		Long: `Casefile records cases, suspects, the links between them, and case
timelines in a local SQLite store. Cases can be grouped into projects;
--project limits listings and reports to one project.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: config.yaml data_dir, then platform data dir)")
	pf.Int64Var(&a.flags.project, "project", 0, "limit listings and reports to one project id")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "log diagnostics to stderr")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newMigrateCmd(a),
		newCaseCmd(a),
		newSuspectCmd(a),
		newHistoryCmd(a),
		newLinkCmd(a),
		newEventCmd(a),
		newProjectCmd(a),
		newMapCmd(a),
		newNetworkCmd(a),
		newSummaryCmd(a),
		newExportCmd(a),
	)
	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := NewRootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "casefile:", err)
	}
	stop()
	os.Exit(exitCode(err))
}

// setup loads configuration and builds the logger before any subcommand
// runs. version needs neither.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return systemError(fmt.Errorf("resolve config dir: %w", err))
	}
	a.config, err = loadConfig(configDir)
	if err != nil {
		return systemError(err)
	}
	a.logger, err = newLogger(a.flags.verbose, a.config.GetString(cfgKeyLogLevel), cmd.ErrOrStderr())
	if err != nil {
		return usageError(fmt.Errorf("log_level: %w", err))
	}
	a.registry = prometheus.NewRegistry()
	return nil
}

// newLogger builds JSON logging to w at level, or a development logger at
// debug when verbose is set.
func newLogger(verbose bool, level string, w io.Writer) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), lvl)), nil
}

// configDirPath returns the resolved configuration directory.
func (a *app) configDirPath() (string, error) {
	return paths.ResolveConfigDir(a.flags.configDir)
}

// dataDirPath returns the data directory following
// --data-dir > config.yaml data_dir > CASEFILE_DATA_DIR > platform default.
func (a *app) dataDirPath() (string, error) {
	return paths.ResolveDataDir(a.flags.dataDir, a.config.GetString(cfgKeyDataDir))
}

// projectScope returns the --project filter, or nil when unset.
func (a *app) projectScope() *int64 {
	if a.flags.project == 0 {
		return nil
	}
	id := a.flags.project
	return &id
}

// withStore attaches the store, runs fn, detaches, and writes metrics when
// metrics_file is configured. Errors that are not the caller's fault are
// marked as system errors.
func (a *app) withStore(cmd *cobra.Command, fn func(ctx context.Context, store types.Store) error) (err error) {
	dataDir, err := a.dataDirPath()
	if err != nil {
		return systemError(fmt.Errorf("resolve data dir: %w", err))
	}
	store := sqlite.NewBackend()
	cfg := types.Config{
		Backend:    a.config.GetString(cfgKeyBackend),
		DataDir:    dataDir,
		Logger:     a.logger,
		Registerer: a.registry,
	}
	if err := cfg.Validate(); err != nil {
		return usageError(fmt.Errorf("backend %q: %w", cfg.Backend, err))
	}
	if err := store.Attach(cfg); err != nil {
		return systemError(fmt.Errorf("attach store: %w", err))
	}
	defer func() {
		if derr := store.Detach(); derr != nil && err == nil {
			err = systemError(fmt.Errorf("detach store: %w", derr))
		}
		if merr := a.writeMetrics(); merr != nil {
			a.logger.Warn("writing metrics", zap.Error(merr))
		}
		_ = a.logger.Sync()
	}()

	if err := fn(cmd.Context(), store); err != nil {
		if isUserError(err) {
			return err
		}
		return systemError(err)
	}
	return nil
}

// writeMetrics writes the store metrics in Prometheus text format to
// metrics_file, if one is configured.
func (a *app) writeMetrics() error {
	path := a.config.GetString(cfgKeyMetricsFile)
	if path == "" || a.registry == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, a.registry)
}

// errNotFound is returned when a command names a row that does not exist.
var errNotFound = errors.New("not found")

// cliError carries the exit code for an error.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

func usageError(err error) error  { return &cliError{code: exitUserError, err: err} }
func systemError(err error) error { return &cliError{code: exitSysError, err: err} }

// isUserError reports whether err was caused by the caller's input.
func isUserError(err error) bool {
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code == exitUserError
	}
	return errors.Is(err, types.ErrInvalidInput) ||
		errors.Is(err, types.ErrConstraint) ||
		errors.Is(err, errNotFound)
}

// exitCode maps an error returned by the root command to a process exit
// code. Errors cobra raises itself, such as unknown commands or bad
// argument counts, are user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return exitUserError
}
