// recipebox - browse recipes from TheMealDB and keep personal favorites,
// an ingredient list, and a theme preference on this machine.
//
// Usage:
//
//	recipebox [--verbose] [--quiet] [--metrics] [--store sqlite|file|memory] [command]
//
// Without a command an interactive prompt is started.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipebox/internal/config"
	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/engine"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/mealdb"
	"github.com/hammamikhairi/recipebox/internal/preference"
	"github.com/hammamikhairi/recipebox/internal/recipe"
	"github.com/hammamikhairi/recipebox/internal/session"
	"github.com/hammamikhairi/recipebox/internal/storage"
	"github.com/hammamikhairi/recipebox/internal/userstate"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root, finish := newRootCmd()
	err := root.ExecuteContext(ctx)
	finish()
	if err != nil {
		os.Exit(1)
	}
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	verbose bool
	quiet   bool
	logFile string
	dataDir string
	store   string
	metrics bool
}

// app is the wired application for one command invocation.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	engine  *engine.Engine
	closers []io.Closer
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i].Close()
	}
}

// newRootCmd builds the command tree. finish must run after Execute
// returns, whether or not the command failed: it releases the app and
// dumps metrics when --metrics is set.
func newRootCmd() (root *cobra.Command, finish func()) {
	var flags globalFlags
	var a *app

	root = &cobra.Command{
		Use:          "recipebox",
		Short:        "Browse recipes and keep favorites and a shopping list",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp(cmd.Context(), flags)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd.Context(), a)
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVar(&flags.verbose, "verbose", false, "enable verbose/debug logging")
	pf.BoolVar(&flags.quiet, "quiet", false, "disable all logging")
	pf.StringVar(&flags.logFile, "log-file", "", `file to write logs to (use "stderr" to log to console)`)
	pf.StringVar(&flags.dataDir, "data-dir", "", "directory for local state")
	pf.StringVar(&flags.store, "store", "", "storage backend: sqlite, file or memory")
	pf.BoolVar(&flags.metrics, "metrics", false, "print catalog request metrics to stderr on exit")

	appFn := func() *app { return a }
	root.AddCommand(
		newSearchCmd(appFn),
		newRandomCmd(appFn),
		newHomeCmd(appFn),
		newShowCmd(appFn),
		newLoginCmd(appFn),
		newSignupCmd(appFn),
		newLogoutCmd(appFn),
		newWhoamiCmd(appFn),
		newFavoritesCmd(appFn),
		newIngredientsCmd(appFn),
		newThemeCmd(appFn),
		&cobra.Command{
			Use:   "repl",
			Short: "Start the interactive prompt",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runREPL(cmd.Context(), a)
			},
		},
	)

	finish = func() {
		if a == nil {
			return
		}
		if flags.metrics {
			if err := dumpMetrics(root.ErrOrStderr(), prometheus.DefaultGatherer); err != nil {
				a.log.Warn("%v", err)
			}
		}
		a.Close()
		a = nil
	}
	return root, finish
}

// newApp loads configuration, applies flag overrides, and wires every
// component. The session is hydrated before it returns.
func newApp(ctx context.Context, flags globalFlags) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flags.dataDir != "" {
		cfg.DataDir = flags.dataDir
	}
	if flags.store != "" {
		cfg.Store = flags.store
	}
	if flags.logFile != "" {
		cfg.LogFile = flags.logFile
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}

	level := logger.ParseLevel(cfg.LogLevel)
	if flags.verbose {
		level = logger.LevelVerbose
	}
	if flags.quiet {
		level = logger.LevelOff
	}

	// Logs go to a file by default so command output stays clean.
	var logOut io.Writer = os.Stderr
	logPath := cfg.LogFile
	if logPath == "" {
		logPath = filepath.Join(cfg.DataDir, "recipebox.log")
	}
	if logPath != "stderr" && level != logger.LevelOff {
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err == nil {
			f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", logPath, err)
			} else {
				logOut = f
				a.closers = append(a.closers, f)
			}
		}
	}
	log := logger.New(level, logOut)
	a.log = log

	kv, err := openStore(cfg, log.Named("storage"))
	if err != nil {
		a.Close()
		return nil, err
	}
	if c, ok := kv.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}

	client := mealdb.NewClient(cfg.BaseURL, log.Named("mealdb"),
		mealdb.WithHTTPTimeout(cfg.HTTPTimeout),
		mealdb.WithRetries(cfg.HTTPRetries),
		mealdb.WithDebugLogging(cfg.HTTPDebug),
	)
	featured := recipe.NewMemorySource(log.Named("featured"))

	var auth domain.Authenticator = session.StubAuthenticator{}
	if cfg.Auth == config.AuthLocal {
		auth = session.NewLocalAuthenticator(kv, log.Named("auth"))
	}

	a.engine = engine.New(
		client,
		featured,
		session.NewStore(kv, auth, log.Named("session")),
		userstate.NewStore(kv, log.Named("userstate")),
		preference.NewStore(kv, log.Named("preference")),
		log.Named("engine"),
		engine.WithFeedSize(cfg.FeedSize),
	)
	a.engine.Start(ctx)

	log.Debug("recipebox started (store=%s, auth=%s, data=%s)", cfg.Store, cfg.Auth, cfg.DataDir)
	return a, nil
}

func openStore(cfg *config.Config, log *logger.Logger) (domain.KeyValueStore, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return storage.NewMemoryStore(log), nil
	case config.StoreFile:
		return storage.NewFileStore(cfg.KVDir(), log)
	default:
		if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		return storage.NewSQLiteStore(cfg.SQLitePath(), log)
	}
}
