package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/flik/internal/catalog"
	"github.com/pders01/flik/internal/config"
	"github.com/pders01/flik/internal/debuglog"
	"github.com/pders01/flik/internal/metrics"
	"github.com/pders01/flik/internal/popularity"
	"github.com/pders01/flik/internal/tui"
)

var (
	cfgFile     string
	dbPath      string
	logLevel    string
	logFile     string
	metricsAddr string
	quiet       bool
)

var rootCmd = &cobra.Command{
	Use:   "flik",
	Short: "Browse and search movies in the terminal",
	Long: `flik shows popular movies from TMDB, searches as you type and keeps a
shared ranking of what people search for most.`,
	SilenceUsage: true,
	RunE:         runApp,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", tui.AppName, Version)
		fmt.Fprintln(out, "Movie discovery in the terminal")
		fmt.Fprintln(out, "github.com/pders01/flik")
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configGenCmd = &cobra.Command{
	Use:   "generate [path]",
	Short: "Write a default configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := defaultConfigPath()
		if len(args) == 1 {
			path = config.ExpandPath(args[0])
		}
		if err := config.GenerateDefaultConfig(path); err != nil {
			return fmt.Errorf("failed to generate config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated default configuration at: %s\n", path)
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "path to configuration file (default ~/.config/flik/config.toml)")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error, off")
	flags.StringVar(&logFile, "log-file", "", "log file path, - for stderr (default ~/.flik/flik.log)")

	rootCmd.Flags().StringVar(&dbPath, "db", "", "use the embedded store at this path instead of the configured backend")
	rootCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. 127.0.0.1:9090")
	rootCmd.Flags().BoolVar(&quiet, "quiet", false, "skip startup banner")

	configCmd.AddCommand(configGenCmd)
	rootCmd.AddCommand(versionCmd, configCmd)
}

func defaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "flik", "config.toml")
}

// loadConfig reads the configuration and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Store.Backend = config.BackendBolt
		cfg.Store.Path = config.ExpandPath(dbPath)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	return cfg, nil
}

func setupLogging(cfg config.LogConfig) error {
	level := debuglog.ParseLogLevel(cfg.Level)
	if cfg.File == "-" {
		debuglog.SetupWriter(level, os.Stderr)
		return nil
	}
	return debuglog.Setup(level, config.ExpandPath(cfg.File))
}

// reportConfigProblems prints each problem before the TUI takes the
// terminal and logs it. With logging off, the log is raised to ERROR so the
// problem and later request failures are kept on disk.
func reportConfigProblems(w io.Writer, logCfg config.LogConfig, err error) {
	problems := []error{err}
	var verr *config.ValidationError
	if errors.As(err, &verr) && len(verr.Problems) > 0 {
		problems = verr.Problems
	}
	for _, p := range problems {
		fmt.Fprintf(w, "%s: configuration: %v\n", tui.AppName, p)
	}

	if debuglog.ParseLogLevel(logCfg.Level) == debuglog.LevelOff {
		logCfg.Level = "error"
		if setupErr := setupLogging(logCfg); setupErr != nil {
			fmt.Fprintf(w, "%s: %v\n", tui.AppName, setupErr)
		}
	}
	debuglog.Errorf("configuration: %v", err)
}

func runApp(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := setupLogging(cfg.Log); err != nil {
		return err
	}
	defer debuglog.Close()

	// The UI runs with whatever parts are usable.
	if err := cfg.Validate(); err != nil {
		reportConfigProblems(cmd.ErrOrStderr(), cfg.Log, err)
	}

	if !quiet {
		tui.ShowBanner(cmd.OutOrStdout(), Version)
	}

	if metricsAddr != "" {
		go func() {
			if err := metrics.Serve(metricsAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				debuglog.Errorf("metrics server: %v", err)
			}
		}()
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		debuglog.Errorf("popularity store unavailable: %v", err)
		store, closeStore = unavailableStore{err: err}, func() error { return nil }
	}
	defer func() {
		if err := closeStore(); err != nil {
			debuglog.Warnf("closing store: %v", err)
		}
	}()

	guarded := popularity.NewBreakerStore(store, popularity.DefaultBreakerConfig(cfg.Store.Backend))
	recorder := popularity.NewRecorder(guarded, popularity.RecorderOptions{
		ImageBaseURL: cfg.Catalog.ImageBaseURL,
		Timeout:      cfg.Store.Timeout,
	})

	app := tui.NewApp(tui.Deps{
		Movies:   catalog.NewClient(catalog.OptionsFromConfig(cfg.Catalog), nil),
		Recorder: recorder,
		Trending: popularity.NewReader(guarded),
	}, cfg)
	defer app.Close()

	debuglog.Infof("starting flik %s (store backend %s)", Version, cfg.Store.Backend)

	p := tea.NewProgram(app, tea.WithAltScreen())
	_, runErr := p.Run()

	// Let in-flight recordings finish before the store closes.
	recorder.Wait()

	if runErr != nil {
		return fmt.Errorf("running ui: %w", runErr)
	}
	return nil
}
