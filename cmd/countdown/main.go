package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/countdown/internal/app"
	"github.com/sandeepkv93/countdown/internal/config"
	"github.com/sandeepkv93/countdown/internal/control"
	"github.com/sandeepkv93/countdown/internal/logging"
	"github.com/sandeepkv93/countdown/internal/scheduler"
	"github.com/sandeepkv93/countdown/internal/storage"
	"github.com/sandeepkv93/countdown/internal/update"
)

var (
	version = "0.3.0"

	configFlag       string
	storeDriverFlag  string
	storePathFlag    string
	storeDSNFlag     string
	logLevelFlag     string
	tickIntervalFlag time.Duration
	noControlFlag    bool

	rootCmd = &cobra.Command{
		Use:   "countdown [duration or end time]",
		Short: "countdown - terminal countdown timers with sound and remote control",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, strings.Join(args, " "))
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of countdown",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("countdown version", version)
		},
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFlag, "config", config.DefaultPath(), "path to the YAML config file")
	flags.StringVar(&storeDriverFlag, "store-driver", "", "store driver: sqlite, postgres or memory")
	flags.StringVar(&storePathFlag, "store-path", "", "sqlite database path")
	flags.StringVar(&storeDSNFlag, "store-dsn", "", "postgres connection string")
	flags.StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn or error")
	flags.DurationVar(&tickIntervalFlag, "tick-interval", 0, "display refresh interval")
	flags.BoolVar(&noControlFlag, "no-control", false, "disable the local control API")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newCtlCmd())
}

func main() {
	update.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "countdown failed: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig layers the file, the environment and the flags, in that order.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return cfg, err
	}
	cfg = config.FromEnv(cfg)
	if storeDriverFlag != "" {
		cfg.Store.Driver = storeDriverFlag
	}
	if storePathFlag != "" {
		cfg.Store.Path = storePathFlag
	}
	if storeDSNFlag != "" {
		cfg.Store.DSN = storeDSNFlag
	}
	if logLevelFlag != "" {
		cfg.Log.Level = logLevelFlag
	}
	if tickIntervalFlag > 0 {
		cfg.TickInterval = tickIntervalFlag
	}
	if noControlFlag {
		cfg.Control.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cfg config.Config, input string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Control.Enabled && forwardToRunning(ctx, cfg.Control.Addr, input) {
		return nil
	}

	logger, logCloser, err := logging.Open(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer closeQuietly(logCloser)

	store, err := storage.Open(ctx, cfg.Store.Driver, cfg.Store.Path, cfg.Store.DSN)
	if err != nil {
		logger.Error("open store, falling back to memory", "driver", cfg.Store.Driver, "error", err)
		store = storage.NewMemoryRepository()
	}

	a := app.New(cfg, store, logger)
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("close store", "error", err)
		}
	}()

	loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	restored, err := a.Load(loadCtx)
	cancel()
	if err != nil {
		logger.Warn("load saved state", "error", err)
	}

	engine := scheduler.NewEngine(cfg.TickInterval, cfg.SchedulerBuffer)
	engine.Start()
	defer engine.Stop()

	model := update.NewModel(a, engine, restored)
	if err := model.StartInput(input); err != nil {
		logger.Warn("start timer from command line", "input", input, "error", err)
	}

	program := tea.NewProgram(model)

	if cfg.Control.Enabled {
		srv := control.NewServer(cfg.Control.Addr, program, logger)
		if err := srv.Start(); err != nil {
			logger.Warn("control api disabled", "addr", cfg.Control.Addr, "error", err)
		} else {
			logger.Info("control api listening", "addr", srv.Addr())
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()
		}
	}

	logger.Info("countdown started", "version", version, "restored", len(restored))
	_, runErr := program.Run()

	saveCtx, cancelSave := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelSave()
	if err := a.Persist(saveCtx); err != nil {
		logger.Error("persist state on exit", "error", err)
		runErr = errors.Join(runErr, err)
	}
	return runErr
}

// forwardToRunning hands the input to an instance that already owns the
// control address. It reports whether one answered.
func forwardToRunning(ctx context.Context, addr, input string) bool {
	client := control.NewClient(addr)
	pingCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		return false
	}
	sendCtx, cancelSend := context.WithTimeout(ctx, 5*time.Second)
	defer cancelSend()
	reply, err := client.Send(sendCtx, strings.TrimSpace("new "+input), "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "countdown is already running at %s: %v\n", addr, err)
		return true
	}
	fmt.Printf("countdown is already running at %s: %s\n", addr, reply.Message)
	return true
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
