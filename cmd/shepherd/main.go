package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/shepherd/internal/cliconfig"
	"github.com/bft-labs/shepherd/pkg/daemon"
	"github.com/bft-labs/shepherd/pkg/log"
	"github.com/bft-labs/shepherd/plugins/filewatch"
)

const helpDescription = `
Run a periodic task as a background daemon.

The process detaches itself on "start", records its pid next to the
executable's working directory and writes everything the task prints to a
rotating log file. "stop" asks it to finish gracefully.

Configure via file ($HOME/.shepherd/config.toml), SHEPHERD_* environment
variables, or flags; flags win.
`

var exampleUsage = strings.TrimSpace(`
  shepherd start --interval 5s
  shepherd status
  shepherd stop
  shepherd restart --watch $HOME/.shepherd/config.toml
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string
	exitCode := daemon.ExitOK

	root := &cobra.Command{
		Use:           "shepherd [command]",
		Short:         "Run a periodic task as a background daemon",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if err := loadConfig(&cfg, cfgPath, changed); err != nil {
				return err
			}

			prog := os.Args[0]
			if err := cfg.Validate(prog); err != nil {
				return err
			}

			logger, closer, err := log.NewFileLogger(cfg.FileLogger())
			if err != nil {
				return fmt.Errorf("open log: %w", err)
			}
			defer closer.Close()

			token := ""
			if len(args) > 0 {
				token = args[0]
			}

			exitCode = run(cmd.Context(), cfg, cfgPath, changed, logger, prog, token)
			return nil
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.shepherd/config.toml)")
	root.Flags().StringVar(&cfg.PIDFile, "pid-file", cfg.PIDFile, "pidfile path (default: <program>.pid in the working directory)")
	root.Flags().StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "log file path (default: <program>.log in the working directory)")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	root.Flags().IntVar(&cfg.LogMaxSizeMB, "log-max-size", cfg.LogMaxSizeMB, "log size in MB before rotation")
	root.Flags().IntVar(&cfg.LogMaxBackups, "log-max-backups", cfg.LogMaxBackups, "rotated log files to keep")
	root.Flags().IntVar(&cfg.LogMaxAgeDays, "log-max-age", cfg.LogMaxAgeDays, "days to keep rotated log files")
	root.Flags().BoolVar(&cfg.LogConsole, "log-console", cfg.LogConsole, "also log to stderr (foreground commands only)")
	root.Flags().DurationVar(&cfg.GracePeriod, "grace-period", cfg.GracePeriod, "time the task gets to finish after stop")
	root.Flags().DurationVar(&cfg.RestartWait, "restart-wait", cfg.RestartWait, "time restart waits for the old instance (0 disables waiting)")
	root.Flags().DurationVar(&cfg.Interval, "interval", cfg.Interval, "interval of the example task")
	root.Flags().StringSliceVar(&cfg.Watch, "watch", cfg.Watch, "files whose changes trigger reload")

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(daemon.ExitFailure)
	}
	os.Exit(exitCode)
}

// loadConfig applies the config file and SHEPHERD_* variables on top of cfg,
// leaving explicitly set flags alone.
func loadConfig(cfg *cliconfig.Config, cfgPath string, changed map[string]bool) error {
	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	}

	return cliconfig.ApplyEnvConfig(cfg, changed)
}

func run(ctx context.Context, cfg cliconfig.Config, cfgPath string, changed map[string]bool, logger *log.ZerologAdapter, prog, token string) int {
	opts := []daemon.Option{
		daemon.WithLogger(logger),
		daemon.WithArgs(os.Args),
		daemon.WithRestartCommand(),
	}
	if len(cfg.Watch) > 0 {
		opts = append(opts, filewatch.WithFileWatch(filewatch.Config{
			Paths: cfg.Watch,
			Event: "reload",
		}))
	}

	svc, err := daemon.New(daemon.Config{
		PIDFile:     cfg.PIDFile,
		LogFile:     cfg.LogFile,
		GracePeriod: cfg.GracePeriod,
		RestartWait: cfg.RestartWait,
	}, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return daemon.ExitFailure
	}
	defer svc.Close()

	registerEvents(svc, cfg, cfgPath, changed, logger)

	return svc.Run(ctx, []string{prog, token})
}

// reloadDescription is the help text of the reload event. Invoked from a
// terminal, reload only re-reads the configuration in that process; the
// running daemon picks changes up through the watched files.
const reloadDescription = "Re-read configuration (applied in the daemon via --watch)"

// registerEvents installs the demo's callbacks on svc.
func registerEvents(svc *daemon.Service, cfg cliconfig.Config, cfgPath string, changed map[string]bool, logger daemon.Logger) {
	var interval atomic.Int64
	interval.Store(int64(cfg.Interval))

	svc.On(daemon.EventStart, func(ctx context.Context) error {
		out := daemon.Output(ctx)
		timer := time.NewTimer(time.Duration(interval.Load()))
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-timer.C:
				fmt.Fprintln(out, "Doing a daemon task")
				timer.Reset(time.Duration(interval.Load()))
			}
		}
	})

	svc.On(daemon.EventStop, func(ctx context.Context) error {
		fmt.Fprintln(daemon.Output(ctx), "Daemon Stopping...")
		return nil
	})

	svc.On("reload", func(ctx context.Context) error {
		next := cfg
		if err := loadConfig(&next, cfgPath, changed); err != nil {
			return err
		}
		if next.Interval <= 0 {
			return fmt.Errorf("interval must be positive")
		}
		interval.Store(int64(next.Interval))
		logger.Info("configuration reloaded", log.Duration("interval", next.Interval))
		fmt.Fprintf(daemon.Output(ctx), "Configuration read: interval %s\n", next.Interval)
		return nil
	}, reloadDescription)

	svc.On("version", func(ctx context.Context) error {
		fmt.Fprintf(daemon.Output(ctx), "%s %s/%s\n", getVersion(), runtime.GOOS, runtime.GOARCH)
		return nil
	}, "Print the version")
}
