package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/seagrayinc/hidmacro/internal/config"
	"github.com/seagrayinc/hidmacro/internal/engine"
	"github.com/seagrayinc/hidmacro/internal/hid"
	"github.com/seagrayinc/hidmacro/internal/platform"
	"github.com/seagrayinc/hidmacro/internal/scheduler"
	"github.com/seagrayinc/hidmacro/internal/source"
)

var (
	dryRun      bool
	watchConfig bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Poll the configured devices and fire bound actions",
	Long:  `Load the config, attach to every matching HID interface and run until interrupted.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), runOptions{
			configPath: configPath,
			backend:    backend,
			dryRun:     dryRun,
			watch:      watchConfig,
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "log actions instead of injecting input")
	runCmd.Flags().BoolVar(&watchConfig, "watch", false, "reload bindings when the config file changes")
}

type runOptions struct {
	configPath string
	backend    string
	dryRun     bool
	watch      bool
	ports      *platform.Ports
	newManager func(string) (hid.Manager, error)
}

func run(ctx context.Context, opts runOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("could not load configuration: %w", err)
	}

	name := opts.backend
	if name == "" {
		name = cfg.Backend
	}
	newManager := opts.newManager
	if newManager == nil {
		newManager = hid.NewManager
	}
	mgr, err := newManager(name)
	if err != nil {
		return err
	}

	sources, err := source.Discover(mgr, cfg.Descriptors())
	if err != nil {
		return err
	}
	defer func() {
		if err := source.Close(sources); err != nil {
			slog.Warn("failed to close devices", slog.Any("error", err))
		}
	}()

	ports := platform.New(opts.dryRun)
	if opts.ports != nil {
		ports = *opts.ports
	}
	eng := engine.FromConfig(cfg, ports)

	sched, err := scheduler.New(eng.Tasks(sources, cfg.ReadTimeoutDuration(), uint64(cfg.VolumePeriod)), scheduler.Options{
		Interval: cfg.TickIntervalDuration(),
	})
	if err != nil {
		return err
	}

	if opts.watch {
		go func() {
			if err := config.Watch(ctx, opts.configPath, eng.Reload); err != nil && !errors.Is(err, context.Canceled) {
				slog.Warn("config watcher stopped", slog.Any("error", err))
			}
		}()
	}

	slog.Info("polling devices", slog.Int("sources", len(sources)), slog.Int("bindings", len(cfg.Actions)))
	err = sched.Run(ctx)
	eng.Feedback().Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
