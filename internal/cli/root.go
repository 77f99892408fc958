package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"recruit-dash/internal/config"
	"recruit-dash/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const app = "recruitctl"

// Options lets tests replace the pieces that touch the outside world.
// Zero values select the real implementations.
type Options struct {
	LoadConfig func() (config.Config, error)
	Open       Opener
	Confirm    func(label string) (bool, error)
	Out        io.Writer
}

type runtime struct {
	opts Options

	cfgFile string
	debug   bool
	json    bool
}

// Execute runs recruitctl with the process arguments.
func Execute() error {
	return NewRootCommand(Options{}).Execute()
}

func NewRootCommand(opts Options) *cobra.Command {
	if opts.LoadConfig == nil {
		opts.LoadConfig = config.Load
	}
	if opts.Open == nil {
		opts.Open = OpenServices
	}
	if opts.Confirm == nil {
		opts.Confirm = promptConfirm
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	rt := &runtime{opts: opts}

	root := &cobra.Command{
		Use:           app,
		Short:         "recruitctl operates the recruiting dashboard backend from a terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(opts.Out)
	root.PersistentFlags().StringVar(&rt.cfgFile, "config", "", "a config file (default is config.yaml in . or ./configs)")
	root.PersistentFlags().BoolVarP(&rt.debug, "debug", "d", false, "verbose/debug output")
	root.PersistentFlags().BoolVarP(&rt.json, "json", "j", false, "json format for logging")

	root.AddCommand(
		newMigrateCmd(rt),
		newSeedCmd(rt),
		newRankCmd(rt),
		newReportCmd(rt),
		newJobsCmd(rt),
		newVersionCmd(),
	)
	return root
}

// services loads config, builds the logger and opens the datastore-backed
// services. Callers must Close the result.
func (rt *runtime) services(ctx context.Context) (*Services, error) {
	if rt.cfgFile != "" {
		if err := os.Setenv("CONFIG_FILE", rt.cfgFile); err != nil {
			return nil, err
		}
	}
	cfg, err := rt.opts.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level, format := cfg.App.LogLevel, cfg.App.LogFormat
	if rt.debug {
		level = "debug"
	}
	if rt.json {
		format = "json"
	}
	log, err := logger.New(level, format)
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	svc, err := rt.opts.Open(ctx, cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	log.Debug("services opened", zap.String("driver", cfg.Database.Driver))
	return svc, nil
}
