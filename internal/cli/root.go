package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	logx "github.com/nash-core-poc/server/pkg/logger"
)

const Version = "0.1.0"

type rootOptions struct {
	envFile    string
	logLevel   string
	newAdvisor AdvisorFactory

	app *App
}

// Execute runs the nash command line until completion or SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cmd, opts := newRootCommand(nil)
	return execute(ctx, cmd, opts)
}

// execute runs cmd and closes the wired app whether or not the command failed;
// cobra skips post-run hooks after a RunE error.
func execute(ctx context.Context, cmd *cobra.Command, opts *rootOptions) error {
	defer opts.close(ctx)
	return cmd.ExecuteContext(ctx)
}

// newRootCommand builds the command tree. newAdvisor may be nil to select the
// advisor from configuration.
func newRootCommand(newAdvisor AdvisorFactory) (*cobra.Command, *rootOptions) {
	opts := &rootOptions{newAdvisor: newAdvisor}

	rootCmd := &cobra.Command{
		Use:   "nash",
		Short: "NASH - nanoscale thermal conductivity estimates with a skeptical theorist",
		Long: `NASH estimates the lattice thermal conductivity of nanowires with the
Callaway relaxation-time model and lets an advisory LLM decide when to run the
estimator and how to judge the result.`,
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Path to a .env file; missing files are ignored")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	rootCmd.AddCommand(
		newAskCmd(opts),
		newSimulateCmd(opts),
		newSweepCmd(opts),
		newMaterialsCmd(opts),
		newServeCmd(opts),
	)
	return rootCmd, opts
}

func (o *rootOptions) setup(cmd *cobra.Command) error {
	cfg, err := LoadConfig(o.envFile)
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	logx.Init(logx.LoggerOpts{Environment: cfg.Environment, Level: cfg.LogLevel, Output: cmd.ErrOrStderr()})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := NewApp(ctx, cfg, o.newAdvisor)
	if err != nil {
		return err
	}
	o.app = app
	return nil
}

func (o *rootOptions) close(ctx context.Context) {
	if o.app == nil {
		return
	}
	o.app.Close(ctx)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
