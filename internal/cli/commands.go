package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nash-core-poc/server/internal/agent/model"
	"github.com/nash-core-poc/server/internal/httpapi"
	"github.com/nash-core-poc/server/internal/physics"
)

type estimateFlags struct {
	temperature float64
	diameter    float64
	material    string
	props       string
}

func (f *estimateFlags) bind(cmd *cobra.Command, withDiameter bool) {
	cmd.Flags().Float64Var(&f.temperature, "temperature", physics.DefaultTemperatureK, "Temperature in kelvin")
	if withDiameter {
		cmd.Flags().Float64Var(&f.diameter, "diameter", physics.DefaultDiameterNM, "Nanowire diameter in nm")
	}
	cmd.Flags().StringVar(&f.material, "material", "", "Catalog material name (default: catalog default)")
	cmd.Flags().StringVar(&f.props, "props", "", `Material override as JSON, e.g. '{"name":"Silicon","B":2e-24}'`)
}

// materialArg returns the material value handed to physics.NewRequest.
func (f *estimateFlags) materialArg() (any, error) {
	if f.props != "" {
		var props map[string]any
		if err := json.Unmarshal([]byte(f.props), &props); err != nil {
			return nil, fmt.Errorf("--props: %w", err)
		}
		if f.material != "" {
			if _, ok := props["name"]; !ok {
				props["name"] = f.material
			}
		}
		return props, nil
	}
	if f.material != "" {
		return f.material, nil
	}
	return nil, nil
}

func newAskCmd(opts *rootOptions) *cobra.Command {
	var (
		sessionID string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the theorist a question; it may run the estimator once",
		Example: `  nash ask "22 nm silicon nanowire at 300 K"
  REDIS_URL=redis://localhost:6379/0 nash ask --session lab-7 --json "what about 50 nm germanium?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sessionID != "" && !opts.app.Config.Redis.Enabled() {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: REDIS_URL is not set; session %q will not outlive this command\n", sessionID)
			}
			runner, err := opts.app.Runner(cmd.Context())
			if err != nil {
				return err
			}
			res, err := runner.Run(cmd.Context(), model.QueryInput{
				SessionID: sessionID,
				Question:  strings.Join(args, " "),
			})
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), res)
			}
			out := cmd.OutOrStdout()
			if res.Observation != nil {
				fmt.Fprintf(out, "Observation: %s\n", res.Observation)
			}
			fmt.Fprintf(out, "Answer (%s, %d steps): %s\n", res.Outcome, res.Steps, res.Answer)
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "Session id carrying context between questions (persists across commands only with REDIS_URL)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full run result as JSON")
	return cmd
}

func newSimulateCmd(opts *rootOptions) *cobra.Command {
	var f estimateFlags
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the transport estimator once, without the theorist",
		Example: `  nash simulate --temperature 300 --diameter 22 --material silicon
  nash simulate --diameter 40 --props '{"name":"Silicon","A":2e-45}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			material, err := f.materialArg()
			if err != nil {
				return err
			}
			req, err := physics.NewRequest(f.temperature, f.diameter, material, opts.app.Catalog)
			if err != nil {
				return err
			}
			res := opts.app.Estimator.Estimate(req)
			if err := printJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !res.OK() {
				return fmt.Errorf("estimate failed: %s", res.Message)
			}
			return nil
		},
	}
	f.bind(cmd, true)
	return cmd
}

func newSweepCmd(opts *rootOptions) *cobra.Command {
	var (
		f         estimateFlags
		diameters []float64
	)
	cmd := &cobra.Command{
		Use:     "sweep",
		Short:   "Estimate k over a range of diameters",
		Example: `  nash sweep --material germanium --diameters 10,22,50,100`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			material, err := f.materialArg()
			if err != nil {
				return err
			}
			base, err := physics.NewRequest(f.temperature, nil, material, opts.app.Catalog)
			if err != nil {
				return err
			}
			if len(diameters) == 0 {
				diameters = physics.DefaultDiameters
			}
			reqs := physics.DiameterSweep(base.TemperatureK, base.Material, diameters)
			results, err := physics.Sweep(cmd.Context(), opts.app.Estimator, reqs, opts.app.Config.Estimator.SweepConcurrency)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), results)
		},
	}
	f.bind(cmd, false)
	cmd.Flags().Float64SliceVar(&diameters, "diameters", nil, "Diameters in nm (default: built-in grid)")
	return cmd
}

func newMaterialsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "materials",
		Short: "List the material catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			def := opts.app.Catalog.Default().Name
			for _, p := range opts.app.Catalog.Profiles() {
				marker := " "
				if p.Name == def {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-18s v_s=%-8g Theta_D=%-6g A=%-9g B=%g\n",
					marker, p.Name, p.SoundVelocity, p.DebyeTemperature, p.ImpurityCoeff, p.UmklappCoeff)
			}
			return nil
		},
	}
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runner, err := opts.app.Runner(cmd.Context())
			if err != nil {
				return err
			}
			if addr == "" {
				addr = opts.app.Config.HTTPAddr
			}
			srv := httpapi.New(httpapi.Options{
				Addr:             addr,
				Runner:           runner,
				Estimator:        opts.app.Estimator,
				Catalog:          opts.app.Catalog,
				Sessions:         opts.app.Sessions,
				Gatherer:         opts.app.Registry,
				SweepConcurrency: opts.app.Config.Estimator.SweepConcurrency,
			})
			return srv.Start(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: HTTP_ADDR)")
	return cmd
}
