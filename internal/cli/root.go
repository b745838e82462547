// Package cli implements the command line of the data adapter.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/dataadapter/internal/apperr"
	"github.com/mrlokans/dataadapter/internal/backend"
	"github.com/mrlokans/dataadapter/internal/config"
	"github.com/mrlokans/dataadapter/internal/diagnostics"
	"github.com/mrlokans/dataadapter/internal/entrypoint"
	"github.com/mrlokans/dataadapter/internal/scheduler"
)

// NewRootCmd builds the command tree. Running without a subcommand serves HTTP.
func NewRootCmd(version, commit string) *cobra.Command {
	serve := newServeCmd(version)
	cmd := &cobra.Command{
		Use:   "dataadapter",
		Short: "Data adapter bridging a BaaS store and a low-code REST platform.",
		Long: `The data adapter exposes submissions, articles, cases, case configurations
and files through one API and routes every call to the selected backend.

Configuration is read from the environment (DATA_SOURCE, DATABASE_PATH,
LOWCODE_BASE_URL, LOWCODE_TOKEN, STORAGE_PROVIDER, ...).

Running without a subcommand starts the HTTP server.`,
		Version:       fmt.Sprintf("%s (commit %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	cmd.AddCommand(serve, newCheckConfigCmd(), newProbeCmd())
	return cmd
}

func newServeCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(config.NewConfig(), version)
		},
	}
}

func newCheckConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Validate configuration and report backend credential status",
		Long: `Checks the environment configuration without opening any connection.
Missing or placeholder low-code credentials are reported but are not an error;
an unknown data source or an invalid probe schedule is.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkConfig(cmd, config.NewConfig())
		},
	}
}

func checkConfig(cmd *cobra.Command, cfg *config.Config) error {
	out := cmd.OutOrStdout()

	kind, err := backend.ParseKind(cfg.DataSource.Default)
	if err != nil {
		return fmt.Errorf("DATA_SOURCE: %w", err)
	}
	fmt.Fprintf(out, "data source:   %s\n", kind.DisplayName())
	fmt.Fprintf(out, "database:      %s\n", cfg.Database.Path)
	fmt.Fprintf(out, "storage:       %s\n", cfg.Storage.Provider)

	status := diagnostics.StatusConfigured
	if err := diagnostics.CheckLowCode(cfg.LowCode.BaseURL, cfg.LowCode.Token); err != nil {
		fmt.Fprintf(out, "warning:       %v\n", err)
		status = diagnostics.StatusNotConfigured
		var ce *apperr.ConfigError
		if errors.As(err, &ce) && ce.Setting == "token" {
			status = diagnostics.StatusTokenNotConfigured
		}
	}
	fmt.Fprintf(out, "low-code:      %s (%s)\n", status, cfg.LowCode.BaseURL)

	if cfg.Diagnostics.Enabled {
		if err := scheduler.ValidateSchedule(cfg.Diagnostics.Schedule); err != nil {
			return fmt.Errorf("DIAGNOSTICS_SCHEDULE: %w", err)
		}
		fmt.Fprintf(out, "probes:        %s\n", cfg.Diagnostics.Schedule)
	} else {
		fmt.Fprintln(out, "probes:        disabled")
	}
	return nil
}

func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe [baas|lowcode]",
		Short: "Probe backend connectivity and print the results as JSON",
		Long: `Runs a connection probe against the named backend, or against both when
no backend is given. The low-code probe reads the system configuration
endpoint; the BaaS probe pings the database.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := backend.Kinds
			if len(args) == 1 {
				kind, err := backend.ParseKind(args[0])
				if err != nil {
					return err
				}
				kinds = []backend.Kind{kind}
			}

			cfg := config.NewConfig()
			cfg.Diagnostics.Enabled = false
			app, err := entrypoint.Build(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			return runProbes(cmd, app.Checker, kinds)
		},
	}
}

type prober interface {
	Probe(ctx context.Context, kind backend.Kind) diagnostics.ProbeResult
}

func runProbes(cmd *cobra.Command, p prober, kinds []backend.Kind) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	results := make([]diagnostics.ProbeResult, 0, len(kinds))
	failed := 0
	for _, k := range kinds {
		r := p.Probe(ctx, k)
		if !r.OK {
			failed++
		}
		results = append(results, r)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d probes failed", failed, len(kinds))
	}
	return nil
}
