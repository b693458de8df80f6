package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lxiaocode/SVNTools/internal/config"
	"github.com/lxiaocode/SVNTools/internal/diagnostics"
	"github.com/lxiaocode/SVNTools/internal/observability"
	"github.com/lxiaocode/SVNTools/internal/registry"
)

// loadConfig reads and validates the settings file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", configPath, err)
	}
	return cfg, nil
}

// openRegistry connects to the registry named by the settings.
func openRegistry(ctx context.Context, cfg *config.Config) (registry.Client, error) {
	reg, err := registry.Open(ctx, cfg.Database, cfg.RegistryTable)
	if err != nil {
		return nil, fmt.Errorf("opening registry: %w", err)
	}
	return reg, nil
}

// initObservability builds the logger and tracer for one command run.
// --verbose lowers the level to debug; --quiet raises it to error.
func initObservability(cmd *cobra.Command, cfg *config.Config, attrs ...slog.Attr) (observability.Providers, error) {
	level := cfg.Logging.SlogLevel()
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}

	return observability.Init(cmd.Context(), observability.Config{
		ServiceName:    "svntools",
		ServiceVersion: version,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		OTLPInsecure:   cfg.Telemetry.OTLPInsecure,
		LogLevel:       level,
		LogJSON:        cfg.Logging.JSON(),
		LogOutput:      cmd.ErrOrStderr(),
		Attrs:          attrs,
	})
}

// diagnosticsOptions maps settings and global flags to rendering options.
func diagnosticsOptions(cfg *config.Config) diagnostics.Options {
	return diagnostics.Options{
		MaxItems: cfg.Report.MaxItems,
		NoColor:  noColor,
		Summary:  !quiet,
	}
}

// info prints a line unless quiet mode is active.
func info(cmd *cobra.Command, format string, args ...any) {
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
	}
}

// detail prints a line only in verbose mode.
func detail(cmd *cobra.Command, format string, args ...any) {
	if verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "  "+format+"\n", args...)
	}
}

// errorf prints an error message to stderr.
func errorf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), "error: "+format+"\n", args...)
}
