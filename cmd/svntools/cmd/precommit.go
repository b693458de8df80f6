package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lxiaocode/SVNTools/internal/commit"
	"github.com/lxiaocode/SVNTools/internal/config"
	"github.com/lxiaocode/SVNTools/internal/diagnostics"
	"github.com/lxiaocode/SVNTools/internal/engine"
	"github.com/lxiaocode/SVNTools/internal/svnlook"
)

var preCommitRevision bool

var preCommitCmd = &cobra.Command{
	Use:   "pre-commit REPOS TXN",
	Short: "Validate the asset metadata of a pending commit",
	Long: `Lists the paths changed by transaction TXN of repository REPOS, reads the
committed metadata files and checks them against the asset registry.
Exit 0 if the commit is acceptable; exit non-zero with the reasons on stderr
otherwise. Any failure to complete the check also rejects the commit.

Install as hooks/pre-commit:

  svntools pre-commit --config /srv/svn/config/SVNToolSetting.json "$1" "$2"

With --revision the second argument is a committed revision number, which
re-checks history by hand.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.Enable {
			detail(cmd, "check disabled by %s", settingsSource(cfg))
			return nil
		}

		repos, id := args[0], args[1]
		look := &svnlook.Look{Binary: cfg.Svnlook, Repos: repos}
		idKey := "txn"
		if preCommitRevision {
			look.Revision = id
			idKey = "revision"
		} else {
			look.Txn = id
		}

		providers, err := initObservability(cmd, cfg, slog.String("repos", repos), slog.String(idKey, id))
		if err != nil {
			return err
		}
		logger := providers.Logger
		defer func() {
			if err := providers.Shutdown(context.Background()); err != nil {
				logger.Warn("telemetry shutdown failed", "error", err)
			}
		}()

		opts := diagnosticsOptions(cfg)
		report, err := runValidation(cmd.Context(), cfg, look, logger)
		if err != nil {
			logger.Error("validation aborted", "error", err)
			diagnostics.RenderError(cmd.ErrOrStderr(), err, opts)
			return errRejected
		}

		if report.Passed {
			logger.Debug("commit accepted")
			return nil
		}

		diagnostics.Render(cmd.ErrOrStderr(), report, opts)
		return errRejected
	},
}

// runValidation lists the change set and validates it against the registry.
func runValidation(ctx context.Context, cfg *config.Config, look *svnlook.Look, logger *slog.Logger) (*engine.ValidationReport, error) {
	if err := look.Validate(); err != nil {
		return nil, err
	}

	records, err := look.Changed(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing changes: %w", err)
	}
	logger.Debug("change set listed", "records", len(records))

	snap, err := commit.NewSnapshot(records, cfg.MetaExtension)
	if err != nil {
		return nil, err
	}

	reg, err := openRegistry(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = reg.Close() }()

	eng := &engine.ValidateEngine{
		Registry: reg,
		Content:  look,
		Logger:   logger,
	}
	return eng.Validate(ctx, snap)
}

func settingsSource(cfg *config.Config) string {
	if cfg.Source == "" {
		return "defaults (no settings file at " + configPath + ")"
	}
	return cfg.Source
}

func init() {
	preCommitCmd.Flags().BoolVar(&preCommitRevision, "revision", false, "treat the second argument as a committed revision")
	rootCmd.AddCommand(preCommitCmd)
}
