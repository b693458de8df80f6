package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lxiaocode/SVNTools/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the hook settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings as YAML",
	Long: `Prints the settings after defaults and SVNTOOLS_* environment overrides
are applied. The database password is masked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		data, err := yaml.Marshal(cfg.Redacted())
		if err != nil {
			return fmt.Errorf("encoding settings: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# source: %s\n", settingsSource(cfg))
		_, err = out.Write(data)
		return err
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the settings file",
	Long:  `Checks the settings file against its schema and semantic rules. Exit non-zero on any problem.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err != nil {
			return fmt.Errorf("settings file %s: %w", configPath, err)
		}

		_, err := config.Load(configPath)
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			for _, msg := range verr.Errors {
				errorf(cmd, "%s", msg)
			}
			return fmt.Errorf("%s: %d problem(s)", configPath, len(verr.Errors))
		}
		if err != nil {
			return err
		}

		info(cmd, "%s is valid.", configPath)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configValidateCmd)
	rootCmd.AddCommand(configCmd)
}
