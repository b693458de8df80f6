package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lxiaocode/SVNTools/internal/config"
)

// Build-time variables set via -ldflags.
var (
	version     = "dev"
	buildCommit = "none"
	date        = "unknown"
)

// Global flags.
var (
	configPath string
	verbose    bool
	quiet      bool
	noColor    bool
)

// errRejected is returned once the rejection text is already on stderr.
var errRejected = errors.New("commit rejected")

var rootCmd = &cobra.Command{
	Use:   "svntools",
	Short: "Subversion hooks for game asset repositories",
	Long: `svntools checks commits to a game asset repository. Its pre-commit hook
rejects commits that add or delete an asset without its metadata file, that
change the guid of an existing metadata file, or that reuse a guid already
owned by another asset.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "svntools %s\n", version)
		fmt.Fprintf(out, "  commit:  %s\n", buildCommit)
		fmt.Fprintf(out, "  built:   %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to settings file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "detailed output and debug logs")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "minimal output (errors only)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errRejected) {
			fmt.Fprintln(os.Stderr, err)
		}
		return err
	}
	return nil
}
