package cmd

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/lxiaocode/SVNTools/internal/registry"
)

var (
	lookupGUID string
	lookupPath string
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Query the asset registry",
}

var registryLookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Look up registered metadata files by guid or path",
	Long: `Prints the registry rows owning a guid (--guid) or registered at a path (--path).
Exit non-zero when nothing matches.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if (lookupGUID == "") == (lookupPath == "") {
			return errors.New("exactly one of --guid or --path is required")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		reg, err := openRegistry(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() { _ = reg.Close() }()

		var entries []registry.Entry
		if lookupGUID != "" {
			entries, err = reg.SelectByGUID(cmd.Context(), lookupGUID)
		} else {
			var e registry.Entry
			e, err = reg.SelectByPath(cmd.Context(), lookupPath)
			if err == nil {
				entries = []registry.Entry{e}
			}
		}
		if err != nil && !errors.Is(err, registry.ErrNotFound) {
			return err
		}

		if len(entries) == 0 {
			return fmt.Errorf("no registry entry for %s", lookupKey())
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Path", "GUID"})
		for _, e := range entries {
			t.AppendRow(table.Row{e.Path, e.GUID})
		}
		t.Render()

		detail(cmd, "%d entr(ies) in %s", len(entries), cfg.RegistryTable)
		return nil
	},
}

func lookupKey() string {
	if lookupGUID != "" {
		return "guid " + lookupGUID
	}
	return "path " + lookupPath
}

func init() {
	registryLookupCmd.Flags().StringVar(&lookupGUID, "guid", "", "guid to look up")
	registryLookupCmd.Flags().StringVar(&lookupPath, "path", "", "metadata file path to look up")
	registryCmd.AddCommand(registryLookupCmd)
	rootCmd.AddCommand(registryCmd)
}
