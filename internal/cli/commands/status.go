package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stackcart daemon status",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := newClient().GetStatus()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			fmt.Fprintln(out, newFormatter(cmd).JSON(status))
			return nil
		}

		fmt.Fprintln(out, color.CyanString("stackcart Daemon Status:"))
		fmt.Fprintf(out, "  Running:  %v\n", status.Running)
		fmt.Fprintf(out, "  Version:  %s\n", status.Version)
		fmt.Fprintf(out, "  Uptime:   %s\n", status.Uptime)
		fmt.Fprintf(out, "  Sessions: %d\n", status.Sessions)
		fmt.Fprintf(out, "  Catalog:  %d tools in %d categories, %d presets\n", status.CatalogTools, status.CatalogGroups, status.Presets)
		remote := "disabled"
		if status.RemoteSearch {
			remote = status.RegistryURL
		}
		fmt.Fprintf(out, "  Registry: %s\n", remote)
		fmt.Fprintf(out, "  Control API: :%d\n", status.ControlPort)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
