package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stackcart/stackcart/internal/cli/client"
)

var categoryFilter string

var catalogCmd = &cobra.Command{
	Use:     "catalog",
	Aliases: []string{"ls"},
	Short:   "List catalog tools",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(cmd)
		if err != nil {
			return err
		}

		tools := cat.Tools
		if categoryFilter != "" {
			if _, ok := cat.Category(categoryFilter); !ok {
				return fmt.Errorf("category not found: %s", categoryFilter)
			}
			tools = cat.ToolsInCategory(categoryFilter)
		}

		selected := map[string]bool{}
		if !directMode {
			if stack, err := newClient().GetStack(); err == nil {
				for _, t := range stack {
					selected[t.ID] = true
				}
			}
		}

		printResult(cmd, newFormatter(cmd).FormatTools(tools, cat, selected))
		return nil
	},
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List stack presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(cmd)
		if err != nil {
			return err
		}

		presets := make([]client.Preset, len(cat.Presets))
		for i, p := range cat.Presets {
			_, missing := cat.PresetTools(p)
			presets[i] = client.Preset{Preset: p, Missing: missing}
		}
		printResult(cmd, newFormatter(cmd).FormatPresets(presets))
		return nil
	},
}

func printResult(cmd *cobra.Command, s string) {
	if s != "" {
		fmt.Fprintln(cmd.OutOrStdout(), s)
	}
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(presetsCmd)
	catalogCmd.Flags().StringVarP(&categoryFilter, "category", "c", "", "only list tools in this category")
}
