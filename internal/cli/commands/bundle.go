package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/stackcart/stackcart/internal/cli/output"
	"github.com/stackcart/stackcart/internal/domain/aggregate"
	"github.com/stackcart/stackcart/internal/domain/catalog"
	"github.com/stackcart/stackcart/internal/domain/export"
)

var (
	section      string
	bundleTools  []string
	bundlePreset string
	exportFormat string
	exportOut    string
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

var commandsCmd = &cobra.Command{
	Use:     "commands",
	Aliases: []string{"bundle"},
	Short:   "Print the init, install, setup and docs commands for the stack",
	Long: `Print the command bundle for the current stack. With --tools or --preset
the bundle is computed from the catalog without touching any stack.

Sections: ` + strings.Join(aggregate.Sections, ", "),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bundle, err := currentBundle(cmd)
		if err != nil {
			return err
		}
		if _, err := bundle.Section(section); err != nil {
			return err
		}
		printResult(cmd, newFormatter(cmd).FormatResult(output.NewBundleResult(bundle, section)))
		return nil
	},
}

var copyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Copy a section of the command bundle to the clipboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bundle, err := currentBundle(cmd)
		if err != nil {
			return err
		}
		name := section
		if name == "" {
			name = aggregate.SectionCommands
		}
		text, err := bundle.Section(name)
		if err != nil {
			return err
		}
		if text == "" {
			return fmt.Errorf("nothing to copy: the %s section is empty", name)
		}
		if err := writeClipboard(text); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Copied %s (%d lines)\n", name, strings.Count(text, "\n")+1)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the stack as a script or document",
	Long:  "Export the stack. Formats: " + strings.Join(export.Formats(), ", "),
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := resolveExportFormat()
		toFile := exportOut != "" && exportOut != "-"

		var data []byte
		var err error
		if directMode || len(bundleTools) > 0 || bundlePreset != "" {
			var tools []catalog.Tool
			tools, err = localTools(cmd)
			if err != nil {
				return err
			}
			if toFile {
				if err := export.WriteFile(exportOut, tools, format); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", exportOut)
				return nil
			}
			data, err = export.Render(tools, format)
		} else {
			data, err = newClient().Export(format)
		}
		if err != nil {
			return err
		}

		if !toFile {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		mode := os.FileMode(0644)
		if e, ferr := export.For(format); ferr == nil && e.Extension() == ".sh" {
			mode = 0755
		}
		if err := os.WriteFile(exportOut, data, mode); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOut, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", exportOut)
		return nil
	},
}

// resolveExportFormat picks --format, then the --output extension when it
// names a known format, then sh.
func resolveExportFormat() string {
	if exportFormat != "" {
		return exportFormat
	}
	if exportOut != "" && exportOut != "-" {
		ext := strings.TrimPrefix(filepath.Ext(exportOut), ".")
		if _, err := export.For(ext); err == nil {
			return ext
		}
	}
	return "sh"
}

// currentBundle aggregates --tools/--preset locally, or asks the daemon for
// the session's bundle.
func currentBundle(cmd *cobra.Command) (aggregate.CommandBundle, error) {
	if directMode || len(bundleTools) > 0 || bundlePreset != "" {
		tools, err := localTools(cmd)
		if err != nil {
			return aggregate.CommandBundle{}, err
		}
		return aggregate.Aggregate(tools), nil
	}
	b, err := newClient().GetBundle()
	if err != nil {
		return aggregate.CommandBundle{}, err
	}
	return *b, nil
}

// localTools resolves --preset then --tools against the catalog, in that
// order, skipping ids already taken.
func localTools(cmd *cobra.Command) ([]catalog.Tool, error) {
	if len(bundleTools) == 0 && bundlePreset == "" {
		return nil, fmt.Errorf("--direct needs --tools or --preset")
	}
	cat, err := loadCatalog(cmd)
	if err != nil {
		return nil, err
	}

	var tools []catalog.Tool
	seen := map[string]bool{}
	if bundlePreset != "" {
		p, ok := cat.Preset(bundlePreset)
		if !ok {
			return nil, fmt.Errorf("preset not found: %s", bundlePreset)
		}
		resolved, missing := cat.PresetTools(p)
		if len(missing) > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipping unknown tools in preset %s: %s\n", p.ID, strings.Join(missing, ", "))
		}
		for _, t := range resolved {
			seen[t.ID] = true
			tools = append(tools, t)
		}
	}
	for _, id := range bundleTools {
		if seen[id] {
			continue
		}
		t, ok := cat.Tool(id)
		if !ok {
			return nil, fmt.Errorf("tool not found: %s", id)
		}
		seen[id] = true
		tools = append(tools, t)
	}
	return tools, nil
}

func init() {
	rootCmd.AddCommand(commandsCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(exportCmd)

	for _, c := range []*cobra.Command{commandsCmd, copyCmd, exportCmd} {
		c.Flags().StringSliceVar(&bundleTools, "tools", nil, "catalog tool ids to bundle instead of the stack")
		c.Flags().StringVar(&bundlePreset, "preset", "", "preset to bundle instead of the stack")
	}
	commandsCmd.Flags().StringVarP(&section, "section", "s", "", "only print one section")
	copyCmd.Flags().StringVarP(&section, "section", "s", "", "section to copy (default commands)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "export format (default from the --output extension, else sh)")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "write to a file instead of stdout")
}
