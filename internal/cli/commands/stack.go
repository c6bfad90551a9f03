package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/stackcart/stackcart/internal/cli/client"
	"github.com/stackcart/stackcart/internal/domain/search"
)

var addNpm bool

var addCmd = &cobra.Command{
	Use:   "add <tool-id>...",
	Short: "Add catalog tools (or npm packages with --npm) to the stack",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireDaemon(cmd); err != nil {
			return err
		}
		c := newClient()
		formatter := newFormatter(cmd)

		for _, arg := range args {
			var change *client.StackChange
			var err error
			if addNpm {
				change, err = c.AddResult(search.SearchResult{Name: arg})
			} else {
				change, err = c.AddTool(arg)
			}
			if err != nil {
				return err
			}
			verb := "Added"
			if !change.Added {
				verb = "Already selected:"
			}
			printResult(cmd, formatter.FormatChange(verb, change))
		}
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:     "remove <tool-id>...",
	Aliases: []string{"rm"},
	Short:   "Remove tools from the stack",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireDaemon(cmd); err != nil {
			return err
		}
		c := newClient()
		formatter := newFormatter(cmd)

		for _, id := range args {
			change, err := c.RemoveTool(id)
			if err != nil {
				return err
			}
			change.Tool.Name = id
			verb := "Removed"
			if !change.Removed {
				verb = "Not selected:"
			}
			printResult(cmd, formatter.FormatChange(verb, change))
		}
		return nil
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <tool-id>",
	Short: "Add a tool if it is missing from the stack, remove it otherwise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireDaemon(cmd); err != nil {
			return err
		}
		change, err := newClient().ToggleTool(args[0])
		if err != nil {
			return err
		}
		verb := "Removed"
		if change.Selected {
			verb = "Added"
		}
		printResult(cmd, newFormatter(cmd).FormatChange(verb, change))
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every tool from the stack",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireDaemon(cmd); err != nil {
			return err
		}
		if err := newClient().ClearStack(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Stack cleared")
		return nil
	},
}

var stackCmd = &cobra.Command{
	Use:   "stack",
	Short: "List the tools in the stack",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireDaemon(cmd); err != nil {
			return err
		}
		tools, err := newClient().GetStack()
		if err != nil {
			return err
		}
		formatter := newFormatter(cmd)
		if len(tools) == 0 && !jsonOutput {
			fmt.Fprintln(cmd.OutOrStdout(), "Stack is empty")
			return nil
		}
		printResult(cmd, formatter.FormatTools(tools, nil, nil))
		return nil
	},
}

var presetCmd = &cobra.Command{
	Use:   "preset <preset-id>",
	Short: "Replace the stack with a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireDaemon(cmd); err != nil {
			return err
		}
		change, err := newClient().ApplyPreset(args[0])
		if err != nil {
			return err
		}
		formatter := newFormatter(cmd)
		if jsonOutput {
			printResult(cmd, formatter.JSON(change))
			return nil
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Applied preset %s (%d tools)\n", args[0], len(change.Tools))
		if len(change.Missing) > 0 {
			fmt.Fprintln(out, color.YellowString("Skipped unknown tools: %v", change.Missing))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(stackCmd)
	rootCmd.AddCommand(presetCmd)
	addCmd.Flags().BoolVar(&addNpm, "npm", false, "treat arguments as npm package names")
}
