package commands

import (
	"github.com/spf13/cobra"

	"github.com/stackcart/stackcart/internal/cli/output"
	"github.com/stackcart/stackcart/internal/domain/aggregate"
	"github.com/stackcart/stackcart/internal/logger"
	"github.com/stackcart/stackcart/internal/tui"
)

var printOnExit bool

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Build a stack interactively in the terminal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}

		tools, err := tui.Run(tui.Options{
			Catalog:  env.Catalog,
			Remote:   env.Remote,
			Debounce: env.Settings().Debounce(),
			Copy:     writeClipboard,
			Logger:   logger.L().Named("tui"),
		})
		if err != nil {
			return err
		}

		if printOnExit && len(tools) > 0 {
			bundle := aggregate.Aggregate(tools)
			printResult(cmd, newFormatter(cmd).FormatResult(output.NewBundleResult(bundle, "")))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().BoolVar(&printOnExit, "print", true, "print the command bundle after quitting")
}
