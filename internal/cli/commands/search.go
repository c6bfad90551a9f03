package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stackcart/stackcart/internal/cli/client"
	"github.com/stackcart/stackcart/internal/domain/search"
)

var searchCmd = &cobra.Command{
	Use:     "search <query>",
	Aliases: []string{"find"},
	Short:   "Search the catalog and the npm registry",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		results := []client.Result{}
		if directMode {
			env, err := loadEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			for _, r := range search.Combined(ctx, query, env.Catalog, env.Remote) {
				results = append(results, client.Result{SearchResult: r})
			}
		} else {
			resp, err := newClient().Search(query)
			if err != nil {
				return err
			}
			results = resp.Results
		}

		printResult(cmd, newFormatter(cmd).FormatResults(query, results))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
