package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/stackcart/stackcart/internal/app"
	"github.com/stackcart/stackcart/internal/cli/cache"
	"github.com/stackcart/stackcart/internal/cli/client"
	"github.com/stackcart/stackcart/internal/cli/errors"
	"github.com/stackcart/stackcart/internal/cli/inference"
	"github.com/stackcart/stackcart/internal/cli/output"
	"github.com/stackcart/stackcart/internal/domain/catalog"
	"github.com/stackcart/stackcart/internal/domain/settings"
	"github.com/stackcart/stackcart/internal/logger"
)

var (
	serverURL      string
	session        string
	jsonOutput     bool
	rawOutput      bool
	markdownOutput bool
	noColor        bool
	directMode     bool
	timeout        int
)

var rootCmd = &cobra.Command{
	Use:   "stackcart-cli",
	Short: "stackcart CLI - pick a developer tool stack and get its install commands",
	Long: `stackcart lets you browse a curated catalog of developer tools, search the
npm registry, collect tools into a stack and turn that stack into the init,
install, setup and documentation commands needed to bootstrap a project.
This CLI talks to the stackcart daemon or, with --direct, works offline.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	// Simple command inference - prepend inferred command to args
	if len(os.Args) > 1 {
		inferredCmd, rest := inference.InferCommand(os.Args[1:], knownCommands())
		if inferredCmd != "" {
			newArgs := make([]string, 0, len(rest)+2)
			newArgs = append(newArgs, os.Args[0], inferredCmd)
			newArgs = append(newArgs, rest...)
			os.Args = newArgs
		}
	}
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), newFormatter(rootCmd).FormatError(errors.Classify(err)))
	}
	return err
}

func knownCommands() []string {
	known := []string{"help", "completion"}
	for _, c := range rootCmd.Commands() {
		known = append(known, c.Name())
		known = append(known, c.Aliases...)
	}
	return known
}

func init() {
	defaultServer := os.Getenv("STACKCART_SERVER")
	if defaultServer == "" {
		defaultServer = client.DefaultServer
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer, "daemon address")
	rootCmd.PersistentFlags().StringVar(&session, "session", "default", "session to operate on")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&rawOutput, "raw", false, "raw output (no formatting)")
	rootCmd.PersistentFlags().BoolVar(&markdownOutput, "markdown", false, "output in Markdown")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colors")
	rootCmd.PersistentFlags().BoolVar(&directMode, "direct", false, "direct mode (no daemon, read-only)")
	rootCmd.PersistentFlags().IntVar(&timeout, "timeout", 30000, "request timeout in milliseconds")
}

func newClient() *client.ControlClient {
	return client.NewControlClient(serverURL, session, time.Duration(timeout)*time.Millisecond)
}

func newFormatter(cmd *cobra.Command) *output.Formatter {
	var fmtMode output.OutputFormat = output.FormatText
	switch {
	case jsonOutput:
		fmtMode = output.FormatJSON
	case rawOutput:
		fmtMode = output.FormatRaw
	case markdownOutput:
		fmtMode = output.FormatMarkdown
	}
	formatter := output.NewFormatter(fmtMode, !noColor && !color.NoColor)
	formatter.SetOutput(cmd.OutOrStdout())
	return formatter
}

// loadEnv builds the offline environment used by --direct.
var loadEnv = func() (*app.Env, error) {
	return app.Load(settings.AppDir(),
		app.WithLogger(logger.L().Named("cli")),
		app.WithCredentials(newCredentials()),
	)
}

func catalogCache() *cache.CatalogCache {
	return cache.NewCatalogCache(filepath.Join(settings.AppDir(), "cache"))
}

// loadCatalog fetches the daemon's catalog, falling back to the last cached
// copy when the daemon can't be reached.
func loadCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	if directMode {
		env, err := loadEnv()
		if err != nil {
			return nil, err
		}
		return env.Catalog, nil
	}

	cat, err := newClient().GetCatalog()
	if err == nil {
		_ = catalogCache().Set(cat)
		return cat, nil
	}
	if errors.Classify(err).Kind != errors.ErrorKindOffline {
		return nil, err
	}
	cached, fetched, ok := catalogCache().Get()
	if !ok {
		return nil, err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "daemon unreachable, using catalog cached %s\n", fetched.Format(time.RFC822))
	return cached, nil
}

// requireDaemon rejects --direct for commands that change a stack.
func requireDaemon(cmd *cobra.Command) error {
	if directMode {
		return fmt.Errorf("%s needs the daemon; drop --direct", cmd.Name())
	}
	return nil
}
