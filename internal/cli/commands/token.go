package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stackcart/stackcart/internal/domain/credentials"
	"github.com/stackcart/stackcart/internal/domain/settings"
)

var tokenRegistry string

// newCredentials is replaced in tests.
var newCredentials = func() *credentials.CredentialManager {
	return credentials.NewCredentialManager(nil)
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the npm registry token used for remote search",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set [token]",
	Short: "Store a registry token in the OS keychain (reads stdin without an argument)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var token string
		if len(args) == 1 {
			token = args[0]
		} else {
			scanner := bufio.NewScanner(cmd.InOrStdin())
			if scanner.Scan() {
				token = scanner.Text()
			}
			if err := scanner.Err(); err != nil {
				return err
			}
		}
		token = strings.TrimSpace(token)
		if token == "" {
			return fmt.Errorf("token is empty")
		}

		registry := registryURL()
		if err := newCredentials().SetRegistryToken(registry, token); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Token stored for %s\n", registry)
		return nil
	},
}

var tokenDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the stored registry token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := registryURL()
		if err := newCredentials().DeleteRegistryToken(registry); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Token removed for %s\n", registry)
		return nil
	},
}

var tokenStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the registry token comes from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := localSettings()
		registry := registryURL()
		_, source := newCredentials().RegistryToken(registry, cfg.TokenEnv)

		if jsonOutput {
			printResult(cmd, newFormatter(cmd).JSON(map[string]string{
				"registry": registry,
				"source":   source,
			}))
			return nil
		}
		switch source {
		case credentials.SourceEnv:
			fmt.Fprintf(cmd.OutOrStdout(), "%s: token from $%s\n", registry, cfg.TokenEnv)
		case credentials.SourceKeychain:
			fmt.Fprintf(cmd.OutOrStdout(), "%s: token from keychain\n", registry)
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "%s: no token, searching anonymously\n", registry)
		}
		return nil
	},
}

func localSettings() settings.Settings {
	env, err := loadEnv()
	if err != nil {
		return settings.DefaultSettings()
	}
	return env.Settings()
}

func registryURL() string {
	if tokenRegistry != "" {
		return tokenRegistry
	}
	return localSettings().RegistryURL
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenSetCmd)
	tokenCmd.AddCommand(tokenDeleteCmd)
	tokenCmd.AddCommand(tokenStatusCmd)
	tokenCmd.PersistentFlags().StringVar(&tokenRegistry, "registry", "", "registry URL (default from settings)")
}
