// Package credentials resolves npm registry tokens from the environment or
// the OS credential store.
package credentials

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Token sources reported by RegistryToken.
const (
	SourceNone     = "none"
	SourceEnv      = "env"
	SourceKeychain = "keychain"
)

// SecretStore is the subset of Keychain used here.
type SecretStore interface {
	GetSecret(id string) (string, error)
	SetSecret(id, secret string) error
	RemoveSecret(id string) error
}

// CredentialManager looks up registry tokens.
type CredentialManager struct {
	store  SecretStore
	getenv func(string) string
}

// NewCredentialManager creates a manager backed by store, or by the stackcart
// keychain when store is nil.
func NewCredentialManager(store SecretStore) *CredentialManager {
	if store == nil {
		store = NewKeychain("stackcart")
	}
	return &CredentialManager{store: store, getenv: os.Getenv}
}

// RegistryToken returns the token for registryURL and where it came from. The
// environment variable envVar wins over the keychain.
func (c *CredentialManager) RegistryToken(registryURL, envVar string) (string, string) {
	if envVar != "" {
		if v := strings.TrimSpace(c.getenv(envVar)); v != "" {
			return v, SourceEnv
		}
	}
	id, err := registryID(registryURL)
	if err != nil {
		return "", SourceNone
	}
	secret, err := c.store.GetSecret(id)
	if err != nil || secret == "" {
		return "", SourceNone
	}
	return secret, SourceKeychain
}

// SetRegistryToken stores token for registryURL in the keychain.
func (c *CredentialManager) SetRegistryToken(registryURL, token string) error {
	id, err := registryID(registryURL)
	if err != nil {
		return err
	}
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("token is empty")
	}
	return c.store.SetSecret(id, token)
}

// DeleteRegistryToken removes the stored token for registryURL.
func (c *CredentialManager) DeleteRegistryToken(registryURL string) error {
	id, err := registryID(registryURL)
	if err != nil {
		return err
	}
	return c.store.RemoveSecret(id)
}

func registryID(registryURL string) (string, error) {
	u, err := url.Parse(registryURL)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid registry url %q", registryURL)
	}
	return "registry:" + strings.ToLower(u.Host), nil
}
