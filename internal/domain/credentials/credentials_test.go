package credentials

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore map[string]string

func (m memoryStore) GetSecret(id string) (string, error) {
	v, ok := m[id]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func (m memoryStore) SetSecret(id, secret string) error {
	m[id] = secret
	return nil
}

func (m memoryStore) RemoveSecret(id string) error {
	if _, ok := m[id]; !ok {
		return errors.New("not found")
	}
	delete(m, id)
	return nil
}

func newManager(store memoryStore, env map[string]string) *CredentialManager {
	c := NewCredentialManager(store)
	c.getenv = func(k string) string { return env[k] }
	return c
}

func TestRegistryToken(t *testing.T) {
	const registry = "https://registry.npmjs.org"

	tests := []struct {
		name       string
		env        map[string]string
		stored     map[string]string
		wantToken  string
		wantSource string
	}{
		{"nothing configured", nil, nil, "", SourceNone},
		{"env only", map[string]string{"NPM_TOKEN": " env-token "}, nil, "env-token", SourceEnv},
		{"keychain only", nil, map[string]string{"registry:registry.npmjs.org": "kc-token"}, "kc-token", SourceKeychain},
		{"env wins", map[string]string{"NPM_TOKEN": "env-token"}, map[string]string{"registry:registry.npmjs.org": "kc-token"}, "env-token", SourceEnv},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memoryStore{}
			for k, v := range tt.stored {
				store[k] = v
			}
			token, source := newManager(store, tt.env).RegistryToken(registry, "NPM_TOKEN")
			assert.Equal(t, tt.wantToken, token)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}

func TestSetAndDeleteRegistryToken(t *testing.T) {
	store := memoryStore{}
	c := newManager(store, nil)

	require.NoError(t, c.SetRegistryToken("https://npm.example.com/", "secret"))
	assert.Equal(t, "secret", store["registry:npm.example.com"])

	token, source := c.RegistryToken("https://NPM.example.com", "")
	assert.Equal(t, "secret", token)
	assert.Equal(t, SourceKeychain, source)

	require.NoError(t, c.DeleteRegistryToken("https://npm.example.com"))
	assert.Empty(t, store)

	assert.Error(t, c.SetRegistryToken("not a url", "secret"))
	assert.Error(t, c.SetRegistryToken("https://npm.example.com", "  "))
}
