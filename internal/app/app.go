// Package app assembles the catalog, settings and registry client shared by
// the daemon, the CLI's direct mode and the terminal UI.
package app

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/stackcart/stackcart/internal/domain/catalog"
	"github.com/stackcart/stackcart/internal/domain/credentials"
	"github.com/stackcart/stackcart/internal/domain/search"
	"github.com/stackcart/stackcart/internal/domain/settings"
)

// SettingsFile is the config file name inside the app directory.
const SettingsFile = "settings.yaml"

// Env is everything loaded from the app directory.
type Env struct {
	AppDir   string
	Store    *settings.Store
	Config   settings.Config
	Catalog  *catalog.Catalog
	Warnings []catalog.ValidationError

	// Remote is nil when remote search is disabled.
	Remote      search.Remote
	TokenSource string
}

// Settings is a shortcut for e.Config.Settings.
func (e *Env) Settings() settings.Settings {
	return e.Config.Settings
}

type options struct {
	logger  *zap.Logger
	metrics search.Metrics
	creds   *credentials.CredentialManager
}

// Option configures Load.
type Option func(*options)

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithMetrics(m search.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func WithCredentials(c *credentials.CredentialManager) Option {
	return func(o *options) { o.creds = c }
}

// Load reads settings and the catalog from appDir and builds the registry
// client. An invalid catalog is an error; warnings are returned in Env.
func Load(appDir string, opts ...Option) (*Env, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := os.MkdirAll(appDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create app dir: %w", err)
	}

	store := settings.NewStore(filepath.Join(appDir, SettingsFile))
	config, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := config.Settings

	cat, err := catalog.Load(settings.ResolvePath(appDir, cfg.CatalogFile))
	if err != nil {
		return nil, err
	}
	settings.MergePresets(cat, config.Presets)

	result := catalog.Validate(cat)
	if !result.Valid {
		return nil, fmt.Errorf("catalog is invalid: %v", result.Errors[0])
	}
	for _, w := range result.Warnings {
		o.logger.Warn("catalog warning", zap.String("field", w.Field), zap.String("message", w.Message))
	}

	env := &Env{
		AppDir:      appDir,
		Store:       store,
		Config:      config,
		Catalog:     cat,
		Warnings:    result.Warnings,
		TokenSource: credentials.SourceNone,
	}

	if cfg.RemoteSearch {
		remote, source, err := newRemote(appDir, cfg, cat, o)
		if err != nil {
			return nil, err
		}
		env.Remote = remote
		env.TokenSource = source
	}
	return env, nil
}

func newRemote(appDir string, cfg settings.Settings, cat *catalog.Catalog, o options) (*search.NpmClient, string, error) {
	var classifier search.Classifier = search.NewRuleClassifier()
	if cfg.CategoryScript != "" {
		ids := make([]string, len(cat.Categories))
		for i, c := range cat.Categories {
			ids[i] = c.ID
		}
		script, err := search.LoadScriptClassifier(settings.ResolvePath(appDir, cfg.CategoryScript), classifier, ids, o.logger)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load category script: %w", err)
		}
		classifier = script
	}

	npmOpts := []search.NpmOption{
		search.WithPageSize(cfg.PageSize),
		search.WithTimeout(cfg.RemoteTimeout()),
		search.WithClassifier(classifier),
		search.WithLogger(o.logger.Named("npm")),
	}
	if o.metrics != nil {
		npmOpts = append(npmOpts, search.WithMetrics(o.metrics))
	}

	source := credentials.SourceNone
	if o.creds != nil {
		var token string
		token, source = o.creds.RegistryToken(cfg.RegistryURL, cfg.TokenEnv)
		if token != "" {
			npmOpts = append(npmOpts, search.WithToken(token))
		}
	}
	o.logger.Info("remote search enabled",
		zap.String("registry", cfg.RegistryURL), zap.String("token_source", source))

	return search.NewNpmClient(cfg.RegistryURL, npmOpts...), source, nil
}
