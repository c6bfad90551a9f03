package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	// DefaultRegistryURL is the public npm registry.
	DefaultRegistryURL = "https://registry.npmjs.org"
	// DefaultPageSize bounds one remote search page.
	DefaultPageSize = 20

	defaultDescription = "No description available"
	maxResponseBytes   = 4 << 20
)

// Remote is a best-effort source of search results.
type Remote interface {
	FetchRemote(ctx context.Context, query string) []SearchResult
}

type npmPackage struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Version     string   `json:"version"`
	Keywords    []string `json:"keywords"`
	Links       struct {
		Npm        string `json:"npm"`
		Homepage   string `json:"homepage"`
		Repository string `json:"repository"`
	} `json:"links"`
}

type npmSearchResponse struct {
	Objects []struct {
		Package   npmPackage `json:"package"`
		Downloads *struct {
			Weekly int64 `json:"weekly"`
		} `json:"downloads"`
	} `json:"objects"`
	Total int `json:"total"`
}

// NpmClient queries the npm registry search endpoint.
type NpmClient struct {
	baseURL    string
	pageSize   int
	timeout    time.Duration
	token      string
	httpClient *http.Client
	classifier Classifier
	logger     *zap.Logger
	metrics    Metrics
}

// NpmOption configures an NpmClient.
type NpmOption func(*NpmClient)

// WithPageSize sets the number of results requested per search.
func WithPageSize(size int) NpmOption {
	return func(n *NpmClient) {
		if size > 0 {
			n.pageSize = size
		}
	}
}

// WithTimeout bounds each registry request.
func WithTimeout(d time.Duration) NpmOption {
	return func(n *NpmClient) { n.timeout = d }
}

// WithToken sends token as a bearer credential, for private registries.
func WithToken(token string) NpmOption {
	return func(n *NpmClient) { n.token = token }
}

// WithClassifier replaces the category classifier.
func WithClassifier(c Classifier) NpmOption {
	return func(n *NpmClient) {
		if c != nil {
			n.classifier = c
		}
	}
}

// WithLogger sets the logger used for fetch failures.
func WithLogger(l *zap.Logger) NpmOption {
	return func(n *NpmClient) {
		if l != nil {
			n.logger = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) NpmOption {
	return func(n *NpmClient) {
		if m != nil {
			n.metrics = m
		}
	}
}

// NewNpmClient creates a client for the registry at baseURL (DefaultRegistryURL
// when empty).
func NewNpmClient(baseURL string, opts ...NpmOption) *NpmClient {
	if baseURL == "" {
		baseURL = DefaultRegistryURL
	}
	n := &NpmClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		pageSize:   DefaultPageSize,
		timeout:    5 * time.Second,
		httpClient: &http.Client{},
		classifier: NewRuleClassifier(),
		logger:     zap.NewNop(),
		metrics:    nopMetrics{},
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.timeout > 0 && n.httpClient.Timeout == 0 {
		c := *n.httpClient
		c.Timeout = n.timeout
		n.httpClient = &c
	}
	if n.token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, n.httpClient)
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: n.token, TokenType: "Bearer"})
		authed := oauth2.NewClient(ctx, src)
		authed.Timeout = n.httpClient.Timeout
		n.httpClient = authed
	}
	return n
}

// FetchRemote searches the registry. Every failure, including cancellation,
// yields an empty slice; failures other than cancellation are logged.
func (n *NpmClient) FetchRemote(ctx context.Context, query string) []SearchResult {
	start := time.Now()
	results, err := n.fetch(ctx, query)
	elapsed := time.Since(start)

	switch {
	case err == nil:
		n.metrics.ObserveRemoteSearch(OutcomeOK, elapsed, len(results))
		return results
	case errors.Is(err, context.Canceled) || ctx.Err() != nil:
		n.metrics.ObserveRemoteSearch(OutcomeCancelled, elapsed, 0)
		n.logger.Debug("npm search cancelled", zap.String("query", query))
	default:
		n.metrics.ObserveRemoteSearch(OutcomeError, elapsed, 0)
		n.logger.Warn("npm search failed", zap.String("query", query), zap.Error(err))
	}
	return []SearchResult{}
}

func (n *NpmClient) fetch(ctx context.Context, query string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("text", query)
	params.Set("size", strconv.Itoa(n.pageSize))
	endpoint := n.baseURL + "/-/v1/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("registry returned %s", resp.Status)
	}

	var body npmSearchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode registry response: %w", err)
	}

	results := make([]SearchResult, 0, len(body.Objects))
	for _, obj := range body.Objects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pkg := obj.Package
		if !ValidPackageName(pkg.Name) {
			n.logger.Debug("skipping invalid package name", zap.String("name", pkg.Name))
			continue
		}
		r := SearchResult{
			Name:           pkg.Name,
			Description:    pkg.Description,
			Version:        pkg.Version,
			Category:       classify(ctx, n.classifier, pkg.Name, pkg.Description, pkg.Keywords),
			InstallCommand: "npm install " + pkg.Name,
			DocsURL:        firstNonEmpty(pkg.Links.Homepage, pkg.Links.Npm, NpmPackageURL(pkg.Name)),
		}
		if r.Description == "" {
			r.Description = defaultDescription
		}
		if obj.Downloads != nil {
			r.Downloads = obj.Downloads.Weekly
		}
		results = append(results, r)
	}
	return results, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
