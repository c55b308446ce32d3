package registry

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultPyPIURL is the public Python Package Index
const DefaultPyPIURL = "https://pypi.org"

// Resolver maps a package name to its latest published version
type Resolver interface {
	Latest(ctx context.Context, name string) (string, error)
}

// PyPIOptions configures a PyPIClient
type PyPIOptions struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// DefaultPyPIOptions returns sensible defaults
func DefaultPyPIOptions() PyPIOptions {
	return PyPIOptions{
		BaseURL:   DefaultPyPIURL,
		Timeout:   30 * time.Second,
		UserAgent: "goreqs",
	}
}

// PyPIClient resolves versions through the PyPI JSON API
type PyPIClient struct {
	baseURL   string
	userAgent string
	fetcher   HTTPFetcher
}

// NewPyPIClient creates a PyPIClient with real HTTP for production use
func NewPyPIClient(opts PyPIOptions) *PyPIClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultPyPIOptions().Timeout
	}
	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
	return NewPyPIClientWithFetcher(opts, NewRealHTTPFetcher(client))
}

// NewPyPIClientWithFetcher creates a PyPIClient with injectable HTTP for testing
func NewPyPIClientWithFetcher(opts PyPIOptions, fetcher HTTPFetcher) *PyPIClient {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultPyPIURL
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultPyPIOptions().UserAgent
	}
	return &PyPIClient{
		baseURL:   baseURL,
		userAgent: userAgent,
		fetcher:   fetcher,
	}
}

type pypiResponse struct {
	Info struct {
		Version string `json:"version"`
	} `json:"info"`
	Releases map[string][]json.RawMessage `json:"releases"`
}

// Latest returns the current release of name. Packages that are missing or
// have never had a release yield ErrNotFound.
func (c *PyPIClient) Latest(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: empty package name", ErrNotFound)
	}

	data, err := c.fetchPackage(ctx, name)
	if err != nil {
		return "", err
	}

	version := strings.TrimSpace(data.Info.Version)
	if data.releaseCount() == 0 || version == "" {
		return "", fmt.Errorf("%w: %s has no releases", ErrNotFound, name)
	}
	return version, nil
}

// releaseCount counts releases with at least one uploaded file. Yanked or
// never-uploaded versions show up with an empty file list.
func (r *pypiResponse) releaseCount() int {
	n := 0
	for _, files := range r.Releases {
		if len(files) > 0 {
			n++
		}
	}
	return n
}

func (c *PyPIClient) fetchPackage(ctx context.Context, name string) (*pypiResponse, error) {
	apiURL := fmt.Sprintf("%s/pypi/%s/json", c.baseURL, url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.fetcher.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: apiURL, Wrapped: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	case resp.StatusCode != http.StatusOK:
		return nil, &StatusError{URL: apiURL, StatusCode: resp.StatusCode}
	}

	var decoded pypiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &ParseError{Package: name, Wrapped: err}
	}
	return &decoded, nil
}
