package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"pkgscout/internal/domain"
)

const (
	defaultAUREndpoint  = "https://aur.archlinux.org/rpc/"
	defaultAURUserAgent = "pkgscout/1.0"

	maxAURBody = 4 * 1024 * 1024
)

// AURConfig configures the AUR RPC adapter. Pass a client with an
// instrumented transport to get per-request tracing.
type AURConfig struct {
	Endpoint  string
	UserAgent string
	Client    *http.Client
}

// AUR searches the Arch User Repository via its RPC v5 search endpoint.
type AUR struct {
	client    *http.Client
	endpoint  string
	userAgent string
}

type aurResponse struct {
	Type    string `json:"type"`
	Error   string `json:"error"`
	Results []struct {
		Name        string `json:"Name"`
		Description string `json:"Description"`
	} `json:"results"`
}

func NewAUR(cfg AURConfig) *AUR {
	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = defaultAUREndpoint
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultAURUserAgent
	}
	return &AUR{client: client, endpoint: endpoint, userAgent: userAgent}
}

func (a *AUR) Name() domain.Source { return domain.SourceAUR }

func (a *AUR) Info() domain.SourceInfo {
	return domain.SourceInfo{
		Source:  domain.SourceAUR,
		Label:   "Arch User Repository",
		Kind:    "http",
		Enabled: true,
	}
}

func (a *AUR) Search(ctx context.Context, query string) ([]domain.PackageRecord, error) {
	uri, err := url.Parse(a.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	q := uri.Query()
	q.Set("v", "5")
	q.Set("type", "search")
	q.Set("arg", strings.TrimSpace(query))
	uri.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, domain.NewSourceError(domain.SourceAUR, domain.ClassifyFailure(err), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, domain.NewSourceError(domain.SourceAUR, domain.FailureNetwork,
			fmt.Errorf("AUR rate limit exceeded"))
	case resp.StatusCode >= 500:
		return nil, domain.NewSourceError(domain.SourceAUR, domain.FailureNetwork,
			fmt.Errorf("AUR HTTP %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, domain.NewSourceError(domain.SourceAUR, domain.FailureGeneric,
			fmt.Errorf("AUR HTTP %d", resp.StatusCode))
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxAURBody))
	if err != nil {
		return nil, domain.NewSourceError(domain.SourceAUR, domain.ClassifyFailure(err), err)
	}
	return parseAURResponse(payload)
}

func parseAURResponse(payload []byte) ([]domain.PackageRecord, error) {
	var body aurResponse
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, domain.NewSourceError(domain.SourceAUR, domain.FailureGeneric,
			fmt.Errorf("invalid AUR response: %w", err))
	}
	if body.Type == "error" {
		return nil, domain.NewSourceError(domain.SourceAUR, domain.FailureGeneric,
			fmt.Errorf("AUR error: %s", body.Error))
	}

	records := make([]domain.PackageRecord, 0, len(body.Results))
	for _, item := range body.Results {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			continue
		}
		desc := item.Description
		if desc == "" {
			desc = "No description"
		}
		records = append(records, domain.PackageRecord{
			Name:        name,
			Description: desc,
			Source:      domain.SourceAUR,
		})
	}
	return records, nil
}
