package trigger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// TravisConfig configures the native provider-API trigger backend.
type TravisConfig struct {
	// URL is the API base, e.g. https://api.travis-ci.org.
	URL string
	// Owner and Project identify the build repository.
	Owner   string
	Project string
	// Branch is the branch the triggered build runs on.
	Branch string
	// Token is the provider API token relayed in the Authorization header.
	Token string
	// Timeout bounds the trigger request.
	Timeout time.Duration
}

// TravisTrigger posts build requests to the provider's v3 request API.
type TravisTrigger struct {
	cfg        TravisConfig
	httpClient *http.Client
}

type travisEnv struct {
	Email     string `json:"email"`
	TravisTag string `json:"TRAVIS_TAG"`
	EventURL  string `json:"event_url,omitempty"`
	Script    string `json:"TRAVIS_SCRIPT,omitempty"`
	Recipe    string `json:"recipe"`
	Processor string `json:"processor"`
	Feature   string `json:"feature"`
	Wallpaper string `json:"WALLPAPER,omitempty"`
}

type travisRequestConfig struct {
	Env travisEnv `json:"env"`
}

type travisRequest struct {
	Branch string              `json:"branch"`
	Config travisRequestConfig `json:"config"`
}

type travisRequestBody struct {
	Request travisRequest `json:"request"`
}

// NewTravisTrigger creates a TravisTrigger from config.
func NewTravisTrigger(cfg TravisConfig) *TravisTrigger {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &TravisTrigger{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (t *TravisTrigger) Name() string { return "api" }

// Fire posts the build request. The provider signals acceptance with
// HTTP 202; any other status is an error.
func (t *TravisTrigger) Fire(ctx context.Context, req Request) error {
	// Feature tokens and the package recipe are embedded as JSON array
	// strings. Both keys are always present, empty selections included,
	// so the pipeline never hits an unset variable.
	feature, err := encodeList(req.Features)
	if err != nil {
		return err
	}
	recipe, err := encodeList(req.Recipe)
	if err != nil {
		return err
	}

	body := travisRequestBody{
		Request: travisRequest{
			Branch: t.cfg.Branch,
			Config: travisRequestConfig{
				Env: travisEnv{
					Email:     req.Email,
					TravisTag: req.Tag,
					EventURL:  req.EventURL,
					Script:    req.Script,
					Recipe:    recipe,
					Processor: req.Processor,
					Feature:   feature,
					Wallpaper: req.WallpaperB64,
				},
			},
		},
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	// Repo slug is a single path segment: owner%2Fproject.
	slug := url.PathEscape(t.cfg.Owner + "/" + t.cfg.Project)
	endpoint := fmt.Sprintf("%s/repo/%s/requests", t.cfg.URL, slug)

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Travis-API-Version", "3")
	request.Header.Set("Authorization", "token "+t.cfg.Token)

	resp, err := t.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("trigger rejected with status %d", resp.StatusCode)
	}

	return nil
}
