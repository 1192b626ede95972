// Package release checks whether a triggered build's ISO has been
// published to the release download location.
package release

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/isoforge/isoforge/internal/metrics"
)

// Status is the outcome of a release check.
type Status string

const (
	// StatusBuilt means the ISO is published and downloadable.
	StatusBuilt Status = "built"
	// StatusBuilding means the release exists but the ISO is not up yet.
	StatusBuilding Status = "building"
	// StatusUnreachable means the release host could not be queried.
	StatusUnreachable Status = "unreachable"
)

// Checker probes the release download URL for a build tag.
type Checker struct {
	baseURL    string
	isoPrefix  string
	httpClient *http.Client

	// now is injectable for deterministic URL construction in tests.
	now func() time.Time
}

// NewChecker creates a Checker. baseURL is the releases download base,
// e.g. https://github.com/fossasia/meilix/releases/download.
func NewChecker(baseURL, isoPrefix string, timeout time.Duration) *Checker {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Checker{
		baseURL:   baseURL,
		isoPrefix: isoPrefix,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		now: time.Now,
	}
}

// URL returns the expected download URL for the given tag. Builds are
// published with the build date in the file name.
func (c *Checker) URL(tag string) string {
	date := c.now().Format("20060102")
	return fmt.Sprintf("%s/%s/%s-%s-i386.iso", c.baseURL, tag, c.isoPrefix, date)
}

// Check performs a HEAD request against the expected ISO URL: 200 means
// the build is published, 404 means it is still in progress, anything
// else means the host could not be reached usefully.
func (c *Checker) Check(ctx context.Context, tag string) (Status, string, error) {
	url := c.URL(tag)

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return StatusUnreachable, url, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ReleaseChecks.WithLabelValues(string(StatusUnreachable)).Inc()
		return StatusUnreachable, url, fmt.Errorf("head %s: %w", url, err)
	}
	defer resp.Body.Close()

	var status Status
	switch resp.StatusCode {
	case http.StatusOK:
		status = StatusBuilt
	case http.StatusNotFound:
		status = StatusBuilding
	default:
		status = StatusUnreachable
	}

	metrics.ReleaseChecks.WithLabelValues(string(status)).Inc()
	return status, url, nil
}
