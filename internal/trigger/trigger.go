// Package trigger fires the downstream CI build that produces the
// custom live image. Two backends exist: an external shell script and a
// native client for the provider's v3 request API.
package trigger

import (
	"context"
	"encoding/json"
	"fmt"
)

// Request carries the per-submission values handed to the build
// pipeline. Feature tokens travel separately through the staged
// feature-token file; they are duplicated here for backends that embed
// them in the provider payload.
type Request struct {
	// Email receives the download link once the image is built.
	Email string

	// Tag names the build and becomes the release tag of the ISO.
	Tag string

	// EventURL is an optional event page link baked into the image.
	EventURL string

	// Script selects the build script variant run by the pipeline.
	Script string

	// WallpaperB64 is the base64-encoded wallpaper image, empty when no
	// valid wallpaper was uploaded.
	WallpaperB64 string

	// Features are the validated feature tokens of this submission.
	Features []string

	// Recipe is the package list resolved from the feature tokens.
	Recipe []string

	// Processor is the target architecture of the image.
	Processor string
}

// encodeList renders a token or package list as the JSON array string
// the build pipeline reads from its environment. A nil or empty list
// encodes as "[]" so the pipeline variable is never unset.
func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	encoded, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(encoded), nil
}

// Trigger fires a build for the given request.
type Trigger interface {
	// Fire requests a build. A nil error means the provider accepted
	// the trigger, not that the build succeeded.
	Fire(ctx context.Context, req Request) error

	// Name identifies the backend in logs and metrics.
	Name() string
}
