// Package staging prepares request-scoped build inputs for the trigger:
// wallpaper validation and encoding, and the feature-token file read by
// the downstream build configuration step.
package staging

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrExtensionNotAllowed indicates the upload's extension is outside
	// the configured allow-list.
	ErrExtensionNotAllowed = errors.New("file extension not allowed")

	// ErrTooLarge indicates the upload exceeds the configured size limit.
	ErrTooLarge = errors.New("file exceeds maximum size")
)

// Stager validates and encodes wallpaper uploads and maintains the
// feature-token file.
type Stager struct {
	featureFile string
	allowedExts map[string]bool
	maxSize     int64
}

// New creates a Stager. Extensions are compared case-insensitively and
// without a leading dot.
func New(featureFile string, allowedExts []string, maxSize int64) *Stager {
	exts := make(map[string]bool, len(allowedExts))
	for _, e := range allowedExts {
		exts[strings.ToLower(strings.TrimPrefix(e, "."))] = true
	}
	return &Stager{
		featureFile: featureFile,
		allowedExts: exts,
		maxSize:     maxSize,
	}
}

// FeatureFile returns the path of the feature-token file.
func (s *Stager) FeatureFile() string {
	return s.featureFile
}

// AllowedExtension reports whether filename carries an allowed extension.
func (s *Stager) AllowedExtension(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return false
	}
	return s.allowedExts[ext]
}

// EncodeWallpaper validates the upload and returns its content
// base64-encoded for staging into the trigger environment.
// Returns ErrExtensionNotAllowed or ErrTooLarge on validation failure.
func (s *Stager) EncodeWallpaper(filename string, r io.Reader) (string, error) {
	if !s.AllowedExtension(filename) {
		return "", fmt.Errorf("%w: %s", ErrExtensionNotAllowed, filepath.Ext(filename))
	}

	// Read one byte past the limit to detect oversize uploads.
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return "", ErrTooLarge
	}

	return base64.StdEncoding.EncodeToString(data), nil
}

// WriteFeatures overwrites the feature-token file with one token per
// line. The file always reflects exactly the most recent submission;
// an empty selection truncates it.
func (s *Stager) WriteFeatures(tokens []string) error {
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok)
		b.WriteByte('\n')
	}

	if dir := filepath.Dir(s.featureFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create feature file dir: %w", err)
		}
	}

	if err := os.WriteFile(s.featureFile, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write feature file: %w", err)
	}
	return nil
}
