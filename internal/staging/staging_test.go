package staging

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStager(t *testing.T) *Stager {
	t.Helper()
	featureFile := filepath.Join(t.TempDir(), "features.txt")
	return New(featureFile, []string{"png", "jpg", "jpeg", "gif", "svg"}, 1024)
}

func TestAllowedExtension(t *testing.T) {
	s := newTestStager(t)

	tests := []struct {
		filename string
		want     bool
	}{
		{"wallpaper.png", true},
		{"wallpaper.PNG", true},
		{"photo.jpeg", true},
		{"photo.jpg", true},
		{"anim.gif", true},
		{"vector.svg", true},
		{"script.sh", false},
		{"archive.tar.gz", false},
		{"noextension", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := s.AllowedExtension(tt.filename); got != tt.want {
			t.Errorf("AllowedExtension(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestEncodeWallpaper(t *testing.T) {
	s := newTestStager(t)

	content := []byte("fake image bytes")
	encoded, err := s.EncodeWallpaper("wall.png", strings.NewReader(string(content)))
	if err != nil {
		t.Fatalf("EncodeWallpaper() error = %v", err)
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("encoded value is not valid base64: %v", err)
	}
	if string(decoded) != string(content) {
		t.Errorf("decoded = %q, want %q", decoded, content)
	}
}

func TestEncodeWallpaper_RejectedExtension(t *testing.T) {
	s := newTestStager(t)

	_, err := s.EncodeWallpaper("payload.exe", strings.NewReader("data"))
	if !errors.Is(err, ErrExtensionNotAllowed) {
		t.Errorf("error = %v, want ErrExtensionNotAllowed", err)
	}
}

func TestEncodeWallpaper_TooLarge(t *testing.T) {
	s := newTestStager(t)

	big := strings.Repeat("x", 2048)
	_, err := s.EncodeWallpaper("wall.png", strings.NewReader(big))
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("error = %v, want ErrTooLarge", err)
	}
}

func TestWriteFeatures(t *testing.T) {
	s := newTestStager(t)

	if err := s.WriteFeatures([]string{"vlc", "gimp"}); err != nil {
		t.Fatalf("WriteFeatures() error = %v", err)
	}

	data, err := os.ReadFile(s.FeatureFile())
	if err != nil {
		t.Fatalf("read feature file: %v", err)
	}
	if string(data) != "vlc\ngimp\n" {
		t.Errorf("feature file = %q, want %q", data, "vlc\ngimp\n")
	}
}

func TestWriteFeatures_ReflectsLatestSubmission(t *testing.T) {
	s := newTestStager(t)

	if err := s.WriteFeatures([]string{"vlc", "gimp", "firefox"}); err != nil {
		t.Fatalf("first WriteFeatures() error = %v", err)
	}
	if err := s.WriteFeatures([]string{"libreoffice"}); err != nil {
		t.Fatalf("second WriteFeatures() error = %v", err)
	}

	data, err := os.ReadFile(s.FeatureFile())
	if err != nil {
		t.Fatalf("read feature file: %v", err)
	}
	if string(data) != "libreoffice\n" {
		t.Errorf("feature file = %q, want only the latest tokens", data)
	}
}

func TestWriteFeatures_EmptySelectionTruncates(t *testing.T) {
	s := newTestStager(t)

	if err := s.WriteFeatures([]string{"vlc"}); err != nil {
		t.Fatalf("WriteFeatures() error = %v", err)
	}
	if err := s.WriteFeatures(nil); err != nil {
		t.Fatalf("WriteFeatures(nil) error = %v", err)
	}

	data, err := os.ReadFile(s.FeatureFile())
	if err != nil {
		t.Fatalf("read feature file: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("feature file = %q, want empty", data)
	}
}

func TestWriteFeatures_CreatesParentDir(t *testing.T) {
	featureFile := filepath.Join(t.TempDir(), "nested", "dir", "features.txt")
	s := New(featureFile, []string{"png"}, 1024)

	if err := s.WriteFeatures([]string{"vlc"}); err != nil {
		t.Fatalf("WriteFeatures() error = %v", err)
	}
	if _, err := os.Stat(featureFile); err != nil {
		t.Errorf("feature file not created: %v", err)
	}
}
