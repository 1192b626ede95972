package trigger

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func writeScript(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "trigger.sh")
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestScriptTrigger_Fire(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script test")
	}

	dir := t.TempDir()
	outFile := filepath.Join(dir, "env.txt")
	script := writeScript(t, dir, "#!/bin/sh\nprintf '%s\\n%s\\n%s\\n%s\\n%s\\n%s\\n' \"$email\" \"$TRAVIS_TAG\" \"$WALLPAPER\" \"$processor\" \"$feature\" \"$recipe\" > "+outFile+"\n")

	trig := NewScriptTrigger(script, dir, 10*time.Second)

	err := trig.Fire(context.Background(), Request{
		Email:        "user@example.org",
		Tag:          "event-2026",
		WallpaperB64: "aW1hZ2U=",
		Processor:    "amd64",
		Features:     []string{"vlc"},
		Recipe:       []string{"vlc"},
	})
	if err != nil {
		t.Fatalf("Fire() error = %v", err)
	}

	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6: %q", len(lines), data)
	}
	if lines[0] != "user@example.org" {
		t.Errorf("email = %q", lines[0])
	}
	if lines[1] != "event-2026" {
		t.Errorf("TRAVIS_TAG = %q", lines[1])
	}
	if lines[2] != "aW1hZ2U=" {
		t.Errorf("WALLPAPER = %q", lines[2])
	}
	if lines[3] != "amd64" {
		t.Errorf("processor = %q", lines[3])
	}
	if lines[4] != `["vlc"]` {
		t.Errorf("feature = %q", lines[4])
	}
	if lines[5] != `["vlc"]` {
		t.Errorf("recipe = %q", lines[5])
	}
}

func TestScriptTrigger_Fire_NonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script test")
	}

	dir := t.TempDir()
	script := writeScript(t, dir, "#!/bin/sh\nexit 3\n")

	trig := NewScriptTrigger(script, dir, 10*time.Second)

	if err := trig.Fire(context.Background(), Request{}); err == nil {
		t.Fatal("Fire() should fail on non-zero exit")
	}
}

func TestScriptTrigger_Fire_MissingScript(t *testing.T) {
	trig := NewScriptTrigger("/nonexistent/trigger.sh", t.TempDir(), time.Second)

	if err := trig.Fire(context.Background(), Request{}); err == nil {
		t.Fatal("Fire() should fail for a missing script")
	}
}

func TestScriptTrigger_Name(t *testing.T) {
	if got := NewScriptTrigger("x", ".", 0).Name(); got != "script" {
		t.Errorf("Name() = %q, want script", got)
	}
}
