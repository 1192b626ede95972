package trigger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// ScriptTrigger invokes an external trigger script. The per-submission
// values are passed through the child process environment rather than
// the service's own, so concurrent submissions cannot clobber each
// other's staging.
type ScriptTrigger struct {
	scriptPath string
	workDir    string
	timeout    time.Duration
}

// NewScriptTrigger creates a ScriptTrigger for the given script path.
func NewScriptTrigger(scriptPath, workDir string, timeout time.Duration) *ScriptTrigger {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &ScriptTrigger{
		scriptPath: scriptPath,
		workDir:    workDir,
		timeout:    timeout,
	}
}

func (s *ScriptTrigger) Name() string { return "script" }

// Fire runs the trigger script synchronously with the staged environment
// appended to the inherited one. A non-zero exit is an error; the
// script's output is logged either way.
func (s *ScriptTrigger) Fire(ctx context.Context, req Request) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	feature, err := encodeList(req.Features)
	if err != nil {
		return err
	}
	recipe, err := encodeList(req.Recipe)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, s.scriptPath)
	cmd.Dir = s.workDir
	cmd.Env = append(os.Environ(),
		"email="+req.Email,
		"TRAVIS_TAG="+req.Tag,
		"event_url="+req.EventURL,
		"TRAVIS_SCRIPT="+req.Script,
		"recipe="+recipe,
		"processor="+req.Processor,
		"feature="+feature,
		"WALLPAPER="+req.WallpaperB64,
	)

	output, err := cmd.CombinedOutput()
	if len(output) > 0 {
		slog.Debug("trigger script output", slog.String("output", string(output)))
	}
	if err != nil {
		return fmt.Errorf("trigger script %s: %w", s.scriptPath, err)
	}
	return nil
}
