package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/isoforge/isoforge/internal/catalog"
	"github.com/isoforge/isoforge/internal/logging"
	"github.com/isoforge/isoforge/internal/metrics"
	"github.com/isoforge/isoforge/internal/ratelimit"
	"github.com/isoforge/isoforge/internal/staging"
	"github.com/isoforge/isoforge/internal/trigger"
)

// ErrRateLimited indicates the client exceeded the submission limit.
var ErrRateLimited = errors.New("submission rate limit exceeded")

// Submission holds the parsed fields of one build form POST.
type Submission struct {
	Email    string
	Tag      string
	EventURL string

	// Features are the raw feature tokens as submitted; unknown tokens
	// are dropped against the catalog before staging.
	Features []string

	// Processor is the target architecture selected on the form. Empty
	// falls back to the configured default.
	Processor string

	// WallpaperName and Wallpaper describe the optional upload.
	// Wallpaper is nil when no file was attached.
	WallpaperName string
	Wallpaper     io.Reader

	ClientIP string
}

// Result reports what happened to a submission. Trigger failure is not
// an error: the build request is fire-and-forget from the user's
// perspective.
type Result struct {
	// Triggered is true when the trigger backend accepted the build.
	Triggered bool

	// WallpaperStaged is true when a valid wallpaper was encoded and
	// handed to the trigger.
	WallpaperStaged bool

	// Features are the tokens that were actually staged.
	Features []string
}

// BuildService validates and stages a submission, then fires the build
// trigger. Stage+trigger runs under a mutex: the feature-token file is
// shared with the out-of-process build configuration step and must match
// the submission the trigger was fired for.
type BuildService struct {
	stager  *staging.Stager
	catalog *catalog.Catalog
	trig    trigger.Trigger
	limiter   ratelimit.RateLimiter
	logger    *logging.Logger
	script    string
	processor string

	mu sync.Mutex
}

// NewBuildService wires the service. script is the TRAVIS_SCRIPT value
// forwarded to the build pipeline; processor is the default target
// architecture used when the submission names none.
func NewBuildService(stager *staging.Stager, cat *catalog.Catalog, trig trigger.Trigger, limiter ratelimit.RateLimiter, logger *logging.Logger, script, processor string) *BuildService {
	return &BuildService{
		stager:    stager,
		catalog:   cat,
		trig:      trig,
		limiter:   limiter,
		logger:    logger,
		script:    script,
		processor: processor,
	}
}

// Submit processes one form submission. It returns ErrRateLimited when
// the client is over the submission limit and a non-nil error for
// staging failures; trigger failures are logged and reflected in
// Result.Triggered only.
func (s *BuildService) Submit(ctx context.Context, sub Submission) (*Result, error) {
	allowed, err := s.limiter.Allow(ctx, sub.ClientIP)
	if err != nil {
		// A broken limiter must not take the form down.
		s.logger.WarnContext(ctx, "rate limiter unavailable, allowing submission", logging.Error(err))
		allowed = true
	}
	if !allowed {
		metrics.SubmissionsTotal.WithLabelValues("rate_limited").Inc()
		return nil, ErrRateLimited
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := &Result{
		Features: s.catalog.Filter(sub.Features),
	}

	var wallpaperB64 string
	if sub.Wallpaper != nil && sub.WallpaperName != "" {
		wallpaperB64, err = s.stager.EncodeWallpaper(sub.WallpaperName, sub.Wallpaper)
		switch {
		case err == nil:
			result.WallpaperStaged = true
		case errors.Is(err, staging.ErrExtensionNotAllowed):
			// Disallowed uploads are dropped, not rejected.
			metrics.UploadsRejected.WithLabelValues("extension").Inc()
			s.logger.InfoContext(ctx, "wallpaper not staged",
				logging.Error(err), logging.Tag(sub.Tag))
		case errors.Is(err, staging.ErrTooLarge):
			metrics.UploadsRejected.WithLabelValues("size").Inc()
			s.logger.InfoContext(ctx, "wallpaper not staged",
				logging.Error(err), logging.Tag(sub.Tag))
		default:
			metrics.SubmissionsTotal.WithLabelValues("error").Inc()
			return nil, err
		}
	}

	if err := s.stager.WriteFeatures(result.Features); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	processor := sub.Processor
	if processor == "" {
		processor = s.processor
	}

	req := trigger.Request{
		Email:        sub.Email,
		Tag:          sub.Tag,
		EventURL:     sub.EventURL,
		Script:       s.script,
		WallpaperB64: wallpaperB64,
		Features:     result.Features,
		Recipe:       s.catalog.Recipe(result.Features),
		Processor:    processor,
	}

	start := time.Now()
	triggerErr := s.trig.Fire(ctx, req)
	metrics.TriggerDuration.Observe(time.Since(start).Seconds())

	if triggerErr != nil {
		metrics.TriggersTotal.WithLabelValues(s.trig.Name(), "error").Inc()
		s.logger.ErrorContext(ctx, "build trigger failed",
			logging.Backend(s.trig.Name()),
			logging.Tag(sub.Tag),
			logging.Error(triggerErr),
		)
	} else {
		metrics.TriggersTotal.WithLabelValues(s.trig.Name(), "ok").Inc()
		result.Triggered = true
		s.logger.InfoContext(ctx, "build triggered",
			logging.Backend(s.trig.Name()),
			logging.Tag(sub.Tag),
			logging.Email(sub.Email),
		)
	}

	metrics.SubmissionsTotal.WithLabelValues("accepted").Inc()
	return result, nil
}
