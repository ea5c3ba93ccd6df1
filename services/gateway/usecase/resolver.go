package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jetfront/jetfront/internal/pkg/logger"
	"github.com/jetfront/jetfront/internal/pkg/models"
	"github.com/jetfront/jetfront/services/gateway"
)

// Auto-created stream limits
const (
	autoStreamMaxMsgs  = 10_000
	autoStreamMaxBytes = 100 * 1024 * 1024
	autoStreamMaxAge   = 24 * time.Hour
)

// ResolveForPublish maps a subject to the name of the stream that stores it,
// creating the stream on first use. The mapping is memoized for the process
// lifetime; resolution is idempotent.
func (uc *GatewayUC) ResolveForPublish(ctx context.Context, subject string) (string, error) {
	uc.mu.RLock()
	name, ok := uc.bindings[subject]
	uc.mu.RUnlock()
	if ok {
		return name, nil
	}

	candidate := uc.streamCandidate(subject)

	if _, err := uc.gw.GetStreamInfo(ctx, candidate); err == nil {
		uc.memoize(subject, candidate)
		return candidate, nil
	} else if !errors.Is(err, gateway.ErrNotFound) {
		return "", fmt.Errorf("failed to resolve stream for %q: %w", subject, err)
	}

	pattern := candidate + ".>"
	err := uc.gw.CreateStream(ctx, models.StreamCreateConfig{
		Name:     candidate,
		Subjects: []string{pattern},
		MaxMsgs:  autoStreamMaxMsgs,
		MaxBytes: autoStreamMaxBytes,
		MaxAge:   autoStreamMaxAge,
		Replicas: 1,
	})
	if err != nil {
		// A concurrent request may have created the stream first; losing
		// that race is success.
		if !errors.Is(err, gateway.ErrConflict) {
			return "", fmt.Errorf("failed to create stream %q for %q: %w", candidate, subject, err)
		}
	} else {
		logger.Info("auto-created stream",
			logger.String("stream", candidate),
			logger.String("pattern", pattern),
			logger.String("subject", subject))
	}

	uc.memoize(subject, candidate)
	return candidate, nil
}

// streamCandidate derives the stream name from a subject: its first
// dot-delimited token, case preserved. Subjects without a dot fall back to
// the configured default prefix.
func (uc *GatewayUC) streamCandidate(subject string) string {
	if i := strings.Index(subject, "."); i > 0 {
		return subject[:i]
	}
	prefix := uc.cfg.Stream.DefaultPrefix
	if prefix == "" {
		prefix = "events"
	}
	return prefix
}

func (uc *GatewayUC) memoize(subject, stream string) {
	uc.mu.Lock()
	uc.bindings[subject] = stream
	uc.mu.Unlock()
}
