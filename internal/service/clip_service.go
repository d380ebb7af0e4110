package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/royriv3r/fxtwitch/internal/domain"
)

// ClipFetcher fetches clip metadata from the upstream platform.
type ClipFetcher interface {
	ResolveClip(ctx context.Context, slug string) (*domain.Clip, error)
}

// ClipService orchestrates clip resolution and adds diagnostics around
// the upstream calls.
type ClipService struct {
	fetcher ClipFetcher
	logger  *slog.Logger
}

// NewClipService creates a new clip service.
func NewClipService(fetcher ClipFetcher, logger *slog.Logger) *ClipService {
	return &ClipService{
		fetcher: fetcher,
		logger:  logger,
	}
}

// ResolveClip resolves a clip slug into its metadata and signed video URL.
// Failures keep their upstream error kind so callers and logs can tell an
// auth failure from a transport failure from a missing clip.
func (s *ClipService) ResolveClip(ctx context.Context, slug string) (*domain.Clip, error) {
	traceID := uuid.NewString()
	start := time.Now()

	s.logger.Info("resolving clip",
		"trace_id", traceID,
		"slug", slug,
	)

	clip, err := s.fetcher.ResolveClip(ctx, slug)
	if err != nil {
		s.logger.Error("clip resolution failed",
			"trace_id", traceID,
			"slug", slug,
			"kind", errorKind(err),
			"duration", time.Since(start),
			"error", err,
		)
		return nil, err
	}

	s.logger.Info("clip resolved",
		"trace_id", traceID,
		"slug", slug,
		"broadcaster", clip.BroadcasterName,
		"views", clip.ViewCount,
		"duration", time.Since(start),
	)
	return clip, nil
}

// errorKind maps an error onto its taxonomy bucket for diagnostics.
func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrUpstreamAuth):
		return "upstream_auth"
	case errors.Is(err, domain.ErrUpstreamProtocol):
		return "upstream_protocol"
	case errors.Is(err, domain.ErrUpstreamShape):
		return "upstream_shape"
	default:
		return "internal"
	}
}
