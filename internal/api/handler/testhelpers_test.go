package handler

import (
	"context"
	"io"
	"log/slog"

	"github.com/royriv3r/fxtwitch/internal/domain"
)

// testLogger returns a silent logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockResolver is a test implementation of ClipResolver.
type mockResolver struct {
	clip *domain.Clip
	err  error

	lastSlug string
}

func (m *mockResolver) ResolveClip(ctx context.Context, slug string) (*domain.Clip, error) {
	m.lastSlug = slug
	if m.err != nil {
		return nil, m.err
	}
	return m.clip, nil
}

// testClip returns a fully populated clip for handler tests.
func testClip() *domain.Clip {
	return &domain.Clip{
		Slug:            "AwkwardClip",
		BroadcasterName: "Streamer",
		Title:           "Big Play",
		URL:             "https://clips.twitch.tv/AwkwardClip",
		ViewCount:       4242,
		CreatorName:     "streamer",
		ThumbnailURL:    "https://clips-media-assets2.twitch.tv/AwkwardClip-preview-480x272.jpg",
		VideoURL:        "https://production.assets.clips.twitchcdn.net/clip.mp4?sig=abc&token=%7B%22authorization%22%3Atrue%7D",
	}
}
