package twitch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/royriv3r/fxtwitch/internal/domain"
)

const (
	// DefaultGQLURL is the Twitch GQL endpoint.
	DefaultGQLURL = "https://gql.twitch.tv/gql"

	// WebClientID is the public Client-ID the Twitch web player sends with
	// GQL requests. It is a platform-assigned constant, not a secret, and
	// the endpoint rejects persisted queries without it.
	WebClientID = "kimne78kx3ncx6brgo4mv6wki5h1ko"

	// Persisted query hashes recognized by the GQL endpoint in lieu of
	// full query text.
	overlayQueryHash     = "fcefd8b2081e39d16cbdc94bc82142df01b143bb296f0043262c44c37dbd1f63"
	accessTokenQueryHash = "6fd3af2b22989506269b9ac02dd87eb4a6688392d67d94e41a6886f1e9f5c00f"

	thumbnailHost = "https://clips-media-assets2.twitch.tv"
)

// Client fetches clip metadata and playback access tokens from Twitch GQL.
type Client struct {
	httpClient *http.Client
	gqlURL     string
	clientID   string
	tokens     TokenSource
}

// ClientConfig configures a Client.
type ClientConfig struct {
	// GQLURL overrides the GQL endpoint, mainly for tests. Defaults to
	// DefaultGQLURL.
	GQLURL string
	// ClientID overrides the public web Client-ID. Defaults to WebClientID.
	ClientID string
	Timeout  time.Duration
}

// NewClient creates a GQL client backed by the given token source.
func NewClient(tokens TokenSource, cfg ClientConfig) *Client {
	if cfg.GQLURL == "" {
		cfg.GQLURL = DefaultGQLURL
	}
	if cfg.ClientID == "" {
		cfg.ClientID = WebClientID
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 8 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		gqlURL:   cfg.GQLURL,
		clientID: cfg.ClientID,
		tokens:   tokens,
	}
}

type gqlRequest struct {
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
	Extensions    gqlExtensions  `json:"extensions"`
}

type gqlExtensions struct {
	PersistedQuery gqlPersistedQuery `json:"persistedQuery"`
}

type gqlPersistedQuery struct {
	Version    int    `json:"version"`
	Sha256Hash string `json:"sha256Hash"`
}

// overlayResult is the first batch entry: clip overlay metadata.
type overlayResult struct {
	Data struct {
		Clip *struct {
			Broadcaster struct {
				DisplayName string `json:"displayName"`
				Login       string `json:"login"`
			} `json:"broadcaster"`
			Title     string `json:"title"`
			Slug      string `json:"slug"`
			ViewCount int    `json:"viewCount"`
		} `json:"clip"`
	} `json:"data"`
}

// accessTokenResult is the second batch entry: playback token + qualities.
type accessTokenResult struct {
	Data struct {
		Clip *struct {
			PlaybackAccessToken *struct {
				Signature string `json:"signature"`
				Value     string `json:"value"`
			} `json:"playbackAccessToken"`
			VideoQualities []struct {
				SourceURL string `json:"sourceURL"`
			} `json:"videoQualities"`
		} `json:"clip"`
	} `json:"data"`
}

// ResolveClip fetches clip metadata and a signed playback URL for the
// given slug in one batched GQL call.
func (c *Client) ResolveClip(ctx context.Context, slug string) (*domain.Clip, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, domain.NewResolveError(slug, "fetch access token", err)
	}

	payload := []gqlRequest{
		{
			OperationName: "VideoPlayerStreamInfoOverlayClip",
			Variables:     map[string]any{"slug": slug},
			Extensions: gqlExtensions{
				PersistedQuery: gqlPersistedQuery{Version: 1, Sha256Hash: overlayQueryHash},
			},
		},
		{
			OperationName: "VideoAccessToken_Clip",
			Variables:     map[string]any{"platform": "web", "slug": slug},
			Extensions: gqlExtensions{
				PersistedQuery: gqlPersistedQuery{Version: 1, Sha256Hash: accessTokenQueryHash},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, domain.NewResolveError(slug, "encode query", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.gqlURL, bytes.NewReader(body))
	if err != nil {
		return nil, domain.NewResolveError(slug, "create query request", err)
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewResolveError(slug, "query clip info",
			fmt.Errorf("%v: %w", err, domain.ErrUpstreamProtocol))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, domain.NewResolveError(slug, "query clip info",
			fmt.Errorf("gql endpoint returned %s: %w", resp.Status, domain.ErrUpstreamProtocol))
	}

	var results []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, domain.NewResolveError(slug, "decode clip info",
			fmt.Errorf("%v: %w", err, domain.ErrUpstreamShape))
	}
	if len(results) < 2 {
		return nil, domain.NewResolveError(slug, "decode clip info",
			fmt.Errorf("expected 2 batch results, got %d: %w", len(results), domain.ErrUpstreamShape))
	}

	var overlay overlayResult
	var access accessTokenResult
	if err := json.Unmarshal(results[0], &overlay); err != nil {
		return nil, domain.NewResolveError(slug, "decode clip info",
			fmt.Errorf("%v: %w", err, domain.ErrUpstreamShape))
	}
	if err := json.Unmarshal(results[1], &access); err != nil {
		return nil, domain.NewResolveError(slug, "decode clip info",
			fmt.Errorf("%v: %w", err, domain.ErrUpstreamShape))
	}

	clip := overlay.Data.Clip
	if clip == nil {
		return nil, domain.NewResolveError(slug, "parse clip info",
			fmt.Errorf("clip missing from overlay result: %w", domain.ErrUpstreamShape))
	}
	accessClip := access.Data.Clip
	if accessClip == nil || accessClip.PlaybackAccessToken == nil {
		return nil, domain.NewResolveError(slug, "parse clip info",
			fmt.Errorf("playback access token missing: %w", domain.ErrUpstreamShape))
	}
	if len(accessClip.VideoQualities) == 0 {
		return nil, domain.NewResolveError(slug, "parse clip info",
			fmt.Errorf("no video qualities returned: %w", domain.ErrUpstreamShape))
	}

	// Qualities arrive pre-ordered by descending preference; take the first.
	sourceURL := accessClip.VideoQualities[0].SourceURL
	videoURL := fmt.Sprintf("%s?sig=%s&token=%s",
		sourceURL,
		accessClip.PlaybackAccessToken.Signature,
		url.QueryEscape(accessClip.PlaybackAccessToken.Value),
	)

	return &domain.Clip{
		Slug:            clip.Slug,
		BroadcasterName: clip.Broadcaster.DisplayName,
		Title:           clip.Title,
		URL:             "https://clips.twitch.tv/" + clip.Slug,
		ViewCount:       clip.ViewCount,
		CreatorName:     clip.Broadcaster.Login,
		ThumbnailURL:    ThumbnailURL(clip.Slug),
		VideoURL:        videoURL,
	}, nil
}

// ThumbnailURL derives the clip preview image URL from the slug. The
// naming scheme is a convention of Twitch's clip asset CDN, not an API
// field.
func ThumbnailURL(slug string) string {
	return fmt.Sprintf("%s/%s-preview-480x272.jpg", thumbnailHost, slug)
}
