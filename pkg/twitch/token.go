package twitch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/royriv3r/fxtwitch/internal/domain"
)

// DefaultTokenURL is the Twitch OAuth2 token endpoint.
const DefaultTokenURL = "https://id.twitch.tv/oauth2/token"

// TokenSource provides bearer tokens for GQL calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// ClientCredentialsConfig configures a ClientCredentialsTokenSource.
type ClientCredentialsConfig struct {
	// TokenURL is the OAuth2 token endpoint. Defaults to DefaultTokenURL.
	TokenURL     string
	ClientID     string
	ClientSecret string

	HTTPTimeout time.Duration
	// RefreshSkew is subtracted from expires_in when deciding whether a
	// cached token is still usable.
	RefreshSkew time.Duration
}

// ClientCredentialsTokenSource exchanges a client id/secret pair for app
// access tokens via the client_credentials grant. Tokens are cached until
// shortly before expiry; a token that never reported an expiry is reused
// until a caller forces a refetch by constructing a new source.
type ClientCredentialsTokenSource struct {
	cfg ClientCredentialsConfig
	hc  *http.Client

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

// NewClientCredentialsTokenSource creates a token source for the
// client_credentials grant.
func NewClientCredentialsTokenSource(cfg ClientCredentialsConfig) *ClientCredentialsTokenSource {
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 8 * time.Second
	}
	if cfg.RefreshSkew == 0 {
		cfg.RefreshSkew = 30 * time.Second
	}
	return &ClientCredentialsTokenSource{
		cfg: cfg,
		hc: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
	}
}

// Token returns a valid app access token, fetching a fresh one when the
// cached token is missing or within RefreshSkew of expiry.
func (s *ClientCredentialsTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	token := s.accessToken
	exp := s.expiresAt
	s.mu.Unlock()

	if token == "" || (!exp.IsZero() && time.Until(exp) <= s.cfg.RefreshSkew) {
		if err := s.fetch(ctx); err != nil {
			return "", err
		}
		s.mu.Lock()
		token = s.accessToken
		s.mu.Unlock()
	}
	if token == "" {
		return "", fmt.Errorf("no access token available: %w", domain.ErrUpstreamAuth)
	}
	return token, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

func (s *ClientCredentialsTokenSource) fetch(ctx context.Context) error {
	if strings.TrimSpace(s.cfg.ClientID) == "" {
		return fmt.Errorf("client_id is empty: %w", domain.ErrUpstreamAuth)
	}
	if strings.TrimSpace(s.cfg.ClientSecret) == "" {
		return fmt.Errorf("client_secret is empty: %w", domain.ErrUpstreamAuth)
	}

	form := url.Values{}
	form.Set("client_id", s.cfg.ClientID)
	form.Set("client_secret", s.cfg.ClientSecret)
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, "POST", s.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.hc.Do(req)
	if err != nil {
		return fmt.Errorf("token request failed: %v: %w", err, domain.ErrUpstreamAuth)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("token endpoint returned %s: %w", resp.Status, domain.ErrUpstreamAuth)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return fmt.Errorf("decode token response: %v: %w", err, domain.ErrUpstreamAuth)
	}
	if tr.AccessToken == "" {
		return fmt.Errorf("token response missing access_token: %w", domain.ErrUpstreamAuth)
	}

	expAt := time.Time{}
	if tr.ExpiresIn > 0 {
		expAt = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}

	s.mu.Lock()
	s.accessToken = tr.AccessToken
	s.expiresAt = expAt
	s.mu.Unlock()

	return nil
}
