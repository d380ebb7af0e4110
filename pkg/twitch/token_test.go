package twitch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/royriv3r/fxtwitch/internal/domain"
)

func newTokenServer(t *testing.T, hits *atomic.Int32, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)

		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
			t.Errorf("grant_type = %q, want client_credentials", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestClientCredentialsTokenSource_Token(t *testing.T) {
	var hits atomic.Int32
	srv := newTokenServer(t, &hits, http.StatusOK,
		`{"access_token":"abc123","expires_in":3600,"token_type":"bearer"}`)
	defer srv.Close()

	ts := NewClientCredentialsTokenSource(ClientCredentialsConfig{
		TokenURL:     srv.URL,
		ClientID:     "id",
		ClientSecret: "secret",
	})

	token, err := ts.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token != "abc123" {
		t.Errorf("token = %q, want abc123", token)
	}
}

func TestClientCredentialsTokenSource_CachesUnexpiredToken(t *testing.T) {
	var hits atomic.Int32
	srv := newTokenServer(t, &hits, http.StatusOK,
		`{"access_token":"abc123","expires_in":3600}`)
	defer srv.Close()

	ts := NewClientCredentialsTokenSource(ClientCredentialsConfig{
		TokenURL:     srv.URL,
		ClientID:     "id",
		ClientSecret: "secret",
	})

	for i := 0; i < 3; i++ {
		if _, err := ts.Token(context.Background()); err != nil {
			t.Fatalf("Token() call %d error = %v", i, err)
		}
	}

	if got := hits.Load(); got != 1 {
		t.Errorf("token endpoint hits = %d, want 1", got)
	}
}

func TestClientCredentialsTokenSource_RefetchesExpiredToken(t *testing.T) {
	var hits atomic.Int32
	srv := newTokenServer(t, &hits, http.StatusOK,
		`{"access_token":"abc123","expires_in":3600}`)
	defer srv.Close()

	ts := NewClientCredentialsTokenSource(ClientCredentialsConfig{
		TokenURL:     srv.URL,
		ClientID:     "id",
		ClientSecret: "secret",
	})

	if _, err := ts.Token(context.Background()); err != nil {
		t.Fatalf("Token() error = %v", err)
	}

	// Age the cached token past its refresh window.
	ts.mu.Lock()
	ts.expiresAt = time.Now().Add(-time.Minute)
	ts.mu.Unlock()

	if _, err := ts.Token(context.Background()); err != nil {
		t.Fatalf("Token() after expiry error = %v", err)
	}

	if got := hits.Load(); got != 2 {
		t.Errorf("token endpoint hits = %d, want 2", got)
	}
}

func TestClientCredentialsTokenSource_NonSuccessStatus(t *testing.T) {
	var hits atomic.Int32
	srv := newTokenServer(t, &hits, http.StatusForbidden, `{"message":"invalid client"}`)
	defer srv.Close()

	ts := NewClientCredentialsTokenSource(ClientCredentialsConfig{
		TokenURL:     srv.URL,
		ClientID:     "id",
		ClientSecret: "secret",
	})

	_, err := ts.Token(context.Background())
	if !errors.Is(err, domain.ErrUpstreamAuth) {
		t.Errorf("Token() error = %v, want ErrUpstreamAuth", err)
	}
}

func TestClientCredentialsTokenSource_MissingAccessToken(t *testing.T) {
	var hits atomic.Int32
	srv := newTokenServer(t, &hits, http.StatusOK, `{"token_type":"bearer"}`)
	defer srv.Close()

	ts := NewClientCredentialsTokenSource(ClientCredentialsConfig{
		TokenURL:     srv.URL,
		ClientID:     "id",
		ClientSecret: "secret",
	})

	_, err := ts.Token(context.Background())
	if !errors.Is(err, domain.ErrUpstreamAuth) {
		t.Errorf("Token() error = %v, want ErrUpstreamAuth", err)
	}
}

func TestClientCredentialsTokenSource_EmptyCredentials(t *testing.T) {
	ts := NewClientCredentialsTokenSource(ClientCredentialsConfig{
		TokenURL: "http://127.0.0.1:0",
	})

	_, err := ts.Token(context.Background())
	if !errors.Is(err, domain.ErrUpstreamAuth) {
		t.Errorf("Token() error = %v, want ErrUpstreamAuth", err)
	}
}

func TestClientCredentialsTokenSource_SendsCredentials(t *testing.T) {
	var gotForm url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		gotForm = r.PostForm
		w.Write([]byte(`{"access_token":"abc123","expires_in":3600}`))
	}))
	defer srv.Close()

	ts := NewClientCredentialsTokenSource(ClientCredentialsConfig{
		TokenURL:     srv.URL,
		ClientID:     "my-id",
		ClientSecret: "my-secret",
	})

	if _, err := ts.Token(context.Background()); err != nil {
		t.Fatalf("Token() error = %v", err)
	}

	if gotForm.Get("client_id") != "my-id" {
		t.Errorf("client_id = %q, want my-id", gotForm.Get("client_id"))
	}
	if gotForm.Get("client_secret") != "my-secret" {
		t.Errorf("client_secret = %q, want my-secret", gotForm.Get("client_secret"))
	}
}
