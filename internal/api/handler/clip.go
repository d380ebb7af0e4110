package handler

import (
	"context"
	"html"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"text/template"

	"github.com/go-chi/chi/v5"

	"github.com/royriv3r/fxtwitch/internal/domain"
)

// themeColor is the brand purple used in the embed card.
const themeColor = "#6441a5"

// botMarkers identifies link-preview crawlers by user-agent substring.
var botMarkers = []string{
	"bot",
	"crawler",
	"spider",
	"slurp",
	"facebookexternalhit",
	"whatsapp",
}

// The OG head is rendered with text/template on purpose: html/template
// would entity-encode the signed video URL, and crawlers match
// og:video against the asset URL byte for byte. Human-text fields are
// escaped before execution.
var ogTemplate = template.Must(template.New("og").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="theme-color" content="{{.ThemeColor}}">
<meta property="og:title" content="{{.Title}}">
<meta property="og:type" content="video">
<meta property="og:site_name" content="{{.SiteName}}">
<meta property="og:url" content="{{.URL}}">
<meta property="og:video" content="{{.VideoURL}}">
<meta property="og:video:secure_url" content="{{.VideoURL}}">
<meta property="og:video:type" content="video/mp4">
<meta property="og:image" content="{{.ThumbnailURL}}">
</head>
<body>
<p>This page contains metadata for bots.</p>
</body>
</html>
`))

type ogData struct {
	ThemeColor   string
	Title        string
	SiteName     string
	URL          string
	VideoURL     string
	ThumbnailURL string
}

// ClipResolver resolves a clip slug into its metadata.
type ClipResolver interface {
	ResolveClip(ctx context.Context, slug string) (*domain.Clip, error)
}

// ClipHandler handles clip resolution requests.
type ClipHandler struct {
	resolver ClipResolver
	logger   *slog.Logger
}

// NewClipHandler creates a new clip handler.
func NewClipHandler(resolver ClipResolver, logger *slog.Logger) *ClipHandler {
	return &ClipHandler{
		resolver: resolver,
		logger:   logger,
	}
}

// Resolve handles GET /clip/{clipID}. Crawlers get an Open Graph
// document; everyone else gets a 301 straight to the video asset.
func (h *ClipHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	clipID := chi.URLParam(r, "clipID")

	clip, err := h.resolver.ResolveClip(r.Context(), clipID)
	if err != nil {
		// Detail stays in the logs; clients get a generic body.
		h.logger.Error("resolve failed", "clip_id", clipID, "error", err)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("failed to resolve clip"))
		return
	}

	if IsAutomatedAgent(r.UserAgent()) {
		h.renderMetadata(w, clip)
		return
	}

	http.Redirect(w, r, clip.VideoURL, http.StatusMovedPermanently)
}

func (h *ClipHandler) renderMetadata(w http.ResponseWriter, clip *domain.Clip) {
	data := ogData{
		ThemeColor:   themeColor,
		Title:        html.EscapeString(clip.BroadcasterName + " - " + clip.Title),
		SiteName:     html.EscapeString("👁️ Views: " + strconv.Itoa(clip.ViewCount) + " | " + clip.CreatorName),
		URL:          clip.URL,
		VideoURL:     clip.VideoURL,
		ThumbnailURL: clip.ThumbnailURL,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := ogTemplate.Execute(w, data); err != nil {
		h.logger.Error("render metadata failed", "error", err)
	}
}

// IsAutomatedAgent reports whether the user agent belongs to a known
// crawler or link-preview fetcher. Matching is case-insensitive.
func IsAutomatedAgent(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, marker := range botMarkers {
		if strings.Contains(ua, marker) {
			return true
		}
	}
	return false
}
