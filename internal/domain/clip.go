package domain

// Clip holds the resolved metadata for a single Twitch clip. All fields
// are derived from one upstream round trip and are read-only afterwards.
type Clip struct {
	Slug            string
	BroadcasterName string
	Title           string
	URL             string
	ViewCount       int
	CreatorName     string
	ThumbnailURL    string

	// VideoURL is the fully qualified playable asset URL, including the
	// sig and token query parameters required by the CDN.
	VideoURL string
}
