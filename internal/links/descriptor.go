package links

import "strings"

// Provider identifies the media source a URL was classified as.
type Provider string

const (
	ProviderSpotify   Provider = "spotify"
	ProviderYouTube   Provider = "youtube"
	ProviderInstagram Provider = "instagram"
	ProviderGeneric   Provider = "generic"
)

// Descriptor is the normalized preview metadata for a detected media URL.
// Raw keeps the upstream payload untouched so the persisted entry can carry
// whatever extra fields the provider returned.
type Descriptor struct {
	Provider     Provider       `json:"provider" bson:"provider"`
	Title        string         `json:"title" bson:"title"`
	AuthorName   string         `json:"author_name" bson:"authorName"`
	ThumbnailURL string         `json:"thumbnail_url,omitempty" bson:"thumbnailUrl,omitempty"`
	SourceURL    string         `json:"url" bson:"sourceUrl"`
	Raw          map[string]any `json:"raw,omitempty" bson:"raw,omitempty"`
}

// Classify maps a URL onto a provider by substring, in fixed priority order
// (spotify before youtube before instagram). The domains are mutually
// exclusive so first match wins.
func Classify(rawURL string) Provider {
	switch {
	case strings.Contains(rawURL, "spotify.com"):
		return ProviderSpotify
	case strings.Contains(rawURL, "youtube.com"), strings.Contains(rawURL, "youtu.be"):
		return ProviderYouTube
	case strings.Contains(rawURL, "instagram.com"):
		return ProviderInstagram
	}
	return ProviderGeneric
}

// Whitelisted reports whether typed text containing this URL should trigger
// auto-detection. Generic URLs never auto-embed.
func Whitelisted(rawURL string) bool {
	return Classify(rawURL) != ProviderGeneric
}
