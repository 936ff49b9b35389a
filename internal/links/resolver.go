package links

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ke1ruuu/us/pkg/metrics"
)

var ErrMalformedURL = errors.New("malformed url")

// Resolver retrieves a normalized preview descriptor for a URL.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) (*Descriptor, error)
}

// OEmbedResolver resolves descriptors through the providers' oEmbed
// endpoints. Endpoint bases are fields so tests can point them at a local
// server.
type OEmbedResolver struct {
	Client        *http.Client
	SpotifyBase   string
	YouTubeBase   string
	InstagramBase string
}

func NewOEmbedResolver(timeout time.Duration) *OEmbedResolver {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OEmbedResolver{
		Client:        &http.Client{Timeout: timeout},
		SpotifyBase:   "https://open.spotify.com/oembed",
		YouTubeBase:   "https://www.youtube.com/oembed",
		InstagramBase: "https://api.instagram.com/oembed/",
	}
}

// Resolve dispatches on the provider classification. Transport or parse
// failures on spotify/youtube surface as errors; instagram tolerates any
// upstream failure by falling through to the generic descriptor. A URL with
// no matching provider yields the generic descriptor without a network call.
func (r *OEmbedResolver) Resolve(ctx context.Context, rawURL string) (*Descriptor, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || u.Scheme == "" {
		metrics.LinkResolutions.WithLabelValues(string(ProviderGeneric), "error").Inc()
		return nil, fmt.Errorf("%w: %q", ErrMalformedURL, rawURL)
	}

	provider := Classify(rawURL)
	switch provider {
	case ProviderSpotify:
		d, err := r.fetchOEmbed(ctx, provider, r.SpotifyBase+"?url="+url.QueryEscape(rawURL), rawURL)
		if err != nil {
			metrics.LinkResolutions.WithLabelValues(string(provider), "error").Inc()
			return nil, err
		}
		metrics.LinkResolutions.WithLabelValues(string(provider), "ok").Inc()
		return d, nil
	case ProviderYouTube:
		d, err := r.fetchOEmbed(ctx, provider, r.YouTubeBase+"?url="+url.QueryEscape(rawURL)+"&format=json", rawURL)
		if err != nil {
			metrics.LinkResolutions.WithLabelValues(string(provider), "error").Inc()
			return nil, err
		}
		metrics.LinkResolutions.WithLabelValues(string(provider), "ok").Inc()
		return d, nil
	case ProviderInstagram:
		// Instagram's oEmbed is flaky for unauthenticated callers; any
		// failure degrades to the generic descriptor instead of erroring.
		d, err := r.fetchOEmbed(ctx, provider, r.InstagramBase+"?url="+url.QueryEscape(rawURL), rawURL)
		if err != nil {
			metrics.LinkResolutions.WithLabelValues(string(provider), "fallback").Inc()
			return generic(u, rawURL), nil
		}
		metrics.LinkResolutions.WithLabelValues(string(provider), "ok").Inc()
		return d, nil
	}

	metrics.LinkResolutions.WithLabelValues(string(ProviderGeneric), "ok").Inc()
	return generic(u, rawURL), nil
}

func generic(u *url.URL, rawURL string) *Descriptor {
	return &Descriptor{
		Provider:   ProviderGeneric,
		Title:      "Link Preview",
		AuthorName: u.Hostname(),
		SourceURL:  rawURL,
	}
}

func (r *OEmbedResolver) fetchOEmbed(ctx context.Context, provider Provider, endpoint, sourceURL string) (*Descriptor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("oembed request: %w", err)
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oembed fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("oembed endpoint returned %d", resp.StatusCode)
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("oembed decode: %w", err)
	}

	return &Descriptor{
		Provider:     provider,
		Title:        stringField(raw, "title"),
		AuthorName:   stringField(raw, "author_name"),
		ThumbnailURL: stringField(raw, "thumbnail_url"),
		SourceURL:    sourceURL,
		Raw:          raw,
	}, nil
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
