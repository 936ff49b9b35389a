package links

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecideSpotifyTrack(t *testing.T) {
	d := &Descriptor{Provider: ProviderSpotify, SourceURL: "https://open.spotify.com/track/abc123"}
	dec := Decide(d)
	require.True(t, dec.CanEmbed)
	require.Equal(t, "https://open.spotify.com/embed/track/abc123", dec.EmbedURL)
	require.Equal(t, "#22c55e", dec.AccentColor)
	require.Equal(t, "music", dec.Icon)
}

func TestDecideSpotifyKinds(t *testing.T) {
	for _, kind := range []string{"track", "album", "playlist", "artist", "episode"} {
		d := &Descriptor{Provider: ProviderSpotify, SourceURL: "https://open.spotify.com/" + kind + "/xyz789"}
		dec := Decide(d)
		require.True(t, dec.CanEmbed, kind)
		require.Equal(t, "https://open.spotify.com/embed/"+kind+"/xyz789", dec.EmbedURL)
	}
}

func TestDecideSpotifyNonMediaURLStaysStatic(t *testing.T) {
	d := &Descriptor{Provider: ProviderSpotify, SourceURL: "https://open.spotify.com/user/someone"}
	dec := Decide(d)
	require.False(t, dec.CanEmbed)
	require.Empty(t, dec.EmbedURL)
}

func TestDecideYouTubeForms(t *testing.T) {
	for _, u := range []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ",
	} {
		d := &Descriptor{Provider: ProviderYouTube, SourceURL: u}
		dec := Decide(d)
		require.True(t, dec.CanEmbed, u)
		require.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=1", dec.EmbedURL, u)
		require.Equal(t, "#ef4444", dec.AccentColor)
		require.Equal(t, "youtube", dec.Icon)
	}
}

func TestDecideInstagramAndGenericAreStatic(t *testing.T) {
	insta := Decide(&Descriptor{Provider: ProviderInstagram, SourceURL: "https://www.instagram.com/p/xyz/"})
	require.False(t, insta.CanEmbed)
	require.Equal(t, "#ec4899", insta.AccentColor)
	require.Equal(t, "instagram", insta.Icon)

	gen := Decide(&Descriptor{Provider: ProviderGeneric, SourceURL: "https://example.com/a"})
	require.False(t, gen.CanEmbed)
	require.Equal(t, "#facc15", gen.AccentColor)
	require.Equal(t, "external-link", gen.Icon)
}

func TestDecideClassifiesWhenProviderMissing(t *testing.T) {
	dec := Decide(&Descriptor{SourceURL: "https://open.spotify.com/track/abc123"})
	require.True(t, dec.CanEmbed)
}

func TestCardNeverAutoExpands(t *testing.T) {
	c := NewCard(Descriptor{Provider: ProviderSpotify, SourceURL: "https://open.spotify.com/track/abc123"})
	require.False(t, c.Expanded())

	require.True(t, c.Expand())
	require.True(t, c.Expanded())

	c.Collapse()
	require.False(t, c.Expanded())
}

func TestCardWithoutEmbedStaysCollapsed(t *testing.T) {
	c := NewCard(Descriptor{Provider: ProviderGeneric, SourceURL: "https://example.com/a"})
	require.False(t, c.Expand())
	require.False(t, c.Expanded())
}
