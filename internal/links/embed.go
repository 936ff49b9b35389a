package links

import "regexp"

var (
	spotifyEmbedPattern = regexp.MustCompile(`spotify\.com/(track|album|playlist|artist|episode)/([a-zA-Z0-9]+)`)
	youtubeIDPattern    = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)
)

// EmbedDecision is the pure render decision derived from a descriptor.
type EmbedDecision struct {
	CanEmbed    bool   `json:"canEmbed"`
	EmbedURL    string `json:"embedUrl,omitempty"`
	AccentColor string `json:"accentColor"`
	Icon        string `json:"icon"`
}

// Decide derives the embed decision for a descriptor. Only spotify and
// youtube URLs matching the stricter embed-id patterns are embeddable;
// everything else renders as a static preview card.
func Decide(d *Descriptor) EmbedDecision {
	provider := d.Provider
	if provider == "" {
		provider = Classify(d.SourceURL)
	}
	dec := EmbedDecision{AccentColor: accentColor(provider), Icon: providerIcon(provider)}

	switch provider {
	case ProviderSpotify:
		if m := spotifyEmbedPattern.FindStringSubmatch(d.SourceURL); m != nil {
			dec.CanEmbed = true
			dec.EmbedURL = "https://open.spotify.com/embed/" + m[1] + "/" + m[2]
		}
	case ProviderYouTube:
		if m := youtubeIDPattern.FindStringSubmatch(d.SourceURL); m != nil {
			dec.CanEmbed = true
			dec.EmbedURL = "https://www.youtube.com/embed/" + m[1] + "?autoplay=1"
		}
	}
	return dec
}

func accentColor(p Provider) string {
	switch p {
	case ProviderSpotify:
		return "#22c55e"
	case ProviderYouTube:
		return "#ef4444"
	case ProviderInstagram:
		return "#ec4899"
	}
	return "#facc15"
}

func providerIcon(p Provider) string {
	switch p {
	case ProviderSpotify:
		return "music"
	case ProviderYouTube:
		return "youtube"
	case ProviderInstagram:
		return "instagram"
	}
	return "external-link"
}

// Card is one preview card instance. It starts collapsed and toggles only on
// explicit user action; it never auto-expands.
type Card struct {
	desc     Descriptor
	decision EmbedDecision
	expanded bool
}

func NewCard(d Descriptor) *Card {
	return &Card{desc: d, decision: Decide(&d)}
}

func (c *Card) Descriptor() Descriptor  { return c.desc }
func (c *Card) Decision() EmbedDecision { return c.decision }
func (c *Card) Expanded() bool          { return c.expanded }

// Expand switches to the inline player. It reports whether the card is now
// expanded; descriptors without an embeddable URL stay collapsed.
func (c *Card) Expand() bool {
	if !c.decision.CanEmbed {
		return false
	}
	c.expanded = true
	return true
}

// Collapse returns the card to its compact preview.
func (c *Card) Collapse() {
	c.expanded = false
}
