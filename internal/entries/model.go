package entries

import (
	"time"

	"github.com/ke1ruuu/us/internal/links"
)

// Author is the joined user projection attached to feed entries.
type Author struct {
	ID          string `bson:"_id" json:"id"`
	Username    string `bson:"username" json:"username"`
	DisplayName string `bson:"displayName" json:"display_name"`
}

// Entry is one persisted moment. Immutable once created except for deletion.
// ImageURL duplicates the first of ImageURLs for readers that predate
// multi-image entries.
type Entry struct {
	ID        string            `bson:"_id,omitempty" json:"id"`
	AuthorID  string            `bson:"authorId" json:"author_id"`
	Type      string            `bson:"type" json:"type"`
	Content   string            `bson:"content" json:"content"`
	ImageURL  string            `bson:"imageUrl,omitempty" json:"image_url,omitempty"`
	ImageURLs []string          `bson:"imageUrls,omitempty" json:"image_urls,omitempty"`
	LinkData  *links.Descriptor `bson:"linkData,omitempty" json:"link_data,omitempty"`
	CreatedAt time.Time         `bson:"createdAt" json:"created_at"`

	// populated by List only
	Author *Author `bson:"author,omitempty" json:"author,omitempty"`
}
