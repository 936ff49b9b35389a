package compose

import (
	"context"
	"errors"

	"github.com/microcosm-cc/bluemonday"

	"github.com/ke1ruuu/us/internal/editor"
	"github.com/ke1ruuu/us/internal/entries"
	"github.com/ke1ruuu/us/internal/links"
	"github.com/ke1ruuu/us/internal/storage"
	"github.com/ke1ruuu/us/pkg/logger"
	"github.com/ke1ruuu/us/pkg/metrics"
)

// ErrEmptySubmission is the local validation failure: nothing to persist, so
// no collaborator is contacted.
var ErrEmptySubmission = errors.New("content is required")

// PendingUpload is one selected file held client-side until submission.
type PendingUpload struct {
	Name        string
	Data        []byte
	ContentType string
	Preview     string
}

// Input is an assembled submission: markup straight from the editor plus the
// media selections.
type Input struct {
	Content  string
	Type     string
	ImageURL string
	Link     *links.Descriptor
	Files    []PendingUpload
}

// Service runs the submission pipeline: validate, upload files (skipping
// individual failures), assemble the payload, insert.
type Service struct {
	entries *entries.Service
	blobs   storage.BlobStore
	policy  *bluemonday.Policy
}

func NewService(entriesSvc *entries.Service, blobs storage.BlobStore) *Service {
	return &Service{entries: entriesSvc, blobs: blobs, policy: contentPolicy()}
}

// contentPolicy admits exactly the markup the editor can produce.
func contentPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "h2", "h3", "ul", "ol", "li", "blockquote", "strong", "em", "br")
	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("src", "alt").OnElements("img")
	return p
}

// CreateEntry persists one submission for the given author and returns the
// new entry id.
func (s *Service) CreateEntry(ctx context.Context, authorID string, in Input) (string, error) {
	content := s.policy.Sanitize(in.Content)

	doc := editor.Parse(content)
	hasMedia := len(in.Files) > 0 || in.ImageURL != ""
	if doc.IsEmpty() && !hasMedia {
		return "", ErrEmptySubmission
	}

	// uploads run sequentially so resulting URLs keep selection order; a
	// failed upload is skipped, not fatal
	var urls []string
	for _, f := range in.Files {
		url, err := s.blobs.Upload(ctx, authorID, f.Name, f.Data, f.ContentType)
		if err != nil {
			metrics.Uploads.WithLabelValues("error").Inc()
			logger.Warnf("compose: upload of %q failed, skipping: %v", f.Name, err)
			continue
		}
		metrics.Uploads.WithLabelValues("ok").Inc()
		urls = append(urls, url)
	}

	e := &entries.Entry{
		AuthorID:  authorID,
		Type:      in.Type,
		Content:   content,
		ImageURLs: urls,
		LinkData:  in.Link,
	}
	switch {
	case len(urls) > 0:
		e.ImageURL = urls[0] // legacy single-image field for older readers
	case in.ImageURL != "":
		e.ImageURL = in.ImageURL
	}

	id, err := s.entries.Create(ctx, e)
	if err != nil {
		return "", err
	}
	return id, nil
}
