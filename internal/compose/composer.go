package compose

import (
	"context"
	"time"

	"github.com/ke1ruuu/us/internal/editor"
	"github.com/ke1ruuu/us/internal/links"
)

// State is the coordinator's lifecycle position.
type State int

const (
	StateComposing State = iota
	StateSubmitting
)

// Composer owns one composition session: the editor, the link detector
// subscribed to it, the pending uploads and the optional pasted image URL.
// A composition is owned by a single user session; methods are not safe for
// concurrent callers.
type Composer struct {
	authorID string
	ed       *editor.Editor
	det      *links.Detector
	svc      *Service

	uploads      []PendingUpload
	imageURL     string
	showURLInput bool
	state        State
}

// NewComposer wires an editor, a detector listening to its change stream,
// and the submission service.
func NewComposer(authorID string, svc *Service, resolver links.Resolver, debounce time.Duration) *Composer {
	ed := editor.New()
	det := links.NewDetector(ed, resolver, debounce)
	ed.OnChange(det.OnContentChanged)
	return &Composer{authorID: authorID, ed: ed, det: det, svc: svc}
}

func (c *Composer) Editor() *editor.Editor    { return c.ed }
func (c *Composer) Detector() *links.Detector { return c.det }
func (c *Composer) State() State              { return c.state }

// AddFile queues a selected file; order is preserved through submission.
func (c *Composer) AddFile(name string, data []byte, contentType string) {
	c.uploads = append(c.uploads, PendingUpload{Name: name, Data: data, ContentType: contentType})
}

// RemoveFile drops the pending file at index i; out-of-range is a no-op.
func (c *Composer) RemoveFile(i int) {
	if i < 0 || i >= len(c.uploads) {
		return
	}
	c.uploads = append(c.uploads[:i], c.uploads[i+1:]...)
}

func (c *Composer) Uploads() []PendingUpload { return c.uploads }

// SetImageURL records the pasted image URL (legacy single-image input).
func (c *Composer) SetImageURL(url string) { c.imageURL = url }

// ToggleURLInput flips the URL input visibility, clearing any pasted URL
// when hiding it.
func (c *Composer) ToggleURLInput() {
	c.showURLInput = !c.showURLInput
	if !c.showURLInput {
		c.imageURL = ""
	}
}

func (c *Composer) URLInputVisible() bool { return c.showURLInput }

// RemoveLink discards the detected link; typing the URL again can re-detect.
func (c *Composer) RemoveLink() { c.det.Reset() }

// Submit runs the submission pipeline with the session's current state.
// On success every piece of composition state is reset; on failure all of
// it is preserved so the user can retry.
func (c *Composer) Submit(ctx context.Context) (string, error) {
	c.state = StateSubmitting
	defer func() { c.state = StateComposing }()

	in := Input{
		Content:  c.ed.Content(),
		Type:     "note",
		ImageURL: c.imageURL,
		Link:     c.det.Descriptor(),
		Files:    c.uploads,
	}
	id, err := c.svc.CreateEntry(ctx, c.authorID, in)
	if err != nil {
		return "", err
	}

	// success: back to a clean slate; the silent reset must not wake the
	// detector, which is reset separately
	c.ed.SetContent("", true)
	c.det.Reset()
	c.uploads = nil
	c.imageURL = ""
	c.showURLInput = false
	return id, nil
}
