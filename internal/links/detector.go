package links

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/ke1ruuu/us/internal/editor"
	"github.com/ke1ruuu/us/pkg/logger"
)

// State is the detector's position in its per-composition lifecycle.
type State int

const (
	StateIdle State = iota
	StateScanning
	StateResolving
	StateEmbedded
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

// ContentEditor is the slice of the editor surface the detector needs.
type ContentEditor interface {
	Content() string
	SetContent(markup string, silent bool)
}

// Detector watches editor content for whitelisted media URLs. Every change
// notification resets a debounce timer; when the timer fires the plain text
// is scanned, the first whitelisted URL resolved, and on success the raw URL
// is stripped from the document through a silent set-content. One descriptor
// per composition: once embedded the detector stays inert until Reset.
//
// Resolutions already in flight are never cancelled; their results are
// applied only when the generation they started under is still current
// (stale results are discarded silently).
type Detector struct {
	mu       sync.Mutex
	ed       ContentEditor
	resolver Resolver
	debounce time.Duration

	timer *time.Timer
	state State
	desc  *Descriptor
	gen   int

	onEmbed func(*Descriptor)
}

func NewDetector(ed ContentEditor, resolver Resolver, debounce time.Duration) *Detector {
	if debounce <= 0 {
		debounce = time.Second
	}
	return &Detector{ed: ed, resolver: resolver, debounce: debounce, state: StateIdle}
}

// OnEmbed registers a callback fired after a descriptor is accepted and the
// URL stripped from the document.
func (d *Detector) OnEmbed(fn func(*Descriptor)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onEmbed = fn
}

// OnContentChanged is the editor change subscriber. It (re)starts the
// debounce timer; a new notification supersedes a pending one.
func (d *Detector) OnContentChanged(string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.desc != nil {
		// at most one link per entry, first match wins
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.debounce, d.scan)
}

// Flush runs a pending scan immediately instead of waiting out the debounce.
func (d *Detector) Flush() {
	d.mu.Lock()
	pending := d.timer != nil && d.timer.Stop()
	d.mu.Unlock()
	if pending {
		d.scan()
	}
}

// Reset clears all detection state for a new composition. In-flight
// resolutions become stale and will be discarded.
func (d *Detector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.desc = nil
	d.state = StateIdle
	d.gen++
}

// State reports the current lifecycle state.
func (d *Detector) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Descriptor returns the accepted descriptor, or nil.
func (d *Detector) Descriptor() *Descriptor {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.desc
}

func (d *Detector) scan() {
	d.mu.Lock()
	if d.desc != nil {
		d.mu.Unlock()
		return
	}
	d.state = StateScanning
	text := editor.Parse(d.ed.Content()).PlainText()
	match := firstWhitelisted(text)
	if match == "" {
		d.state = StateIdle
		d.mu.Unlock()
		return
	}
	d.state = StateResolving
	gen := d.gen
	d.mu.Unlock()

	desc, err := d.resolver.Resolve(context.Background(), match)

	d.mu.Lock()
	stale := d.gen != gen || d.desc != nil
	if err != nil {
		if !stale {
			// URL stays in the document; the next debounce firing retries
			d.state = StateIdle
		}
		d.mu.Unlock()
		logger.Debugf("link detector: resolution of %s failed: %v", match, err)
		return
	}
	if stale {
		d.mu.Unlock()
		logger.Debugf("link detector: discarding stale resolution of %s", match)
		return
	}
	// the user may have deleted the URL while resolution was in flight
	if !strings.Contains(editor.Parse(d.ed.Content()).PlainText(), match) {
		d.state = StateIdle
		d.mu.Unlock()
		logger.Debugf("link detector: matched text for %s gone, discarding", match)
		return
	}

	d.desc = desc
	d.state = StateEmbedded
	d.gen++
	d.ed.SetContent(editor.StripURL(d.ed.Content(), match), true)
	cb := d.onEmbed
	d.mu.Unlock()

	if cb != nil {
		cb(desc)
	}
}

// firstWhitelisted returns the first URL in the text whose provider is on
// the whitelist; non-whitelisted URLs are skipped.
func firstWhitelisted(text string) string {
	for _, m := range urlPattern.FindAllString(text, -1) {
		m = strings.TrimRight(m, ".,;:!?)")
		if Whitelisted(m) {
			return m
		}
	}
	return ""
}
