package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// BlobStore is the binary object collaborator: it takes file bytes and
// returns a publicly reachable URL.
type BlobStore interface {
	Upload(ctx context.Context, ownerID, filename string, data []byte, contentType string) (string, error)
}

// ObjectName derives a unique object key for an upload attempt:
// owner id + millisecond timestamp + random suffix, keeping the original
// extension. Uniqueness holds even for same-millisecond uploads thanks to
// the suffix.
func ObjectName(ownerID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%d-%s%s", ownerID, time.Now().UnixMilli(), suffix, ext)
}

// MemoryStore keeps uploads in a map; used by unit tests. FailOn makes a
// named file fail, exercising the skip-on-failure submission path.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	FailOn  map[string]bool
	BaseURL string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: map[string][]byte{}, FailOn: map[string]bool{}, BaseURL: "https://blobs.local"}
}

func (m *MemoryStore) Upload(_ context.Context, ownerID, filename string, data []byte, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailOn[filename] {
		return "", fmt.Errorf("upload of %s refused", filename)
	}
	key := ObjectName(ownerID, filename)
	m.objects[key] = append([]byte(nil), data...)
	return m.BaseURL + "/" + key, nil
}

// Len reports the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
