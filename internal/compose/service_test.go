package compose

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ke1ruuu/us/internal/entries"
	"github.com/ke1ruuu/us/internal/links"
	"github.com/ke1ruuu/us/internal/storage"
)

func newTestService(t *testing.T) (*Service, *entries.MemoryRepository, *storage.MemoryStore) {
	t.Helper()
	repo := entries.NewMemoryRepository()
	store := storage.NewMemoryStore()
	return NewService(entries.NewService(repo), store), repo, store
}

func TestCreateEntryRejectsEmptySubmission(t *testing.T) {
	svc, repo, store := newTestService(t)

	for _, content := range []string{"", "<p></p>", "<p>   </p>"} {
		_, err := svc.CreateEntry(context.Background(), "u1", Input{Content: content})
		require.ErrorIs(t, err, ErrEmptySubmission, "content %q", content)
	}

	// validation failed locally: nothing was uploaded or persisted
	require.Equal(t, 0, store.Len())
	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestCreateEntryFileOnlySubmissionIsValid(t *testing.T) {
	svc, repo, _ := newTestService(t)

	id, err := svc.CreateEntry(context.Background(), "u1", Input{
		Files: []PendingUpload{{Name: "a.png", Data: []byte{1}, ContentType: "image/png"}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].ImageURLs, 1)
}

func TestCreateEntrySkipsFailedUploads(t *testing.T) {
	svc, repo, store := newTestService(t)
	store.FailOn["bad.png"] = true

	id, err := svc.CreateEntry(context.Background(), "u1", Input{
		Content: "<p>two photos</p>",
		Files: []PendingUpload{
			{Name: "bad.png", Data: []byte{1}, ContentType: "image/png"},
			{Name: "good.png", Data: []byte{2}, ContentType: "image/png"},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].ImageURLs, 1)
	require.Equal(t, got[0].ImageURLs[0], got[0].ImageURL)
	require.Equal(t, 1, store.Len())
}

func TestCreateEntryLegacyImageURL(t *testing.T) {
	svc, repo, _ := newTestService(t)

	_, err := svc.CreateEntry(context.Background(), "u1", Input{ImageURL: "https://img.local/pasted.png"})
	require.NoError(t, err)

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, "https://img.local/pasted.png", got[0].ImageURL)
	require.Empty(t, got[0].ImageURLs)
}

func TestCreateEntrySanitizesContent(t *testing.T) {
	svc, repo, _ := newTestService(t)

	_, err := svc.CreateEntry(context.Background(), "u1", Input{
		Content: `<p>hi</p><script>alert(1)</script><p onclick="x()">there</p>`,
	})
	require.NoError(t, err)

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.NotContains(t, got[0].Content, "script")
	require.NotContains(t, got[0].Content, "onclick")
	require.Contains(t, got[0].Content, "<p>hi</p>")
}

func TestCreateEntryCarriesLinkAndDefaults(t *testing.T) {
	svc, repo, _ := newTestService(t)

	desc := &links.Descriptor{Provider: links.ProviderSpotify, Title: "Song", SourceURL: "https://open.spotify.com/track/abc"}
	_, err := svc.CreateEntry(context.Background(), "u1", Input{Content: "<p>listen</p>", Link: desc})
	require.NoError(t, err)

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, "note", got[0].Type)
	require.Equal(t, "u1", got[0].AuthorID)
	require.NotNil(t, got[0].LinkData)
	require.Equal(t, "Song", got[0].LinkData.Title)
}
