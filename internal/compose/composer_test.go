package compose

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ke1ruuu/us/internal/entries"
	"github.com/ke1ruuu/us/internal/links"
	"github.com/ke1ruuu/us/internal/storage"
)

type stubResolver struct{}

func (stubResolver) Resolve(_ context.Context, rawURL string) (*links.Descriptor, error) {
	return &links.Descriptor{Provider: links.Classify(rawURL), Title: "stub", SourceURL: rawURL}, nil
}

type failingRepo struct{}

func (failingRepo) Insert(context.Context, *entries.Entry) (string, error) {
	return "", errors.New("database offline")
}
func (failingRepo) Delete(context.Context, string, string) error { return errors.New("database offline") }
func (failingRepo) List(context.Context) ([]*entries.Entry, error) {
	return nil, errors.New("database offline")
}

func TestComposerSubmitCarriesDetectedLink(t *testing.T) {
	repo := entries.NewMemoryRepository()
	svc := NewService(entries.NewService(repo), storage.NewMemoryStore())
	c := NewComposer("u1", svc, stubResolver{}, 10*time.Millisecond)

	c.Editor().SetContent("<p>listen https://open.spotify.com/track/abc123</p>", false)
	require.Eventually(t, func() bool { return c.Detector().Descriptor() != nil }, time.Second, 5*time.Millisecond)
	require.NotContains(t, c.Editor().Content(), "open.spotify.com")

	id, err := c.Submit(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].LinkData)
	require.Equal(t, links.ProviderSpotify, got[0].LinkData.Provider)
	require.Equal(t, "<p>listen</p>", got[0].Content)
}

func TestComposerSubmitResetsStateOnSuccess(t *testing.T) {
	svc := NewService(entries.NewService(entries.NewMemoryRepository()), storage.NewMemoryStore())
	c := NewComposer("u1", svc, stubResolver{}, time.Hour)

	c.Editor().SetContent("<p>a day worth keeping</p>", false)
	c.AddFile("a.png", []byte{1}, "image/png")
	c.SetImageURL("https://img.local/x.png")
	c.ToggleURLInput()

	_, err := c.Submit(context.Background())
	require.NoError(t, err)

	require.Equal(t, "", c.Editor().Content())
	require.Empty(t, c.Uploads())
	require.False(t, c.URLInputVisible())
	require.Nil(t, c.Detector().Descriptor())
	require.Equal(t, StateComposing, c.State())
}

func TestComposerSubmitPreservesStateOnFailure(t *testing.T) {
	svc := NewService(entries.NewService(failingRepo{}), storage.NewMemoryStore())
	c := NewComposer("u1", svc, stubResolver{}, time.Hour)

	c.Editor().SetContent("<p>do not lose this</p>", false)
	c.AddFile("a.png", []byte{1}, "image/png")

	_, err := c.Submit(context.Background())
	require.Error(t, err)

	require.Equal(t, "<p>do not lose this</p>", c.Editor().Content())
	require.Len(t, c.Uploads(), 1)
	require.Equal(t, StateComposing, c.State())
}

func TestComposerSubmitEmptyFails(t *testing.T) {
	svc := NewService(entries.NewService(entries.NewMemoryRepository()), storage.NewMemoryStore())
	c := NewComposer("u1", svc, stubResolver{}, time.Hour)

	_, err := c.Submit(context.Background())
	require.ErrorIs(t, err, ErrEmptySubmission)
}

func TestComposerRemoveLinkAndFiles(t *testing.T) {
	svc := NewService(entries.NewService(entries.NewMemoryRepository()), storage.NewMemoryStore())
	c := NewComposer("u1", svc, stubResolver{}, 10*time.Millisecond)

	c.Editor().SetContent("<p>https://youtu.be/abcdefghijk</p>", false)
	require.Eventually(t, func() bool { return c.Detector().Descriptor() != nil }, time.Second, 5*time.Millisecond)

	c.RemoveLink()
	require.Nil(t, c.Detector().Descriptor())

	c.AddFile("a.png", nil, "image/png")
	c.AddFile("b.png", nil, "image/png")
	c.RemoveFile(0)
	require.Len(t, c.Uploads(), 1)
	require.Equal(t, "b.png", c.Uploads()[0].Name)
	c.RemoveFile(5) // out of range is a no-op
	require.Len(t, c.Uploads(), 1)
}

func TestComposerToggleURLInputClearsValue(t *testing.T) {
	svc := NewService(entries.NewService(entries.NewMemoryRepository()), storage.NewMemoryStore())
	c := NewComposer("u1", svc, stubResolver{}, time.Hour)

	c.ToggleURLInput()
	require.True(t, c.URLInputVisible())
	c.SetImageURL("https://img.local/x.png")

	c.ToggleURLInput()
	require.False(t, c.URLInputVisible())

	// hidden input means no pasted URL reaches submission
	repo := entries.NewMemoryRepository()
	c2 := NewComposer("u1", NewService(entries.NewService(repo), storage.NewMemoryStore()), stubResolver{}, time.Hour)
	c2.Editor().SetContent("<p>text</p>", false)
	c2.ToggleURLInput()
	c2.SetImageURL("https://img.local/x.png")
	c2.ToggleURLInput()
	_, err := c2.Submit(context.Background())
	require.NoError(t, err)
	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, got[0].ImageURL)
}
