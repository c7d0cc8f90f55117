package storage

import (
	"context"
	"errors"
	"time"

	appbilling "github.com/crediario/backend/internal/application/billing"
)

var _ appbilling.ObjectStorage = (*StubObjectStorage)(nil)

// StubObjectStorage is a development placeholder that fabricates
// upload and download URLs without touching a real backend.
type StubObjectStorage struct {
	// BaseURL is prepended to the generated URLs
	BaseURL string
}

// NewStubObjectStorage creates a StubObjectStorage
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.example.com",
	}
}

// GenerateUploadURL returns a fabricated upload URL
func (s *StubObjectStorage) GenerateUploadURL(
	_ context.Context,
	storageKey, _ string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	url := s.BaseURL + "/upload/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339)
	return url, expiresAt, nil
}

// GenerateDownloadURL returns a fabricated download URL
func (s *StubObjectStorage) GenerateDownloadURL(
	_ context.Context,
	storageKey string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	url := s.BaseURL + "/download/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339)
	return url, expiresAt, nil
}

// DeleteObject always succeeds, nothing is stored
func (s *StubObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	return nil
}
