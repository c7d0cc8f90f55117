package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStubObjectStorage(t *testing.T) {
	s := NewStubObjectStorage()
	require.NotNil(t, s)
	assert.Equal(t, "https://storage.example.com", s.BaseURL)
}

func TestStubObjectStorage_GenerateUploadURL(t *testing.T) {
	s := NewStubObjectStorage()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		url, expiresAt, err := s.GenerateUploadURL(ctx, "invoices/abc/file.jpg", "image/jpeg", 15*time.Minute)
		require.NoError(t, err)
		assert.Contains(t, url, "https://storage.example.com/upload/invoices/abc/file.jpg")
		assert.True(t, expiresAt.After(time.Now()))
	})

	t.Run("empty storage key", func(t *testing.T) {
		_, _, err := s.GenerateUploadURL(ctx, "", "image/jpeg", 15*time.Minute)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage key is required")
	})
}

func TestStubObjectStorage_GenerateDownloadURL(t *testing.T) {
	s := NewStubObjectStorage()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		url, expiresAt, err := s.GenerateDownloadURL(ctx, "invoices/abc/file.pdf", time.Hour)
		require.NoError(t, err)
		assert.Contains(t, url, "https://storage.example.com/download/invoices/abc/file.pdf")
		assert.True(t, expiresAt.After(time.Now()))
	})

	t.Run("empty storage key", func(t *testing.T) {
		_, _, err := s.GenerateDownloadURL(ctx, "", time.Hour)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage key is required")
	})
}

func TestStubObjectStorage_DeleteObject(t *testing.T) {
	s := NewStubObjectStorage()
	ctx := context.Background()

	t.Run("no-op success", func(t *testing.T) {
		assert.NoError(t, s.DeleteObject(ctx, "invoices/abc/file.jpg"))
	})

	t.Run("empty storage key", func(t *testing.T) {
		err := s.DeleteObject(ctx, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage key is required")
	})
}
