package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxborn/loan_management_app/internal/apperrors"
)

func TestLocalStorageSaveAndOpen(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ref, err := store.Save(context.Background(), "kyc", "aadhaar-front.jpg", strings.NewReader("image-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "kyc/"), "reference should live under its category")
	assert.True(t, strings.HasSuffix(ref, ".jpg"), "reference should keep the extension")

	rc, err := store.Open(context.Background(), ref)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))
}

func TestLocalStorageOpenMissing(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open(context.Background(), "proofs/does-not-exist.png")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open(context.Background(), "../../etc/passwd")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestLocalStorageRemoveIsIdempotent(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ref, err := store.Save(context.Background(), "proofs", "receipt.png", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(context.Background(), ref))
	require.NoError(t, store.Remove(context.Background(), ref))

	_, err = store.Open(context.Background(), ref)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
