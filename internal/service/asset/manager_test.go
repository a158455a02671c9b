package asset_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service/asset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore wraps a FileStore and fails selected operations.
type failingStore struct {
	asset.FileStore
	moveErr   error
	deleteErr error
}

func (s *failingStore) Move(ctx context.Context, src, dir, name string) error {
	if s.moveErr != nil {
		return s.moveErr
	}
	return s.FileStore.Move(ctx, src, dir, name)
}

func (s *failingStore) Delete(ctx context.Context, dir, name string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.FileStore.Delete(ctx, dir, name)
}

func newTestManager(files asset.FileStore) *asset.Manager {
	clock := time.UnixMilli(1735732800000)
	seq := int64(0)
	return asset.NewManager(files, nil,
		asset.WithClock(func() time.Time {
			clock = clock.Add(time.Millisecond)
			return clock
		}),
		asset.WithRandom(func(int64) int64 {
			seq++
			return seq
		}),
	)
}

func TestManager_Filename(t *testing.T) {
	t.Parallel()

	m := asset.NewManager(asset.NewLocalFileStore(t.TempDir(), nil), nil,
		asset.WithClock(func() time.Time { return time.UnixMilli(1700000000123) }),
		asset.WithRandom(func(n int64) int64 {
			assert.Equal(t, int64(1_000_000_000), n)
			return 42
		}),
	)

	assert.Equal(t, "post-cover-1700000000123-42.jpg", m.Filename(asset.KindCover, "Holiday.JPG"))
	assert.Equal(t, "user-profile-1700000000123-42.png", m.Filename(asset.KindProfile, "me.png"))
	assert.Equal(t, "user-profile-1700000000123-42", m.Filename(asset.KindProfile, "noext"))
}

func TestManager_ReplaceTwiceLeavesOnlyLatest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	root := t.TempDir()
	tmp := t.TempDir()
	m := newTestManager(asset.NewLocalFileStore(root, nil))

	var stored string
	persist := func(_ context.Context, name string) error {
		stored = name
		return nil
	}

	fileA, err := m.Replace(ctx, asset.ReplaceRequest{
		Kind:    asset.KindCover,
		Upload:  writeUpload(t, tmp, "a.png", pngHeader),
		Persist: persist,
	})
	require.NoError(t, err)
	assert.Equal(t, fileA, stored)

	fileB, err := m.Replace(ctx, asset.ReplaceRequest{
		Kind:     asset.KindCover,
		Previous: fileA,
		Upload:   writeUpload(t, tmp, "b.png", pngHeader),
		Persist:  persist,
	})
	require.NoError(t, err)
	assert.NotEqual(t, fileA, fileB)
	assert.Equal(t, fileB, stored)

	assert.Equal(t, []string{fileB}, listDir(t, filepath.Join(root, "posts")))
	assert.Empty(t, listDir(t, tmp), "temp uploads should have been moved")
}

func TestManager_ReplaceMissingPreviousIsFine(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	m := newTestManager(asset.NewLocalFileStore(root, nil))

	name, err := m.Replace(context.Background(), asset.ReplaceRequest{
		Kind:     asset.KindProfile,
		Previous: "user-profile-gone.png",
		Upload:   writeUpload(t, t.TempDir(), "me.png", pngHeader),
		Persist:  func(context.Context, string) error { return nil },
	})
	require.NoError(t, err)
	assert.Equal(t, []string{name}, listDir(t, filepath.Join(root, "profiles")))
}

func TestManager_ReplaceMoveFailure(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	tmp := t.TempDir()
	moveErr := errors.New("disk full")
	m := newTestManager(&failingStore{FileStore: asset.NewLocalFileStore(root, nil), moveErr: moveErr})

	persisted := false
	upload := writeUpload(t, tmp, "a.png", pngHeader)
	_, err := m.Replace(context.Background(), asset.ReplaceRequest{
		Kind:   asset.KindCover,
		Upload: upload,
		Persist: func(context.Context, string) error {
			persisted = true
			return nil
		},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInternal)
	assert.ErrorIs(t, err, moveErr)
	assert.False(t, persisted, "entity must not be updated when the move fails")
	_, statErr := os.Stat(upload.TempPath)
	assert.True(t, os.IsNotExist(statErr), "temp file should be discarded")
}

func TestManager_ReplaceSuppressesDeleteFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	root := t.TempDir()
	local := asset.NewLocalFileStore(root, nil)
	m := newTestManager(local)

	old, err := m.Replace(ctx, asset.ReplaceRequest{
		Kind:    asset.KindCover,
		Upload:  writeUpload(t, t.TempDir(), "a.png", pngHeader),
		Persist: func(context.Context, string) error { return nil },
	})
	require.NoError(t, err)

	m = newTestManager(&failingStore{FileStore: local, deleteErr: errors.New("permission denied")})
	var stored string
	name, err := m.Replace(ctx, asset.ReplaceRequest{
		Kind:     asset.KindCover,
		Previous: old,
		Upload:   writeUpload(t, t.TempDir(), "b.gif", []byte("GIF89a")),
		Persist: func(_ context.Context, n string) error {
			stored = n
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, name, stored)
	assert.ElementsMatch(t, []string{old, name}, listDir(t, filepath.Join(root, "posts")))
}

func TestManager_ReplacePersistFailure(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	m := newTestManager(asset.NewLocalFileStore(root, nil))
	persistErr := domain.NewNotFoundError("Post not found")

	_, err := m.Replace(context.Background(), asset.ReplaceRequest{
		Kind:    asset.KindCover,
		Upload:  writeUpload(t, t.TempDir(), "a.png", pngHeader),
		Persist: func(context.Context, string) error { return persistErr },
	})
	assert.Same(t, persistErr, err)
}

func TestManager_ReplaceUnknownKind(t *testing.T) {
	t.Parallel()
	m := newTestManager(asset.NewLocalFileStore(t.TempDir(), nil))

	_, err := m.Replace(context.Background(), asset.ReplaceRequest{
		Kind:    asset.Kind("banner"),
		Persist: func(context.Context, string) error { return nil },
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestManager_Open(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	root := t.TempDir()
	m := newTestManager(asset.NewLocalFileStore(root, nil))

	name, err := m.Replace(ctx, asset.ReplaceRequest{
		Kind:    asset.KindProfile,
		Upload:  writeUpload(t, t.TempDir(), "me.png", pngHeader),
		Persist: func(context.Context, string) error { return nil },
	})
	require.NoError(t, err)

	rc, err := m.Open(ctx, asset.KindProfile, name)
	require.NoError(t, err)
	content, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, pngHeader, content)

	_, err = m.Open(ctx, asset.KindProfile, "missing.png")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Image not found", domain.PublicMessage(err))

	_, err = m.Open(ctx, asset.KindCover, "../profiles/"+name)
	assert.ErrorIs(t, err, domain.ErrNotFound, "traversal must not reach other kinds")

	_, err = m.Open(ctx, asset.KindCover, "..")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
