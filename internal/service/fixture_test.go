package service_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/mocks"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service/asset"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service/authz"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// fixture wires every service over in-memory stores and a temp upload root.
type fixture struct {
	users  *mocks.MockUserStore
	posts  *mocks.MockPostStore
	saved  *mocks.MockSavedPostStore
	tx     *mocks.MockTransactor
	root   string
	logger *slog.Logger

	query     *service.QueryEngine
	postSvc   service.PostService
	userSvc   service.UserService
	savedSvc  service.SavedPostService
	imageSvc  service.ImageService
	evaluator *authz.Evaluator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	users := mocks.NewMockUserStore()
	saved := mocks.NewMockSavedPostStore()
	posts := mocks.NewMockPostStore(users, saved)
	tx := &mocks.MockTransactor{}
	root := t.TempDir()

	evaluator := authz.NewEvaluator(nil, logger)
	query := service.NewQueryEngine(posts, logger)
	assets := asset.NewManager(asset.NewLocalFileStore(root, logger), logger)

	postSvc, err := service.NewPostService(posts, users, tx, evaluator, query, assets, logger)
	require.NoError(t, err)
	userSvc, err := service.NewUserService(users, &mocks.MockPasswordHasher{}, evaluator, assets, logger)
	require.NoError(t, err)
	savedSvc, err := service.NewSavedPostService(saved, users, posts, tx, evaluator, query, logger)
	require.NoError(t, err)

	return &fixture{
		users:     users,
		posts:     posts,
		saved:     saved,
		tx:        tx,
		root:      root,
		logger:    logger,
		query:     query,
		postSvc:   postSvc,
		userSvc:   userSvc,
		savedSvc:  savedSvc,
		imageSvc:  service.NewImageService(assets, evaluator, logger),
		evaluator: evaluator,
	}
}

// addUser stores a user and returns claims for it.
func (f *fixture) addUser(t *testing.T, name string, role domain.Role) *domain.Claims {
	t.Helper()
	email := fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8])
	u, err := domain.NewUser(name, email, "hashed:Secret1!", role)
	require.NoError(t, err)
	f.users.AddUser(u)
	return &domain.Claims{Subject: u.ID, Email: u.Email, Role: u.Role}
}

// addPost stores a post written by author at created.
func (f *fixture) addPost(
	t *testing.T,
	author uuid.UUID,
	title string,
	category domain.Category,
	created time.Time,
) *domain.Post {
	t.Helper()
	p, err := domain.NewPost(author, title, "content long enough to be valid", category)
	require.NoError(t, err)
	p.CreatedAt, p.UpdatedAt = created, created
	require.NoError(t, f.posts.Create(context.Background(), p))
	return p
}

func (f *fixture) upload(t *testing.T, name string) asset.Upload {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, pngHeader, 0o600))
	return asset.Upload{TempPath: path, OriginalName: name, Size: int64(len(pngHeader))}
}

func (f *fixture) filesIn(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(f.root, dir))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

var baseTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
