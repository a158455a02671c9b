package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/api"
	apimw "github.com/MateusBorgesGuimaraes/blog-rest-api/internal/api/middleware"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/mocks"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service/asset"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service/auth"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service/authz"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

const testPassword = "Secret1!"

var testSettings = auth.TokenSettings{
	Secret:   "test-secret-that-is-long-enough-for-testing",
	Audience: "blog-api",
	Issuer:   "blog-api",
	TTL:      time.Hour,
}

// apiFixture serves the handlers through a chi router backed by in-memory stores.
type apiFixture struct {
	users  *mocks.MockUserStore
	posts  *mocks.MockPostStore
	saved  *mocks.MockSavedPostStore
	codec  auth.TokenCodec
	root   string
	router http.Handler
}

func newAPIFixture(t *testing.T) *apiFixture {
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
	codec := auth.NewTokenCodec()

	identity, err := auth.NewIdentityService(users, &mocks.MockPasswordVerifier{}, codec, testSettings, logger)
	require.NoError(t, err)
	postSvc, err := service.NewPostService(posts, users, tx, evaluator, query, assets, logger)
	require.NoError(t, err)
	userSvc, err := service.NewUserService(users, &mocks.MockPasswordHasher{}, evaluator, assets, logger)
	require.NoError(t, err)
	savedSvc, err := service.NewSavedPostService(saved, users, posts, tx, evaluator, query, logger)
	require.NoError(t, err)
	images := service.NewImageService(assets, evaluator, logger)

	uploader := api.NewUploader(t.TempDir(), 1<<20, logger)
	authHandler := api.NewAuthHandler(identity, logger)
	userHandler := api.NewUserHandler(userSvc, savedSvc, images, uploader, logger)
	postHandler := api.NewPostHandler(postSvc, images, uploader, logger)
	authMW := apimw.NewAuthMiddleware(auth.NewAuthenticator(codec, testSettings, logger), logger)

	r := chi.NewRouter()
	r.Use(apimw.TraceMiddleware(logger))
	r.Post("/auth", authHandler.Login)
	r.Route("/users", func(r chi.Router) {
		r.Post("/register", userHandler.Register)
		r.Get("/profile/{filename}", userHandler.ServeProfileImage)
		r.Group(func(r chi.Router) {
			r.Use(authMW.Authenticate)
			r.Get("/", userHandler.ListUsers)
			r.Get("/saved-posts", userHandler.ListSavedPosts)
			r.Post("/saved-posts/{postId}", userHandler.SavePost)
			r.Delete("/saved-posts/{postId}", userHandler.UnsavePost)
			r.Post("/upload-profile", userHandler.UploadProfileImage)
			r.Get("/blogger/posts", postHandler.ListMyPosts)
			r.Get("/{id}", userHandler.GetUser)
		})
	})
	r.Route("/posts", func(r chi.Router) {
		r.Get("/", postHandler.ListPosts)
		r.Get("/cover/{filename}", postHandler.ServeCover)
		r.Get("/{id}", postHandler.GetPost)
		r.Get("/{id}/recommendations", postHandler.Recommendations)
		r.Group(func(r chi.Router) {
			r.Use(authMW.Authenticate)
			r.Post("/create", postHandler.CreatePost)
			r.Get("/user", postHandler.ListMyPosts)
			r.Patch("/{id}", postHandler.UpdatePost)
			r.Delete("/{id}", postHandler.DeletePost)
			r.Post("/upload-cover/{postId}", postHandler.UploadCover)
		})
	})

	return &apiFixture{users: users, posts: posts, saved: saved, codec: codec, root: root, router: r}
}

// addUser stores a user whose password is testPassword and returns a bearer token for it.
func (f *apiFixture) addUser(t *testing.T, name string, role domain.Role) (*domain.User, string) {
	t.Helper()
	u, err := domain.NewUser(name, fmt.Sprintf("%s@example.com", name), "hashed:"+testPassword, role)
	require.NoError(t, err)
	f.users.AddUser(u)

	token, err := f.codec.Sign(context.Background(),
		domain.Claims{Subject: u.ID, Email: u.Email, Role: u.Role}, testSettings.SignOptions())
	require.NoError(t, err)
	return u, token
}

func (f *apiFixture) addPost(t *testing.T, author uuid.UUID, title string, created time.Time) *domain.Post {
	t.Helper()
	p, err := domain.NewPost(author, title, "content long enough to be valid", domain.CategoryTechnology)
	require.NoError(t, err)
	p.CreatedAt, p.UpdatedAt = created, created
	require.NoError(t, f.posts.Create(context.Background(), p))
	return p
}

// do sends a request with an optional JSON body and bearer token.
func (f *apiFixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

// upload sends content as the multipart field "file" named filename.
func (f *apiFixture) upload(t *testing.T, path, token, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file here"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]interface{}](t, w)["error"].(string)
}

func filesIn(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

var baseTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
