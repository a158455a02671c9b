package api_test

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service"
)

func TestPostHandler_CreateAndList(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t)
	_, bloggerToken := f.addUser(t, "writer", domain.RoleBlogger)
	_, readerToken := f.addUser(t, "reader", domain.RoleUser)

	w := f.do(t, http.MethodGet, "/posts", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Posts not found", errorMessage(t, w))

	body := map[string]string{
		"title": "Hello Go", "content": "A long enough body of text.", "category": "technology",
	}
	w = f.do(t, http.MethodPost, "/posts/create", bloggerToken, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[domain.Post](t, w)
	assert.Equal(t, "Hello Go", created.Title)
	assert.Equal(t, "writer", created.Author.Name)

	w = f.do(t, http.MethodPost, "/posts/create", readerToken, body)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You are not allowed to create a post", errorMessage(t, w))

	w = f.do(t, http.MethodPost, "/posts/create", bloggerToken, map[string]string{
		"title": "Hello Go", "content": "A long enough body of text.", "category": "cooking",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorMessage(t, w), "category must be one of")

	w = f.do(t, http.MethodGet, "/posts?category=technology&search=GO", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[domain.PostPage](t, w)
	assert.Equal(t, domain.PageMeta{Total: 1, Page: 1, LastPage: 1, Limit: 10, Order: domain.OrderDesc}, page.Meta)

	w = f.do(t, http.MethodGet, "/posts/"+created.ID.String(), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/posts/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Post not found", errorMessage(t, w))
}

func TestPostHandler_ListQueryValidation(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t)
	author, _ := f.addUser(t, "writer", domain.RoleBlogger)
	for i := 0; i < 12; i++ {
		f.addPost(t, author.ID, fmt.Sprintf("Post %02d", i), baseTime.Add(time.Duration(i)*time.Minute))
	}

	w := f.do(t, http.MethodGet, "/posts?page=2&limit=5&order=ASC", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[domain.PostPage](t, w)
	assert.Equal(t, 3, page.Meta.LastPage)
	assert.Equal(t, domain.OrderAsc, page.Meta.Order)
	assert.Equal(t, "Post 05", page.Data[0].Title)

	for _, q := range []string{"page=0", "page=abc", "limit=0", "limit=51", "order=random", "category=cooking"} {
		w := f.do(t, http.MethodGet, "/posts?"+q, "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}

	w = f.do(t, http.MethodGet, "/posts?page=9", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodGet, "/posts?page=1152921504606846977&limit=16", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Posts not found", errorMessage(t, w))
}

func TestPostHandler_UpdateAndDelete(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t)
	owner, ownerToken := f.addUser(t, "owner", domain.RoleBlogger)
	_, otherToken := f.addUser(t, "other", domain.RoleBlogger)
	post := f.addPost(t, owner.ID, "Original title", baseTime)
	path := "/posts/" + post.ID.String()

	w := f.do(t, http.MethodPatch, path, otherToken, map[string]string{"title": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You are not allowed to update this post", errorMessage(t, w))

	w = f.do(t, http.MethodPatch, path, ownerToken, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPatch, path, ownerToken, map[string]string{"content": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPatch, path, ownerToken, map[string]string{"title": "New title", "category": "science"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[domain.Post](t, w)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, domain.CategoryScience, updated.Category)

	w = f.do(t, http.MethodDelete, path, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You are not allowed to delete this post", errorMessage(t, w))

	w = f.do(t, http.MethodDelete, path, ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, post.ID, decode[service.DeletePostResult](t, w).RemovedPostID)

	w = f.do(t, http.MethodDelete, path, ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostHandler_MyPostsAndRecommendations(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t)
	me, myToken := f.addUser(t, "me", domain.RoleBlogger)
	other, _ := f.addUser(t, "other", domain.RoleBlogger)
	target := f.addPost(t, me.ID, "Mine", baseTime)
	f.addPost(t, other.ID, "Theirs", baseTime.Add(time.Minute))

	for _, path := range []string{"/posts/user", "/users/blogger/posts"} {
		w := f.do(t, http.MethodGet, path, myToken, nil)
		require.Equal(t, http.StatusOK, w.Code, path)
		page := decode[domain.PostPage](t, w)
		require.Len(t, page.Data, 1, path)
		assert.Equal(t, "Mine", page.Data[0].Title)
	}

	w := f.do(t, http.MethodGet, "/posts/"+target.ID.String()+"/recommendations", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	related := decode[[]domain.Post](t, w)
	require.Len(t, related, 1)
	assert.Equal(t, "Theirs", related[0].Title)

	w = f.do(t, http.MethodGet, "/posts/"+target.ID.String()+"/recommendations?limit=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = f.do(t, http.MethodGet, "/posts/"+target.ID.String()+"/recommendations?limit=11", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostHandler_UploadCover(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t)
	owner, ownerToken := f.addUser(t, "owner", domain.RoleBlogger)
	_, otherToken := f.addUser(t, "other", domain.RoleBlogger)
	post := f.addPost(t, owner.ID, "Covered", baseTime)
	path := "/posts/upload-cover/" + post.ID.String()
	coverDir := filepath.Join(f.root, "posts")

	w := f.upload(t, path, ownerToken, "a.png", pngHeader)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := decode[service.CoverResult](t, w)

	w = f.upload(t, path, ownerToken, "b.png", pngHeader)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	second := decode[service.CoverResult](t, w)
	assert.Equal(t, []string{second.CoverImage}, filesIn(t, coverDir))
	assert.NotEqual(t, first.CoverImage, second.CoverImage)

	w = f.do(t, http.MethodGet, "/posts/cover/"+second.CoverImage, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.Equal(pngHeader, w.Body.Bytes()))

	tests := []struct {
		name     string
		token    string
		filename string
		content  []byte
		status   int
		message  string
	}{
		{"not the owner", otherToken, "c.png", pngHeader, http.StatusForbidden, "You are not allowed to update this post"},
		{"wrong extension", ownerToken, "c.txt", pngHeader, http.StatusBadRequest, "File type must be jpg, jpeg, png or gif"},
		{"not an image", ownerToken, "c.png", []byte("plain text pretending"), http.StatusBadRequest, "File content is not a supported image"},
		{"too large", ownerToken, "c.png", append(append([]byte{}, pngHeader...), make([]byte, 1<<20)...), http.StatusBadRequest, "File size must be less than 1MB"},
		{"missing file", ownerToken, "", nil, http.StatusBadRequest, "File is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.upload(t, path, tt.token, tt.filename, tt.content)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, errorMessage(t, w))
			assert.Equal(t, []string{second.CoverImage}, filesIn(t, coverDir), "rejected uploads leave the cover alone")
		})
	}

	w = f.upload(t, "/posts/upload-cover/"+uuid.NewString(), ownerToken, "d.png", pngHeader)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodGet, "/posts/cover/..%2F..%2Fetc%2Fpasswd", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
