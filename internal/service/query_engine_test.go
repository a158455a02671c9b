package service_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/domain"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/service"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_Normalize(t *testing.T) {
	t.Parallel()

	f, err := service.Filter{}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 10, f.Limit)
	assert.Equal(t, domain.OrderDesc, f.Order)
	assert.Equal(t, 0, f.Offset())

	f, err = service.Filter{Page: 3, Limit: 7, Search: "  go  "}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, 14, f.Offset())
	assert.Equal(t, "  go  ", f.Search, "search is matched as given")

	invalid := []service.Filter{
		{Page: -1},
		{Limit: -5},
		{Limit: 51},
		{Order: "sideways"},
		{Category: "cooking"},
	}
	for _, in := range invalid {
		_, err := in.Normalize()
		assert.ErrorIs(t, err, domain.ErrValidation, "filter %+v", in)
	}

	_, err = service.Filter{Limit: 50, Category: domain.CategoryHistory, Order: domain.OrderAsc}.Normalize()
	assert.NoError(t, err)
}

func TestQueryEngine_List(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)
	ctx := context.Background()
	author := fx.addUser(t, "writer", domain.RoleBlogger)

	for i := 0; i < 7; i++ {
		fx.addPost(t, author.Subject, fmt.Sprintf("Post %d", i), domain.CategoryTechnology, baseTime.Add(time.Duration(i)*time.Minute))
	}

	page, err := fx.query.List(ctx, service.Filter{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, page.Data, 3)
	assert.Equal(t, domain.PageMeta{Total: 7, Page: 1, LastPage: 3, Limit: 3, Order: domain.OrderDesc}, page.Meta)
	assert.Equal(t, "Post 6", page.Data[0].Title, "newest first by default")
	assert.Equal(t, "writer", page.Data[0].Author.Name)

	page, err = fx.query.List(ctx, service.Filter{Page: 3, Limit: 3})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Post 0", page.Data[0].Title)

	page, err = fx.query.List(ctx, service.Filter{Limit: 2, Order: domain.OrderAsc})
	require.NoError(t, err)
	assert.Equal(t, "Post 0", page.Data[0].Title)
	assert.Equal(t, 4, page.Meta.LastPage)

	_, err = fx.query.List(ctx, service.Filter{Page: 4, Limit: 3})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Posts not found", domain.PublicMessage(err))
}

func TestQueryEngine_HugePageIsNotFound(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)
	author := fx.addUser(t, "writer", domain.RoleBlogger)
	for i := 0; i < 3; i++ {
		fx.addPost(t, author.Subject, fmt.Sprintf("Post %d", i), domain.CategoryBooks, baseTime.Add(time.Duration(i)*time.Minute))
	}

	for _, f := range []service.Filter{
		{Page: 1<<60 + 1, Limit: 16},
		{Page: math.MaxInt/50 + 2, Limit: 50},
		{Page: math.MaxInt},
	} {
		fx.posts.LastQuery = store.PostQuery{}
		page, err := fx.query.List(context.Background(), f)
		assert.Nil(t, page, "filter %+v", f)
		assert.ErrorIs(t, err, domain.ErrNotFound, "filter %+v", f)
		assert.Equal(t, "Posts not found", domain.PublicMessage(err))
		assert.Equal(t, store.PostQuery{}, fx.posts.LastQuery, "store is not queried")
	}

	assert.True(t, service.Filter{Page: math.MaxInt/50 + 2, Limit: 50}.BeyondAnyOffset())
	assert.False(t, service.Filter{Page: math.MaxInt/50 + 1, Limit: 50}.BeyondAnyOffset())
	assert.False(t, service.Filter{Page: 1, Limit: 50}.BeyondAnyOffset())
}

func TestQueryEngine_LastPageIsCeiling(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct{ total, limit, want int }{
		{1, 10, 1}, {10, 10, 1}, {11, 10, 2}, {50, 7, 8}, {49, 7, 7},
	} {
		fx := newFixture(t)
		fx.posts.FindAndCountFn = func(_ context.Context, q store.PostQuery) ([]domain.Post, int, error) {
			return []domain.Post{{Title: "one"}}, tc.total, nil
		}
		page, err := fx.query.List(context.Background(), service.Filter{Limit: tc.limit})
		require.NoError(t, err)
		assert.Equal(t, tc.want, page.Meta.LastPage, "total=%d limit=%d", tc.total, tc.limit)
	}
}

func TestQueryEngine_PassesPredicates(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)
	author := fx.addUser(t, "writer", domain.RoleBlogger)
	fx.addPost(t, author.Subject, "Learning Go", domain.CategoryTechnology, baseTime)

	_, err := fx.query.List(context.Background(), service.Filter{
		Page:     2,
		Limit:    5,
		Category: domain.CategoryTechnology,
		Search:   "go",
		Order:    domain.OrderAsc,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, store.PostQuery{
		Category:      domain.CategoryTechnology,
		TitleContains: "go",
		Order:         domain.OrderAsc,
		Offset:        5,
		Limit:         5,
	}, fx.posts.LastQuery)

	page, err := fx.query.List(context.Background(), service.Filter{Search: "GO", Category: domain.CategoryTechnology})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Meta.Total)
}

func TestQueryEngine_StoreFailure(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)
	dbErr := errors.New("connection refused")
	fx.posts.FindAndCountFn = func(context.Context, store.PostQuery) ([]domain.Post, int, error) {
		return nil, 0, dbErr
	}

	_, err := fx.query.List(context.Background(), service.Filter{})
	assert.ErrorIs(t, err, domain.ErrInternal)
	assert.ErrorIs(t, err, dbErr)
	assert.Equal(t, "Internal server error", domain.PublicMessage(err))
}
