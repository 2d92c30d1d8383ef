package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pahanabooks/console-api/internal/domain/entity"
	"github.com/pahanabooks/console-api/pkg/apperror"
	"github.com/pahanabooks/console-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blogPost(id, title string, day int, tags ...string) entity.BlogPost {
	return entity.BlogPost{
		ID:      json.Number(id),
		Title:   title,
		Summary: title + " summary",
		Tags:    tags,
		Date:    entity.NewTimestamp(time.Date(2026, 4, day, 0, 0, 0, 0, time.UTC)),
	}
}

func newBlogFixture() (*BlogService, *mockBlogRepo) {
	repo := &mockBlogRepo{
		listFn: func(ctx context.Context) ([]entity.BlogPost, error) {
			featured := blogPost("3", "Festival reading list", 3, "Events")
			featured.Featured = true
			return []entity.BlogPost{
				blogPost("1", "Sinhala classics", 1, "Classics", "Fiction"),
				blogPost("2", "Poetry month", 2, "Poetry"),
				featured,
				blogPost("4", "March note", 0),
			}, nil
		},
	}
	return NewBlogService(repo, NewCaches()), repo
}

func TestBlogService_ListFiltersAndSortsNewestFirst(t *testing.T) {
	svc, _ := newBlogFixture()
	ctx := context.Background()

	all, err := svc.List(ctx, BlogFilter{}, nil)
	require.NoError(t, err)
	require.Len(t, all.Items, 4)
	assert.Equal(t, "3", all.Items[0].ID.String())
	assert.Equal(t, "1", all.Items[2].ID.String())

	tagged, err := svc.List(ctx, BlogFilter{Tag: "fic"}, nil)
	require.NoError(t, err)
	require.Len(t, tagged.Items, 1)
	assert.Equal(t, "Sinhala classics", tagged.Items[0].Title)

	searched, err := svc.List(ctx, BlogFilter{Search: "POETRY"}, nil)
	require.NoError(t, err)
	require.Len(t, searched.Items, 1)

	featured, err := svc.List(ctx, BlogFilter{Featured: true}, nil)
	require.NoError(t, err)
	require.Len(t, featured.Items, 1)
	assert.Equal(t, "3", featured.Items[0].ID.String())

	paged, err := svc.List(ctx, BlogFilter{}, &pagination.PaginationParams{Page: 2, PerPage: 3})
	require.NoError(t, err)
	assert.Len(t, paged.Items, 1)
	assert.Equal(t, int64(4), paged.Pagination.Total)
}

func TestBlogService_PopularFallsBackToCachedPosts(t *testing.T) {
	svc, repo := newBlogFixture()
	ctx := context.Background()
	repo.popularFn = func(ctx context.Context) ([]entity.BlogPost, error) {
		return nil, apperror.ErrBackendUnavailable
	}

	_, err := svc.Popular(ctx)
	require.ErrorIs(t, err, apperror.ErrBackendUnavailable)

	_, err = svc.List(ctx, BlogFilter{}, nil)
	require.NoError(t, err)

	posts, err := svc.Popular(ctx)
	require.NoError(t, err)
	require.Len(t, posts, popularFallback)
	assert.Equal(t, "3", posts[0].ID.String())
}

func TestBlogService_GetPostNotFound(t *testing.T) {
	svc, repo := newBlogFixture()
	repo.getByIDFn = func(ctx context.Context, id string) (*entity.BlogPost, error) {
		return nil, nil
	}

	_, err := svc.GetPost(context.Background(), "99")
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)

	_, err = svc.GetPost(context.Background(), " ")
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestBlogService_RelatedExcludesSelf(t *testing.T) {
	svc, repo := newBlogFixture()
	repo.relatedFn = func(ctx context.Context, id string) ([]entity.BlogPost, error) {
		return []entity.BlogPost{blogPost("7", "Self", 1), blogPost("8", "Other", 2)}, nil
	}

	posts, err := svc.Related(context.Background(), "7")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "8", posts[0].ID.String())
}

func TestBlogService_TagsDeduplicated(t *testing.T) {
	svc, repo := newBlogFixture()
	repo.tagsFn = func(ctx context.Context) ([]string, error) {
		return []string{"Poetry", "poetry ", "", "Classics"}, nil
	}

	tags, err := svc.Tags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Poetry", "Classics"}, tags)
}
