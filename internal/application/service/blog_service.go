package service

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/pahanabooks/console-api/internal/domain/entity"
	"github.com/pahanabooks/console-api/internal/domain/repository"
	"github.com/pahanabooks/console-api/pkg/apperror"
	"github.com/pahanabooks/console-api/pkg/pagination"
)

// popularFallback is how many of the newest cached posts stand in for the
// popular list when the backend cannot rank them
const popularFallback = 3

// BlogFilter narrows the storefront blog listing
type BlogFilter struct {
	Search   string
	Tag      string
	Featured bool
}

// BlogService serves the storefront blog from the backend
type BlogService struct {
	blog   repository.BlogRepository
	caches *Caches
}

// NewBlogService creates a new blog service
func NewBlogService(blog repository.BlogRepository, caches *Caches) *BlogService {
	if caches == nil {
		caches = NewCaches()
	}
	return &BlogService{blog: blog, caches: caches}
}

// List returns one page of posts, newest first, filtered by search term,
// tag and featured flag
func (s *BlogService) List(ctx context.Context, filter BlogFilter, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.BlogPost], error) {
	res := load(ctx, s.caches.Blog, s.blog.List)
	if !res.OK() {
		log.Printf("[blog] list: %v", res.Err)
		return nil, res.Err
	}

	posts := make([]entity.BlogPost, 0, len(res.Data))
	for i := range res.Data {
		p := &res.Data[i]
		if filter.Featured && !p.Featured {
			continue
		}
		if !p.Matches(filter.Search) || !p.HasTag(filter.Tag) {
			continue
		}
		posts = append(posts, *p)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Published().After(posts[j].Published().Time)
	})
	return pagination.Paginate(posts, params), nil
}

// Popular returns the most read posts. When the backend cannot rank them
// and a listing has been loaded before, the newest cached posts are used.
func (s *BlogService) Popular(ctx context.Context) ([]entity.BlogPost, error) {
	posts, err := s.blog.Popular(ctx)
	if err == nil {
		return posts, nil
	}

	cached, ok := s.caches.Blog.Get()
	if !ok {
		return nil, err
	}
	log.Printf("[blog] popular unavailable, using cached posts: %v", err)
	newest := make([]entity.BlogPost, len(cached))
	copy(newest, cached)
	sort.SliceStable(newest, func(i, j int) bool {
		return newest[i].Published().After(newest[j].Published().Time)
	})
	if len(newest) > popularFallback {
		newest = newest[:popularFallback]
	}
	return newest, nil
}

// GetPost retrieves one post
func (s *BlogService) GetPost(ctx context.Context, id string) (*entity.BlogPost, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.NewBadRequestError("Blog post id is required")
	}
	post, err := s.blog.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperror.NewNotFoundError("Blog post")
	}
	return post, nil
}

// Related returns posts related to id, without the post itself
func (s *BlogService) Related(ctx context.Context, id string) ([]entity.BlogPost, error) {
	posts, err := s.blog.Related(ctx, id)
	if err != nil {
		return nil, err
	}
	out := posts[:0]
	for _, p := range posts {
		if p.ID.String() != id {
			out = append(out, p)
		}
	}
	return out, nil
}

// Tags returns the blog's tags, deduplicated ignoring case
func (s *BlogService) Tags(ctx context.Context) ([]string, error) {
	tags, err := s.blog.Tags(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup || t == "" {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}
