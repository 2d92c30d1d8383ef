package repository

import (
	"context"
	"encoding/json"

	"github.com/pahanabooks/console-api/internal/domain/entity"
	domainRepo "github.com/pahanabooks/console-api/internal/domain/repository"
	"github.com/pahanabooks/console-api/internal/infrastructure/backend"
)

type blogRepository struct {
	api *backend.Client
}

// NewBlogRepository creates a blog repository backed by the REST API
func NewBlogRepository(api *backend.Client) domainRepo.BlogRepository {
	return &blogRepository{api: api}
}

func (r *blogRepository) List(ctx context.Context) ([]entity.BlogPost, error) {
	return r.list(ctx, "/api/blog")
}

func (r *blogRepository) Popular(ctx context.Context) ([]entity.BlogPost, error) {
	return r.list(ctx, "/api/blog/popular")
}

func (r *blogRepository) GetByID(ctx context.Context, id string) (*entity.BlogPost, error) {
	raw, err := r.api.DoRaw(ctx, "GET", "/api/blog/"+backend.PathEscape(id), nil, nil)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	// The post comes either bare or wrapped as {"blog": {...}}
	var wrapped struct {
		Blog *entity.BlogPost `json:"blog"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Blog != nil {
		return wrapped.Blog, nil
	}
	var post entity.BlogPost
	if err := json.Unmarshal(raw, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *blogRepository) Related(ctx context.Context, id string) ([]entity.BlogPost, error) {
	return r.list(ctx, "/api/blog/related/"+backend.PathEscape(id))
}

func (r *blogRepository) Tags(ctx context.Context) ([]string, error) {
	raw, err := r.api.DoRaw(ctx, "GET", "/api/blog/tags", nil, nil)
	if err != nil {
		return nil, err
	}
	return backend.DecodeList[string](raw)
}

func (r *blogRepository) list(ctx context.Context, path string) ([]entity.BlogPost, error) {
	raw, err := r.api.DoRaw(ctx, "GET", path, nil, nil)
	if err != nil {
		return nil, err
	}
	return backend.DecodeList[entity.BlogPost](raw)
}
