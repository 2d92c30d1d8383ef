package repository

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pahanabooks/console-api/internal/domain/entity"
	domainRepo "github.com/pahanabooks/console-api/internal/domain/repository"
	"github.com/pahanabooks/console-api/internal/infrastructure/backend"
)

type bookRepository struct {
	api *backend.Client
}

// NewBookRepository creates a catalog repository backed by the REST API
func NewBookRepository(api *backend.Client) domainRepo.BookRepository {
	return &bookRepository{api: api}
}

type bookResponse struct {
	Book *entity.Book `json:"book"`
}

func (r *bookRepository) List(ctx context.Context, filter domainRepo.BookFilter) (*domainRepo.BookPage, error) {
	q := url.Values{}
	setIf(q, "search", filter.Search)
	setIf(q, "category", filter.Category)
	setIf(q, "status", filter.Status)
	setIf(q, "sortBy", filter.SortBy)
	setIf(q, "sortOrder", filter.SortOrder)
	if filter.MinPrice != nil {
		q.Set("minPrice", strconv.FormatFloat(*filter.MinPrice, 'f', -1, 64))
	}
	if filter.MaxPrice != nil {
		q.Set("maxPrice", strconv.FormatFloat(*filter.MaxPrice, 'f', -1, 64))
	}
	q.Set("page", strconv.Itoa(filter.Page))
	if filter.Size > 0 {
		q.Set("size", strconv.Itoa(filter.Size))
	}

	var page domainRepo.BookPage
	if err := r.api.Get(ctx, "/api/books", q, &page); err != nil {
		return nil, err
	}
	if page.Books == nil {
		page.Books = []entity.Book{}
	}
	return &page, nil
}

func (r *bookRepository) All(ctx context.Context) ([]entity.Book, error) {
	raw, err := r.api.DoRaw(ctx, "GET", "/api/books/all", nil, nil)
	if err != nil {
		return nil, err
	}
	return backend.DecodeList[entity.Book](raw)
}

func (r *bookRepository) GetByID(ctx context.Context, id string) (*entity.Book, error) {
	var resp bookResponse
	if err := r.api.Get(ctx, "/api/books/"+backend.PathEscape(id), nil, &resp); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return resp.Book, nil
}

func (r *bookRepository) Create(ctx context.Context, book *entity.Book) (*entity.Book, error) {
	var resp bookResponse
	if err := r.api.Post(ctx, "/api/books", book, &resp); err != nil {
		return nil, err
	}
	return resp.Book, nil
}

func (r *bookRepository) Update(ctx context.Context, id string, book *entity.Book) (*entity.Book, error) {
	var resp bookResponse
	if err := r.api.Put(ctx, "/api/books/"+backend.PathEscape(id), book, &resp); err != nil {
		return nil, err
	}
	return resp.Book, nil
}

func (r *bookRepository) UpdateStock(ctx context.Context, id string, quantity int, status string) (*entity.Book, error) {
	body := map[string]interface{}{"stockQuantity": quantity}
	if status != "" {
		body["status"] = status
	}
	var resp bookResponse
	if err := r.api.Put(ctx, "/api/books/"+backend.PathEscape(id)+"/stock", body, &resp); err != nil {
		return nil, err
	}
	return resp.Book, nil
}

func (r *bookRepository) Archive(ctx context.Context, id string) (*entity.Book, error) {
	var resp bookResponse
	if err := r.api.Put(ctx, "/api/books/"+backend.PathEscape(id)+"/archive", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Book, nil
}

func (r *bookRepository) Delete(ctx context.Context, id string) error {
	return r.api.Delete(ctx, "/api/books/"+backend.PathEscape(id), nil)
}

func (r *bookRepository) Stats(ctx context.Context) (*entity.BookStats, error) {
	var resp struct {
		Stats entity.BookStats `json:"stats"`
	}
	if err := r.api.Get(ctx, "/api/books/stats", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Stats, nil
}

func (r *bookRepository) Categories(ctx context.Context) ([]string, error) {
	var resp struct {
		Categories []string `json:"categories"`
	}
	if err := r.api.Get(ctx, "/api/books/categories", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Categories == nil {
		return []string{}, nil
	}
	return resp.Categories, nil
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
