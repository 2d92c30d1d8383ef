package repository

import (
	"context"

	"github.com/pahanabooks/console-api/internal/domain/entity"
)

// BookFilter mirrors the catalog query parameters
type BookFilter struct {
	Search    string
	Category  string
	Status    string
	MinPrice  *float64
	MaxPrice  *float64
	SortBy    string
	SortOrder string
	Page      int // zero-based, as the catalog expects
	Size      int
}

// BookPage is one page of the catalog
type BookPage struct {
	Books       []entity.Book `json:"books"`
	TotalBooks  int64         `json:"totalBooks"`
	CurrentPage int           `json:"currentPage"`
	PageSize    int           `json:"pageSize"`
	TotalPages  int           `json:"totalPages"`
}

// BookRepository defines the backend catalog operations
type BookRepository interface {
	List(ctx context.Context, filter BookFilter) (*BookPage, error)
	All(ctx context.Context) ([]entity.Book, error)
	GetByID(ctx context.Context, id string) (*entity.Book, error)
	Create(ctx context.Context, book *entity.Book) (*entity.Book, error)
	Update(ctx context.Context, id string, book *entity.Book) (*entity.Book, error)
	UpdateStock(ctx context.Context, id string, quantity int, status string) (*entity.Book, error)
	Archive(ctx context.Context, id string) (*entity.Book, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*entity.BookStats, error)
	Categories(ctx context.Context) ([]string, error)
}
