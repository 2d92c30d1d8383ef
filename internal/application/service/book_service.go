package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/pahanabooks/console-api/internal/domain/entity"
	"github.com/pahanabooks/console-api/internal/domain/enum"
	"github.com/pahanabooks/console-api/internal/domain/repository"
	"github.com/pahanabooks/console-api/pkg/apperror"
	"github.com/pahanabooks/console-api/pkg/eventbus"
	"github.com/shopspring/decimal"
)

// BookService manages the catalog through the backend
type BookService struct {
	books    repository.BookRepository
	caches   *Caches
	bus      *eventbus.Bus
	notifier *Notifier
}

// NewBookService creates a new book service
func NewBookService(books repository.BookRepository, caches *Caches, bus *eventbus.Bus, notifier *Notifier) *BookService {
	if caches == nil {
		caches = NewCaches()
	}
	return &BookService{books: books, caches: caches, bus: bus, notifier: notifier}
}

// BookEvent is published when a catalog entry changes
type BookEvent struct {
	BookID        string    `json:"book_id"`
	Type          string    `json:"type"`
	StockQuantity *int      `json:"stock_quantity,omitempty"`
	Status        string    `json:"status,omitempty"`
	At            time.Time `json:"at"`
}

// BookInput represents the create/update book input
type BookInput struct {
	Title         string
	Author        string
	Category      string
	Format        string
	Price         decimal.Decimal
	StockQuantity int
	ISBN          string
	Language      string
	PublishedYear int
	Pages         int
	Publisher     string
	ImageURL      string
	Description   string
}

// List returns one page of the catalog
func (s *BookService) List(ctx context.Context, filter repository.BookFilter) (*repository.BookPage, error) {
	if filter.Size <= 0 {
		filter.Size = 12
	}
	if filter.Page < 0 {
		filter.Page = 0
	}
	page, err := s.books.List(ctx, filter)
	if err != nil {
		s.notify(err)
		return nil, err
	}
	return page, nil
}

// All returns the whole catalog and refreshes the cached copy
func (s *BookService) All(ctx context.Context) ([]entity.Book, error) {
	res := load(ctx, s.caches.Books, s.books.All)
	if !res.OK() {
		s.notify(res.Err)
		return nil, res.Err
	}
	return res.Data, nil
}

// GetBook retrieves a book by ID
func (s *BookService) GetBook(ctx context.Context, id string) (*entity.Book, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, apperror.NewNotFoundError("Book")
	}
	return book, nil
}

// CreateBook adds a book to the catalog
func (s *BookService) CreateBook(ctx context.Context, input *BookInput) (*entity.Book, error) {
	if err := validateBook(input); err != nil {
		return nil, err
	}

	book, err := s.books.Create(ctx, input.toEntity())
	if err != nil {
		s.notify(err)
		return nil, err
	}
	s.changed(book.ID, "create", nil, "")
	return book, nil
}

// UpdateBook replaces a book's details
func (s *BookService) UpdateBook(ctx context.Context, id string, input *BookInput) (*entity.Book, error) {
	if err := validateBook(input); err != nil {
		return nil, err
	}

	book, err := s.books.Update(ctx, id, input.toEntity())
	if err != nil {
		s.notify(err)
		return nil, err
	}
	s.changed(id, "edit", nil, "")
	return book, nil
}

// UpdateStock sets a book's stock level. An empty status is derived from
// the quantity.
func (s *BookService) UpdateStock(ctx context.Context, id string, quantity int, status string) (*entity.Book, error) {
	if quantity < 0 {
		return nil, apperror.NewFieldError("stock_quantity", "Please enter a valid non-negative quantity")
	}
	status = strings.TrimSpace(status)
	if status == "" {
		status = string(enum.StockStatusFor(quantity))
	}

	book, err := s.books.UpdateStock(ctx, id, quantity, status)
	if err != nil {
		s.notify(err)
		return nil, err
	}
	s.changed(id, "stock", &quantity, status)
	return book, nil
}

// ArchiveBook hides a book from the storefront
func (s *BookService) ArchiveBook(ctx context.Context, id string) (*entity.Book, error) {
	book, err := s.books.Archive(ctx, id)
	if err != nil {
		s.notify(err)
		return nil, err
	}
	s.changed(id, "archive", nil, "")
	return book, nil
}

// DeleteBook removes a book
func (s *BookService) DeleteBook(ctx context.Context, id string) error {
	if err := s.books.Delete(ctx, id); err != nil {
		s.notify(err)
		return err
	}
	s.changed(id, "delete", nil, "")
	return nil
}

// Stats returns the catalog summary
func (s *BookService) Stats(ctx context.Context) (*entity.BookStats, error) {
	return s.books.Stats(ctx)
}

// Categories returns the catalog's categories
func (s *BookService) Categories(ctx context.Context) ([]string, error) {
	return s.books.Categories(ctx)
}

func (s *BookService) changed(id, kind string, quantity *int, status string) {
	publish(s.bus, TopicBooksUpdated, BookEvent{
		BookID:        id,
		Type:          kind,
		StockQuantity: quantity,
		Status:        status,
		At:            time.Now().UTC(),
	})
}

func (s *BookService) notify(err error) {
	if s.notifier == nil {
		log.Printf("[books] %v", err)
		return
	}
	s.notifier.Failure("books", err)
}

func validateBook(input *BookInput) error {
	var fields []apperror.FieldError
	check := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			fields = append(fields, apperror.FieldError{Field: field, Message: field + " is required"})
		}
	}
	check("title", input.Title)
	check("author", input.Author)
	check("category", input.Category)
	check("format", input.Format)
	if !input.Price.IsPositive() {
		fields = append(fields, apperror.FieldError{Field: "price", Message: "price must be greater than zero"})
	}
	if input.StockQuantity < 0 {
		fields = append(fields, apperror.FieldError{Field: "stock_quantity", Message: "stock quantity cannot be negative"})
	}
	if len(fields) == 0 {
		return nil
	}
	err := apperror.NewValidationError(fields)
	err.Message = "Please fill in all required fields correctly."
	return err
}

func (in *BookInput) toEntity() *entity.Book {
	return &entity.Book{
		Title:         strings.TrimSpace(in.Title),
		Author:        strings.TrimSpace(in.Author),
		Category:      strings.TrimSpace(in.Category),
		Format:        in.Format,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		Status:        string(enum.StockStatusFor(in.StockQuantity)),
		ISBN:          in.ISBN,
		Language:      in.Language,
		PublishedYear: in.PublishedYear,
		Pages:         in.Pages,
		Publisher:     in.Publisher,
		ImageURL:      in.ImageURL,
		Description:   in.Description,
	}
}
