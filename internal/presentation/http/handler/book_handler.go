package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pahanabooks/console-api/internal/application/service"
	"github.com/pahanabooks/console-api/internal/domain/repository"
	"github.com/pahanabooks/console-api/internal/presentation/http/dto/request"
	"github.com/pahanabooks/console-api/internal/presentation/http/dto/response"
	"github.com/shopspring/decimal"
)

// BookHandler handles catalog HTTP requests
type BookHandler struct {
	bookService *service.BookService
}

// NewBookHandler creates a new book handler
func NewBookHandler(bookService *service.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// List returns one page of the catalog
func (h *BookHandler) List(c *gin.Context) {
	var filter request.BookFilterRequest
	if !bindQuery(c, &filter) {
		return
	}

	page, err := h.bookService.List(c.Request.Context(), repository.BookFilter{
		Search:    filter.Search,
		Category:  filter.Category,
		Status:    filter.Status,
		MinPrice:  filter.MinPrice,
		MaxPrice:  filter.MaxPrice,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
		Page:      filter.Page,
		Size:      filter.Size,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Books retrieved successfully", page)
}

// Get returns one book
func (h *BookHandler) Get(c *gin.Context) {
	book, err := h.bookService.GetBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Book retrieved successfully", book)
}

// Create adds a book
func (h *BookHandler) Create(c *gin.Context) {
	var req request.BookRequest
	if !bindJSON(c, &req) {
		return
	}

	book, err := h.bookService.CreateBook(c.Request.Context(), bookInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Book created successfully", book)
}

// Update replaces a book's details
func (h *BookHandler) Update(c *gin.Context) {
	var req request.BookRequest
	if !bindJSON(c, &req) {
		return
	}

	book, err := h.bookService.UpdateBook(c.Request.Context(), c.Param("id"), bookInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Book updated successfully", book)
}

// UpdateStock sets a book's stock level
func (h *BookHandler) UpdateStock(c *gin.Context) {
	var req request.StockRequest
	if !bindJSON(c, &req) {
		return
	}

	book, err := h.bookService.UpdateStock(c.Request.Context(), c.Param("id"), *req.StockQuantity, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Stock updated successfully", book)
}

// Archive hides a book from the storefront
func (h *BookHandler) Archive(c *gin.Context) {
	book, err := h.bookService.ArchiveBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Book archived successfully", book)
}

// Delete removes a book
func (h *BookHandler) Delete(c *gin.Context) {
	if err := h.bookService.DeleteBook(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Book deleted successfully", nil)
}

// Stats returns the catalog summary
func (h *BookHandler) Stats(c *gin.Context) {
	stats, err := h.bookService.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Book statistics retrieved successfully", stats)
}

// Categories returns the catalog's categories
func (h *BookHandler) Categories(c *gin.Context) {
	categories, err := h.bookService.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Categories retrieved successfully", categories)
}

func bookInput(req *request.BookRequest) *service.BookInput {
	return &service.BookInput{
		Title:         req.Title,
		Author:        req.Author,
		Category:      req.Category,
		Format:        req.Format,
		Price:         decimal.NewFromFloat(req.Price),
		StockQuantity: req.StockQuantity,
		ISBN:          req.ISBN,
		Language:      req.Language,
		PublishedYear: req.PublishedYear,
		Pages:         req.Pages,
		Publisher:     req.Publisher,
		ImageURL:      req.ImageURL,
		Description:   req.Description,
	}
}
