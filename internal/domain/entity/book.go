package entity

import (
	"github.com/pahanabooks/console-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Book is a catalog entry owned by the bookshop backend
type Book struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Author        string          `json:"author,omitempty"`
	Description   string          `json:"description,omitempty"`
	ImageURL      string          `json:"imageUrl,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Category      string          `json:"category,omitempty"`
	ISBN          string          `json:"isbn,omitempty"`
	Language      string          `json:"language,omitempty"`
	PublishedYear int             `json:"publishedYear,omitempty"`
	Format        string          `json:"format,omitempty"`
	StockQuantity int             `json:"stockQuantity"`
	Status        string          `json:"status,omitempty"`
	Rating        float64         `json:"rating,omitempty"`
	RatingCount   int             `json:"ratingCount,omitempty"`
	Publisher     string          `json:"publisher,omitempty"`
	Pages         int             `json:"pages,omitempty"`
	Archived      bool            `json:"archived,omitempty"`
	CreatedAt     Timestamp       `json:"createdAt"`
	UpdatedAt     Timestamp       `json:"updatedAt"`
}

// StockStatus buckets the book by its stock quantity
func (b *Book) StockStatus() enum.StockStatus {
	return enum.StockStatusFor(b.StockQuantity)
}

// BookStats is the summary reported by GET /api/books/stats
type BookStats struct {
	TotalBooks      int64 `json:"totalBooks"`
	InStockBooks    int64 `json:"inStockBooks"`
	OutOfStockBooks int64 `json:"outOfStockBooks"`
	LowStockBooks   int64 `json:"lowStockBooks"`
	ArchivedBooks   int64 `json:"archivedBooks"`
}
