package request

// BookRequest represents a book create or update. Required fields are
// checked together by the service.
type BookRequest struct {
	Title         string  `json:"title" binding:"max=255"`
	Author        string  `json:"author" binding:"max=255"`
	Category      string  `json:"category" binding:"max=100"`
	Format        string  `json:"format" binding:"max=50"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
	ISBN          string  `json:"isbn" binding:"omitempty,max=20"`
	Language      string  `json:"language" binding:"omitempty,max=50"`
	PublishedYear int     `json:"published_year" binding:"omitempty,gte=0"`
	Pages         int     `json:"pages" binding:"omitempty,gte=0"`
	Publisher     string  `json:"publisher" binding:"omitempty,max=255"`
	ImageURL      string  `json:"image_url" binding:"omitempty,max=2048"`
	Description   string  `json:"description"`
}

// StockRequest sets a book's stock level
type StockRequest struct {
	StockQuantity *int   `json:"stock_quantity" binding:"required"`
	Status        string `json:"status" binding:"omitempty,max=50"`
}

// BookFilterRequest mirrors the catalog query parameters
type BookFilterRequest struct {
	Search    string   `form:"search"`
	Category  string   `form:"category"`
	Status    string   `form:"status"`
	MinPrice  *float64 `form:"min_price"`
	MaxPrice  *float64 `form:"max_price"`
	SortBy    string   `form:"sort_by"`
	SortOrder string   `form:"sort_order"`
	Page      int      `form:"page"`
	Size      int      `form:"size"`
}
