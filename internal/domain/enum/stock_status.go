package enum

// StockStatus buckets a book by how many copies are on hand
type StockStatus string

const (
	StockIn  StockStatus = "In Stock"
	StockLow StockStatus = "Low Stock"
	StockOut StockStatus = "Out of Stock"
)

// LowStockThreshold is the highest quantity still reported as low stock
const LowStockThreshold = 10

// StockStatusFor returns the bucket for a stock quantity
func StockStatusFor(quantity int) StockStatus {
	switch {
	case quantity <= 0:
		return StockOut
	case quantity <= LowStockThreshold:
		return StockLow
	default:
		return StockIn
	}
}

func (s StockStatus) String() string {
	return string(s)
}
