// Package report re-aggregates the backend collections into the figures
// shown on the admin dashboard. Every figure is recomputed from scratch;
// a failed source only blanks the figures that depend on it.
package report

import (
	"sort"
	"strings"
	"time"

	"github.com/pahanabooks/console-api/internal/domain/entity"
	"github.com/pahanabooks/console-api/internal/domain/enum"
	"github.com/pahanabooks/console-api/pkg/result"
	"github.com/shopspring/decimal"
)

// Source names
const (
	SourceBills     = "bills"
	SourceOrders    = "orders"
	SourceBooks     = "books"
	SourceCustomers = "customers"
)

const (
	defaultTopN      = 5
	defaultTrendDays = 30
	recentBillsLimit = 6
	week             = 7 * 24 * time.Hour
)

// Inputs are the four bulk fetches a report is built from
type Inputs struct {
	Bills     result.Result[[]entity.Bill]
	Orders    result.Result[[]entity.Order]
	Books     result.Result[[]entity.Book]
	Customers result.Result[[]entity.Customer]
}

// Options tune the aggregation
type Options struct {
	TopN      int
	TrendDays int
	Now       time.Time
}

// SourceStatus reports how one fetch went
type SourceStatus struct {
	OK    bool   `json:"ok"`
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}

// Revenue summarises bill totals
type Revenue struct {
	Total     decimal.Decimal `json:"total"`
	LastWeek  decimal.Decimal `json:"last_week"`
	PriorWeek decimal.Decimal `json:"prior_week"`
	ChangePct int64           `json:"change_pct"`
}

// TopBook is a title ranked by quantity ordered
type TopBook struct {
	Title    string          `json:"title"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// StockSummary buckets books by stock level
type StockSummary struct {
	InStock    int `json:"in_stock"`
	LowStock   int `json:"low_stock"`
	OutOfStock int `json:"out_of_stock"`
	Total      int `json:"total"`
}

// DailyRevenue is one point of the revenue trend
type DailyRevenue struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

// CategoryPerformance is order volume for one category
type CategoryPerformance struct {
	Category string          `json:"category"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// PaymentRevenue is bill revenue for one payment method
type PaymentRevenue struct {
	Method  string          `json:"method"`
	Revenue decimal.Decimal `json:"revenue"`
	Bills   int             `json:"bills"`
}

// RecentBill is a bill in the recent activity list
type RecentBill struct {
	BillNumber    string           `json:"bill_number"`
	CustomerName  string           `json:"customer_name"`
	Total         decimal.Decimal  `json:"total"`
	BillDate      entity.Timestamp `json:"bill_date"`
	PaymentMethod string           `json:"payment_method"`
	Status        string           `json:"status"`
}

// Report is the aggregated dashboard. Figures whose source failed are nil.
type Report struct {
	GeneratedAt      time.Time               `json:"generated_at"`
	Sources          map[string]SourceStatus `json:"sources"`
	Partial          bool                    `json:"partial"`
	Revenue          *Revenue                `json:"revenue"`
	BillingCustomers *int                    `json:"billing_customers"`
	TotalCustomers   *int                    `json:"total_customers"`
	TotalOrders      *int                    `json:"total_orders"`
	TotalBooks       *int                    `json:"total_books"`
	TopBooks         []TopBook               `json:"top_books"`
	Stock            *StockSummary           `json:"stock"`
	Trend            []DailyRevenue          `json:"trend"`
	Categories       []CategoryPerformance   `json:"categories"`
	PaymentMethods   []PaymentRevenue        `json:"payment_methods"`
	RecentBills      []RecentBill            `json:"recent_bills"`
}

// Aggregate builds a report from whatever sources succeeded
func Aggregate(in Inputs, opts Options) *Report {
	if opts.TopN <= 0 {
		opts.TopN = defaultTopN
	}
	if opts.TrendDays <= 0 {
		opts.TrendDays = defaultTrendDays
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	r := &Report{
		GeneratedAt: opts.Now.UTC(),
		Sources: map[string]SourceStatus{
			SourceBills:     status(in.Bills.Err, len(in.Bills.Data)),
			SourceOrders:    status(in.Orders.Err, len(in.Orders.Data)),
			SourceBooks:     status(in.Books.Err, len(in.Books.Data)),
			SourceCustomers: status(in.Customers.Err, len(in.Customers.Data)),
		},
	}
	for _, s := range r.Sources {
		if !s.OK {
			r.Partial = true
		}
	}

	if in.Bills.OK() {
		bills := in.Bills.Data
		r.Revenue = RevenueSummary(bills, opts.Now)
		r.Trend = Trend(bills, opts.Now, opts.TrendDays)
		r.PaymentMethods = ByPaymentMethod(bills)
		r.RecentBills = Recent(bills, recentBillsLimit)
		n := distinctCustomers(bills)
		r.BillingCustomers = &n
	}
	if in.Orders.OK() {
		n := len(in.Orders.Data)
		r.TotalOrders = &n
		r.TopBooks = TopBooks(in.Orders.Data, opts.TopN)
	}
	if in.Books.OK() {
		n := len(in.Books.Data)
		r.TotalBooks = &n
		r.Stock = Stock(in.Books.Data)
	}
	if in.Orders.OK() && in.Books.OK() {
		r.Categories = Categories(in.Orders.Data, in.Books.Data)
	}
	if in.Customers.OK() {
		n := len(in.Customers.Data)
		r.TotalCustomers = &n
	}
	return r
}

func status(err error, count int) SourceStatus {
	if err != nil {
		return SourceStatus{Error: err.Error()}
	}
	return SourceStatus{OK: true, Count: count}
}

// PercentChange compares current against previous, rounded half up to a
// whole percent. A zero baseline reports 100 when there is any current
// value and 0 otherwise.
func PercentChange(current, previous decimal.Decimal) int64 {
	if previous.IsZero() {
		if current.IsPositive() {
			return 100
		}
		return 0
	}
	return current.Sub(previous).
		Div(previous).
		Mul(decimal.NewFromInt(100)).
		Add(decimal.NewFromFloat(0.5)).
		Floor().
		IntPart()
}

// RevenueSummary totals all bills and compares the last seven days with
// the seven before. Undated bills count towards the total only.
func RevenueSummary(bills []entity.Bill, now time.Time) *Revenue {
	lastStart := now.Add(-week)
	priorStart := now.Add(-2 * week)

	rev := &Revenue{Total: decimal.Zero, LastWeek: decimal.Zero, PriorWeek: decimal.Zero}
	for i := range bills {
		amount := bills[i].Amount()
		rev.Total = rev.Total.Add(amount)

		if bills[i].BillDate.IsZero() {
			continue
		}
		at := bills[i].BillDate.Time
		switch {
		case !at.Before(lastStart) && !at.After(now):
			rev.LastWeek = rev.LastWeek.Add(amount)
		case !at.Before(priorStart) && at.Before(lastStart):
			rev.PriorWeek = rev.PriorWeek.Add(amount)
		}
	}
	rev.ChangePct = PercentChange(rev.LastWeek, rev.PriorWeek)
	return rev
}

// TopBooks ranks titles by summed order quantity. Ties keep the order in
// which titles first appear.
func TopBooks(orders []entity.Order, n int) []TopBook {
	index := make(map[string]int)
	books := make([]TopBook, 0)
	for i := range orders {
		title := orders[i].TitleOrUnknown()
		pos, ok := index[title]
		if !ok {
			pos = len(books)
			index[title] = pos
			books = append(books, TopBook{Title: title, Revenue: decimal.Zero})
		}
		books[pos].Quantity += orders[i].Quantity
		books[pos].Revenue = books[pos].Revenue.Add(orders[i].TotalPrice)
	}

	sort.SliceStable(books, func(i, j int) bool {
		return books[i].Quantity > books[j].Quantity
	})
	if len(books) > n {
		books = books[:n]
	}
	return books
}

// Stock buckets books: above the low-stock threshold is in stock, one up
// to the threshold is low, zero or less is out.
func Stock(books []entity.Book) *StockSummary {
	s := &StockSummary{Total: len(books)}
	for i := range books {
		switch books[i].StockStatus() {
		case enum.StockIn:
			s.InStock++
		case enum.StockLow:
			s.LowStock++
		default:
			s.OutOfStock++
		}
	}
	return s
}

// Trend returns daily revenue for the last days (today included), keyed by
// UTC date and zero-filled.
func Trend(bills []entity.Bill, now time.Time, days int) []DailyRevenue {
	today := now.UTC().Truncate(24 * time.Hour)
	series := make([]DailyRevenue, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		key := today.AddDate(0, 0, i-days+1).Format("2006-01-02")
		series[i] = DailyRevenue{Date: key, Revenue: decimal.Zero}
		index[key] = i
	}

	for i := range bills {
		if bills[i].BillDate.IsZero() {
			continue
		}
		if pos, ok := index[bills[i].BillDate.DateKey()]; ok {
			series[pos].Revenue = series[pos].Revenue.Add(bills[i].Amount())
		}
	}
	return series
}

// Categories totals order quantity and value per book category
func Categories(orders []entity.Order, books []entity.Book) []CategoryPerformance {
	categoryOf := make(map[string]string, len(books))
	for i := range books {
		category := strings.TrimSpace(books[i].Category)
		if category == "" {
			category = "Uncategorized"
		}
		if _, seen := categoryOf[books[i].ID]; !seen {
			categoryOf[books[i].ID] = category
		}
	}

	index := make(map[string]int)
	out := make([]CategoryPerformance, 0)
	for i := range orders {
		category, ok := categoryOf[orders[i].BookID]
		if !ok {
			category = "Uncategorized"
		}
		pos, ok := index[category]
		if !ok {
			pos = len(out)
			index[category] = pos
			out = append(out, CategoryPerformance{Category: category, Revenue: decimal.Zero})
		}
		out[pos].Quantity += orders[i].Quantity
		out[pos].Revenue = out[pos].Revenue.Add(orders[i].TotalPrice)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Quantity > out[j].Quantity
	})
	return out
}

// ByPaymentMethod totals bill revenue per payment method
func ByPaymentMethod(bills []entity.Bill) []PaymentRevenue {
	index := make(map[string]int)
	out := make([]PaymentRevenue, 0)
	for i := range bills {
		method := strings.ToUpper(strings.TrimSpace(bills[i].PaymentMethod.String()))
		if method == "" {
			method = "UNKNOWN"
		}
		pos, ok := index[method]
		if !ok {
			pos = len(out)
			index[method] = pos
			out = append(out, PaymentRevenue{Method: method, Revenue: decimal.Zero})
		}
		out[pos].Revenue = out[pos].Revenue.Add(bills[i].Amount())
		out[pos].Bills++
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Revenue.GreaterThan(out[j].Revenue)
	})
	return out
}

// Recent returns the newest bills first; undated bills sort last
func Recent(bills []entity.Bill, n int) []RecentBill {
	sorted := make([]entity.Bill, len(bills))
	copy(sorted, bills)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BillDate.After(sorted[j].BillDate.Time)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	out := make([]RecentBill, 0, len(sorted))
	for i := range sorted {
		out = append(out, RecentBill{
			BillNumber:    sorted[i].BillNumber,
			CustomerName:  sorted[i].CustomerName,
			Total:         sorted[i].Amount(),
			BillDate:      sorted[i].BillDate,
			PaymentMethod: sorted[i].PaymentMethod.String(),
			Status:        sorted[i].Status.String(),
		})
	}
	return out
}

func distinctCustomers(bills []entity.Bill) int {
	seen := make(map[string]struct{})
	for i := range bills {
		name := strings.TrimSpace(bills[i].CustomerName)
		if name != "" {
			seen[name] = struct{}{}
		}
	}
	return len(seen)
}
