package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pahanabooks/console-api/internal/domain/billing"
	"github.com/pahanabooks/console-api/internal/domain/report"
	"github.com/pahanabooks/console-api/internal/domain/repository"
	"github.com/pahanabooks/console-api/internal/infrastructure/backend"
	"github.com/pahanabooks/console-api/pkg/apperror"
	"github.com/pahanabooks/console-api/pkg/document"
	"github.com/pahanabooks/console-api/pkg/eventbus"
	"github.com/pahanabooks/console-api/pkg/store"
	"github.com/sourcegraph/conc"
)

// ReportOptions tune report generation and refreshing
type ReportOptions struct {
	TopN       int
	TrendDays  int
	RefreshMin time.Duration
	RefreshMax time.Duration
}

// ReportEvent is published after a report has been rebuilt
type ReportEvent struct {
	GeneratedAt time.Time `json:"generated_at"`
	Partial     bool      `json:"partial"`
	Failed      []string  `json:"failed,omitempty"`
}

// ReportService aggregates the dashboard report from the backend collections
type ReportService struct {
	bills     repository.BillRepository
	orders    repository.OrderRepository
	books     repository.BookRepository
	customers repository.CustomerRepository
	caches    *Caches
	renderers document.Renderers
	brand     document.Brand
	bus       *eventbus.Bus
	notifier  *Notifier
	opts      ReportOptions

	latest *store.Store[*report.Report]
	now    func() time.Time

	mu    sync.Mutex
	token string
}

// NewReportService creates a new report service
func NewReportService(
	bills repository.BillRepository,
	orders repository.OrderRepository,
	books repository.BookRepository,
	customers repository.CustomerRepository,
	caches *Caches,
	renderers document.Renderers,
	brand document.Brand,
	bus *eventbus.Bus,
	notifier *Notifier,
	opts ReportOptions,
) *ReportService {
	if opts.RefreshMin <= 0 {
		opts.RefreshMin = 45 * time.Second
	}
	if opts.RefreshMax < opts.RefreshMin {
		opts.RefreshMax = opts.RefreshMin
	}
	if caches == nil {
		caches = NewCaches()
	}
	return &ReportService{
		bills:     bills,
		orders:    orders,
		books:     books,
		customers: customers,
		caches:    caches,
		renderers: renderers,
		brand:     brand,
		bus:       bus,
		notifier:  notifier,
		opts:      opts,
		latest:    store.New[*report.Report](),
		now:       time.Now,
	}
}

// Generate fetches all four collections in parallel and rebuilds the report.
// A failed collection only blanks the figures that depend on it.
func (s *ReportService) Generate(ctx context.Context) *report.Report {
	r, _ := s.generate(ctx)
	return r
}

func (s *ReportService) generate(ctx context.Context) (*report.Report, report.Inputs) {
	if token := backend.TokenFrom(ctx); token != "" {
		s.mu.Lock()
		s.token = token
		s.mu.Unlock()
	}

	ticket := s.latest.Begin()

	var in report.Inputs
	var wg conc.WaitGroup
	wg.Go(func() { in.Bills = load(ctx, s.caches.Bills, s.bills.List) })
	wg.Go(func() { in.Orders = load(ctx, s.caches.Orders, s.orders.List) })
	wg.Go(func() { in.Books = load(ctx, s.caches.Books, s.books.All) })
	wg.Go(func() { in.Customers = load(ctx, s.caches.Customers, s.customers.List) })
	wg.Wait()

	r := report.Aggregate(in, report.Options{
		TopN:      s.opts.TopN,
		TrendDays: s.opts.TrendDays,
		Now:       s.now(),
	})
	s.latest.Commit(ticket, r)

	failed := failedSources(r)
	if len(failed) > 0 {
		log.Printf("[reports] partial report, failed sources: %s", strings.Join(failed, ", "))
		if s.notifier != nil {
			s.notifier.Notify(LevelWarning, "Some report data could not be loaded: "+strings.Join(failed, ", "), false)
		}
	}
	publish(s.bus, TopicReportsRefreshed, ReportEvent{GeneratedAt: r.GeneratedAt, Partial: r.Partial, Failed: failed})
	return r, in
}

// Latest returns the last built report, if any
func (s *ReportService) Latest() (*report.Report, bool) {
	r, ok := s.latest.Get()
	return r, ok && r != nil
}

// Export renders a freshly generated report as pdf, xlsx or txt
func (s *ReportService) Export(ctx context.Context, format document.Format) (*Rendered, error) {
	switch format {
	case document.FormatPDF, document.FormatXLSX, document.FormatText:
	default:
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Reports cannot be exported as %s", format))
	}
	return renderDocument(s.renderers, s.ReportDocument(s.Generate(ctx)), format)
}

// ReportDocument lays out a report for export
func (s *ReportService) ReportDocument(r *report.Report) *document.Document {
	money := func(v string) string { return s.brand.Money(v) }

	doc := &document.Document{
		Brand:       s.brand,
		Title:       "SALES REPORT",
		Subtitle:    "Generated " + r.GeneratedAt.Format("2006-01-02 15:04 MST"),
		Footer:      "Figures marked Unavailable could not be loaded from the backend.",
		Filename:    "pahana-report-" + r.GeneratedAt.Format("2006-01-02"),
		GeneratedAt: r.GeneratedAt,
	}
	if r.Partial {
		doc.Badge = "Partial Report"
	}

	summary := document.Section{Heading: "Summary"}
	if r.Revenue != nil {
		summary.Fields = append(summary.Fields,
			document.Field{Label: "Total Revenue", Value: money(billing.Money(r.Revenue.Total)), Strong: true},
			document.Field{Label: "Last 7 Days", Value: money(billing.Money(r.Revenue.LastWeek))},
			document.Field{Label: "Previous 7 Days", Value: money(billing.Money(r.Revenue.PriorWeek))},
			document.Field{Label: "Change", Value: signedPercent(r.Revenue.ChangePct)},
		)
	} else {
		summary.Fields = append(summary.Fields, document.Field{Label: "Total Revenue", Value: unavailable})
	}
	summary.Fields = append(summary.Fields,
		document.Field{Label: "Total Orders", Value: count(r.TotalOrders)},
		document.Field{Label: "Total Books", Value: count(r.TotalBooks)},
		document.Field{Label: "Registered Customers", Value: count(r.TotalCustomers)},
		document.Field{Label: "Billed Customers", Value: count(r.BillingCustomers)},
	)
	doc.Sections = append(doc.Sections, summary)

	if r.Stock != nil {
		doc.Sections = append(doc.Sections, document.Section{
			Heading: "Stock Status",
			Fields: []document.Field{
				{Label: "In Stock", Value: strconv.Itoa(r.Stock.InStock)},
				{Label: "Low Stock", Value: strconv.Itoa(r.Stock.LowStock)},
				{Label: "Out of Stock", Value: strconv.Itoa(r.Stock.OutOfStock)},
			},
		})
	}

	top := &document.Table{
		Columns: []document.Column{
			{Title: "#", Width: 10, Role: document.ReceiptSkip},
			{Title: "Title"},
			{Title: "Qty", Align: document.AlignRight, Width: 20, Role: document.ReceiptQuantity},
			{Title: "Revenue", Align: document.AlignRight, Width: 35, Role: document.ReceiptAmount},
		},
		Empty: emptyOr(r.TopBooks == nil, "No orders yet"),
	}
	for i, b := range r.TopBooks {
		top.Rows = append(top.Rows, []string{strconv.Itoa(i + 1), b.Title, strconv.Itoa(b.Quantity), money(billing.Money(b.Revenue))})
	}
	doc.Sections = append(doc.Sections, document.Section{Heading: "Top Books", Table: top})

	cats := &document.Table{
		Columns: []document.Column{
			{Title: "Category"},
			{Title: "Qty", Align: document.AlignRight, Width: 20, Role: document.ReceiptQuantity},
			{Title: "Revenue", Align: document.AlignRight, Width: 35, Role: document.ReceiptAmount},
		},
		Empty: emptyOr(r.Categories == nil, "No orders yet"),
	}
	for _, c := range r.Categories {
		cats.Rows = append(cats.Rows, []string{c.Category, strconv.Itoa(c.Quantity), money(billing.Money(c.Revenue))})
	}
	doc.Sections = append(doc.Sections, document.Section{Heading: "Revenue by Category", Table: cats})

	methods := &document.Table{
		Columns: []document.Column{
			{Title: "Payment Method"},
			{Title: "Bills", Align: document.AlignRight, Width: 20, Role: document.ReceiptQuantity},
			{Title: "Revenue", Align: document.AlignRight, Width: 35, Role: document.ReceiptAmount},
		},
		Empty: emptyOr(r.PaymentMethods == nil, "No bills yet"),
	}
	for _, m := range r.PaymentMethods {
		methods.Rows = append(methods.Rows, []string{m.Method, strconv.Itoa(m.Bills), money(billing.Money(m.Revenue))})
	}
	doc.Sections = append(doc.Sections, document.Section{Heading: "Payment Methods", Table: methods})

	trend := &document.Table{
		Columns: []document.Column{
			{Title: "Date", Width: 40},
			{Title: "Revenue", Align: document.AlignRight, Role: document.ReceiptAmount},
		},
		Empty: emptyOr(r.Trend == nil, "No bills yet"),
	}
	for _, d := range r.Trend {
		trend.Rows = append(trend.Rows, []string{d.Date, money(billing.Money(d.Revenue))})
	}
	doc.Sections = append(doc.Sections, document.Section{Heading: "Daily Revenue", Table: trend})

	recent := &document.Table{
		Columns: []document.Column{
			{Title: "Bill #", Width: 35},
			{Title: "Customer"},
			{Title: "Date", Width: 28, Role: document.ReceiptSkip},
			{Title: "Total", Align: document.AlignRight, Width: 35, Role: document.ReceiptAmount},
		},
		Empty: emptyOr(r.RecentBills == nil, "No bills yet"),
	}
	for _, b := range r.RecentBills {
		date := "N/A"
		if !b.BillDate.IsZero() {
			date = b.BillDate.DateKey()
		}
		recent.Rows = append(recent.Rows, []string{b.BillNumber, orNA(b.CustomerName), date, money(billing.Money(b.Total))})
	}
	doc.Sections = append(doc.Sections, document.Section{Heading: "Recent Bills", Table: recent})

	sources := &document.Table{
		Columns: []document.Column{
			{Title: "Source"},
			{Title: "Status", Width: 30},
			{Title: "Records", Align: document.AlignRight, Width: 25, Role: document.ReceiptQuantity},
		},
	}
	for _, name := range sortedSources(r) {
		st := r.Sources[name]
		status := "OK"
		if !st.OK {
			status = "Unavailable"
		}
		sources.Rows = append(sources.Rows, []string{name, status, strconv.Itoa(st.Count)})
	}
	doc.Sections = append(doc.Sections, document.Section{Heading: "Data Sources", Table: sources})

	return doc
}

// Run rebuilds the report at a random interval between the configured
// bounds until ctx is cancelled. Refreshes reuse the backend token of the
// last operator who requested a report and are skipped until there is one.
func (s *ReportService) Run(ctx context.Context) {
	log.Printf("[reports] refresher started (every %s-%s)", s.opts.RefreshMin, s.opts.RefreshMax)
	for {
		timer := time.NewTimer(s.nextInterval())
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Printf("[reports] refresher stopped")
			return
		case <-timer.C:
		}

		s.mu.Lock()
		token := s.token
		s.mu.Unlock()
		if token == "" {
			continue
		}

		if _, in := s.generate(backend.WithToken(ctx, token)); unauthorized(in.Bills.Err) {
			log.Printf("[reports] backend token rejected, pausing refresh until the next request")
			s.mu.Lock()
			if s.token == token {
				s.token = ""
			}
			s.mu.Unlock()
		}
	}
}

func (s *ReportService) nextInterval() time.Duration {
	spread := s.opts.RefreshMax - s.opts.RefreshMin
	if spread <= 0 {
		return s.opts.RefreshMin
	}
	return s.opts.RefreshMin + time.Duration(rand.Int63n(int64(spread)+1))
}

func unauthorized(err error) bool {
	return err != nil && apperror.GetAppError(err).Code == http.StatusUnauthorized
}

const unavailable = "Unavailable"

func count(n *int) string {
	if n == nil {
		return unavailable
	}
	return strconv.Itoa(*n)
}

func emptyOr(missing bool, empty string) string {
	if missing {
		return unavailable
	}
	return empty
}

func signedPercent(pct int64) string {
	if pct > 0 {
		return fmt.Sprintf("+%d%%", pct)
	}
	return fmt.Sprintf("%d%%", pct)
}

func failedSources(r *report.Report) []string {
	var failed []string
	for _, name := range sortedSources(r) {
		if !r.Sources[name].OK {
			failed = append(failed, name)
		}
	}
	return failed
}

func sortedSources(r *report.Report) []string {
	names := make([]string, 0, len(r.Sources))
	for name := range r.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
