package service

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pahanabooks/console-api/internal/domain/entity"
	"github.com/pahanabooks/console-api/internal/domain/report"
	"github.com/pahanabooks/console-api/internal/infrastructure/backend"
	"github.com/pahanabooks/console-api/pkg/apperror"
	"github.com/pahanabooks/console-api/pkg/document"
	"github.com/pahanabooks/console-api/pkg/eventbus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reportNow = time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC)

func newReportService(bus *eventbus.Bus, customersErr error) *ReportService {
	bills := &mockBillRepo{listFn: func(ctx context.Context) ([]entity.Bill, error) {
		return []entity.Bill{
			{BillNumber: "B1", CustomerName: "Nimal", Total: decimal.NewFromInt(500), PaymentMethod: "CASH", BillDate: entity.NewTimestamp(reportNow.Add(-time.Hour))},
		}, nil
	}}
	orders := &mockOrderRepo{listFn: func(ctx context.Context) ([]entity.Order, error) {
		return []entity.Order{{BookID: "b1", BookTitle: "Madol Doova", Quantity: 2, TotalPrice: decimal.NewFromInt(1000)}}, nil
	}}
	books := &mockBookRepo{allFn: func(ctx context.Context) ([]entity.Book, error) {
		return []entity.Book{{ID: "b1", Title: "Madol Doova", Category: "Fiction", StockQuantity: 3}}, nil
	}}
	customers := &mockCustomerRepo{listFn: func(ctx context.Context) ([]entity.Customer, error) {
		if customersErr != nil {
			return nil, customersErr
		}
		return []entity.Customer{{ID: "c1"}}, nil
	}}

	svc := NewReportService(bills, orders, books, customers, NewCaches(), document.DefaultRenderers(),
		document.Brand{Name: "PAHANA BOOK SHOP", Currency: "Rs."}, bus, NewNotifier(bus, 0, 0),
		ReportOptions{TopN: 5, TrendDays: 30})
	svc.now = func() time.Time { return reportNow }
	return svc
}

func TestReportService_Generate(t *testing.T) {
	bus := eventbus.New(8)
	sub := bus.Subscribe(TopicReportsRefreshed)
	defer sub.Close()
	svc := newReportService(bus, nil)

	r := svc.Generate(context.Background())
	assert.False(t, r.Partial)
	require.NotNil(t, r.Revenue)
	assert.True(t, decimal.NewFromInt(500).Equal(r.Revenue.Total))
	assert.Equal(t, int64(100), r.Revenue.ChangePct)
	require.Len(t, r.TopBooks, 1)
	assert.Equal(t, 1, r.Stock.LowStock)

	latest, ok := svc.Latest()
	require.True(t, ok)
	assert.Same(t, r, latest)

	cached, loaded := svc.caches.Books.Get()
	assert.True(t, loaded)
	assert.Len(t, cached, 1)

	select {
	case ev := <-sub.C():
		assert.False(t, ev.Payload.(ReportEvent).Partial)
	case <-time.After(time.Second):
		t.Fatal("expected reports.refreshed event")
	}
}

func TestReportService_GeneratePartialFailure(t *testing.T) {
	bus := eventbus.New(8)
	notes := bus.Subscribe(TopicNotification)
	defer notes.Close()
	svc := newReportService(bus, errors.New("customers timed out"))

	r := svc.Generate(context.Background())
	assert.True(t, r.Partial)
	assert.Nil(t, r.TotalCustomers)
	require.NotNil(t, r.Revenue)
	assert.NotEmpty(t, r.TopBooks)
	assert.False(t, r.Sources[report.SourceCustomers].OK)

	select {
	case ev := <-notes.C():
		note := ev.Payload.(Notification)
		assert.Equal(t, LevelWarning, note.Level)
		assert.Contains(t, note.Message, "customers")
	case <-time.After(time.Second):
		t.Fatal("expected a warning notification")
	}
}

func TestReportService_Export(t *testing.T) {
	svc := newReportService(nil, errors.New("down"))

	out, err := svc.Export(context.Background(), document.FormatText)
	require.NoError(t, err)
	text := string(out.Data)
	assert.Contains(t, text, "SALES REPORT")
	assert.Contains(t, text, "Madol Doova")
	assert.Contains(t, text, "Unavailable")
	assert.True(t, strings.HasSuffix(out.Filename, ".txt"))

	pdf, err := svc.Export(context.Background(), document.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdf.ContentType)
	assert.True(t, strings.HasPrefix(string(pdf.Data), "%PDF"))

	_, err = svc.Export(context.Background(), document.FormatHTML)
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestReportService_RunUsesLastToken(t *testing.T) {
	svc := newReportService(nil, nil)
	svc.opts.RefreshMin = 10 * time.Millisecond
	svc.opts.RefreshMax = 20 * time.Millisecond

	var withToken atomic.Int32
	svc.bills = &mockBillRepo{listFn: func(ctx context.Context) ([]entity.Bill, error) {
		if backend.TokenFrom(ctx) == "admin-token" {
			withToken.Add(1)
		}
		return nil, nil
	}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, withToken.Load(), "no refresh before any operator request")

	svc.Generate(backend.WithToken(context.Background(), "admin-token"))
	assert.Eventually(t, func() bool { return withToken.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop")
	}
}

func TestReportService_NextIntervalWithinBounds(t *testing.T) {
	svc := newReportService(nil, nil)
	svc.opts.RefreshMin = 45 * time.Second
	svc.opts.RefreshMax = 90 * time.Second
	for i := 0; i < 100; i++ {
		d := svc.nextInterval()
		assert.GreaterOrEqual(t, d, 45*time.Second)
		assert.LessOrEqual(t, d, 90*time.Second)
	}
}
