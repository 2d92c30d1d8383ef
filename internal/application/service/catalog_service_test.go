package service

import (
	"context"
	"testing"
	"time"

	"github.com/pahanabooks/console-api/internal/domain/entity"
	"github.com/pahanabooks/console-api/internal/domain/repository"
	"github.com/pahanabooks/console-api/pkg/apperror"
	"github.com/pahanabooks/console-api/pkg/eventbus"
	"github.com/pahanabooks/console-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookService_UpdateStockDerivesStatus(t *testing.T) {
	bus := eventbus.New(4)
	sub := bus.Subscribe(TopicBooksUpdated)
	defer sub.Close()

	var gotStatus string
	books := &mockBookRepo{updateStockFn: func(ctx context.Context, id string, qty int, status string) (*entity.Book, error) {
		gotStatus = status
		return &entity.Book{ID: id, StockQuantity: qty, Status: status}, nil
	}}
	svc := NewBookService(books, nil, bus, nil)

	_, err := svc.UpdateStock(context.Background(), "b1", -1, "")
	require.Error(t, err)

	book, err := svc.UpdateStock(context.Background(), "b1", 4, "")
	require.NoError(t, err)
	assert.Equal(t, "Low Stock", gotStatus)
	assert.Equal(t, 4, book.StockQuantity)

	_, err = svc.UpdateStock(context.Background(), "b1", 0, "Discontinued")
	require.NoError(t, err)
	assert.Equal(t, "Discontinued", gotStatus)

	select {
	case ev := <-sub.C():
		payload := ev.Payload.(BookEvent)
		assert.Equal(t, "stock", payload.Type)
		require.NotNil(t, payload.StockQuantity)
		assert.Equal(t, 4, *payload.StockQuantity)
	case <-time.After(time.Second):
		t.Fatal("expected books.updated event")
	}
}

func TestBookService_CreateValidates(t *testing.T) {
	created := false
	books := &mockBookRepo{createFn: func(ctx context.Context, book *entity.Book) (*entity.Book, error) {
		created = true
		book.ID = "b9"
		return book, nil
	}}
	svc := NewBookService(books, nil, nil, nil)

	_, err := svc.CreateBook(context.Background(), &BookInput{Title: "Untitled"})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, "Please fill in all required fields correctly.", appErr.Message)
	assert.Len(t, appErr.Errors, 4)
	assert.False(t, created)

	book, err := svc.CreateBook(context.Background(), &BookInput{
		Title: "Gamperaliya", Author: "Martin Wickramasinghe", Category: "Fiction", Format: "Paperback",
		Price: decimal.NewFromInt(1200), StockQuantity: 25,
	})
	require.NoError(t, err)
	assert.Equal(t, "b9", book.ID)
	assert.Equal(t, "In Stock", book.Status)
}

func TestBookService_ListDefaults(t *testing.T) {
	books := &mockBookRepo{listFn: func(ctx context.Context, f repository.BookFilter) (*repository.BookPage, error) {
		assert.Equal(t, 12, f.Size)
		assert.Equal(t, 0, f.Page)
		return &repository.BookPage{PageSize: f.Size}, nil
	}}
	svc := NewBookService(books, nil, nil, nil)

	page, err := svc.List(context.Background(), repository.BookFilter{Page: -3})
	require.NoError(t, err)
	assert.Equal(t, 12, page.PageSize)
}

func TestBookService_GetBookNotFound(t *testing.T) {
	svc := NewBookService(&mockBookRepo{getByIDFn: func(ctx context.Context, id string) (*entity.Book, error) {
		return nil, nil
	}}, nil, nil, nil)

	_, err := svc.GetBook(context.Background(), "x")
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestCustomerService_ListSearches(t *testing.T) {
	customers := &mockCustomerRepo{listFn: func(ctx context.Context) ([]entity.Customer, error) {
		return []entity.Customer{
			{ID: "1", Name: "Nimal Perera", AccountNumber: "ACC001"},
			{ID: "2", Name: "Kamala Silva", AccountNumber: "ACC002", Email: "kamala@example.com"},
			{ID: "3", Name: "Sunil", AccountNumber: "ACC003"},
		}, nil
	}}
	caches := NewCaches()
	svc := NewCustomerService(customers, caches, nil, nil)

	page, err := svc.ListCustomers(context.Background(), &pagination.PaginationParams{Page: 1, PerPage: 10}, "acc00")
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)

	page, err = svc.ListCustomers(context.Background(), nil, "KAMALA")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "2", page.Items[0].ID)

	cached, ok := caches.Customers.Get()
	assert.True(t, ok)
	assert.Len(t, cached, 3)
}

func TestCustomerService_UpdateValidates(t *testing.T) {
	customers := &mockCustomerRepo{updateFn: func(ctx context.Context, id string, c *entity.Customer) (*entity.Customer, error) {
		c.ID = id
		return c, nil
	}}
	svc := NewCustomerService(customers, nil, nil, nil)

	_, err := svc.UpdateCustomer(context.Background(), "c1", &CustomerInput{Name: "Nimal"})
	require.Error(t, err)
	assert.Equal(t, "Please fill in all required fields.", err.Error())

	c, err := svc.UpdateCustomer(context.Background(), "c1", &CustomerInput{AccountNumber: "ACC001", Name: " Nimal ", Email: "n@example.com", Phone: "0771234567"})
	require.NoError(t, err)
	assert.Equal(t, "Nimal", c.Name)
}

func TestCustomerService_GetByAccountNumber(t *testing.T) {
	svc := NewCustomerService(&mockCustomerRepo{getByAcctFn: func(ctx context.Context, acct string) (*entity.Customer, error) {
		return nil, nil
	}}, nil, nil, nil)

	_, err := svc.GetByAccountNumber(context.Background(), "")
	require.Error(t, err)
	_, err = svc.GetByAccountNumber(context.Background(), "ACC404")
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}
