package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pahanabooks/console-api/internal/domain/billing"
	"github.com/pahanabooks/console-api/internal/domain/entity"
	"github.com/pahanabooks/console-api/internal/domain/enum"
	"github.com/pahanabooks/console-api/internal/domain/repository"
	"github.com/pahanabooks/console-api/pkg/apperror"
	"github.com/pahanabooks/console-api/pkg/eventbus"
	"github.com/pahanabooks/console-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type billingFixture struct {
	svc       *BillingService
	bills     *mockBillRepo
	books     *mockBookRepo
	customers *mockCustomerRepo
	bus       *eventbus.Bus
	principal *Principal
}

func newBillingFixture() *billingFixture {
	f := &billingFixture{
		bills: &mockBillRepo{},
		books: &mockBookRepo{
			getByIDFn: func(ctx context.Context, id string) (*entity.Book, error) {
				switch id {
				case "b1":
					return &entity.Book{ID: "b1", Title: "Madol Doova", Price: decimal.NewFromInt(1500)}, nil
				case "b2":
					return &entity.Book{ID: "b2", Title: "Gamperaliya", Price: decimal.NewFromInt(800)}, nil
				}
				return nil, nil
			},
		},
		customers: &mockCustomerRepo{
			getByAcctFn: func(ctx context.Context, acct string) (*entity.Customer, error) {
				if acct == "ACC001" {
					return &entity.Customer{ID: "c1", AccountNumber: "ACC001", Name: "Nimal Perera"}, nil
				}
				return nil, nil
			},
		},
		bus:       eventbus.New(8),
		principal: &Principal{SessionID: uuid.New(), Username: "admin", Role: entity.RoleAdmin},
	}
	notifier := NewNotifier(f.bus, 0, 0)
	f.svc = NewBillingService(f.bills, f.customers, f.books, billing.NewDrafts(), f.bus, notifier)
	return f
}

func TestBillingService_AddItemMergesDuplicates(t *testing.T) {
	f := newBillingFixture()
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, f.principal, "b1", 1)
	require.NoError(t, err)
	out, err := f.svc.AddItem(ctx, f.principal, "b1", 2)
	require.NoError(t, err)

	assert.True(t, out.Result.Merged)
	require.Len(t, out.Draft.Items, 1)
	assert.Equal(t, 3, out.Draft.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(4500).Equal(out.Draft.Totals.Subtotal))
}

func TestBillingService_AddItemValidatesBeforeLookup(t *testing.T) {
	f := newBillingFixture()
	called := false
	f.books.getByIDFn = func(ctx context.Context, id string) (*entity.Book, error) {
		called = true
		return nil, nil
	}

	_, err := f.svc.AddItem(context.Background(), f.principal, "b1", 0)
	require.Error(t, err)
	assert.Equal(t, billing.MsgQuantityInvalid, err.Error())

	_, err = f.svc.AddItem(context.Background(), f.principal, "  ", 1)
	require.Error(t, err)
	assert.Equal(t, billing.MsgBookRequired, err.Error())

	assert.False(t, called)
	assert.Empty(t, f.svc.Draft(f.principal).Items)
}

func TestBillingService_AddItemUnknownBook(t *testing.T) {
	f := newBillingFixture()

	_, err := f.svc.AddItem(context.Background(), f.principal, "missing", 1)
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestBillingService_RemoveUnknownItemIsNoop(t *testing.T) {
	f := newBillingFixture()
	_, err := f.svc.AddItem(context.Background(), f.principal, "b1", 1)
	require.NoError(t, err)

	snap := f.svc.RemoveItem(f.principal, uuid.New())
	assert.Len(t, snap.Items, 1)
}

func TestBillingService_SubmitRejectsIncompleteDraft(t *testing.T) {
	f := newBillingFixture()
	ctx := context.Background()
	f.bills.generateFn = func(ctx context.Context, req *repository.GenerateBillRequest) (*entity.Bill, error) {
		t.Fatal("backend must not be called")
		return nil, nil
	}
	payment := billing.Payment{Method: enum.PaymentCash}

	_, err := f.svc.Submit(ctx, f.principal, payment)
	require.Error(t, err)
	assert.Equal(t, billing.MsgCustomerRequired, err.Error())

	_, err = f.svc.ResolveCustomer(ctx, f.principal, "ACC001")
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, f.principal, payment)
	require.Error(t, err)
	assert.Equal(t, billing.MsgItemsRequired, err.Error())

	_, err = f.svc.AddItem(ctx, f.principal, "b1", 1)
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, f.principal, billing.Payment{})
	require.Error(t, err)
	assert.Equal(t, billing.MsgPaymentMethodRequired, err.Error())
}

func TestBillingService_SubmitSendsTotalsAndResetsDraft(t *testing.T) {
	f := newBillingFixture()
	ctx := context.Background()
	sub := f.bus.Subscribe(TopicBillGenerated)
	defer sub.Close()

	var sent *repository.GenerateBillRequest
	f.bills.generateFn = func(ctx context.Context, req *repository.GenerateBillRequest) (*entity.Bill, error) {
		sent = req
		return &entity.Bill{BillNumber: "BILL-1001", AccountNumber: req.CustomerAccountNumber, Total: decimal.NewFromFloat(req.Total)}, nil
	}

	_, err := f.svc.ResolveCustomer(ctx, f.principal, "ACC001")
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, f.principal, "b1", 2)
	require.NoError(t, err)
	_, err = f.svc.SetAdjustments(f.principal,
		billing.Discount{Kind: enum.DiscountPercentage, Value: decimal.NewFromInt(10)},
		billing.Tax{Kind: enum.TaxVAT},
	)
	require.NoError(t, err)

	bill, err := f.svc.Submit(ctx, f.principal, billing.Payment{Method: enum.PaymentCard, TransactionID: " TX-9 "})
	require.NoError(t, err)
	assert.Equal(t, "BILL-1001", bill.BillNumber)

	require.NotNil(t, sent)
	assert.Equal(t, "ACC001", sent.CustomerAccountNumber)
	assert.Equal(t, 3000.0, sent.Subtotal)
	assert.Equal(t, 300.0, sent.Discount)
	assert.Equal(t, 405.0, sent.Tax)
	assert.Equal(t, 3105.0, sent.Total)
	assert.Equal(t, "CARD", sent.PaymentMethod)
	assert.Equal(t, "TX-9", sent.TransactionID)
	require.Len(t, sent.Items, 1)
	assert.Equal(t, 2, sent.Items[0].Quantity)

	draft := f.svc.Draft(f.principal)
	assert.Empty(t, draft.Items)
	assert.Nil(t, draft.Customer)

	current, ok := f.svc.Current(f.principal)
	require.True(t, ok)
	assert.True(t, current.Generated)

	select {
	case ev := <-sub.C():
		assert.Equal(t, "BILL-1001", ev.Payload.(BillEvent).BillNumber)
	case <-time.After(time.Second):
		t.Fatal("expected bills.generated event")
	}
}

func TestBillingService_SubmitFailureKeepsDraft(t *testing.T) {
	f := newBillingFixture()
	ctx := context.Background()
	f.bills.generateFn = func(ctx context.Context, req *repository.GenerateBillRequest) (*entity.Bill, error) {
		return nil, apperror.ErrBackendUnavailable
	}

	_, err := f.svc.ResolveCustomer(ctx, f.principal, "ACC001")
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, f.principal, "b2", 1)
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, f.principal, billing.Payment{Method: enum.PaymentCash})
	require.ErrorIs(t, err, apperror.ErrBackendUnavailable)

	draft := f.svc.Draft(f.principal)
	assert.Len(t, draft.Items, 1)
	assert.NotNil(t, draft.Customer)
}

func TestBillingService_SaveBillLeavesStatusOnFailure(t *testing.T) {
	f := newBillingFixture()
	ctx := context.Background()
	f.bills.getByNumberFn = func(ctx context.Context, n string) (*entity.Bill, error) {
		return &entity.Bill{BillNumber: n, Status: enum.BillStatusPending}, nil
	}
	f.bills.updateStatusFn = func(ctx context.Context, n string, status enum.BillStatus) (*entity.Bill, error) {
		return nil, apperror.NewBackendError(500, "")
	}

	_, err := f.svc.GetBill(ctx, f.principal, "BILL-7")
	require.NoError(t, err)

	_, err = f.svc.SaveBill(ctx, f.principal, "BILL-7")
	require.Error(t, err)

	current, ok := f.svc.Current(f.principal)
	require.True(t, ok)
	assert.Equal(t, enum.BillStatusPending, current.Bill.Status)
}

func TestBillingService_SaveBillUpdatesCurrentAfterConfirm(t *testing.T) {
	f := newBillingFixture()
	ctx := context.Background()
	f.bills.getByNumberFn = func(ctx context.Context, n string) (*entity.Bill, error) {
		return &entity.Bill{BillNumber: n, Status: enum.BillStatusPending}, nil
	}
	f.bills.updateStatusFn = func(ctx context.Context, n string, status enum.BillStatus) (*entity.Bill, error) {
		assert.Equal(t, enum.BillStatusSaved, status)
		return nil, nil
	}

	_, err := f.svc.GetBill(ctx, f.principal, "BILL-7")
	require.NoError(t, err)

	bill, err := f.svc.SaveBill(ctx, f.principal, "BILL-7")
	require.NoError(t, err)
	assert.Equal(t, enum.BillStatusSaved, bill.Status)

	current, _ := f.svc.Current(f.principal)
	assert.Equal(t, enum.BillStatusSaved, current.Bill.Status)
}

func TestBillingService_GetBillReusesGeneratedBill(t *testing.T) {
	f := newBillingFixture()
	ctx := context.Background()
	f.bills.generateFn = func(ctx context.Context, req *repository.GenerateBillRequest) (*entity.Bill, error) {
		return &entity.Bill{BillNumber: "BILL-1"}, nil
	}
	f.bills.getByNumberFn = func(ctx context.Context, n string) (*entity.Bill, error) {
		t.Fatal("generated bill must not be refetched")
		return nil, nil
	}

	_, err := f.svc.ResolveCustomer(ctx, f.principal, "ACC001")
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, f.principal, "b1", 1)
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, f.principal, billing.Payment{Method: enum.PaymentCash})
	require.NoError(t, err)

	current, err := f.svc.GetBill(ctx, f.principal, "BILL-1")
	require.NoError(t, err)
	assert.True(t, current.Generated)
}

func TestBillingService_GetBillNotFound(t *testing.T) {
	f := newBillingFixture()
	f.bills.getByNumberFn = func(ctx context.Context, n string) (*entity.Bill, error) {
		return nil, nil
	}

	_, err := f.svc.GetBill(context.Background(), f.principal, "nope")
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
	_, ok := f.svc.Current(f.principal)
	assert.False(t, ok)
}

func TestBillingService_ListBillsPaginates(t *testing.T) {
	f := newBillingFixture()
	f.bills.listFn = func(ctx context.Context) ([]entity.Bill, error) {
		bills := make([]entity.Bill, 25)
		for i := range bills {
			bills[i].BillNumber = "B" + string(rune('A'+i))
		}
		return bills, nil
	}
	f.bills.listByStatusFn = func(ctx context.Context, status enum.BillStatus) ([]entity.Bill, error) {
		return []entity.Bill{{BillNumber: "S1", Status: status}}, nil
	}

	page, err := f.svc.ListBills(context.Background(), &BillFilter{Pagination: &pagination.PaginationParams{Page: 2, PerPage: 10}})
	require.NoError(t, err)
	assert.Len(t, page.Items, 10)
	assert.Equal(t, "BK", page.Items[0].BillNumber)
	assert.Equal(t, int64(25), page.Pagination.Total)

	_, err = f.svc.ListBills(context.Background(), &BillFilter{Status: "BOGUS"})
	require.Error(t, err)

	page, err = f.svc.ListBills(context.Background(), &BillFilter{Status: enum.BillStatusSaved})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

func TestBillingService_DeleteClearsCurrent(t *testing.T) {
	f := newBillingFixture()
	ctx := context.Background()
	f.bills.getByNumberFn = func(ctx context.Context, n string) (*entity.Bill, error) {
		return &entity.Bill{BillNumber: n}, nil
	}
	f.bills.deleteFn = func(ctx context.Context, n string) error { return nil }

	_, err := f.svc.GetBill(ctx, f.principal, "BILL-3")
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteBill(ctx, f.principal, "BILL-3"))

	_, ok := f.svc.Current(f.principal)
	assert.False(t, ok)
}

func TestBillingService_ResolveCustomerReturnsResolvedCustomer(t *testing.T) {
	f := newBillingFixture()
	ctx := context.Background()

	out, err := f.svc.ResolveCustomer(ctx, f.principal, " ACC001 ")
	require.NoError(t, err)
	require.NotNil(t, out.Customer)
	assert.Equal(t, "ACC001", out.Customer.AccountNumber)
	assert.Same(t, out.Customer, out.Draft.Customer)

	// A later reset leaves the returned customer intact
	f.svc.ResetDraft(f.principal)
	assert.Equal(t, "Nimal Perera", out.Customer.DisplayName())
	assert.Nil(t, f.svc.Draft(f.principal).Customer)
}
