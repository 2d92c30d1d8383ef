package repository

import (
	"context"
	"net/url"

	"github.com/pahanabooks/console-api/internal/domain/entity"
	"github.com/pahanabooks/console-api/internal/domain/enum"
	domainRepo "github.com/pahanabooks/console-api/internal/domain/repository"
	"github.com/pahanabooks/console-api/internal/infrastructure/backend"
	"github.com/pahanabooks/console-api/pkg/apperror"
)

type billRepository struct {
	api *backend.Client
}

// NewBillRepository creates a bill repository backed by the REST API
func NewBillRepository(api *backend.Client) domainRepo.BillRepository {
	return &billRepository{api: api}
}

type billResponse struct {
	Bill *entity.Bill `json:"bill"`
}

func (r *billRepository) Generate(ctx context.Context, req *domainRepo.GenerateBillRequest) (*entity.Bill, error) {
	var resp billResponse
	if err := r.api.Post(ctx, "/api/billing/generate", req, &resp); err != nil {
		return nil, err
	}
	if resp.Bill == nil {
		return nil, apperror.NewBackendError(502, "Backend did not return the generated bill")
	}
	return resp.Bill, nil
}

func (r *billRepository) List(ctx context.Context) ([]entity.Bill, error) {
	bills, err := r.list(ctx, "/api/admin/bills", nil)
	if err == nil {
		return bills, nil
	}
	if apperror.GetAppError(err).Code >= 500 {
		return nil, err
	}
	return r.list(ctx, "/api/billing/all", nil)
}

func (r *billRepository) GetByNumber(ctx context.Context, billNumber string) (*entity.Bill, error) {
	var resp billResponse
	err := r.api.Get(ctx, "/api/billing/bill/"+backend.PathEscape(billNumber), nil, &resp)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return resp.Bill, nil
}

func (r *billRepository) ListByAccount(ctx context.Context, accountNumber string) ([]entity.Bill, error) {
	return r.list(ctx, "/api/billing/history/"+backend.PathEscape(accountNumber), nil)
}

func (r *billRepository) Search(ctx context.Context, query string) ([]entity.Bill, error) {
	return r.list(ctx, "/api/billing/search", url.Values{"searchTerm": {query}})
}

func (r *billRepository) ListByStatus(ctx context.Context, status enum.BillStatus) ([]entity.Bill, error) {
	return r.list(ctx, "/api/billing/status/"+backend.PathEscape(status.String()), nil)
}

func (r *billRepository) UpdateStatus(ctx context.Context, billNumber string, status enum.BillStatus) (*entity.Bill, error) {
	var resp billResponse
	body := map[string]string{"status": status.String()}
	if err := r.api.Put(ctx, "/api/billing/status/"+backend.PathEscape(billNumber), body, &resp); err != nil {
		return nil, err
	}
	return resp.Bill, nil
}

func (r *billRepository) Delete(ctx context.Context, billNumber string) error {
	return r.api.Delete(ctx, "/api/billing/bill/"+backend.PathEscape(billNumber), nil)
}

func (r *billRepository) list(ctx context.Context, path string, query url.Values) ([]entity.Bill, error) {
	raw, err := r.api.DoRaw(ctx, "GET", path, query, nil)
	if err != nil {
		return nil, err
	}
	return backend.DecodeList[entity.Bill](raw)
}
