package repository

import (
	"context"
	"encoding/json"
	"net/url"

	domainRepo "github.com/pahanabooks/console-api/internal/domain/repository"
	"github.com/pahanabooks/console-api/internal/infrastructure/backend"
)

type analyticsRepository struct {
	api *backend.Client
}

// NewAnalyticsRepository creates an analytics repository backed by the REST API
func NewAnalyticsRepository(api *backend.Client) domainRepo.AnalyticsRepository {
	return &analyticsRepository{api: api}
}

func (r *analyticsRepository) Dashboard(ctx context.Context, q domainRepo.AnalyticsQuery) (json.RawMessage, error) {
	return r.get(ctx, "/api/analytics/dashboard", q)
}

func (r *analyticsRepository) Reports(ctx context.Context, q domainRepo.AnalyticsQuery) (json.RawMessage, error) {
	return r.get(ctx, "/api/analytics/reports", q)
}

func (r *analyticsRepository) Export(ctx context.Context, q domainRepo.AnalyticsQuery) (json.RawMessage, error) {
	return r.get(ctx, "/api/analytics/export", q)
}

func (r *analyticsRepository) get(ctx context.Context, path string, q domainRepo.AnalyticsQuery) (json.RawMessage, error) {
	values := url.Values{}
	setIf(values, "startDate", q.StartDate)
	setIf(values, "endDate", q.EndDate)
	setIf(values, "reportType", q.ReportType)
	setIf(values, "format", q.Format)

	raw, err := r.api.DoRaw(ctx, "GET", path, values, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}
