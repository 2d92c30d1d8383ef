package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/pahanabooks/console-api/internal/domain/repository"
	"github.com/pahanabooks/console-api/pkg/apperror"
)

// Analytics payload sources
const (
	SourceBackend = "backend"
	SourceCache   = "cache"
)

// AnalyticsOutput wraps a backend analytics payload with where it came from
type AnalyticsOutput struct {
	Source      string          `json:"source"`
	GeneratedAt *time.Time      `json:"generated_at,omitempty"`
	Data        json.RawMessage `json:"data"`
}

// AnalyticsService forwards analytics queries to the backend
type AnalyticsService struct {
	analytics repository.AnalyticsRepository
	reports   *ReportService
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(analytics repository.AnalyticsRepository, reports *ReportService) *AnalyticsService {
	return &AnalyticsService{analytics: analytics, reports: reports}
}

// Dashboard returns the backend dashboard summary
func (s *AnalyticsService) Dashboard(ctx context.Context, q repository.AnalyticsQuery) (*AnalyticsOutput, error) {
	if err := validateRange(q); err != nil {
		return nil, err
	}
	data, err := s.analytics.Dashboard(ctx, q)
	if err != nil {
		return nil, err
	}
	return &AnalyticsOutput{Source: SourceBackend, Data: data}, nil
}

// Reports returns the detailed backend reports. When the backend cannot be
// reached the last locally aggregated report is returned instead, marked as
// coming from the cache.
func (s *AnalyticsService) Reports(ctx context.Context, q repository.AnalyticsQuery) (*AnalyticsOutput, error) {
	if err := validateRange(q); err != nil {
		return nil, err
	}
	data, err := s.analytics.Reports(ctx, q)
	if err == nil {
		return &AnalyticsOutput{Source: SourceBackend, Data: data}, nil
	}
	if apperror.GetAppError(err).Code < 500 || s.reports == nil {
		return nil, err
	}

	cached, ok := s.reports.Latest()
	if !ok {
		return nil, err
	}
	raw, marshalErr := json.Marshal(cached)
	if marshalErr != nil {
		return nil, err
	}
	log.Printf("[analytics] backend reports unavailable, serving cached report: %v", err)
	at := cached.GeneratedAt
	return &AnalyticsOutput{Source: SourceCache, GeneratedAt: &at, Data: raw}, nil
}

// Export returns the backend's export payload
func (s *AnalyticsService) Export(ctx context.Context, q repository.AnalyticsQuery) (*AnalyticsOutput, error) {
	if err := validateRange(q); err != nil {
		return nil, err
	}
	if q.Format == "" {
		q.Format = "json"
	}
	data, err := s.analytics.Export(ctx, q)
	if err != nil {
		return nil, err
	}
	return &AnalyticsOutput{Source: SourceBackend, Data: data}, nil
}

func validateRange(q repository.AnalyticsQuery) error {
	var start, end time.Time
	var err error
	if q.StartDate != "" {
		if start, err = time.Parse("2006-01-02", strings.TrimSpace(q.StartDate)); err != nil {
			return apperror.NewFieldError("start_date", "start_date must be YYYY-MM-DD")
		}
	}
	if q.EndDate != "" {
		if end, err = time.Parse("2006-01-02", strings.TrimSpace(q.EndDate)); err != nil {
			return apperror.NewFieldError("end_date", "end_date must be YYYY-MM-DD")
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return apperror.NewFieldError("end_date", "end_date must not be before start_date")
	}
	return nil
}
