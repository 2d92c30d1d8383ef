package repository

import (
	"context"
	"encoding/json"
)

// AnalyticsQuery carries the optional analytics filters
type AnalyticsQuery struct {
	StartDate  string
	EndDate    string
	ReportType string
	Format     string
}

// AnalyticsRepository forwards to the backend analytics endpoints. The
// payloads are passed through untouched.
type AnalyticsRepository interface {
	Dashboard(ctx context.Context, q AnalyticsQuery) (json.RawMessage, error)
	Reports(ctx context.Context, q AnalyticsQuery) (json.RawMessage, error)
	Export(ctx context.Context, q AnalyticsQuery) (json.RawMessage, error)
}
