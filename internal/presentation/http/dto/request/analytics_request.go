package request

// AnalyticsRequest carries the optional analytics filters
type AnalyticsRequest struct {
	StartDate  string `form:"startDate"`
	EndDate    string `form:"endDate"`
	ReportType string `form:"reportType"`
	Format     string `form:"format"`
}
