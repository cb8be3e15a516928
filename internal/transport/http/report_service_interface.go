package http

import (
	"context"

	"salespulse/internal/services"
)

// ReportServiceInterface defines what the report handler needs from the
// pipeline service. Kept as an interface so handler tests can stub it.
type ReportServiceInterface interface {
	BuildReport(ctx context.Context, raw []byte, useSample bool, window int) (*services.Report, error)
}
