package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"salespulse/internal/config"
	apierrors "salespulse/internal/errors"
	"salespulse/internal/exporter"
	"salespulse/internal/middleware"
	"salespulse/internal/services"
	"salespulse/pkg/contracts/domain"
)

// ReportHandler handles dashboard report requests.
type ReportHandler struct {
	service  ReportServiceInterface
	logger   *slog.Logger
	validate *validator.Validate
	cfg      config.DashboardConfig
}

// NewReportHandler creates a report handler.
func NewReportHandler(service ReportServiceInterface, logger *slog.Logger, cfg config.DashboardConfig) *ReportHandler {
	return &ReportHandler{
		service:  service,
		logger:   logger.With(slog.String("component", "report_handler")),
		validate: validator.New(),
		cfg:      cfg,
	}
}

// Routes returns the report routes.
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateReport)
	r.Get("/sample", h.SampleReport)
	r.Post("/export", h.ExportReport)

	return r
}

// reportParams carries the validated configuration inputs of one request.
type reportParams struct {
	Raw       []byte
	UseSample bool
	Window    int `validate:"min=2,max=12"`
}

// CreateReport handles POST /api/report: multipart form with an optional
// file, use_sample flag, and moving-average window.
func (h *ReportHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	params, apiErr := h.parseParams(r)
	if apiErr != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apiErr))
		return
	}
	h.respondWithReport(w, r, params)
}

// SampleReport handles GET /api/report/sample: the embedded dataset with an
// optional ?window=N override.
func (h *ReportHandler) SampleReport(w http.ResponseWriter, r *http.Request) {
	window := h.cfg.DefaultWindow
	if v := r.URL.Query().Get("window"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			render.Render(w, r, apierrors.NewErrorResponse(
				apierrors.ErrValidation("window", "Window must be an integer")))
			return
		}
		window = parsed
	}

	params := &reportParams{UseSample: true, Window: window}
	if apiErr := h.validateParams(params); apiErr != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apiErr))
		return
	}
	h.respondWithReport(w, r, params)
}

// ExportReport handles POST /api/report/export?format=csv|xlsx and streams
// the derived table back as a download.
func (h *ReportHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	params, apiErr := h.parseParams(r)
	if apiErr != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apiErr))
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		render.Render(w, r, apierrors.NewErrorResponse(
			apierrors.ErrValidation("format", fmt.Sprintf("Unsupported export format: %s", format))))
		return
	}

	report, err := h.service.BuildReport(r.Context(), params.Raw, params.UseSample, params.Window)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "exporting derived table",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("format", format),
		slog.Int("rows", len(report.Table.Rows)))

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="monthly_sales_report.csv"`)
		if err := exporter.WriteDerivedCSV(w, report.Table); err != nil {
			h.logger.ErrorContext(r.Context(), "csv export failed", slog.String("error", err.Error()))
		}
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="monthly_sales_report.xlsx"`)
		if err := exporter.WriteDerivedXLSX(w, report.Table, report.Summary); err != nil {
			h.logger.ErrorContext(r.Context(), "xlsx export failed", slog.String("error", err.Error()))
		}
	}
}

// respondWithReport runs the pipeline and writes the JSON report response.
func (h *ReportHandler) respondWithReport(w http.ResponseWriter, r *http.Request, params *reportParams) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "building report",
		slog.String("request_id", reqID),
		slog.Bool("use_sample", params.UseSample),
		slog.Int("window", params.Window),
		slog.Int("upload_bytes", len(params.Raw)))

	report, err := h.service.BuildReport(r.Context(), params.Raw, params.UseSample, params.Window)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   toReportResponse(report),
	})
}

// renderServiceError maps service errors to API errors.
func (h *ReportHandler) renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "report build failed",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("error", err.Error()))

	var invalid *services.InvalidTableError
	if errors.As(err, &invalid) {
		render.Render(w, r, apierrors.NewErrorResponse(
			apierrors.InvalidTableError(invalid.MissingColumns)))
		return
	}
	render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrInternalServer))
}

// parseParams reads the multipart form shared by CreateReport and
// ExportReport: optional file, use_sample flag, and window.
func (h *ReportHandler) parseParams(r *http.Request) (*reportParams, *apierrors.APIError) {
	if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, apierrors.InvalidRequestWithError(err)
	}

	params := &reportParams{Window: h.cfg.DefaultWindow}

	file, _, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		raw, err := io.ReadAll(io.LimitReader(file, h.cfg.MaxUploadBytes))
		if err != nil {
			return nil, apierrors.InvalidRequestWithError(err)
		}
		params.Raw = raw
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// No upload; the sample dataset applies.
	default:
		return nil, apierrors.InvalidRequestWithError(err)
	}

	if v := r.FormValue("use_sample"); v != "" {
		useSample, err := strconv.ParseBool(v)
		if err != nil {
			return nil, apierrors.ErrValidation("use_sample", "Must be a boolean")
		}
		params.UseSample = useSample
	} else {
		params.UseSample = len(params.Raw) == 0 && h.cfg.UseSample
	}

	if v := r.FormValue("window"); v != "" {
		window, err := strconv.Atoi(v)
		if err != nil {
			return nil, apierrors.ErrValidation("window", "Window must be an integer")
		}
		params.Window = window
	}

	if apiErr := h.validateParams(params); apiErr != nil {
		return nil, apiErr
	}
	return params, nil
}

func (h *ReportHandler) validateParams(params *reportParams) *apierrors.APIError {
	if err := h.validate.Struct(params); err != nil {
		return apierrors.ErrValidation("window",
			fmt.Sprintf("Window must be between %d and %d months", 2, 12))
	}
	return nil
}

// reportRow is the JSON shape of one derived table row. Missing values are
// null so the page can render them as gaps instead of numbers.
type reportRow struct {
	Month     string   `json:"month"`
	Revenue   *float64 `json:"revenue"`
	PriorYear *float64 `json:"prior_year"`
	GrowthPct *float64 `json:"growth_pct"`
	MovingAvg *float64 `json:"moving_average"`
}

// reportSummary is the JSON shape of the summary scalars.
type reportSummary struct {
	TotalRevenue     float64  `json:"total_revenue"`
	MeanGrowthPct    *float64 `json:"mean_growth_pct"`
	CumulativeYoYPct *float64 `json:"cumulative_yoy_pct"`
	MaxRevenueMonth  string   `json:"max_revenue_month,omitempty"`
	MinRevenueMonth  string   `json:"min_revenue_month,omitempty"`
}

type reportResponse struct {
	Table       []reportRow   `json:"table"`
	Summary     reportSummary `json:"summary"`
	Window      int           `json:"window"`
	RowsDropped int           `json:"rows_dropped"`
}

func toReportResponse(report *services.Report) reportResponse {
	rows := make([]reportRow, len(report.Table.Rows))
	for i, row := range report.Table.Rows {
		rows[i] = reportRow{
			Month:     row.PeriodLabel(),
			Revenue:   nullable(row.Revenue),
			PriorYear: nullable(row.PriorYear),
			GrowthPct: nullable(row.GrowthPct),
			MovingAvg: nullable(row.MovingAvg),
		}
	}

	summary := reportSummary{
		TotalRevenue:     report.Summary.TotalRevenue,
		MeanGrowthPct:    nullable(report.Summary.MeanGrowthPct),
		CumulativeYoYPct: nullable(report.Summary.CumulativeYoYPct),
	}
	if !report.Summary.MaxRevenuePeriod.IsZero() {
		summary.MaxRevenueMonth = report.Summary.MaxRevenuePeriod.Format(domain.PeriodFormat)
	}
	if !report.Summary.MinRevenuePeriod.IsZero() {
		summary.MinRevenueMonth = report.Summary.MinRevenuePeriod.Format(domain.PeriodFormat)
	}

	return reportResponse{
		Table:       rows,
		Summary:     summary,
		Window:      report.Table.Window,
		RowsDropped: report.RowsDropped,
	}
}

// nullable converts the NaN missing-value marker to a JSON null.
func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
