package services

import (
	"context"
	"crypto/sha256"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"salespulse/internal/dataprocessing"
	"salespulse/internal/infrastructure"
	"salespulse/pkg/contracts/domain"
)

// Report bundles the two aggregator outputs for one input, plus the count of
// rows the loader dropped for unparseable periods.
type Report struct {
	Table       domain.DerivedTable
	Summary     domain.SummaryStats
	RowsDropped int
}

// cacheKey identifies one (raw bytes, sample flag) input pair.
type cacheKey struct {
	digest [sha256.Size]byte
	sample bool
}

// ReportService runs the load → augment → summarize pipeline. Loaded tables
// are memoized by input identity: the same bytes with the same sample flag
// never parse twice. The cache is a pure-function cache, not pipeline state;
// the mutex exists only because HTTP handlers call in concurrently.
type ReportService struct {
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics

	mu    sync.Mutex
	cache map[cacheKey]domain.SalesTable
}

// NewReportService creates a report service. metrics may be nil, in which
// case pipeline metrics are simply not recorded.
func NewReportService(logger *slog.Logger, tracer trace.Tracer, metrics *infrastructure.PipelineMetrics) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("salespulse")
	}
	return &ReportService{
		logger:  logger.With(slog.String("component", "report_service")),
		tracer:  tracer,
		metrics: metrics,
		cache:   make(map[cacheKey]domain.SalesTable),
	}
}

// BuildReport executes the full pipeline for one input change. The window is
// assumed to be inside [2,12]; the transport layer validates it. Returns
// ErrInvalidTable (wrapped) when the loaded table cannot enter aggregation.
func (s *ReportService) BuildReport(ctx context.Context, raw []byte, useSample bool, window int) (*Report, error) {
	ctx, span := s.tracer.Start(ctx, "report.build", trace.WithAttributes(
		attribute.Bool("use_sample", useSample),
		attribute.Int("window", window),
	))
	defer span.End()

	start := time.Now()
	table := s.loadTable(ctx, raw, useSample)

	if !table.Valid() {
		s.logger.WarnContext(ctx, "rejecting invalid table",
			slog.Int("rows", table.Len()),
			slog.Any("missing_columns", table.MissingColumns))
		if s.metrics != nil {
			s.metrics.ReportErrors.Add(ctx, 1)
		}
		return nil, &InvalidTableError{MissingColumns: table.MissingColumns}
	}

	report := &Report{
		Table:       dataprocessing.Augment(table, window),
		Summary:     dataprocessing.Summarize(table),
		RowsDropped: table.DroppedRows,
	}

	elapsed := time.Since(start)
	s.logger.InfoContext(ctx, "report built",
		slog.Int("rows", table.Len()),
		slog.Int("rows_dropped", table.DroppedRows),
		slog.Int("window", window),
		slog.Duration("elapsed", elapsed))
	if s.metrics != nil {
		attrs := metric.WithAttributes(attribute.Bool("use_sample", useSample))
		s.metrics.ReportsTotal.Add(ctx, 1, attrs)
		s.metrics.ReportDuration.Record(ctx, elapsed.Seconds(), attrs)
	}

	return report, nil
}

// loadTable loads through the memoization cache keyed by (digest, flag).
func (s *ReportService) loadTable(ctx context.Context, raw []byte, useSample bool) domain.SalesTable {
	key := cacheKey{digest: sha256.Sum256(raw), sample: useSample}

	s.mu.Lock()
	table, hit := s.cache[key]
	s.mu.Unlock()

	if hit {
		if s.metrics != nil {
			s.metrics.CacheHits.Add(ctx, 1)
		}
		return table
	}

	table = dataprocessing.Load(raw, useSample)

	s.mu.Lock()
	s.cache[key] = table
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.CacheMisses.Add(ctx, 1)
		s.metrics.RowsLoaded.Add(ctx, int64(table.Len()))
		s.metrics.RowsDropped.Add(ctx, int64(table.DroppedRows))
	}
	return table
}
