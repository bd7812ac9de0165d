package jobs

import (
	"context"
	"log/slog"

	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/telemetry"

	"github.com/robfig/cron/v3"
)

type metricsQueryHandler interface {
	Handle(ctx context.Context, query queries.GetMetricsQuery) (queries.GetMetricsQueryResponse, error)
}

// MetricsReportJob periodically runs the metrics query, logs the snapshot and
// exports the per-status counts as gauges.
type MetricsReportJob struct {
	handler  metricsQueryHandler
	metrics  *telemetry.Metrics
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewMetricsReportJob(
	handler metricsQueryHandler,
	metrics *telemetry.Metrics,
	schedule string,
	logger *slog.Logger,
) *MetricsReportJob {
	return &MetricsReportJob{
		handler:  handler,
		metrics:  metrics,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "metrics_report_job"),
	}
}

// Start schedules the report using a six field cron expression.
func (j *MetricsReportJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		_ = j.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Metrics report job started", "schedule", j.schedule)
	return nil
}

// Run produces a single report.
func (j *MetricsReportJob) Run(ctx context.Context) error {
	resp, err := j.handler.Handle(ctx, queries.NewGetMetricsQuery(false))
	if err != nil {
		j.logger.ErrorContext(ctx, "Metrics report failed", "error", err)
		return err
	}

	for status, bucket := range map[order.Status]queries.StatusBucket{
		order.Pending:    resp.Pending,
		order.Processing: resp.Processing,
		order.Completed:  resp.Completed,
	} {
		j.metrics.OrdersByStatus.WithLabelValues(status.String()).Set(float64(bucket.Count))
	}

	j.logger.InfoContext(ctx, "Order metrics",
		"total_orders", resp.TotalOrders,
		"pending", resp.Pending.Count,
		"processing", resp.Processing.Count,
		"completed", resp.Completed.Count,
		"average_processing_time", resp.AverageProcessingTime,
		"average_processing_time_from_creation", resp.AverageProcessingTimeFromCreation,
	)
	return nil
}

func (j *MetricsReportJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Metrics report job stopped")
}
