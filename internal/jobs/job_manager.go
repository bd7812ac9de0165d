package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"orderflow/internal/pkg/telemetry"
)

// Config selects which jobs run. An empty schedule disables the job.
type Config struct {
	MetricsReportSchedule   string
	PendingRecoverySchedule string
	RecoverPendingOnStart   bool
}

type job interface {
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	cfg             Config
	metricsReport   *MetricsReportJob
	pendingRecovery *PendingRecoveryJob
	started         []job
	logger          *slog.Logger
}

func NewJobManager(
	cfg Config,
	metricsHandler metricsQueryHandler,
	recoverHandler recoverPendingHandler,
	metrics *telemetry.Metrics,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		cfg:             cfg,
		metricsReport:   NewMetricsReportJob(metricsHandler, metrics, cfg.MetricsReportSchedule, logger),
		pendingRecovery: NewPendingRecoveryJob(recoverHandler, cfg.PendingRecoverySchedule, logger),
		logger:          logger.With("component", "job_manager"),
	}
}

// StartAll runs the startup recovery pass if enabled, then starts every scheduled job.
// If a job fails to start, the ones already running are stopped.
func (jm *JobManager) StartAll(ctx context.Context) error {
	if jm.cfg.RecoverPendingOnStart {
		if _, err := jm.pendingRecovery.Run(ctx); err != nil {
			return fmt.Errorf("failed to recover pending orders: %w", err)
		}
	}

	scheduled := []struct {
		name     string
		schedule string
		job      job
	}{
		{"metrics report", jm.cfg.MetricsReportSchedule, jm.metricsReport},
		{"pending recovery", jm.cfg.PendingRecoverySchedule, jm.pendingRecovery},
	}

	for _, s := range scheduled {
		if s.schedule == "" {
			jm.logger.InfoContext(ctx, "Job disabled", "job", s.name)
			continue
		}

		if err := s.job.Start(); err != nil {
			jm.StopAll()
			return fmt.Errorf("failed to start %s job: %w", s.name, err)
		}
		jm.started = append(jm.started, s.job)
	}

	return nil
}

// StopAll stops the running jobs and waits for in-flight runs to return.
func (jm *JobManager) StopAll() {
	for i := len(jm.started) - 1; i >= 0; i-- {
		jm.started[i].Stop()
	}
	jm.started = nil
}
