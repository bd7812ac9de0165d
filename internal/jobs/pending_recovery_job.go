package jobs

import (
	"context"
	"log/slog"

	"orderflow/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

type recoverPendingHandler interface {
	Handle(ctx context.Context, cmd commands.RecoverPendingOrdersCommand) (int, error)
}

// PendingRecoveryJob re-enqueues orders left Pending, for example after a restart
// dropped the in-memory queue. Orders already queued or in flight are skipped by
// the queue itself.
type PendingRecoveryJob struct {
	handler  recoverPendingHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewPendingRecoveryJob(handler recoverPendingHandler, schedule string, logger *slog.Logger) *PendingRecoveryJob {
	return &PendingRecoveryJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "pending_recovery_job"),
	}
}

// Start schedules the recovery using a six field cron expression.
func (j *PendingRecoveryJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		_, _ = j.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Pending recovery job started", "schedule", j.schedule)
	return nil
}

// Run performs one recovery pass and returns how many orders were re-enqueued.
func (j *PendingRecoveryJob) Run(ctx context.Context) (int, error) {
	n, err := j.handler.Handle(ctx, commands.NewRecoverPendingOrdersCommand())
	if err != nil {
		j.logger.ErrorContext(ctx, "Pending recovery failed", "recovered", n, "error", err)
		return n, err
	}

	if n > 0 {
		j.logger.InfoContext(ctx, "Recovered pending orders", "recovered", n)
	}
	return n, nil
}

func (j *PendingRecoveryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Pending recovery job stopped")
}
