package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type ReconciliationConfig struct {
	Schedule string
	Deadline time.Duration
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	refundReconciliationJob *RefundReconciliationJob
}

func NewJobManager(
	reconciler RefundReconciler,
	cfg ReconciliationConfig,
	registerer prometheus.Registerer,
	logger *slog.Logger,
) (*JobManager, error) {
	reconciliation, err := NewRefundReconciliationJob(reconciler, cfg.Schedule, cfg.Deadline, registerer, logger)
	if err != nil {
		return nil, err
	}
	return &JobManager{refundReconciliationJob: reconciliation}, nil
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.refundReconciliationJob.Start(); err != nil {
		return fmt.Errorf("failed to start refund reconciliation job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs, waiting for running passes to finish.
func (jm *JobManager) StopAll() {
	jm.refundReconciliationJob.Stop()
}
