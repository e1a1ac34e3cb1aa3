package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"postpurchase/internal/core/application/usecases/commands"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
)

// RefundReconciler resolves refunds stuck in Processing.
type RefundReconciler interface {
	Handle(ctx context.Context, cmd commands.ReconcileRefundsCommand) (commands.ReconcileRefundsResult, error)
}

// RefundReconciliationJob periodically settles refunds whose gateway outcome
// was never recorded. A run that is still going when the next tick fires is
// skipped.
type RefundReconciliationJob struct {
	handler  RefundReconciler
	schedule string
	deadline time.Duration
	cron     *cron.Cron
	logger   *slog.Logger

	runs    *prometheus.CounterVec
	refunds *prometheus.CounterVec
}

// NewRefundReconciliationJob creates the job. schedule is a six-field cron
// expression (with seconds); deadline is how long a refund may stay in
// Processing before it is reconciled.
func NewRefundReconciliationJob(
	handler RefundReconciler,
	schedule string,
	deadline time.Duration,
	registerer prometheus.Registerer,
	logger *slog.Logger,
) (*RefundReconciliationJob, error) {
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "postpurchase",
		Subsystem: "refund_reconciliation",
		Name:      "runs_total",
		Help:      "Reconciliation passes by outcome.",
	}, []string{"outcome"})
	refunds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "postpurchase",
		Subsystem: "refund_reconciliation",
		Name:      "refunds_total",
		Help:      "Refunds handled by reconciliation by result.",
	}, []string{"result"})

	for _, c := range []prometheus.Collector{runs, refunds} {
		if err := registerer.Register(c); err != nil {
			return nil, fmt.Errorf("register refund reconciliation metrics: %w", err)
		}
	}

	return &RefundReconciliationJob{
		handler:  handler,
		schedule: schedule,
		deadline: deadline,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "refund_reconciliation_job"),
		runs:     runs,
		refunds:  refunds,
	}, nil
}

func (j *RefundReconciliationJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() {
		_ = j.Run(context.Background())
	}); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Refund reconciliation job started",
		"schedule", j.schedule, "deadline", j.deadline)
	return nil
}

func (j *RefundReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Refund reconciliation job stopped")
}

// Run executes one reconciliation pass.
func (j *RefundReconciliationJob) Run(ctx context.Context) error {
	cmd, err := commands.NewReconcileRefundsCommand(j.deadline, commands.DefaultReconcileBatchSize)
	if err != nil {
		j.runs.WithLabelValues("error").Inc()
		return err
	}

	result, err := j.handler.Handle(ctx, cmd)
	j.refunds.WithLabelValues("completed").Add(float64(result.Completed))
	j.refunds.WithLabelValues("failed").Add(float64(result.Failed))
	j.refunds.WithLabelValues("skipped").Add(float64(result.Skipped))

	if err != nil {
		j.runs.WithLabelValues("error").Inc()
		j.logger.ErrorContext(ctx, "Refund reconciliation failed",
			"completed", result.Completed, "failed", result.Failed, "skipped", result.Skipped, "error", err)
		return err
	}

	j.runs.WithLabelValues("ok").Inc()
	if result.Completed+result.Failed+result.Skipped > 0 {
		j.logger.InfoContext(ctx, "Refunds reconciled",
			"completed", result.Completed, "failed", result.Failed, "skipped", result.Skipped)
	}
	return nil
}
