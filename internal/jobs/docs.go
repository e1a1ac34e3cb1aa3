// Package jobs provides scheduled background tasks for the post-purchase service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, seconds field enabled) and
// export Prometheus counters through the registerer they are given.
//
// # Available Jobs
//
// 1. RefundReconciliationJob - settles refunds left in Processing past a
// deadline by asking the payment gateway for their outcome
//
// # Usage
//
//	jobManager, err := jobs.NewJobManager(reconcileHandler, jobs.ReconciliationConfig{
//		Schedule: "0 */5 * * * *",
//		Deadline: 15 * time.Minute,
//	}, prometheus.DefaultRegisterer, logger)
//	if err != nil {
//		log.Fatal("Failed to create jobs:", err)
//	}
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed pass is logged and counted; the next tick tries again. Refunds
// skipped because of a concurrent change are retried by later passes.
package jobs
