// Package tasks holds the background jobs of the server, run by job.Runner.
//
// Welcome sends the welcome email after sign-up. It is enqueued from the
// sign-up transaction with EnqueueWelcome, so the email goes out only for
// committed accounts. PruneActivity deletes old activity log entries on a
// cron schedule.
//
//	runner, err := job.NewRunner(pool,
//	    job.WithTask(tasks.NewWelcome(m, set, cfg.App.BaseURL)),
//	    job.WithPeriodicTask(tasks.NewPruneActivity(store, "0 3 * * *", 90*24*time.Hour)),
//	    job.WithQueue(tasks.EmailQueue, 2),
//	)
package tasks

// EmailQueue is the queue email tasks are inserted into.
const EmailQueue = "email"
