// Package job runs background tasks on a PostgreSQL-backed River queue.
//
// Tasks are plain types with a Name and a typed Handle method; the payload
// type is inferred at registration:
//
//	type WelcomeEmail struct{ mailer *mailer.Mailer }
//
//	func (t *WelcomeEmail) Name() string { return "welcome_email" }
//	func (t *WelcomeEmail) Handle(ctx context.Context, p WelcomePayload) error { ... }
//
//	runner, err := job.NewRunner(pool,
//	    job.WithTask(&WelcomeEmail{mailer: m}),
//	    job.WithPeriodicTask(&PruneActivity{store: store}),
//	    job.WithObserver(metrics),
//	)
//
// EnqueueTx inserts a job in the caller's transaction so it is published
// only if the transaction commits. Migrate creates River's tables and must
// run before NewRunner's client is started.
package job
