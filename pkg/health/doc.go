// Package health serves liveness and readiness checks.
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//		"postgres": db.Healthcheck(pool),
//		"redis":    redis.Healthcheck(client),
//	}, health.WithTimeout(2*time.Second)))
//
// Responses are plain text ("OK" or "Service Unavailable") unless the client
// sends Accept: application/json or ?format=json, in which case the full
// [Report] is returned.
package health
