// Package health provides HTTP handlers for liveness and readiness probes.
//
// [LivenessHandler] always answers OK. [ReadinessHandler] runs a set of named
// [Checks] in parallel on every request and answers 503 if any of them fails:
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "mail": dispatcher.Check,
//	}, health.WithTimeout(3*time.Second), health.WithLogger(log)))
//
// Responses are plain text ("OK" / "Service Unavailable") unless the client
// sends Accept: application/json or ?format=json:
//
//	{
//	  "status": "unhealthy",
//	  "checks": {
//	    "mail": {"status": "unhealthy", "error": "smtp: EAUTH: ..."}
//	  }
//	}
//
// Checks that run past the timeout report an error wrapping [ErrCheckTimeout].
package health
