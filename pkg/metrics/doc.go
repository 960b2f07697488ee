// Package metrics exposes Prometheus collectors for HTTP traffic, gate
// decisions and authentication.
//
// A nil *Metrics is valid; every recording method is a no-op on it.
package metrics
