// Package metrics exposes parking operations to Prometheus.
//
// Recorder plugs into the session orchestrator and counts every operation by
// its error code, observes latency and sums collected fees. The serve command
// also refreshes the space gauges from periodic availability reports.
package metrics
