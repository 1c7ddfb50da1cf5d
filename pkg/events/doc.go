// Package events carries committed session changes to other processes over
// Redis pub/sub. The orchestrator publishes after commit; a failed publish is
// logged by the caller and never undoes the operation.
package events
