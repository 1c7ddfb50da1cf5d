// Package sqlite bootstraps an embedded SQLite database through the pure Go
// modernc.org/sqlite driver, mirroring the pg package: Open, Migrate,
// Healthcheck and constraint error helpers.
package sqlite
