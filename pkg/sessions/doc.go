// Package sessions orchestrates parking sessions: entry, exit, administrative
// completion and cancellation, plus the read-side reports built on top of
// them (availability, search, revenue and an occupancy audit).
//
// Every mutating call runs in one store transaction. The space allocator and
// the rate engine are re-bound to the transaction handle so a failure at any
// step leaves spaces, vehicles and sessions untouched.
//
//	orch := sessions.New(store, rates.New(store), spaces.New(store),
//		sessions.WithLogger(log),
//		sessions.WithRecorder(metrics.NewRecorder(reg)),
//	)
//	sess, err := orch.Enter(ctx, "ab-123-cd", parking.VehicleCar)
package sessions
