// Package seed loads a facility description from YAML and writes its spaces
// and rate card to a store.
//
//	fac, err := seed.Load(ctx, "facility.yaml")
//	if err != nil {
//		return err
//	}
//	res, err := seed.Apply(ctx, store, fac, seed.WithLogger(log))
//
// Applying the same file twice changes nothing.
package seed
