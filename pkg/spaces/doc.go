// Package spaces allocates and releases parking spaces according to the
// vehicle to space compatibility table and reports occupancy.
package spaces
