// Package parking holds the domain model of the facility: vehicle and space
// classes, the compatibility table, sessions and their lifecycle, rate
// rules, the error taxonomy and the persistence boundary that storage
// backends implement.
//
// License plates are normalized before they reach any store:
//
//	plate, err := parking.NormalizePlate("ka-01 ab 1234") // "KA01AB1234"
//
// Every error the core returns maps to a stable code through CodeOf, which
// transport layers use to pick a status without string matching.
package parking
