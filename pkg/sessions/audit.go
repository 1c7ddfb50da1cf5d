package sessions

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
)

// Audit compares the occupied flags of spaces with the active sessions in a
// single snapshot. It never repairs anything.
func (o *Orchestrator) Audit(ctx context.Context) (report parking.AuditReport, err error) {
	start := time.Now()
	defer func() { o.finish(ctx, OpAudit, start, err) }()

	var (
		all    []parking.Space
		active []parking.Session
	)
	err = o.store.InTx(ctx, func(tx parking.Queries) error {
		var err error
		if all, err = tx.ListSpaces(ctx); err != nil {
			return err
		}
		active, err = tx.ListActiveSessions(ctx)
		return err
	})
	if err != nil {
		return parking.AuditReport{}, err
	}

	report = reconcile(all, active)
	report.CheckedAt = o.clock()
	if !report.Consistent() {
		o.log.WarnContext(ctx, "occupancy audit found mismatches", "mismatches", len(report.Mismatches))
	}
	return report, nil
}

func reconcile(all []parking.Space, active []parking.Session) parking.AuditReport {
	report := parking.AuditReport{
		ActiveSessions: len(active),
		Mismatches:     []parking.Mismatch{},
	}

	bySpace := make(map[string][]string, len(active))
	for _, s := range active {
		bySpace[s.SpaceID] = append(bySpace[s.SpaceID], s.SessionID.String())
	}
	known := make(map[string]parking.Space, len(all))
	for _, sp := range all {
		known[sp.SpaceID] = sp
		if sp.Occupied {
			report.OccupiedSpaces++
		}
	}

	add := func(kind parking.MismatchKind, spaceID string, ids []string) {
		report.Mismatches = append(report.Mismatches, parking.Mismatch{Kind: kind, SpaceID: spaceID, SessionIDs: ids})
	}
	for spaceID, ids := range bySpace {
		slices.Sort(ids)
		sp, ok := known[spaceID]
		if !ok {
			add(parking.MismatchSpaceMissing, spaceID, ids)
			continue
		}
		if !sp.Occupied {
			add(parking.MismatchSpaceNotOccupied, spaceID, ids)
		}
		if len(ids) > 1 {
			add(parking.MismatchDoubleBooked, spaceID, ids)
		}
	}
	for _, sp := range all {
		if sp.Occupied && len(bySpace[sp.SpaceID]) == 0 {
			add(parking.MismatchOrphanOccupied, sp.SpaceID, nil)
		}
	}

	slices.SortFunc(report.Mismatches, func(a, b parking.Mismatch) int {
		if c := cmp.Compare(a.SpaceID, b.SpaceID); c != 0 {
			return c
		}
		return cmp.Compare(a.Kind, b.Kind)
	})
	return report
}
