package coinfolio

import (
	"sort"
	"time"
)

// replacementKey is the composite ordering key for latest-wins resolution:
// revision timestamp first, event id second. The id tie-break guarantees a
// total order even when two replacements carry the same timestamp.
type replacementKey struct {
	rev time.Time
	id  string
}

// wins reports whether k supersedes w.
func (k replacementKey) wins(w replacementKey) bool {
	if !k.rev.Equal(w.rev) {
		return k.rev.After(w.rev)
	}
	return k.id > w.id
}

// ActiveEvents collapses the raw append-only event log into the authoritative
// ordered sequence of active events, and returns a mapping from each
// superseded event id to the id of the event that superseded it.
//
// An event is excluded from the active set when it is marked deleted, or when
// it is the target of some replacement, whether or not the replacement also
// tombstones it explicitly. Among several replacements of the same target,
// only the latest by (revision timestamp, id) survives. The result is
// independent of the input slice order.
func ActiveEvents(events []Event) ([]Event, map[string]string) {
	winners := make(map[string]replacementKey)
	for _, ev := range events {
		m := ev.meta()
		if m.Replaces == "" {
			continue
		}
		k := replacementKey{rev: m.revision(), id: m.EventID}
		if w, ok := winners[m.Replaces]; !ok || k.wins(w) {
			winners[m.Replaces] = k
		}
	}

	superseded := make(map[string]string, len(winners))
	for target, w := range winners {
		superseded[target] = w.id
	}

	active := make([]Event, 0, len(events))
	for _, ev := range events {
		m := ev.meta()
		if m.Deleted {
			continue
		}
		if _, replaced := winners[m.EventID]; replaced {
			continue
		}
		if m.Replaces != "" && winners[m.Replaces].id != m.EventID {
			// a replacement that lost to a later one
			continue
		}
		active = append(active, ev)
	}

	sort.SliceStable(active, func(i, j int) bool {
		ti, tj := active[i].When(), active[j].When()
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return active[i].ID() < active[j].ID()
	})
	return active, superseded
}
