package shred

import "sort"

// Access is a system's declared resource footprint: the set of resources it
// reads and the set it writes. Access values are immutable once built; the
// scheduler relies on them never changing after registration.
//
// A resource declared both read and written collapses to written, since
// write access already requires exclusivity.
type Access struct {
	reads  map[ResourceID]struct{}
	writes map[ResourceID]struct{}
}

// NewAccess builds an Access from explicit read and write id lists.
func NewAccess(reads, writes []ResourceID) Access {
	a := Access{
		reads:  make(map[ResourceID]struct{}, len(reads)),
		writes: make(map[ResourceID]struct{}, len(writes)),
	}
	for _, id := range writes {
		if id.IsZero() {
			continue
		}
		a.writes[id] = struct{}{}
	}
	for _, id := range reads {
		if id.IsZero() {
			continue
		}
		if _, w := a.writes[id]; w {
			continue // write subsumes read
		}
		a.reads[id] = struct{}{}
	}
	return a
}

// Reads returns the read set, sorted for deterministic iteration.
func (a Access) Reads() []ResourceID { return sortedIDs(a.reads) }

// Writes returns the write set, sorted for deterministic iteration.
func (a Access) Writes() []ResourceID { return sortedIDs(a.writes) }

// ReadsID reports whether id is in the read set.
func (a Access) ReadsID(id ResourceID) bool {
	_, ok := a.reads[id]
	return ok
}

// WritesID reports whether id is in the write set.
func (a Access) WritesID(id ResourceID) bool {
	_, ok := a.writes[id]
	return ok
}

// Touches reports whether id appears in either set.
func (a Access) Touches(id ResourceID) bool {
	return a.ReadsID(id) || a.WritesID(id)
}

// Empty reports whether the access declares no resources at all.
func (a Access) Empty() bool {
	return len(a.reads) == 0 && len(a.writes) == 0
}

// ConflictsWith reports whether two accesses cannot safely run
// concurrently: one writes a resource the other reads or writes.
func (a Access) ConflictsWith(b Access) bool {
	for id := range a.writes {
		if _, ok := b.writes[id]; ok {
			return true
		}
		if _, ok := b.reads[id]; ok {
			return true
		}
	}
	for id := range b.writes {
		if _, ok := a.reads[id]; ok {
			return true
		}
	}
	return false
}

// Union returns the combined footprint of a and b. A resource written by
// either side is written in the result.
func (a Access) Union(b Access) Access {
	reads := make([]ResourceID, 0, len(a.reads)+len(b.reads))
	writes := make([]ResourceID, 0, len(a.writes)+len(b.writes))
	for id := range a.reads {
		reads = append(reads, id)
	}
	for id := range b.reads {
		reads = append(reads, id)
	}
	for id := range a.writes {
		writes = append(writes, id)
	}
	for id := range b.writes {
		writes = append(writes, id)
	}
	return NewAccess(reads, writes)
}

func sortedIDs(set map[ResourceID]struct{}) []ResourceID {
	ids := make([]ResourceID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// AccessBuilder accumulates read and write declarations for an Access.
type AccessBuilder struct {
	reads  []ResourceID
	writes []ResourceID
}

// NewAccessBuilder returns an empty builder.
func NewAccessBuilder() *AccessBuilder {
	return &AccessBuilder{}
}

// Reads adds ids to the read set.
func (b *AccessBuilder) Reads(ids ...ResourceID) *AccessBuilder {
	b.reads = append(b.reads, ids...)
	return b
}

// Writes adds ids to the write set.
func (b *AccessBuilder) Writes(ids ...ResourceID) *AccessBuilder {
	b.writes = append(b.writes, ids...)
	return b
}

// Build returns the accumulated Access.
func (b *AccessBuilder) Build() Access {
	return NewAccess(b.reads, b.writes)
}
