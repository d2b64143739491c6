package graph

// Stats summarizes one traversal, including how many arrivals the
// visited-set gate deduplicated. Duplicate arrivals measure the sharing
// a content-addressable store gets from fan-in.
type Stats struct {
	Objects      int
	Arrivals     int
	Commits      int
	Trees        int
	ChunkIndexes int
	Blobs        int
	Unknown      int
	Refs         int
	Edges        int
}

// Duplicates returns how many arrivals the visited gate stopped.
func (s Stats) Duplicates() int {
	return s.Arrivals - s.Objects
}

// Stats computes traversal statistics from a snapshot.
func (snap *Snapshot) Stats() Stats {
	st := Stats{
		Objects:      len(snap.Seen),
		Commits:      len(snap.Commits),
		Trees:        len(snap.Trees),
		ChunkIndexes: len(snap.ChunkIndexes),
		Blobs:        len(snap.Blobs),
		Unknown:      len(snap.Unknown),
		Refs:         len(snap.Refs),
		Edges:        len(snap.Edges),
	}
	for _, n := range snap.Seen {
		st.Arrivals += n
	}
	return st
}
