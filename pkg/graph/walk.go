// Package graph walks the object DAG of a content-addressable store and
// collects it into a renderable snapshot of nodes and labeled edges.
package graph

import (
	"context"

	"github.com/odvcencio/dagviz/pkg/gateway"
	"github.com/odvcencio/dagviz/pkg/object"
)

// Edge is one recorded link. From is a full object id or a reference
// name; Label is the tree-entry path or chunk offset, empty for commit
// and reference links. The edge list is append-only and recorded at the
// referencing side, so shared objects keep one set of outgoing edges no
// matter how many parents point at them.
type Edge struct {
	From  string
	To    object.Hash
	Label string
}

// Ref is one named reference attached to a visited commit. Names are
// not deduplicated: several refs at the same commit each get their own
// node and edge.
type Ref struct {
	Name   string
	Target object.Hash
}

// Commit is a visited commit and its message paragraph.
type Commit struct {
	ID      object.Hash
	Message string
}

// Blob is a visited blob and its display preview.
type Blob struct {
	ID      object.Hash
	Preview string
}

// Snapshot is everything one traversal collected. All slices are in
// first-discovery order, which makes rendering deterministic.
type Snapshot struct {
	Roots        []object.Hash
	Refs         []Ref
	Commits      []Commit
	Trees        []object.Hash
	ChunkIndexes []object.Hash
	Blobs        []Blob
	Unknown      []object.Hash
	Edges        []Edge

	// Seen counts arrivals per id, including re-arrivals stopped by
	// the visited gate. Seen[id] > 1 means the object is shared.
	Seen map[object.Hash]int
}

// Walker drives a depth-first walk over a store's object graph. Each
// Walk call owns a fresh snapshot; a Walker carries no state between
// runs.
type Walker struct {
	gw gateway.Gateway
}

// New returns a Walker reading through gw.
func New(gw gateway.Gateway) *Walker {
	return &Walker{gw: gw}
}

// Walk visits every object reachable from roots exactly once and
// returns the collected nodes and edges. Per-object store failures
// (missing ids, unreadable or unrecognized objects) degrade to leaf
// nodes; the only errors returned are context cancellation.
func (w *Walker) Walk(ctx context.Context, roots []object.Hash) (*Snapshot, error) {
	snap := &Snapshot{
		Roots: roots,
		Seen:  make(map[object.Hash]int),
	}
	for _, id := range roots {
		if err := w.visit(ctx, snap, id); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

// visit expands one object: registers it, records its outgoing edges,
// then recurses into its children. Re-arrivals at a visited id only
// bump the seen counter.
func (w *Walker) visit(ctx context.Context, snap *Snapshot, id object.Hash) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	snap.Seen[id]++
	if snap.Seen[id] > 1 {
		return nil
	}

	kind, err := w.gw.Kind(ctx, id)
	if err != nil {
		// Missing or unreadable objects stay in the picture as
		// leaves so the rest of the graph still renders.
		snap.Unknown = append(snap.Unknown, id)
		return nil
	}

	switch kind {
	case object.KindCommit:
		return w.visitCommit(ctx, snap, id)
	case object.KindTree:
		links, ok := w.parseLinks(ctx, snap, id, object.ParseTreeContent)
		if !ok {
			return nil
		}
		snap.Trees = append(snap.Trees, id)
		return w.recordAndRecurse(ctx, snap, id, links)
	case object.KindChunkIndex:
		links, ok := w.parseLinks(ctx, snap, id, object.ParseChunkIndexContent)
		if !ok {
			return nil
		}
		snap.ChunkIndexes = append(snap.ChunkIndexes, id)
		return w.recordAndRecurse(ctx, snap, id, links)
	case object.KindBlob:
		content, err := w.gw.Content(ctx, id)
		if err != nil {
			snap.Unknown = append(snap.Unknown, id)
			return nil
		}
		snap.Blobs = append(snap.Blobs, Blob{ID: id, Preview: object.BlobPreview(content)})
		return nil
	default:
		snap.Unknown = append(snap.Unknown, id)
		return nil
	}
}

func (w *Walker) visitCommit(ctx context.Context, snap *Snapshot, id object.Hash) error {
	content, err := w.gw.Content(ctx, id)
	if err != nil {
		snap.Unknown = append(snap.Unknown, id)
		return nil
	}
	links, message := object.ParseCommitContent(content)
	snap.Commits = append(snap.Commits, Commit{ID: id, Message: message})

	// Attach every ref naming this commit. Ref listing failures are
	// cosmetic, never fatal.
	if refs, err := w.gw.RefsPointingAt(ctx, id); err == nil {
		for _, name := range refs {
			snap.Refs = append(snap.Refs, Ref{Name: name, Target: id})
			snap.Edges = append(snap.Edges, Edge{From: name, To: id})
		}
	}

	return w.recordAndRecurse(ctx, snap, id, links)
}

// parseLinks fetches and parses an object's content. A content failure
// registers the id as an unknown leaf and reports !ok.
func (w *Walker) parseLinks(ctx context.Context, snap *Snapshot, id object.Hash, parse func(string) []object.Link) ([]object.Link, bool) {
	content, err := w.gw.Content(ctx, id)
	if err != nil {
		snap.Unknown = append(snap.Unknown, id)
		return nil, false
	}
	return parse(content), true
}

// recordAndRecurse appends one edge per link, then visits each child.
// All of this object's edges land before any grandchild's, keeping
// output order stable.
func (w *Walker) recordAndRecurse(ctx context.Context, snap *Snapshot, id object.Hash, links []object.Link) error {
	for _, l := range links {
		snap.Edges = append(snap.Edges, Edge{From: string(id), To: l.To, Label: l.Label})
	}
	for _, l := range links {
		if err := w.visit(ctx, snap, l.To); err != nil {
			return err
		}
	}
	return nil
}
