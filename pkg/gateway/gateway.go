// Package gateway provides read-only access to a content-addressable
// object store, either by driving an external store binary or by reading
// its files directly. The three-operation Gateway contract is the
// traversal engine's only window into the store.
package gateway

import (
	"context"
	"errors"

	"github.com/odvcencio/dagviz/pkg/object"
)

// ErrObjectNotFound reports that the store has no object for the
// requested id. Traversal treats such ids as leaf nodes.
var ErrObjectNotFound = errors.New("object not found")

// ErrUnavailable reports that the store cannot be queried at all, e.g.
// the backing binary is not installed. Always fatal.
var ErrUnavailable = errors.New("object store unavailable")

// Gateway reads objects from a store.
type Gateway interface {
	// Kind reports the stored kind of the object with the given id.
	Kind(ctx context.Context, id object.Hash) (object.Kind, error)

	// Content returns the decoded textual representation of the
	// object: header and body for commits, entry lines for trees,
	// chunk lines for chunked-blob indexes, and a bounded prefix for
	// blobs.
	Content(ctx context.Context, id object.Hash) (string, error)

	// RefsPointingAt lists every named reference currently resolving
	// to exactly this id. May be empty.
	RefsPointingAt(ctx context.Context, id object.Hash) ([]string, error)
}

// RootResolver turns user-supplied reference names into the ordered
// list of commit ids that seed a traversal.
type RootResolver interface {
	// ResolveRoots resolves refs, falling back to the backend's
	// default branch when refs is empty. An empty result is an error:
	// no graph is possible without at least one root.
	ResolveRoots(ctx context.Context, refs []string) ([]object.Hash, error)
}
