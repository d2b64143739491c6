package object

import "strings"

// Hash is the hex-encoded content digest identifying one stored object.
// Both 40-character (SHA-1 era) and 64-character (SHA-256) stores appear
// across backends; the value is an opaque key either way and is only
// ever compared for exact equality.
type Hash string

// Kind identifies the kind of object stored.
type Kind string

const (
	KindCommit     Kind = "commit"
	KindTree       Kind = "tree"
	KindBlob       Kind = "blob"
	KindChunkIndex Kind = "chunkedblob"

	// KindUnknown marks objects whose kind the store could not report.
	// They render as leaf nodes and are never expanded.
	KindUnknown Kind = "unknown"
)

// ParseKind normalizes a store-reported type string into the closed kind
// set. Anything unrecognized maps to KindUnknown.
func ParseKind(s string) Kind {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(norm)
	switch norm {
	case "commit":
		return KindCommit
	case "tree", "treeindex":
		return KindTree
	case "blob":
		return KindBlob
	case "chunkedblob", "chunkedblobindex", "chunkindex":
		return KindChunkIndex
	default:
		return KindUnknown
	}
}

// Link is one outgoing reference parsed from an object's content.
// Label carries the tree-entry path or the chunk offset; commit links
// have no label.
type Link struct {
	To    Hash
	Label string
}

// ShortHash returns the fixed-length display prefix of a hash. It is
// used only for node labels, never as a lookup key.
func ShortHash(h Hash) string {
	s := string(h)
	if len(s) <= 8 {
		return s
	}
	return s[:8]
}

// IsHexHash reports whether s looks like a full object id: 40 or 64 hex
// characters.
func IsHexHash(s string) bool {
	if len(s) != 40 && len(s) != 64 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
