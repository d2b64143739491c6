package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zlib"

	"github.com/odvcencio/dagviz/pkg/object"
)

// blobContentLimit bounds how much of a blob's body the gateway returns.
// Blob content is only ever displayed as a short preview.
const blobContentLimit = 4096

// LooseStore is a Gateway and RootResolver that reads a store's files
// directly: loose objects under objects/ with a 2-character fan-out
// layout (objects/ab/cdef...) and a "type len\0content" envelope, and
// refs as one-id-per-file entries under refs/. Object files may be
// stored raw or zlib-deflated; both are handled transparently.
type LooseStore struct {
	root string
}

// NewLooseStore opens the store rooted at dir. The objects/ directory
// must exist; anything else is degraded per object at read time.
func NewLooseStore(dir string) (*LooseStore, error) {
	info, err := os.Stat(filepath.Join(dir, "objects"))
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w: %v", dir, ErrUnavailable, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open store %s: %w: objects is not a directory", dir, ErrUnavailable)
	}
	return &LooseStore{root: dir}, nil
}

// Kind implements Gateway.
func (s *LooseStore) Kind(_ context.Context, id object.Hash) (object.Kind, error) {
	kind, _, err := s.readObject(id)
	return kind, err
}

// Content implements Gateway. Blob content is truncated to a bounded
// prefix; other kinds return their full textual body.
func (s *LooseStore) Content(_ context.Context, id object.Hash) (string, error) {
	kind, body, err := s.readObject(id)
	if err != nil {
		return "", err
	}
	if kind == object.KindBlob && len(body) > blobContentLimit {
		body = body[:blobContentLimit]
	}
	return string(body), nil
}

// RefsPointingAt implements Gateway by walking the refs directory, the
// same relative-name scheme used for on-disk ref listings elsewhere:
// "heads/main", "tags/v1".
func (s *LooseStore) RefsPointingAt(_ context.Context, id object.Hash) ([]string, error) {
	var names []string
	root := filepath.Join(s.root, "refs")
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if object.Hash(strings.TrimSpace(string(data))) != id {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list refs: %w", err)
	}
	return names, nil
}

// ResolveRoots implements RootResolver. Each ref resolves to the single
// tip id its ref file holds; parent links take the walk through the
// rest of history. A full hex id passes through as-is.
func (s *LooseStore) ResolveRoots(_ context.Context, refs []string) ([]object.Hash, error) {
	if len(refs) == 0 {
		refs = []string{"master"}
	}

	var roots []object.Hash
	for _, ref := range refs {
		if object.IsHexHash(ref) {
			roots = append(roots, object.Hash(ref))
			continue
		}
		h, err := s.resolveRef(ref)
		if err != nil {
			return nil, err
		}
		roots = append(roots, h)
	}
	return roots, nil
}

func (s *LooseStore) resolveRef(name string) (object.Hash, error) {
	candidates := []string{
		filepath.Join("refs", filepath.FromSlash(name)),
		filepath.Join("refs", "heads", filepath.FromSlash(name)),
		filepath.Join("refs", "tags", filepath.FromSlash(name)),
	}
	for _, rel := range candidates {
		data, err := os.ReadFile(filepath.Join(s.root, rel))
		if err != nil {
			continue
		}
		h := object.Hash(strings.TrimSpace(string(data)))
		if h == "" {
			continue
		}
		return h, nil
	}
	return "", fmt.Errorf("resolve %q: no such ref", name)
}

// readObject reads and decodes one loose object file.
func (s *LooseStore) readObject(id object.Hash) (object.Kind, []byte, error) {
	if len(id) < 3 {
		return object.KindUnknown, nil, fmt.Errorf("object %s: %w", id, ErrObjectNotFound)
	}
	path := filepath.Join(s.root, "objects", string(id[:2]), string(id[2:]))
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return object.KindUnknown, nil, fmt.Errorf("object %s: %w", id, ErrObjectNotFound)
		}
		return object.KindUnknown, nil, fmt.Errorf("object read %s: %w", id, err)
	}

	if isZlib(raw) {
		raw, err = inflate(raw)
		if err != nil {
			return object.KindUnknown, nil, fmt.Errorf("object read %s: inflate: %w", id, err)
		}
	}

	// Envelope: "type len\0content". The length field is advisory here;
	// a damaged envelope degrades to an unknown leaf upstream.
	nulIdx := bytes.IndexByte(raw, 0)
	if nulIdx < 0 {
		return object.KindUnknown, nil, fmt.Errorf("object read %s: invalid format (no NUL)", id)
	}
	header := string(raw[:nulIdx])
	content := raw[nulIdx+1:]

	typeName, _, _ := strings.Cut(header, " ")
	return object.ParseKind(typeName), content, nil
}

// isZlib sniffs the two-byte zlib stream header.
func isZlib(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	if data[0] != 0x78 {
		return false
	}
	switch data[1] {
	case 0x01, 0x5e, 0x9c, 0xda:
		return true
	}
	return false
}

func inflate(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
