package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/odvcencio/dagviz/pkg/object"
)

// Backend describes how to drive one external store binary through the
// gateway contract. Argument templates expand "{id}" and "{ref}" per
// call.
type Backend struct {
	Name        string   `toml:"-"`
	Program     string   `toml:"program"`
	KindArgs    []string `toml:"kind_args"`
	ContentArgs []string `toml:"content_args"`
	RefsArgs    []string `toml:"refs_args"`
	RevListArgs []string `toml:"rev_list_args"`
	// DefaultRef seeds root resolution when the user names no refs.
	DefaultRef string `toml:"default_ref"`
}

// builtinBackends returns the three interchangeable store command sets.
// All satisfy the identical three-operation contract; only the command
// spellings differ.
func builtinBackends() map[string]Backend {
	return map[string]Backend{
		"git": {
			Name:        "git",
			Program:     "git",
			KindArgs:    []string{"cat-file", "-t", "{id}"},
			ContentArgs: []string{"cat-file", "-p", "{id}"},
			RefsArgs:    []string{"for-each-ref", "--points-at", "{id}", "--format=%(refname:short)"},
			RevListArgs: []string{"rev-list", "{ref}"},
			DefaultRef:  "master",
		},
		"proto": {
			Name:        "proto",
			Program:     "prototype",
			KindArgs:    []string{"show-object", "--type", "{id}"},
			ContentArgs: []string{"show-object", "{id}"},
			RefsArgs:    []string{"show-ref", "--points-at", "{id}"},
			RevListArgs: []string{"log", "--ids-only", "{ref}"},
			DefaultRef:  "master",
		},
		"protox": {
			Name:        "protox",
			Program:     "protox",
			KindArgs:    []string{"show-object", "--type", "{id}"},
			ContentArgs: []string{"show-object", "{id}"},
			RefsArgs:    []string{"show-ref", "--points-at", "{id}"},
			RevListArgs: []string{"log", "--ids-only", "{ref}"},
			DefaultRef:  "master",
		},
	}
}

// CLI is a Gateway and RootResolver backed by an external store binary.
type CLI struct {
	backend Backend
	dir     string
}

// NewCLI returns a CLI gateway running backend commands in dir.
func NewCLI(backend Backend, dir string) *CLI {
	if dir == "" {
		dir = "."
	}
	return &CLI{backend: backend, dir: dir}
}

// Kind implements Gateway.
func (c *CLI) Kind(ctx context.Context, id object.Hash) (object.Kind, error) {
	out, err := c.run(ctx, c.backend.KindArgs, id, "")
	if err != nil {
		return object.KindUnknown, err
	}
	return object.ParseKind(string(out)), nil
}

// Content implements Gateway.
func (c *CLI) Content(ctx context.Context, id object.Hash) (string, error) {
	out, err := c.run(ctx, c.backend.ContentArgs, id, "")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// RefsPointingAt implements Gateway. Backends without a ref-listing
// command report no refs rather than failing.
func (c *CLI) RefsPointingAt(ctx context.Context, id object.Hash) ([]string, error) {
	if len(c.backend.RefsArgs) == 0 {
		return nil, nil
	}
	out, err := c.run(ctx, c.backend.RefsArgs, id, "")
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return nil, err
		}
		return nil, nil
	}
	return splitNonEmptyLines(string(out)), nil
}

// ResolveRoots implements RootResolver by running the backend's
// history-listing command once per ref.
func (c *CLI) ResolveRoots(ctx context.Context, refs []string) ([]object.Hash, error) {
	if len(refs) == 0 {
		refs = []string{c.backend.DefaultRef}
	}

	seen := make(map[object.Hash]struct{})
	var roots []object.Hash
	for _, ref := range refs {
		out, err := c.run(ctx, c.backend.RevListArgs, "", ref)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", ref, err)
		}
		for _, line := range splitNonEmptyLines(string(out)) {
			if !object.IsHexHash(line) {
				continue
			}
			h := object.Hash(line)
			if _, ok := seen[h]; ok {
				continue
			}
			seen[h] = struct{}{}
			roots = append(roots, h)
		}
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("resolve %s: no commits found", strings.Join(refs, ", "))
	}
	return roots, nil
}

// run executes one backend command, expanding argument templates, and
// captures stdout. A process that cannot start maps to ErrUnavailable;
// a nonzero exit maps to ErrObjectNotFound with the stderr text folded
// into the message.
func (c *CLI) run(ctx context.Context, argTemplate []string, id object.Hash, ref string) ([]byte, error) {
	args := make([]string, len(argTemplate))
	for i, a := range argTemplate {
		a = strings.ReplaceAll(a, "{id}", string(id))
		a = strings.ReplaceAll(a, "{ref}", ref)
		args[i] = a
	}

	cmd := exec.CommandContext(ctx, c.backend.Program, args...)
	cmd.Dir = c.dir
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return nil, fmt.Errorf("%s: %w: %v", c.backend.Program, ErrUnavailable, err)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("%s %s: %s: %w", c.backend.Program, strings.Join(args, " "), msg, ErrObjectNotFound)
	}
	return stdout.Bytes(), nil
}

func splitNonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
