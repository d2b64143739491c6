package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/odvcencio/dagviz/pkg/object"
)

func TestCLIRunExpandsTemplates(t *testing.T) {
	id := th("ab")
	cli := NewCLI(Backend{
		Name:     "echo",
		Program:  "echo",
		KindArgs: []string{"commit", "{id}"},
	}, "")

	out, err := cli.run(context.Background(), cli.backend.KindArgs, id, "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "commit " + string(id) + "\n"
	if string(out) != want {
		t.Errorf("output: got %q, want %q", out, want)
	}
}

func TestCLIKindParsesOutput(t *testing.T) {
	cli := NewCLI(Backend{
		Name:     "echo",
		Program:  "echo",
		KindArgs: []string{"tree"},
	}, "")

	kind, err := cli.Kind(context.Background(), th("ab"))
	if err != nil {
		t.Fatalf("Kind: %v", err)
	}
	if kind != object.KindTree {
		t.Errorf("kind: got %q", kind)
	}
}

func TestCLIMissingProgramIsUnavailable(t *testing.T) {
	cli := NewCLI(Backend{
		Name:     "ghost",
		Program:  "dagviz-test-no-such-binary",
		KindArgs: []string{"{id}"},
	}, "")

	_, err := cli.Kind(context.Background(), th("ab"))
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("error: got %v, want ErrUnavailable", err)
	}
}

func TestCLIFailedQueryIsNotFound(t *testing.T) {
	cli := NewCLI(Backend{
		Name:        "false",
		Program:     "false",
		ContentArgs: []string{"{id}"},
	}, "")

	_, err := cli.Content(context.Background(), th("ab"))
	if !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("error: got %v, want ErrObjectNotFound", err)
	}
}

func TestCLIRefsWithoutListingCommand(t *testing.T) {
	cli := NewCLI(Backend{Name: "bare", Program: "echo"}, "")
	refs, err := cli.RefsPointingAt(context.Background(), th("ab"))
	if err != nil || refs != nil {
		t.Errorf("refs: got %v, %v; want none", refs, err)
	}
}

func TestCLIResolveRootsOrdersAndDedupes(t *testing.T) {
	c1 := th("c1")
	c2 := th("c2")
	cli := NewCLI(Backend{
		Name:        "printf",
		Program:     "printf",
		RevListArgs: []string{"%s\\n%s\\n%s\\n", string(c2), string(c1), string(c2)},
		DefaultRef:  "master",
	}, "")

	roots, err := cli.ResolveRoots(context.Background(), nil)
	if err != nil {
		t.Fatalf("ResolveRoots: %v", err)
	}
	if len(roots) != 2 || roots[0] != c2 || roots[1] != c1 {
		t.Errorf("roots: got %v", roots)
	}
}

func TestCLIResolveRootsEmptyIsFatal(t *testing.T) {
	cli := NewCLI(Backend{
		Name:        "true",
		Program:     "true",
		RevListArgs: []string{"{ref}"},
		DefaultRef:  "master",
	}, "")

	if _, err := cli.ResolveRoots(context.Background(), nil); err == nil {
		t.Fatal("empty root resolution must fail")
	}
}
