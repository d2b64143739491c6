package graph

import (
	"strings"
	"testing"

	"github.com/odvcencio/dagviz/pkg/object"
)

func TestRenderDOTFullGraph(t *testing.T) {
	c1 := th("c1")
	t1 := th("d1")
	b1 := th("b1")

	g := newFakeGateway()
	g.addCommit(c1, t1, nil, "initial import")
	g.addTree(t1, map[string]object.Hash{"file.txt": b1}, []string{"file.txt"})
	g.addBlob(b1, "hello\n")
	g.refs[c1] = []string{"main"}

	snap := walkOrFail(t, g, c1)
	out := RenderDOT(snap)

	for _, want := range []string{
		"digraph objects {",
		"// root " + string(c1),
		"subgraph cluster_refs {",
		"subgraph cluster_commits {",
		"subgraph cluster_trees {",
		"subgraph cluster_chunked_blobs {",
		"subgraph cluster_blobs {",
		`"main" [shape=box, label="main"];`,
		`"` + string(c1) + `" [label="` + object.ShortHash(c1) + `: initial import"];`,
		`"` + string(t1) + `" [label="` + object.ShortHash(t1) + `"];`,
		`"main" -> "` + string(c1) + `";`,
		`"` + string(c1) + `" -> "` + string(t1) + `";`,
		`"` + string(t1) + `" -> "` + string(b1) + `" [label="file.txt"];`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestRenderDOTEscapesQuotes(t *testing.T) {
	c1 := th("c1")
	snap := &Snapshot{
		Roots:   []object.Hash{c1},
		Commits: []Commit{{ID: c1, Message: `say "hi" to\everyone`}},
		Seen:    map[object.Hash]int{c1: 1},
	}

	out := RenderDOT(snap)
	if !strings.Contains(out, `say \"hi\" to\\everyone`) {
		t.Errorf("quotes not escaped:\n%s", out)
	}
}

func TestRenderDOTUnknownLeaf(t *testing.T) {
	gone := th("ee")
	snap := &Snapshot{
		Unknown: []object.Hash{gone},
		Seen:    map[object.Hash]int{gone: 1},
	}

	out := RenderDOT(snap)
	if !strings.Contains(out, `"`+string(gone)+`" [style=dashed, label="`+object.ShortHash(gone)+`?"];`) {
		t.Errorf("unknown leaf not rendered:\n%s", out)
	}
}

func TestRenderDOTDeterministic(t *testing.T) {
	c1 := th("c1")
	t1 := th("d1")

	g := newFakeGateway()
	g.addCommit(c1, t1, nil, "only")
	g.addTree(t1, nil, nil)

	first := RenderDOT(walkOrFail(t, g, c1))
	second := RenderDOT(walkOrFail(t, g, c1))
	if first != second {
		t.Error("render output differs across identical walks")
	}
}
