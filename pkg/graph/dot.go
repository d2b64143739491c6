package graph

import (
	"bytes"
	"fmt"

	"github.com/odvcencio/dagviz/pkg/object"
)

// RenderDOT projects a snapshot into a Graphviz document: a preamble
// echoing the resolved roots, one cluster per object kind, then one
// statement per recorded edge. Output order follows first-discovery
// order and is fully reproducible.
func RenderDOT(snap *Snapshot) string {
	var buf bytes.Buffer

	buf.WriteString("digraph objects {\n")
	for _, root := range snap.Roots {
		fmt.Fprintf(&buf, "\t// root %s\n", root)
	}
	buf.WriteString("\tnode [fontname=\"monospace\"];\n")

	buf.WriteString("\tsubgraph cluster_refs {\n\t\tlabel=\"refs\";\n")
	for _, ref := range snap.Refs {
		fmt.Fprintf(&buf, "\t\t\"%s\" [shape=box, label=\"%s\"];\n", escapeLabel(ref.Name), escapeLabel(ref.Name))
	}
	buf.WriteString("\t}\n")

	buf.WriteString("\tsubgraph cluster_commits {\n\t\tlabel=\"commits\";\n")
	for _, c := range snap.Commits {
		label := object.ShortHash(c.ID)
		if c.Message != "" {
			label += ": " + c.Message
		}
		fmt.Fprintf(&buf, "\t\t\"%s\" [label=\"%s\"];\n", c.ID, escapeLabel(label))
	}
	buf.WriteString("\t}\n")

	buf.WriteString("\tsubgraph cluster_trees {\n\t\tlabel=\"trees\";\n")
	for _, id := range snap.Trees {
		fmt.Fprintf(&buf, "\t\t\"%s\" [label=\"%s\"];\n", id, object.ShortHash(id))
	}
	buf.WriteString("\t}\n")

	buf.WriteString("\tsubgraph cluster_chunked_blobs {\n\t\tlabel=\"chunked blob indexes\";\n")
	for _, id := range snap.ChunkIndexes {
		fmt.Fprintf(&buf, "\t\t\"%s\" [label=\"%s\"];\n", id, object.ShortHash(id))
	}
	buf.WriteString("\t}\n")

	buf.WriteString("\tsubgraph cluster_blobs {\n\t\tlabel=\"blobs\";\n")
	for _, b := range snap.Blobs {
		fmt.Fprintf(&buf, "\t\t\"%s\" [label=\"%s\"];\n", b.ID, object.ShortHash(b.ID))
	}
	buf.WriteString("\t}\n")

	for _, id := range snap.Unknown {
		fmt.Fprintf(&buf, "\t\"%s\" [style=dashed, label=\"%s?\"];\n", id, object.ShortHash(id))
	}

	for _, e := range snap.Edges {
		if e.Label != "" {
			fmt.Fprintf(&buf, "\t\"%s\" -> \"%s\" [label=\"%s\"];\n", escapeLabel(e.From), e.To, escapeLabel(e.Label))
		} else {
			fmt.Fprintf(&buf, "\t\"%s\" -> \"%s\";\n", escapeLabel(e.From), e.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// escapeLabel makes a string safe inside a double-quoted DOT label.
func escapeLabel(s string) string {
	var out bytes.Buffer
	for _, r := range s {
		switch r {
		case '"':
			out.WriteString(`\"`)
		case '\\':
			out.WriteString(`\\`)
		case '\n':
			out.WriteString(`\n`)
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}
