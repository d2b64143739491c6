package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/odvcencio/dagviz/pkg/object"
)

// th builds a full 40-char hex id from a short hex seed.
func th(seed string) object.Hash {
	return object.Hash(strings.Repeat(seed, 40/len(seed)))
}

// writeStore lays out a small loose store: master -> c1 -> {t1 -> b1}.
func writeStore(t *testing.T) (string, map[string]object.Hash) {
	t.Helper()
	root := t.TempDir()

	ids := map[string]object.Hash{
		"c1": th("c1"),
		"t1": th("d1"),
		"b1": th("b1"),
	}
	writeObj := func(id object.Hash, typeName, content string) {
		dir := filepath.Join(root, "objects", string(id[:2]))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		raw := fmt.Sprintf("%s %d\x00%s", typeName, len(content), content)
		if err := os.WriteFile(filepath.Join(dir, string(id[2:])), []byte(raw), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	writeObj(ids["c1"], "commit", "tree "+string(ids["t1"])+"\n\ninitial import\n")
	writeObj(ids["t1"], "tree", string(ids["b1"])+" file.txt\n")
	writeObj(ids["b1"], "blob", "hello\n")

	refDir := filepath.Join(root, "refs", "heads")
	if err := os.MkdirAll(refDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(refDir, "master"), []byte(string(ids["c1"])+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return root, ids
}

func TestGraphCommandAgainstLooseStore(t *testing.T) {
	root, ids := writeStore(t)

	cmd := newGraphCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--store", root, "master"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("graph: %v\n%s", err, out.String())
	}

	dot := out.String()
	for _, want := range []string{
		"digraph objects {",
		"// root " + string(ids["c1"]),
		`"heads/master" -> "` + string(ids["c1"]) + `";`,
		`"` + string(ids["c1"]) + `" -> "` + string(ids["t1"]) + `";`,
		`"` + string(ids["t1"]) + `" -> "` + string(ids["b1"]) + `" [label="file.txt"];`,
		"initial import",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("output missing %q\n%s", want, dot)
		}
	}
}

func TestGraphCommandWritesOutputFile(t *testing.T) {
	root, _ := writeStore(t)
	outPath := filepath.Join(t.TempDir(), "graph.dot")

	cmd := newGraphCmd()
	cmd.SetOut(bytes.NewBuffer(nil))
	cmd.SetArgs([]string{"--store", root, "--output", outPath, "master"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("graph: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "digraph objects {") {
		t.Errorf("output file content: %q", data)
	}
}

func TestGraphCommandUnresolvableRefIsFatal(t *testing.T) {
	root, _ := writeStore(t)

	cmd := newGraphCmd()
	cmd.SetOut(bytes.NewBuffer(nil))
	cmd.SetErr(bytes.NewBuffer(nil))
	cmd.SetArgs([]string{"--store", root, "no-such-branch"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("unresolvable ref must fail the command")
	}
}

func TestStatsCommandReportsSharing(t *testing.T) {
	root, _ := writeStore(t)

	cmd := newStatsCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--store", root, "master"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("stats: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"objects:  3 unique, 3 arrival(s), 0 duplicate arrival(s) skipped",
		"commits:  1",
		"trees:    1",
		"blobs:    1",
		"refs:     1",
		"edges:    3",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("stats missing %q\n%s", want, got)
		}
	}
}
