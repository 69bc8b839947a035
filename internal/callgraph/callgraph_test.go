package callgraph

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rawGraph = `digraph G {
	"<com.kuleuven.library.domain.Book: void <init>(java.lang.String)>" -> "<com.kuleuven.library.domain.LibraryItem: void <init>()>";
	"<com.kuleuven.library.actions.Library: void addItem(com.kuleuven.library.domain.LibraryItem)>"->"<java.util.List: boolean add(java.lang.Object)>"[label="23"];
	"<com.kuleuven.library.actions.Library: void addItem(com.kuleuven.library.domain.LibraryItem)>" -> "<com.kuleuven.library.domain.Book: void <init>(java.lang.String)>";
	node [shape=ellipse];
}
`

func TestSimplifySignature(t *testing.T) {
	tests := []struct {
		sig  string
		want string
	}{
		{
			sig:  "<com.kuleuven.library.domain.Book: void <init>(java.lang.String)>",
			want: "Book.<init>",
		},
		{
			sig:  "<java.util.List: boolean add(java.lang.Object)>",
			want: "List.add",
		},
		{
			sig:  "<com.kuleuven.library.actions.Library: void addItem(com.kuleuven.library.domain.LibraryItem)>",
			want: "Library.addItem",
		},
		{
			sig:  "<java.lang.Object: void <init>()>",
			want: "Object.<init>",
		},
		{
			// No class separator passes through unchanged.
			sig:  "<opaque>",
			want: "opaque",
		},
	}
	for _, test := range tests {
		t.Run(test.want, func(t *testing.T) {
			assert.Equal(t, test.want, SimplifySignature(test.sig))
		})
	}
}

func TestParseCollectsEdgesAndNodes(t *testing.T) {
	g, err := Parse(strings.NewReader(rawGraph))
	require.NoError(t, err)

	require.Len(t, g.Edges, 3)
	assert.Equal(t, Edge{
		From: "<com.kuleuven.library.domain.Book: void <init>(java.lang.String)>",
		To:   "<com.kuleuven.library.domain.LibraryItem: void <init>()>",
	}, g.Edges[0])
	assert.Equal(t, "23", g.Edges[1].Label)

	// Duplicate endpoints collapse into one node each.
	assert.Len(t, g.Nodes, 4)
}

func TestParseSkipsNonEdgeLines(t *testing.T) {
	g, err := Parse(strings.NewReader("digraph G {\n  rankdir=LR;\n}\n"))
	require.NoError(t, err)
	assert.Empty(t, g.Edges)
	assert.Empty(t, g.Nodes)
}

func TestEdgeKey(t *testing.T) {
	key := EdgeKey("<a.B: void f()>", "<c.D: int g(int)>")
	assert.Equal(t, `"<a.B: void f()>"->"<c.D: int g(int)>"`, key)
}

func TestClustersGroupByClass(t *testing.T) {
	g, err := Parse(strings.NewReader(rawGraph))
	require.NoError(t, err)

	clusters := g.Clusters()
	require.Len(t, clusters, 4)
	assert.Len(t, clusters["Library"], 1)
	assert.Len(t, clusters["Book"], 1)
	assert.Len(t, clusters["List"], 1)
	assert.Len(t, clusters["LibraryItem"], 1)
}

func TestLoadScores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"<a.B: void f()>": 0.25}`), 0644))

	m, err := LoadScores(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"<a.B: void f()>": 0.25}, m)
}

func TestLoadScoresRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	_, err := LoadScores(path)
	require.Error(t, err)
}

func TestCleanWritesDotFile(t *testing.T) {
	dir := t.TempDir()
	graphPath := filepath.Join(dir, "raw.dot")
	require.NoError(t, os.WriteFile(graphPath, []byte(rawGraph), 0644))

	dotPath := filepath.Join(dir, "out", "cleaned.dot")
	require.NoError(t, Clean(graphPath, dotPath, "", "", ""))

	b, err := os.ReadFile(dotPath)
	require.NoError(t, err)
	text := string(b)
	assert.Contains(t, text, "rankdir")
	assert.Contains(t, text, "Library")
	assert.Contains(t, text, "addItem")
}

func TestCleanFailsOnMissingInput(t *testing.T) {
	dir := t.TempDir()
	err := Clean(filepath.Join(dir, "missing.dot"), filepath.Join(dir, "out", "x.dot"), "", "", "")
	require.Error(t, err)
}
