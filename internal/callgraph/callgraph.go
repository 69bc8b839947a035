// Package callgraph cleans raw Soot-style call-graph dumps into clustered
// Graphviz files, optionally overlaying ranking and coverage scores.
package callgraph

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Edge is one call between two full method signatures. Label carries the
// optional edge annotation from the raw dump, typically a call count.
type Edge struct {
	From  string
	To    string
	Label string
}

// Graph is a parsed raw call graph plus its optional score overlays. Node and
// edge identity is the full method signature, e.g.
// <com.kuleuven.library.Book: void <init>(java.lang.String)>; simplification
// happens only at render time.
type Graph struct {
	Nodes []string
	Edges []Edge

	// Ranking maps full signatures to a ranking score shown in node labels.
	Ranking map[string]float64
	// NodeCoverage maps full signatures to a coverage score; covered nodes
	// (score > 0) render green.
	NodeCoverage map[string]float64
	// EdgeCoverage maps EdgeKey strings to a coverage score.
	EdgeCoverage map[string]float64
}

// Raw dumps quote signatures inconsistently and may carry a label attribute:
//
//	"<a.B: void f()>" -> "<c.D: int g(int)>";
//	"<a.B: void f()>"->"<c.D: int g(int)>"[label="6"];
var edgePattern = regexp.MustCompile(`"?<(.*?)>"?\s*->\s*"?<(.*?)>"?\s*(?:\[label="([^"]*)"\s*\])?\s*;`)

// Parse scans raw call-graph text for edges. Lines without an edge are
// skipped, matching the tolerant scan of the original exporter.
func Parse(r io.Reader) (*Graph, error) {
	g := &Graph{}
	seen := map[string]bool{}
	sc := bufio.NewScanner(r)
	// Full Java signatures make for long lines.
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		m := edgePattern.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		src, dst := "<"+m[1]+">", "<"+m[2]+">"
		g.Edges = append(g.Edges, Edge{From: src, To: dst, Label: m[3]})
		for _, n := range []string{src, dst} {
			if !seen[n] {
				seen[n] = true
				g.Nodes = append(g.Nodes, n)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan raw graph: %w", err)
	}
	return g, nil
}

// SimplifySignature shortens a full method signature like
// <com.kuleuven.library.Book: void <init>(java.lang.String)> to Book.<init>.
// Signatures without a class separator pass through unchanged.
func SimplifySignature(sig string) string {
	inner := strings.Trim(sig, "<>")
	if !strings.Contains(inner, ":") {
		return inner
	}
	cls, rest, _ := strings.Cut(inner, ":")
	clsShort := cls[strings.LastIndex(cls, ".")+1:]
	method := strings.TrimSpace(rest)
	if i := strings.Index(method, "("); i >= 0 {
		method = method[:i]
	}
	if fields := strings.Fields(method); len(fields) > 0 {
		method = fields[len(fields)-1]
	}
	return clsShort + "." + method
}

// EdgeKey formats the key used by edge coverage files: "<src>"->"<dst>".
func EdgeKey(src, dst string) string {
	return `"` + src + `"->"` + dst + `"`
}

// Clusters groups full signatures by the class part of their simplified form.
func (g *Graph) Clusters() map[string][]string {
	clusters := map[string][]string{}
	for _, n := range g.Nodes {
		cls, _, _ := strings.Cut(SimplifySignature(n), ".")
		clusters[cls] = append(clusters[cls], n)
	}
	return clusters
}

// LoadScores reads a JSON object mapping full method signatures (or edge
// keys) to numeric scores.
func LoadScores(path string) (map[string]float64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]float64
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse scores %s: %w", path, err)
	}
	return m, nil
}

// Clean reads the raw call graph at graphPath, applies whichever overlays
// have a path, and writes the cleaned Graphviz file to dotPath, creating the
// output directory when missing.
func Clean(graphPath, dotPath, scoresPath, nodeCovPath, edgeCovPath string) error {
	f, err := os.Open(graphPath)
	if err != nil {
		return err
	}
	defer f.Close()

	g, err := Parse(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", graphPath, err)
	}
	if scoresPath != "" {
		if g.Ranking, err = LoadScores(scoresPath); err != nil {
			return err
		}
	}
	if nodeCovPath != "" {
		if g.NodeCoverage, err = LoadScores(nodeCovPath); err != nil {
			return err
		}
	}
	if edgeCovPath != "" {
		if g.EdgeCoverage, err = LoadScores(edgeCovPath); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(dotPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(dotPath, []byte(g.Export()), 0644)
}
