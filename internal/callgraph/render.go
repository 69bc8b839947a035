package callgraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/emicklei/dot"
)

// Export renders the graph as Graphviz text: left-to-right, one cluster per
// class, coverage and ranking overlays applied.
func (g *Graph) Export() string {
	d := dot.NewGraph(dot.Directed)
	d.Attr("rankdir", "LR")
	d.Attr("ranksep", "1.8")
	d.Attr("nodesep", "0.1")
	d.Attr("overlap", "false")
	d.Attr("splines", "true")
	d.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "box")
		n.Attr("fontsize", "10")
	})

	clusters := g.Clusters()
	classes := make([]string, 0, len(clusters))
	for cls := range clusters {
		classes = append(classes, cls)
	}
	sort.Strings(classes)

	refs := make(map[string]dot.Node, len(g.Nodes))
	for _, cls := range classes {
		members := clusters[cls]
		sort.Strings(members)

		sub := d.Subgraph(cls, dot.ClusterOption{})
		sub.Attr("style", "rounded")
		if g.covered(members) {
			sub.Attr("color", "green")
			sub.Attr("fontcolor", "green")
		}
		for _, sig := range members {
			n := sub.Node(sig)
			n.Attr("label", g.nodeLabel(sig))
			if g.NodeCoverage[sig] > 0 {
				n.Attr("color", "green")
				n.Attr("fontcolor", "green")
			}
			refs[sig] = n
		}
	}

	for _, e := range g.Edges {
		edge := d.Edge(refs[e.From], refs[e.To])
		if e.Label != "" {
			edge.Attr("label", e.Label)
		}
		if g.EdgeCoverage[EdgeKey(e.From, e.To)] > 0 {
			edge.Attr("color", "green")
			edge.Attr("fontcolor", "green")
		}
	}
	return d.String()
}

// covered reports whether every member of a cluster has a positive coverage
// score, which turns the whole cluster border green.
func (g *Graph) covered(members []string) bool {
	if len(g.NodeCoverage) == 0 {
		return false
	}
	for _, sig := range members {
		if g.NodeCoverage[sig] <= 0 {
			return false
		}
	}
	return true
}

func (g *Graph) nodeLabel(sig string) string {
	simplified := SimplifySignature(sig)
	_, method, ok := strings.Cut(simplified, ".")
	if !ok {
		method = simplified
	}
	method = strings.ReplaceAll(method, "<init>", "constructor")
	if score, ok := g.Ranking[sig]; ok {
		return fmt.Sprintf("%s\n(%.4f)", method, score)
	}
	return method
}
