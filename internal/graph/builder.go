package graph

import (
	"path"
	"sort"

	"github.com/goliatone/go-notegraph/internal/markdown"
	"github.com/goliatone/go-notegraph/internal/nodes"
)

// Build assembles a parse result into a Graph. The build is best-effort:
// duplicate ids and unresolvable references are recorded, never fatal, so
// the rule checker can report every problem in one pass.
func Build(result *nodes.ParseResult) *Graph {
	g := &Graph{
		byID:      map[string]*nodes.Node{},
		outgoing:  map[string][]Edge{},
		incoming:  map[string][]Edge{},
		edgeIndex: map[[2]string]bool{},
	}
	if result == nil {
		return g
	}

	g.files = result.Files
	g.failures = append(g.failures, result.Failures...)

	byPath := make(map[string]string, len(result.Nodes))
	collisions := map[string][]string{}

	// First pass: claim id slots. Input is sorted by path, so the first
	// claimant is stable across runs.
	for _, node := range result.Nodes {
		if node.ID == "" {
			continue
		}
		if existing, taken := g.byID[node.ID]; taken {
			if len(collisions[node.ID]) == 0 {
				collisions[node.ID] = append(collisions[node.ID], existing.Path)
			}
			collisions[node.ID] = append(collisions[node.ID], node.Path)
			continue
		}
		g.byID[node.ID] = node
		byPath[node.Path] = node.ID
	}

	for id, paths := range collisions {
		g.duplicates = append(g.duplicates, Duplicate{ID: id, Paths: paths})
	}
	sort.Slice(g.duplicates, func(i, j int) bool {
		return g.duplicates[i].ID < g.duplicates[j].ID
	})

	// Second pass: resolve references. Shadowed duplicates contribute no
	// edges; they are not part of the graph.
	for _, id := range sortedIDs(g.byID) {
		node := g.byID[id]
		for _, link := range node.Links {
			g.addRef(node, byPath, link)
		}
		for _, related := range node.Related {
			g.addIDRef(node, related)
		}
		for _, task := range node.Tasks {
			g.addIDRef(node, task)
		}
		g.ids = append(g.ids, id)
	}

	sort.Slice(g.broken, func(i, j int) bool {
		if g.broken[i].FromPath != g.broken[j].FromPath {
			return g.broken[i].FromPath < g.broken[j].FromPath
		}
		return g.broken[i].Ref < g.broken[j].Ref
	})

	return g
}

func (g *Graph) addRef(from *nodes.Node, byPath map[string]string, link markdown.LinkRef) {
	switch link.Kind {
	case markdown.LinkKindID:
		g.addIDRef(from, link.Target)
	case markdown.LinkKindPath:
		target := path.Clean(path.Join(path.Dir(from.Path), link.Target))
		if id, ok := byPath[target]; ok {
			g.addEdge(from.ID, id, link.Target)
			return
		}
		g.broken = append(g.broken, BrokenRef{
			FromID:   from.ID,
			FromPath: from.Path,
			Ref:      link.Target,
		})
	}
}

func (g *Graph) addIDRef(from *nodes.Node, target string) {
	if target == "" {
		return
	}
	if _, ok := g.byID[target]; ok {
		g.addEdge(from.ID, target, target)
		return
	}
	g.broken = append(g.broken, BrokenRef{
		FromID:   from.ID,
		FromPath: from.Path,
		Ref:      target,
	})
}

func (g *Graph) addEdge(from, to, ref string) {
	edge := Edge{From: from, To: to, Ref: ref}
	g.outgoing[from] = append(g.outgoing[from], edge)
	g.incoming[to] = append(g.incoming[to], edge)
	g.edgeIndex[[2]string{from, to}] = true
}

func sortedIDs(byID map[string]*nodes.Node) []string {
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
