package compiler

import (
	"fmt"

	"neplcore/internal/loader"
)

// topoOrder returns graph's nodes in dependency-first order: a node
// precedes every node that imports it, following Kahn's algorithm over
// the Dep edges exactly like the teacher's module DAG toposort, keyed on
// loader.ModuleID rather than the teacher's own ModuleID. The loader
// already rejects true cycles through include/import, so indegree always
// drains to zero.
func topoOrder(g *loader.Graph) []loader.ModuleID {
	indeg := make(map[loader.ModuleID]int, len(g.Nodes))
	dependents := make(map[loader.ModuleID][]loader.ModuleID, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, ok := indeg[n.ID]; !ok {
			indeg[n.ID] = 0
		}
		seen := make(map[loader.ModuleID]bool)
		for _, dep := range n.Deps {
			if seen[dep.ID] {
				continue
			}
			seen[dep.ID] = true
			indeg[n.ID]++
			dependents[dep.ID] = append(dependents[dep.ID], n.ID)
		}
	}

	var ready []loader.ModuleID
	for _, n := range g.Nodes {
		if indeg[n.ID] == 0 {
			ready = append(ready, n.ID)
		}
	}

	order := make([]loader.ModuleID, 0, len(g.Nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)
		for _, dep := range dependents[id] {
			indeg[dep]--
			if indeg[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if len(order) != len(g.Nodes) {
		panic(fmt.Sprintf("compiler: module graph has an unbroken cycle despite loader cycle detection (%d of %d nodes ordered)", len(order), len(g.Nodes)))
	}
	return order
}
