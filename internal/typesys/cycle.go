package typesys

import "sort"

// AliasCycles finds declarations that can never resolve to a shape.
//
// Resolving an Inline follows the declaration's value through bare inline
// references, union members and object Rest chains until it reaches
// something structural. A declaration that reaches itself that way (for
// example `a = inline b`, `b = inline a | string`) would loop forever, so the
// evaluator treats every member of such a cycle as unknown.
//
// Recursion through attribute values or array elements is fine and is not
// reported: those positions are only resolved when a query reads them.
//
// The algorithm:
//  1. Build a declaration -> declaration graph from alias positions
//  2. Use Tarjan's algorithm to find strongly connected components
//  3. Report each SCC with size > 1 or a self-loop
//
// The result maps each cyclic declaration name to true.
func AliasCycles(s Schema) map[string]bool {
	cyclic := make(map[string]bool)
	for _, scc := range AliasComponents(s) {
		for _, name := range scc {
			cyclic[name] = true
		}
	}
	return cyclic
}

// AliasComponents returns the cycles AliasCycles reports, one sorted list
// of declaration names per cycle, ordered by first name.
func AliasComponents(s Schema) [][]string {
	graph := make(aliasGraph, len(s.Declarations))
	for _, d := range s.Declarations {
		graph[d.Name] = aliasEdges(d.Value, nil)
	}

	var out [][]string
	for _, scc := range tarjanSCC(graph) {
		if len(scc) > 1 || (len(scc) == 1 && hasSelfLoop(scc[0], graph)) {
			sort.Strings(scc)
			out = append(out, scc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// aliasGraph maps a declaration name to the declarations resolving it touches.
type aliasGraph map[string][]string

func aliasEdges(t Type, acc []string) []string {
	switch v := t.(type) {
	case Inline:
		return append(acc, v.Name)
	case Union:
		for _, m := range v.Of {
			acc = aliasEdges(m, acc)
		}
	case Object:
		if v.Rest != nil {
			acc = aliasEdges(v.Rest, acc)
		}
	}
	return acc
}

func hasSelfLoop(node string, graph aliasGraph) bool {
	for _, neighbor := range graph[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Nodes are visited in sorted order so results are deterministic.
func tarjanSCC(graph aliasGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, declared := graph[w]; !declared {
				// Dangling name: resolves to null, never loops.
				continue
			}
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	nodes := make([]string, 0, len(graph))
	for node := range graph {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	for _, node := range nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}
