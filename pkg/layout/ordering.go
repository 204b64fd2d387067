package layout

import (
	"sort"

	"github.com/classcanvas/classcanvas/pkg/model"
)

// OrderLevels orders each level in place: first by a composite key
// (descending links into the previous level, then descending inheritance
// children, then descending total degree, then interfaces before
// abstracts before concrete, then name), then a bounded pass of
// adjacent-pair swaps kept only when they reduce the inversion count
// against the previous level's ordering.
func OrderLevels(d *model.ClassDiagram, levels [][]string, cfg Config) {
	for i, level := range levels {
		var prev []string
		if i > 0 {
			prev = levels[i-1]
		}
		sortLevel(d, level, prev)
	}

	passes := cfg.OrderPasses
	if passes <= 0 {
		passes = 1
	}
	for pass := 0; pass < passes; pass++ {
		improved := false
		for i := 1; i < len(levels); i++ {
			if reduceInversions(d, levels[i], levels[i-1]) {
				improved = true
			}
		}
		if !improved {
			break
		}
	}
}

func sortLevel(d *model.ClassDiagram, level, prev []string) {
	prevPos := posMap(prev)

	key := func(name string) (int, int, int, int) {
		intoPrev := 0
		for _, p := range d.InheritanceParents(name) {
			if _, ok := prevPos[p]; ok {
				intoPrev++
			}
		}
		children := len(d.InheritanceChildren(name))
		degree := d.Degree(name)
		kind := 2
		if c, ok := d.Class(name); ok {
			switch {
			case c.Interface:
				kind = 0
			case c.Abstract:
				kind = 1
			}
		}
		return intoPrev, children, degree, kind
	}

	sort.SliceStable(level, func(a, b int) bool {
		ia, ca, da, ka := key(level[a])
		ib, cb, db, kb := key(level[b])
		if ia != ib {
			return ia > ib
		}
		if ca != cb {
			return ca > cb
		}
		if da != db {
			return da > db
		}
		if ka != kb {
			return ka < kb
		}
		return level[a] < level[b]
	})
}

// reduceInversions walks adjacent pairs once, swapping a pair whenever
// the swap lowers the number of edge inversions against the upper level.
// Reports whether any swap was kept.
func reduceInversions(d *model.ClassDiagram, level, upper []string) bool {
	if len(level) < 2 || len(upper) == 0 {
		return false
	}
	upperPos := posMap(upper)
	improved := false
	for i := 0; i+1 < len(level); i++ {
		before := pairInversions(d, level[i], level[i+1], upperPos)
		after := pairInversions(d, level[i+1], level[i], upperPos)
		if after < before {
			level[i], level[i+1] = level[i+1], level[i]
			improved = true
		}
	}
	return improved
}

// pairInversions counts, for two classes appearing left-right in a level,
// how many of left's parent positions in the upper level sit to the right
// of one of right's parent positions. This is the pairwise term of the
// Fenwick-tree inversion count specialized to a single adjacent pair.
func pairInversions(d *model.ClassDiagram, left, right string, upperPos map[string]int) int {
	lp := parentPositions(d, left, upperPos)
	rp := parentPositions(d, right, upperPos)
	inv := 0
	for _, a := range lp {
		for _, b := range rp {
			if a > b {
				inv++
			}
		}
	}
	return inv
}

func parentPositions(d *model.ClassDiagram, name string, upperPos map[string]int) []int {
	var out []int
	for _, p := range d.Parents(name) {
		if pos, ok := upperPos[p]; ok {
			out = append(out, pos)
		}
	}
	return out
}

// Inversions counts ordering inversions between one level and the level
// above it using a Fenwick tree, the same counting scheme the pairwise
// swap heuristic approximates locally. Exposed for tests and debugging.
func Inversions(d *model.ClassDiagram, level, upper []string) int {
	upperPos := posMap(upper)

	type edge struct{ child, parent int }
	var edges []edge
	for i, name := range level {
		for _, p := range d.Parents(name) {
			if pos, ok := upperPos[p]; ok {
				edges = append(edges, edge{i, pos})
			}
		}
	}
	if len(edges) < 2 {
		return 0
	}
	sort.Slice(edges, func(a, b int) bool {
		if edges[a].child != edges[b].child {
			return edges[a].child < edges[b].child
		}
		return edges[a].parent < edges[b].parent
	})

	fenwick := make([]int, len(upper)+1)
	inversions, total := 0, 0
	for _, e := range edges {
		lessOrEqual := 0
		for q := e.parent + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		inversions += total - lessOrEqual
		total++
		for idx := e.parent + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return inversions
}

func posMap(names []string) map[string]int {
	m := make(map[string]int, len(names))
	for i, n := range names {
		m[n] = i
	}
	return m
}
