package layout

import (
	"sort"

	"github.com/classcanvas/classcanvas/pkg/model"
)

// BuildLevels groups classes into ordered inheritance levels: level 0
// holds the roots (no inheritance parent among known classes) and each
// further level holds classes whose parents are all already placed.
//
// Classes untouched by inheritance edges are appended afterward:
// isolated interfaces merge into level 0 (or lead the result when there
// is none), then isolated abstract and concrete classes fill synthetic
// levels of at most cfg.IsolatedBatch each. The level count is capped at
// cfg.MaxLevels; anything still unplaced at the cap (cyclic inheritance)
// is swept into the isolated batches.
func BuildLevels(d *model.ClassDiagram, cfg Config) [][]string {
	connected := map[string]bool{}
	for _, r := range d.Relationships() {
		if r.Type != model.RelInheritance {
			continue
		}
		if d.HasClass(r.From) && d.HasClass(r.To) {
			connected[r.From] = true
			connected[r.To] = true
		}
	}

	placed := map[string]bool{}
	var levels [][]string

	for len(levels) < cfg.MaxLevels {
		var level []string
		for _, name := range d.ClassNames() {
			if placed[name] || !connected[name] {
				continue
			}
			if parentsPlaced(d, name, placed) {
				level = append(level, name)
			}
		}
		if len(level) == 0 {
			break
		}
		for _, name := range level {
			placed[name] = true
		}
		levels = append(levels, level)
	}

	// Leftovers: isolated classes, plus anything stranded by cycles or
	// the level cap.
	var interfaces, abstracts, concretes []string
	for _, name := range d.ClassNames() {
		if placed[name] {
			continue
		}
		c, _ := d.Class(name)
		switch {
		case c.Interface:
			interfaces = append(interfaces, name)
		case c.Abstract:
			abstracts = append(abstracts, name)
		default:
			concretes = append(concretes, name)
		}
	}
	sort.Strings(interfaces)
	sort.Strings(abstracts)
	sort.Strings(concretes)

	if len(interfaces) > 0 {
		if len(levels) == 0 {
			levels = append(levels, interfaces)
		} else {
			levels[0] = append(levels[0], interfaces...)
		}
	}

	rest := append(abstracts, concretes...)
	batch := cfg.IsolatedBatch
	if batch <= 0 {
		batch = 1
	}
	for len(rest) > 0 {
		n := batch
		if n > len(rest) {
			n = len(rest)
		}
		levels = append(levels, rest[:n])
		rest = rest[n:]
	}

	return levels
}

// parentsPlaced reports whether every known inheritance parent of the
// class is already placed. Unknown parents (edges into classes the
// diagram never saw) do not block placement.
func parentsPlaced(d *model.ClassDiagram, name string, placed map[string]bool) bool {
	for _, parent := range d.InheritanceParents(name) {
		if parent == name {
			continue
		}
		if d.HasClass(parent) && !placed[parent] {
			return false
		}
	}
	return true
}
