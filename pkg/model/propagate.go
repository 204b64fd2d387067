package model

// PropagateInheritance copies visible parent members down the inheritance
// and implementation graph.
//
// For each class with INHERITANCE or IMPLEMENTATION parents, every
// non-private field and every non-private, non-constructor, non-destructor
// method of each parent is appended to the child unless the child already
// has a member with that name. Copies are marked Inherited with
// InheritedFrom set to the member's original owner, so a field that
// reached the parent by propagation keeps its original provenance when it
// travels further down.
//
// An own declaration on the child always shadows the parent's member; the
// inherited copy is never added and the own member is never replaced.
//
// The pass iterates to a fixpoint so multi-level chains propagate through
// intermediate classes regardless of iteration order. Each sweep can only
// move members one generation, so the fixpoint is reached after at most
// depth-of-hierarchy sweeps; the class count bounds that depth and guards
// against inheritance cycles in malformed input.
func PropagateInheritance(d *ClassDiagram) {
	maxSweeps := d.ClassCount()
	for sweep := 0; sweep < maxSweeps; sweep++ {
		changed := false
		for _, name := range d.ClassNames() {
			child, _ := d.Class(name)
			for _, parentName := range d.Parents(name) {
				parent, ok := d.Class(parentName)
				if !ok {
					continue
				}
				if propagateFrom(parent, child) {
					changed = true
				}
			}
		}
		if !changed {
			return
		}
	}
}

// propagateFrom copies visible members of parent into child and reports
// whether anything was added.
func propagateFrom(parent, child *ClassInfo) bool {
	changed := false

	for _, f := range parent.Fields {
		if f.Visibility == VisibilityPrivate || child.HasField(f.Name) {
			continue
		}
		copied := f
		copied.Inherited = true
		if !f.Inherited {
			copied.InheritedFrom = parent.Name
		}
		child.Fields = append(child.Fields, copied)
		changed = true
	}

	for _, m := range parent.Methods {
		if m.Visibility == VisibilityPrivate || child.HasMethod(m.Name) {
			continue
		}
		if isLifecycleMethod(m.Name, parent.Name) {
			continue
		}
		copied := m
		copied.Inherited = true
		if !m.Inherited {
			copied.InheritedFrom = parent.Name
		}
		child.Methods = append(child.Methods, copied)
		changed = true
	}

	return changed
}

// isLifecycleMethod reports whether the method is a constructor or
// destructor of the owning class. ECMAScript constructors are literally
// named "constructor"; C++ and C# constructors carry the class name, and
// C++ destructors the ~-prefixed class name.
func isLifecycleMethod(methodName, className string) bool {
	return methodName == "constructor" ||
		methodName == className ||
		methodName == "~"+className
}
