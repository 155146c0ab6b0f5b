package ast

import "sort"

// Visitor is called for each node during a Walk traversal.
type Visitor interface {
	Visit(Node) error
}

// VisitorFunc adapts a plain function to the Visitor interface.
type VisitorFunc func(Node) error

// Visit calls f(n).
func (f VisitorFunc) Visit(n Node) error { return f(n) }

// Walk traverses the tree depth-first, pre-order, calling the visitor for
// every node. It returns the first error encountered.
func Walk(n Node, v Visitor) error {
	if n == nil {
		return nil
	}
	if err := v.Visit(n); err != nil {
		return err
	}
	if op, ok := n.(*OpNode); ok {
		for _, child := range op.Children {
			if err := Walk(child, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// Variables returns the names of all variables referenced anywhere in the
// tree, recursing through every nested operator. Names are de-duplicated
// and sorted for determinism.
func Variables(n Node) []string {
	seen := make(map[string]bool)
	_ = Walk(n, VisitorFunc(func(node Node) error {
		if ref, ok := node.(*VarRef); ok {
			seen[ref.Name] = true
		}
		return nil
	}))

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
