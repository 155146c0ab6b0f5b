package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestVariables(t *testing.T) {
	tree := &OpNode{
		Op: OpIf,
		Children: []Node{
			&OpNode{
				Op: OpAnd,
				Children: []Node{
					&OpNode{Op: OpGreaterThan, Children: []Node{&VarRef{Name: "amount"}, &NumberLit{Value: 10}}},
					&OpNode{Op: OpEqual, Children: []Node{&VarRef{Name: "currency"}, &StringLit{Value: "EUR"}}},
				},
			},
			&StringLit{Value: "DENY"},
			&OpNode{
				Op:       OpNot,
				Children: []Node{&VarRef{Name: "amount"}},
			},
		},
	}

	want := []string{"amount", "currency"}
	if diff := cmp.Diff(want, Variables(tree)); diff != "" {
		t.Errorf("Variables mismatch (-want +got):\n%s", diff)
	}

	if got := Variables(nil); len(got) != 0 {
		t.Errorf("Variables(nil) = %v, want empty", got)
	}
}

func TestWalkStopsOnError(t *testing.T) {
	tree := &OpNode{
		Op:       OpAnd,
		Children: []Node{&VarRef{Name: "a"}, &VarRef{Name: "b"}},
	}

	visited := 0
	sentinel := errStop{}
	err := Walk(tree, VisitorFunc(func(n Node) error {
		visited++
		if _, ok := n.(*VarRef); ok {
			return sentinel
		}
		return nil
	}))

	if err != sentinel {
		t.Fatalf("Walk error = %v, want sentinel", err)
	}
	if visited != 2 {
		t.Errorf("visited %d nodes before stopping, want 2", visited)
	}
}

type errStop struct{}

func (errStop) Error() string { return "stop" }
