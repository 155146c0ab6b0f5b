package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"arbiter-hq/arbiter/pkg/expr/ast"
)

func TestParseJSONLogic(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want ast.Node
	}{
		{
			name: "edge case shape",
			doc:  `{"if": [{">": [{"var": "amount"}, 1000]}, "REJECT", null]}`,
			want: &ast.OpNode{
				Op: ast.OpIf,
				Children: []ast.Node{
					&ast.OpNode{
						Op:       ast.OpGreaterThan,
						Children: []ast.Node{&ast.VarRef{Name: "amount"}, &ast.NumberLit{Value: 1000}},
					},
					&ast.StringLit{Value: "REJECT"},
					&ast.NullLit{},
				},
			},
		},
		{
			name: "main logic with both branches",
			doc:  `{"if": [{"==": [{"var": "tier"}, "gold"]}, "ASK_FOR_APPROVAL", "APPROVE"]}`,
			want: &ast.OpNode{
				Op: ast.OpIf,
				Children: []ast.Node{
					&ast.OpNode{
						Op:       ast.OpEqual,
						Children: []ast.Node{&ast.VarRef{Name: "tier"}, &ast.StringLit{Value: "gold"}},
					},
					&ast.StringLit{Value: "ASK_FOR_APPROVAL"},
					&ast.StringLit{Value: "APPROVE"},
				},
			},
		},
		{
			name: "strict equality folded",
			doc:  `{"===": [{"var": "status"}, "active"]}`,
			want: &ast.OpNode{
				Op:       ast.OpEqual,
				Children: []ast.Node{&ast.VarRef{Name: "status"}, &ast.StringLit{Value: "active"}},
			},
		},
		{
			name: "and of comparisons",
			doc:  `{"and": [{">": [{"var": "a"}, 1]}, {"<": [{"var": "b"}, 2]}]}`,
			want: &ast.OpNode{
				Op: ast.OpAnd,
				Children: []ast.Node{
					&ast.OpNode{Op: ast.OpGreaterThan, Children: []ast.Node{&ast.VarRef{Name: "a"}, &ast.NumberLit{Value: 1}}},
					&ast.OpNode{Op: ast.OpLessThan, Children: []ast.Node{&ast.VarRef{Name: "b"}, &ast.NumberLit{Value: 2}}},
				},
			},
		},
		{
			name: "not with bare argument",
			doc:  `{"!": {"var": "flagged"}}`,
			want: &ast.OpNode{
				Op:       ast.OpNot,
				Children: []ast.Node{&ast.VarRef{Name: "flagged"}},
			},
		},
		{
			name: "var with default array form",
			doc:  `{"var": ["amount", 0]}`,
			want: &ast.VarRef{Name: "amount"},
		},
		{
			name: "bare scalar",
			doc:  `true`,
			want: &ast.BoolLit{Value: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJSONLogic([]byte(tt.doc))
			if err != nil {
				t.Fatalf("ParseJSONLogic(%s) error: %v", tt.doc, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseJSONLogicErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"invalid json", `{"if": `},
		{"multi-key operator object", `{"==": [1, 1], ">": [2, 1]}`},
		{"unsupported operator", `{"max": [1, 2]}`},
		{"var without name", `{"var": 42}`},
		{"comparison arity", `{"==": [1]}`},
		{"bare not arity", `{"!": [1, 2]}`},
		{"if arity", `{"if": [true]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseJSONLogic([]byte(tt.doc)); err == nil {
				t.Errorf("ParseJSONLogic(%s) expected error, got nil", tt.doc)
			}
		})
	}
}
