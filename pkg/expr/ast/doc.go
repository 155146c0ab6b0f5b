// Package ast defines the expression tree consumed by the expression
// evaluator.
//
// A tree is built from a small sum type: literals (boolean, string, number,
// null), variable references, and operator nodes with children. Both rule
// condition forms target this representation: the legacy
// "IF field op value THEN OUTCOME" strings are parsed into an equivalent
// tree, and JSON-Logic documents are decoded into it, so there is exactly
// one evaluation code path.
package ast
