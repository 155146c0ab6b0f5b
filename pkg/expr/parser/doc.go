// Package parser turns the two supported rule condition forms into
// expression trees.
//
// The legacy form is a single-line pattern:
//
//	IF <field> <op> <value> THEN <OUTCOME>
//
// with op in {>, <, >=, <=, ==, =, !=} (= is an alias for ==), a quoted
// string, bare token, or number as value, and a case-insensitive outcome
// token. It is parsed into the same tree shape a JSON-Logic "if" document
// decodes to, so the evaluator has a single code path.
//
// The structured form is a JSON-Logic style document restricted to the
// operators the engine supports: if, and, or, !, ==, !=, <, >, <=, >= and
// var references.
package parser
