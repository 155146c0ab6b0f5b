package engine

import (
	"sort"
	"strings"

	"arbiter-hq/arbiter/pkg/expr/ast"
)

// Resolver reconciles naming drift between the variables an expression
// references and the keys the caller actually supplied. It is advisory:
// aliasing is additive only, and a variable it cannot resolve is simply
// left missing for the evaluator's fail-closed path to handle.
//
// Resolution is deterministic for a given (expression, context) pair.
type Resolver struct {
	threshold float64
}

// NewResolver creates a resolver with the given minimum similarity
// threshold for the fuzzy fallback.
func NewResolver(threshold float64) *Resolver {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.4
	}
	return &Resolver{threshold: threshold}
}

// Resolve returns a context augmented with aliases for every variable the
// expression references but the context lacks verbatim. The input context
// is never mutated; original keys are never removed or renamed, and a
// variable already present is never re-aliased.
func (r *Resolver) Resolve(tree ast.Node, ctx map[string]any) map[string]any {
	referenced := ast.Variables(tree)

	var missing []string
	for _, name := range referenced {
		if _, ok := ctx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return ctx
	}

	keys := make([]string, 0, len(ctx))
	for key := range ctx {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	resolved := make(map[string]any, len(ctx)+len(missing))
	for key, value := range ctx {
		resolved[key] = value
	}

	for _, name := range missing {
		if key, ok := r.match(name, keys); ok {
			resolved[name] = ctx[key]
		}
	}

	return resolved
}

// match finds the context key to alias a missing variable from: first a
// substring match, then a similarity match above the threshold.
func (r *Resolver) match(name string, keys []string) (string, bool) {
	if key, ok := substringMatch(name, keys); ok {
		return key, true
	}
	return r.similarityMatch(name, keys)
}

// substringMatch looks for a key containing the variable name or vice
// versa, case-insensitively. Among multiple candidates the textually
// shortest wins: the least risk of grabbing an unrelated, longer compound
// key. Keys arrive sorted, so equal lengths resolve deterministically.
func substringMatch(name string, keys []string) (string, bool) {
	folded := strings.ToLower(name)

	best := ""
	for _, key := range keys {
		k := strings.ToLower(key)
		if !strings.Contains(k, folded) && !strings.Contains(folded, k) {
			continue
		}
		if best == "" || len(key) < len(best) {
			best = key
		}
	}
	return best, best != ""
}

// similarityMatch takes the single best key whose normalized edit-distance
// similarity clears the threshold. Keys arrive sorted, so ties resolve
// deterministically.
func (r *Resolver) similarityMatch(name string, keys []string) (string, bool) {
	best := ""
	bestScore := 0.0

	for _, key := range keys {
		score := similarity(strings.ToLower(name), strings.ToLower(key))
		if score >= r.threshold && score > bestScore {
			best = key
			bestScore = score
		}
	}
	return best, best != ""
}

// similarity normalizes Levenshtein distance to a 0..1 score.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshteinDistance(a, b))/float64(longest)
}

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	len1 := len(s1)
	len2 := len(s2)

	matrix := make([][]int, len1+1)
	for i := range matrix {
		matrix[i] = make([]int, len2+1)
	}

	for i := 0; i <= len1; i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len2; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len1; i++ {
		for j := 1; j <= len2; j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}

			matrix[i][j] = minOf(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len1][len2]
}

func minOf(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
