// Package logicparser implements spec.md §4.3: the boolean combinator
// grammar rooted at the "and"/"or"/"not.and"/"not.or" keys, including the
// balanced-paren comma splitter shared with nested combinators.
package logicparser

import (
	"strings"

	"github.com/queryforge/queryforge/internal/ast"
	"github.com/queryforge/queryforge/internal/filterparser"
)

// ParseTree parses value as the parenthesized condition list belonging to
// a top-level (or nested) logic key, producing a LogicTree with the given
// operator and negation flag.
func ParseTree(value string, op ast.LogicOperator, negated bool) (*ast.LogicTree, error) {
	inner, err := unwrapParens(value)
	if err != nil {
		return nil, err
	}

	items := splitTopLevel(inner)

	conditions := make([]ast.Condition, 0, len(items))
	for _, item := range items {
		cond, err := parseCondition(item)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, cond)
	}

	return &ast.LogicTree{Operator: op, Negated: negated, Conditions: conditions}, nil
}

// nestedLogicKeys lists the inline combinator prefixes a condition may
// open with, longest ("not.and"/"not.or") checked first so they aren't
// shadowed by "and"/"or".
var nestedLogicKeys = []struct {
	prefix   string
	op       ast.LogicOperator
	negated  bool
}{
	{"not.and(", ast.LogicAnd, true},
	{"not.or(", ast.LogicOr, true},
	{"and(", ast.LogicAnd, false},
	{"or(", ast.LogicOr, false},
}

// parseCondition parses one top-level comma-split item: a nested logic
// expression, or a filter clause in dot-notation or equals-notation.
func parseCondition(item string) (ast.Condition, error) {
	for _, k := range nestedLogicKeys {
		if strings.HasPrefix(item, k.prefix) {
			rest := item[len(k.prefix)-1:] // keep the leading "("
			return ParseTree(rest, k.op, k.negated)
		}
	}

	eqIdx := strings.IndexByte(item, '=')
	dotIdx := strings.IndexByte(item, '.')

	// Equals-notation only wins when its "=" precedes the first "." — a
	// dot-notation value may itself contain a literal "=" (e.g.
	// "name.eq.a=b"), which must not be mistaken for the key/value split.
	if eqIdx >= 0 && (dotIdx < 0 || eqIdx < dotIdx) {
		return filterparser.Parse(item[:eqIdx], item[eqIdx+1:])
	}

	if dotIdx < 0 {
		return nil, ast.NewInvalidFilterFormat(item)
	}
	return filterparser.Parse(item[:dotIdx], item[dotIdx+1:])
}

// unwrapParens validates that s is fully wrapped in a single balanced
// "(...)" pair and returns its interior.
func unwrapParens(s string) (string, error) {
	depth := 0
	closeAt := -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return "", ast.NewUnexpectedClosingParen()
			}
			if depth == 0 && closeAt < 0 {
				closeAt = i
			}
		}
	}
	if len(s) == 0 || s[0] != '(' {
		return "", ast.NewLogicMustBeParenthesized()
	}
	if depth != 0 {
		return "", ast.NewUnclosedParenthesisInLogic()
	}
	if closeAt != len(s)-1 {
		return "", ast.NewLogicMustBeParenthesized()
	}

	return s[1 : len(s)-1], nil
}

// splitTopLevel splits s at commas whose paren depth is zero, treating
// "(" / ")" as the only depth-affecting characters per spec.md §4.3.
func splitTopLevel(s string) []string {
	if s == "" {
		return nil
	}

	var items []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				items = append(items, s[start:i])
				start = i + 1
			}
		}
	}
	items = append(items, s[start:])
	return items
}
