// Package dispatch implements spec.md §2/§4.1's query-string decomposer:
// splitting a raw query string into key/value pairs and routing each key
// to the parser responsible for it.
package dispatch

import (
	"net/url"
	"strings"

	"github.com/queryforge/queryforge/internal/ast"
	"github.com/queryforge/queryforge/internal/filterparser"
	"github.com/queryforge/queryforge/internal/logicparser"
	"github.com/queryforge/queryforge/internal/orderparser"
	"github.com/queryforge/queryforge/internal/selectparser"
)

// reservedKeys are recognized as non-filter keys. on_conflict and columns
// are recognized but have no parser behavior in the core, per spec.md §9(a).
var reservedKeys = map[string]bool{
	"select":      true,
	"order":       true,
	"limit":       true,
	"offset":      true,
	"on_conflict": true,
	"columns":     true,
}

// ReservedKey reports whether key is one of the six reserved query-string
// keys (select, order, limit, offset, on_conflict, columns).
func ReservedKey(key string) bool {
	return reservedKeys[key]
}

// logicKeyOperator maps a top-level logic key to its LogicOperator and
// negation flag, or reports ok=false if key is not a logic key.
func logicKeyOperator(key string) (ast.LogicOperator, bool, bool) {
	switch key {
	case "and":
		return ast.LogicAnd, false, true
	case "or":
		return ast.LogicOr, false, true
	case "not.and":
		return ast.LogicAnd, true, true
	case "not.or":
		return ast.LogicOr, true, true
	}
	return "", false, false
}

// Parse decomposes a raw query string (without the leading "?") into a
// ParsedParams, dispatching each key to its sublanguage parser.
func Parse(rawQuery string) (*ast.ParsedParams, error) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, err
	}

	params := &ast.ParsedParams{}

	// Preserve a stable key order for determinism: url.Values is a map, so
	// sort keys lexically before iterating.
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sortStrings(keys)

	for _, key := range keys {
		for _, value := range values[key] {
			if err := dispatchOne(params, key, value); err != nil {
				return nil, err
			}
		}
	}

	return params, nil
}

func dispatchOne(params *ast.ParsedParams, key, value string) error {
	switch {
	case key == "select":
		items, err := selectparser.Parse(value)
		if err != nil {
			return err
		}
		params.Select = items
		params.HasSelect = true
		return nil

	case key == "order":
		terms, err := orderparser.Parse(value)
		if err != nil {
			return err
		}
		params.Order = terms
		return nil

	case key == "limit":
		n, ok := ast.ParseNonNegativeInt(value)
		if !ok {
			return ast.NewLimitNotNonNegative()
		}
		params.Limit = &n
		return nil

	case key == "offset":
		n, ok := ast.ParseNonNegativeInt(value)
		if !ok {
			return ast.NewOffsetNotNonNegative()
		}
		params.Offset = &n
		return nil

	case key == "on_conflict" || key == "columns":
		return nil

	default:
		if op, negated, ok := logicKeyOperator(key); ok {
			tree, err := logicparser.ParseTree(value, op, negated)
			if err != nil {
				return err
			}
			params.Filters = append(params.Filters, tree)
			return nil
		}

		filter, err := filterparser.Parse(key, value)
		if err != nil {
			return err
		}
		params.Filters = append(params.Filters, filter)
		return nil
	}
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && strings.Compare(s[j-1], s[j]) > 0; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
