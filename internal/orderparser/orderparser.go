// Package orderparser implements spec.md §4.4: parsing the order value
// into an ordered list of ast.OrderTerm.
package orderparser

import (
	"strings"

	"github.com/queryforge/queryforge/internal/ast"
)

// Parse parses a comma-separated order value. Empty input yields an empty
// list.
func Parse(value string) ([]ast.OrderTerm, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return nil, nil
	}

	raw := strings.Split(s, ",")
	terms := make([]ast.OrderTerm, 0, len(raw))
	for _, t := range raw {
		term, err := parseTerm(strings.TrimSpace(t))
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	return terms, nil
}

func direction(s string) (ast.OrderDirection, bool) {
	switch s {
	case "asc":
		return ast.OrderAsc, true
	case "desc":
		return ast.OrderDesc, true
	}
	return "", false
}

func nullsPlacement(s string) (ast.NullsPlacement, bool) {
	switch s {
	case "nullsfirst":
		return ast.NullsFirst, true
	case "nullslast":
		return ast.NullsLast, true
	}
	return "", false
}

// parseTerm parses one "field[.direction][.nulls-option]" term. Direction
// and nulls-option may appear in either order when only one is present;
// when both are present, direction must precede nulls-option.
func parseTerm(term string) (ast.OrderTerm, error) {
	parts := strings.Split(term, ".")
	n := len(parts)
	if n == 0 || term == "" {
		return ast.OrderTerm{}, ast.NewInvalidOrderOptions(term)
	}

	dir := ast.OrderAsc
	nulls := ast.NullsDefault
	consumed := 0

	if nu, ok := nullsPlacement(parts[n-1]); ok {
		nulls = nu
		consumed = 1
		if n >= 2 {
			if d, ok := direction(parts[n-2]); ok {
				dir = d
				consumed = 2
			}
		}
	} else if d, ok := direction(parts[n-1]); ok {
		dir = d
		consumed = 1
	}

	if n-consumed < 1 {
		return ast.OrderTerm{}, ast.NewInvalidOrderOptions(term)
	}

	fieldStr := strings.Join(parts[:n-consumed], ".")
	if fieldStr == "" {
		return ast.OrderTerm{}, ast.NewInvalidOrderOptions(term)
	}

	f := ast.ParseField(fieldStr)
	return ast.OrderTerm{
		Field:     ast.Field{Name: f.Name, Path: f.Path},
		Direction: dir,
		Nulls:     nulls,
	}, nil
}
