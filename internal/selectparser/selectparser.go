// Package selectparser implements spec.md §4.2: the recursive grammar for
// the select value, producing a tree of ast.SelectItem.
package selectparser

import (
	"strings"

	"github.com/queryforge/queryforge/internal/ast"
)

// Parse parses a select value into an ordered list of SelectItems. Empty
// input yields an empty list.
func Parse(value string) ([]ast.SelectItem, error) {
	return parseItemList(value)
}

func parseItemList(raw string) ([]ast.SelectItem, error) {
	texts, err := splitItems(raw)
	if err != nil {
		return nil, err
	}
	if texts == nil {
		return nil, nil
	}

	items := make([]ast.SelectItem, 0, len(texts))
	for _, t := range texts {
		item, err := parseItem(t)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// splitItems splits raw at top-level commas (those outside any "(...)"),
// trimming surrounding whitespace and allowing a single trailing comma.
// Two consecutive commas, or an unbalanced paren, is an error.
func splitItems(raw string) ([]string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
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
			if depth < 0 {
				return nil, ast.NewUnexpectedToken(")")
			}
		case ',':
			if depth == 0 {
				item := s[start:i]
				if strings.TrimSpace(item) == "" {
					return nil, ast.NewUnexpectedToken(",")
				}
				items = append(items, item)
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, ast.NewUnclosedParenthesis()
	}

	last := s[start:]
	if strings.TrimSpace(last) != "" {
		items = append(items, last)
	}

	return items, nil
}

func parseItem(raw string) (ast.SelectItem, error) {
	text := strings.TrimSpace(raw)

	spread := false
	if strings.HasPrefix(text, "...") {
		spread = true
		text = text[3:]
	}

	var core, childrenRaw string
	hasChildren := false
	if parenIdx := strings.IndexByte(text, '('); parenIdx >= 0 {
		if !strings.HasSuffix(text, ")") {
			return ast.SelectItem{}, ast.NewUnclosedParenthesis()
		}
		core = text[:parenIdx]
		childrenRaw = text[parenIdx+1 : len(text)-1]
		hasChildren = true
	} else {
		core = text
	}

	alias, rest := extractAlias(core)
	item := ast.SelectItem{Alias: alias}

	switch {
	case spread:
		item.Kind = ast.SelectSpread
		item.Name, item.RelationHint = splitRelationHint(rest)
	case hasChildren:
		item.Kind = ast.SelectRelation
		item.Name, item.RelationHint = splitRelationHint(rest)
	default:
		item.Kind = ast.SelectField
		f := ast.ParseField(rest)
		item.Name = f.Name
		switch {
		case f.Cast != "" && len(f.Path) > 0:
			item.Hint = ast.FieldHint{Kind: ast.HintJSONPathCast, Path: f.Path, Cast: f.Cast}
		case f.Cast != "":
			item.Hint = ast.FieldHint{Kind: ast.HintCast, Cast: f.Cast}
		case len(f.Path) > 0:
			item.Hint = ast.FieldHint{Kind: ast.HintJSONPath, Path: f.Path}
		}
	}

	if hasChildren {
		children, err := parseItemList(childrenRaw)
		if err != nil {
			return ast.SelectItem{}, err
		}
		item.Children = children
	}

	return item, nil
}

// extractAlias applies spec.md §4.2's alias-extraction rule: if a "::"
// cast token is present, the alias follows it (the first plain colon after
// the cast marks the boundary); otherwise the alias precedes the first
// colon. Returns ("", s) when no alias is present.
func extractAlias(s string) (alias, rest string) {
	if idx := strings.Index(s, "::"); idx >= 0 {
		afterCast := s[idx+2:]
		if j := strings.IndexByte(afterCast, ':'); j >= 0 {
			return afterCast[j+1:], s[:idx+2+j]
		}
		return "", s
	}
	if j := strings.IndexByte(s, ':'); j >= 0 {
		return s[:j], s[j+1:]
	}
	return "", s
}

// splitRelationHint splits a relation/spread core into its name and an
// optional "!hint" disambiguator.
func splitRelationHint(s string) (name, hint string) {
	if idx := strings.IndexByte(s, '!'); idx >= 0 {
		return s[:idx], s[idx+1:]
	}
	return s, ""
}
