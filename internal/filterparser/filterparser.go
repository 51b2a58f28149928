// Package filterparser implements spec.md §4.1: parsing a single
// key/value pair into an ast.Filter.
package filterparser

import (
	"strings"

	"github.com/queryforge/queryforge/internal/ast"
)

// Parse parses one key/value pair into a Filter. key is the field side
// (e.g. "data->>name" or "id::text"); value is the operator/value side
// (e.g. "not.eq(any).{1,2,3}").
func Parse(key, value string) (*ast.Filter, error) {
	field := ast.ParseField(key)
	if field.Name == "" {
		return nil, ast.NewEmptyFieldName()
	}

	negated := false
	rest := value
	if strings.HasPrefix(rest, "not.") {
		negated = true
		rest = rest[len("not."):]
	}

	opName, modifier, payload, err := splitOperatorValue(rest)
	if err != nil {
		return nil, err
	}

	op := ast.Operator(opName)
	if !ast.AllOperators[op] {
		return nil, ast.NewUnknownOperator(opName)
	}

	quantifier := ast.QuantifierNone
	ftsLang := ""

	if modifier != "" {
		switch {
		case ast.FTSOperators[op]:
			if modifier == "any" || modifier == "all" {
				return nil, ast.NewQuantifierNotSupported(op)
			}
			ftsLang = modifier
		case ast.ComparisonOperators[op]:
			if modifier != "any" && modifier != "all" {
				return nil, ast.NewQuantifierNotSupported(op)
			}
			quantifier = ast.Quantifier(modifier)
		default:
			return nil, ast.NewQuantifierNotSupported(op)
		}
	}

	filter := &ast.Filter{
		Field:      field,
		Operator:   op,
		Quantifier: quantifier,
		FTSLang:    ftsLang,
		Negated:    negated,
	}

	switch {
	case ast.ListOperators[op]:
		items, err := parseParenList(payload)
		if err != nil {
			return nil, err
		}
		filter.IsList = true
		filter.List = items
	case quantifier != ast.QuantifierNone:
		items, err := parseBraceList(payload)
		if err != nil {
			return nil, err
		}
		filter.IsList = true
		filter.List = items
	default:
		filter.Scalar = payload
	}

	return filter, nil
}

// splitOperatorValue splits "op(modifier).payload" or "op.payload" into
// its three parts.
func splitOperatorValue(s string) (op, modifier, payload string, err error) {
	i := 0
	for i < len(s) && s[i] >= 'a' && s[i] <= 'z' {
		i++
	}
	if i == 0 {
		return "", "", "", ast.NewMissingOperatorOrValue()
	}
	op = s[:i]
	rest := s[i:]

	if strings.HasPrefix(rest, "(") {
		close := strings.IndexByte(rest, ')')
		if close < 0 {
			return "", "", "", ast.NewMissingOperatorOrValue()
		}
		modifier = rest[1:close]
		rest = rest[close+1:]
	}

	if !strings.HasPrefix(rest, ".") {
		return "", "", "", ast.NewMissingOperatorOrValue()
	}
	payload = rest[1:]
	return op, modifier, payload, nil
}

// parseParenList parses the "(item,item,…)" shape required by in/ov.
func parseParenList(payload string) ([]string, error) {
	if !strings.HasPrefix(payload, "(") || !strings.HasSuffix(payload, ")") {
		return nil, ast.NewExpectedListFormat()
	}
	return splitListItems(payload[1 : len(payload)-1]), nil
}

// parseBraceList parses the "{item,item,…}" shape required by quantified
// comparison/pattern operators.
func parseBraceList(payload string) ([]string, error) {
	if !strings.HasPrefix(payload, "{") || !strings.HasSuffix(payload, "}") {
		return nil, ast.NewExpectedListFormat()
	}
	return splitListItems(payload[1 : len(payload)-1]), nil
}

// splitListItems splits inner at top-level commas, respecting double
// quoting with backslash-escaped quotes, and trims/unquotes each item.
// An empty inner string yields a single empty-string item.
func splitListItems(inner string) []string {
	if inner == "" {
		return []string{""}
	}

	var items []string
	var cur strings.Builder
	inQuote := false
	escaped := false

	flush := func() {
		items = append(items, unquoteItem(strings.TrimSpace(cur.String())))
		cur.Reset()
	}

	for _, r := range inner {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && inQuote:
			escaped = true
		case r == '"':
			inQuote = !inQuote
			cur.WriteRune(r)
		case r == ',' && !inQuote:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()

	return items
}

func unquoteItem(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		inner := s[1 : len(s)-1]
		inner = strings.ReplaceAll(inner, `\"`, `"`)
		return inner
	}
	return s
}
