// Package sqlemitter implements spec.md §4.6: lowering a ParsedParams
// plus a target table into parameterized SQL text.
package sqlemitter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/queryforge/queryforge/internal/ast"
)

// QuoteIdent wraps s in double quotes, doubling any embedded quote, per
// spec.md §8 property 2.
func QuoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func escapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// ColumnPathSQL renders a base identifier plus its JSON path steps, per
// spec.md §8 property 6.
func ColumnPathSQL(name string, path []ast.PathStep) string {
	var b strings.Builder
	b.WriteString(QuoteIdent(name))
	for _, step := range path {
		switch step.Kind {
		case ast.StepArrow:
			b.WriteString("->'")
			b.WriteString(escapeLiteral(step.Key))
			b.WriteString("'")
		case ast.StepDoubleArrow:
			b.WriteString("->>'")
			b.WriteString(escapeLiteral(step.Key))
			b.WriteString("'")
		case ast.StepArrayIndex:
			fmt.Fprintf(&b, "->%d", step.Index)
		}
	}
	return b.String()
}

// CoerceScalar implements spec.md §6's parameter-coercion rule: integer-
// parseable strings become integers; decimal-parseable strings become a
// decimal.Decimal; otherwise the original string is kept.
func CoerceScalar(s string) interface{} {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return d
	}
	return s
}

// CoerceList coerces each item of a list-shaped filter value (in, ov,
// quantified comparison/pattern), to be bound as a single array parameter.
func CoerceList(items []string) []interface{} {
	out := make([]interface{}, len(items))
	for i, it := range items {
		out[i] = CoerceScalar(it)
	}
	return out
}

// ParamList accumulates positional parameters in emission order.
type ParamList struct {
	Values []interface{}
}

// Add appends v and returns its 1-based "$n" position.
func (p *ParamList) Add(v interface{}) int {
	p.Values = append(p.Values, v)
	return len(p.Values)
}
