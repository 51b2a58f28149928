package sqlemitter

import "github.com/queryforge/queryforge/internal/ast"

// FieldColumnSQL renders a field-kind SelectItem's projection, per
// spec.md §4.6 column emission rules. Callers are responsible for
// rejecting relation/spread items before calling this.
func FieldColumnSQL(item ast.SelectItem) string {
	var base string
	switch item.Hint.Kind {
	case ast.HintNone:
		if item.Name == "*" {
			base = "*"
		} else {
			base = QuoteIdent(item.Name)
		}
	case ast.HintCast:
		base = QuoteIdent(item.Name) + "::" + item.Hint.Cast
	case ast.HintJSONPath:
		base = ColumnPathSQL(item.Name, item.Hint.Path)
	case ast.HintJSONPathCast:
		base = ColumnPathSQL(item.Name, item.Hint.Path) + "::" + item.Hint.Cast
	}

	if item.Alias != "" {
		base += " AS " + QuoteIdent(item.Alias)
	}
	return base
}

// OrderTermSQL renders one ORDER BY term.
func OrderTermSQL(t ast.OrderTerm) string {
	s := ColumnPathSQL(t.Field.Name, t.Field.Path)
	if t.Direction == ast.OrderDesc {
		s += " DESC"
	}
	switch t.Nulls {
	case ast.NullsFirst:
		s += " NULLS FIRST"
	case ast.NullsLast:
		s += " NULLS LAST"
	}
	return s
}
