package sqlemitter

import (
	"fmt"
	"strings"

	"github.com/queryforge/queryforge/internal/ast"
)

// comparisonSymbols holds the positive/negated SQL operator symbol for
// the comparison and pattern operator group, per spec.md §4.6.1.
var comparisonSymbols = map[ast.Operator][2]string{
	ast.OpEq:     {"=", "<>"},
	ast.OpNeq:    {"<>", "="},
	ast.OpGt:     {">", "<="},
	ast.OpGte:    {">=", "<"},
	ast.OpLt:     {"<", ">="},
	ast.OpLte:    {"<=", ">"},
	ast.OpLike:   {"LIKE", "NOT LIKE"},
	ast.OpIlike:  {"ILIKE", "NOT ILIKE"},
	ast.OpMatch:  {"~", "!~"},
	ast.OpImatch: {"~*", "!~*"},
}

// prefixNotSymbols holds operators whose negated form is "NOT <expr>"
// rather than an algebraic flip.
var prefixNotSymbols = map[ast.Operator]string{
	ast.OpCs:  "@>",
	ast.OpCd:  "<@",
	ast.OpOv:  "&&",
	ast.OpSl:  "<<",
	ast.OpSr:  ">>",
	ast.OpNxl: "&<",
	ast.OpNxr: "&>",
	ast.OpAdj: "-|-",
}

var ftsFunctions = map[ast.Operator]string{
	ast.OpFts:   "to_tsquery",
	ast.OpPlfts: "plainto_tsquery",
	ast.OpPhfts: "phraseto_tsquery",
	ast.OpWfts:  "websearch_to_tsquery",
}

// isForms maps an `is` payload to its positive/negated SQL form.
var isForms = map[string][2]string{
	"null":     {"IS NULL", "IS NOT NULL"},
	"not_null": {"IS NOT NULL", "IS NULL"},
	"true":     {"IS TRUE", "IS NOT TRUE"},
	"false":    {"IS FALSE", "IS NOT FALSE"},
	"unknown":  {"IS UNKNOWN", "IS NOT UNKNOWN"},
}

// LowerCondition lowers a Filter or LogicTree to its SQL text.
func LowerCondition(c ast.Condition, params *ParamList) (string, error) {
	switch v := c.(type) {
	case *ast.Filter:
		return LowerFilter(v, params)
	case *ast.LogicTree:
		return LowerLogicTree(v, params)
	default:
		return "", fmt.Errorf("sqlemitter: unknown condition type %T", c)
	}
}

// LowerLogicTree renders "(child1 AND child2 …)" or "(child1 OR child2 …)"
// per spec.md §4.6, wrapping in NOT (…) when negated.
func LowerLogicTree(t *ast.LogicTree, params *ParamList) (string, error) {
	joiner := " AND "
	if t.Operator == ast.LogicOr {
		joiner = " OR "
	}

	parts := make([]string, 0, len(t.Conditions))
	for _, c := range t.Conditions {
		s, err := LowerCondition(c, params)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}

	result := "(" + strings.Join(parts, joiner) + ")"
	if t.Negated {
		result = "NOT " + result
	}
	return result, nil
}

// LowerFilter lowers a single Filter per the operator-lowering table in
// spec.md §4.6.1.
func LowerFilter(f *ast.Filter, params *ParamList) (string, error) {
	fieldSQL := ColumnPathSQL(f.Field.Name, f.Field.Path)

	if f.Operator == ast.OpIs {
		forms, ok := isForms[f.Scalar]
		if !ok {
			return "", ast.NewInvalidIsPayload(f.Scalar)
		}
		form := forms[0]
		if f.Negated {
			form = forms[1]
		}
		return fieldSQL + " " + form, nil
	}

	if fn, ok := ftsFunctions[f.Operator]; ok {
		idx := params.Add(CoerceScalar(f.Scalar))
		var call string
		if f.FTSLang != "" {
			call = fmt.Sprintf("%s('%s', $%d)", fn, escapeLiteral(f.FTSLang), idx)
		} else {
			call = fmt.Sprintf("%s($%d)", fn, idx)
		}
		expr := fmt.Sprintf("%s @@ %s", fieldSQL, call)
		if f.Negated {
			expr = "NOT " + expr
		}
		return expr, nil
	}

	if sym, ok := comparisonSymbols[f.Operator]; ok {
		if f.Quantifier != ast.QuantifierNone {
			idx := params.Add(CoerceList(f.List))
			expr := fmt.Sprintf("%s %s %s($%d)", fieldSQL, sym[0], quantifierKeyword(f.Quantifier), idx)
			if f.Negated {
				expr = "NOT " + expr
			}
			return expr, nil
		}

		idx := params.Add(CoerceScalar(f.Scalar))
		symbol := sym[0]
		if f.Negated {
			symbol = sym[1]
		}
		return fmt.Sprintf("%s %s $%d", fieldSQL, symbol, idx), nil
	}

	if f.Operator == ast.OpIn {
		idx := params.Add(CoerceList(f.List))
		if f.Negated {
			return fmt.Sprintf("%s NOT = ANY($%d)", fieldSQL, idx), nil
		}
		return fmt.Sprintf("%s = ANY($%d)", fieldSQL, idx), nil
	}

	if symbol, ok := prefixNotSymbols[f.Operator]; ok {
		var idx int
		if f.Operator == ast.OpOv {
			idx = params.Add(CoerceList(f.List))
		} else {
			idx = params.Add(CoerceScalar(f.Scalar))
		}
		expr := fmt.Sprintf("%s %s $%d", fieldSQL, symbol, idx)
		if f.Negated {
			expr = "NOT " + expr
		}
		return expr, nil
	}

	return "", ast.NewUnknownOperator(string(f.Operator))
}

func quantifierKeyword(q ast.Quantifier) string {
	if q == ast.QuantifierAll {
		return "ALL"
	}
	return "ANY"
}

