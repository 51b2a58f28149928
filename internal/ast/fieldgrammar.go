package ast

import (
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// fieldExprLexer tokenizes the strict form of a key's field side:
// `name(->|->>)*(::cast)?`. It mirrors the teacher's participle-based
// logchefql grammar (internal/logchefql/grammar.go), narrowed to the
// strict identifier alphabet `[A-Za-z0-9_]` that spec.md §3 requires.
var fieldExprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "DoubleArrow", Pattern: `->>`},
	{Name: "Arrow", Pattern: `->`},
	{Name: "Cast", Pattern: `::`},
	{Name: "Ident", Pattern: `[A-Za-z0-9_]+`},
})

// pFieldExpr is the participle grammar for a strict field expression.
type pFieldExpr struct {
	Name  string      `parser:"@Ident"`
	Steps []*pPathStep `parser:"@@*"`
	Cast  *string     `parser:"( Cast @Ident )?"`
}

type pPathStep struct {
	Double *string `parser:"( DoubleArrow @Ident"`
	Single *string `parser:"| Arrow @Ident )"`
}

var fieldExprParser = participle.MustBuild[pFieldExpr](
	participle.Lexer(fieldExprLexer),
)

// ParseStrictFieldExpr parses the strict grammar of a field-expression via
// a participle combinator grammar. It fails (ok=false) on any input that
// doesn't fully match — callers fall back to ParsePermissiveField.
func ParseStrictFieldExpr(s string) (Field, bool) {
	parsed, err := fieldExprParser.ParseString("", s)
	if err != nil || parsed == nil {
		return Field{}, false
	}

	var steps []PathStep
	for _, step := range parsed.Steps {
		switch {
		case step.Double != nil:
			key := *step.Double
			if isAllDigits(key) {
				steps = append(steps, PathStep{Kind: StepArrayIndex, Index: atoiSafe(key)})
			} else {
				steps = append(steps, PathStep{Kind: StepDoubleArrow, Key: key})
			}
		case step.Single != nil:
			key := *step.Single
			if isAllDigits(key) {
				steps = append(steps, PathStep{Kind: StepArrayIndex, Index: atoiSafe(key)})
			} else {
				steps = append(steps, PathStep{Kind: StepArrow, Key: key})
			}
		}
	}

	cast := ""
	if parsed.Cast != nil {
		cast = *parsed.Cast
	}

	return Field{Name: parsed.Name, Path: steps, Cast: cast}, true
}

// ParseField parses a field expression, trying the strict grammar first
// and falling back to the permissive form on failure, per spec.md §4.1
// and §9 ("Permissive fallback").
func ParseField(s string) Field {
	if f, ok := ParseStrictFieldExpr(s); ok {
		return f
	}
	return ParsePermissiveField(s)
}

// ParseNonNegativeInt parses a non-negative integer string for limit/offset,
// per spec.md §9(b): fractional or scientific notation is rejected.
func ParseNonNegativeInt(s string) (int64, bool) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
