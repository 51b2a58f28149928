package filterparser

import (
	"testing"

	"github.com/queryforge/queryforge/internal/ast"
)

func TestParse_Scalar(t *testing.T) {
	f, err := Parse("age", "gt.21")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Field.Name != "age" || f.Operator != ast.OpGt || f.Negated || f.Scalar != "21" {
		t.Errorf("got %+v", f)
	}
}

func TestParse_Negated(t *testing.T) {
	f, err := Parse("age", "not.gt.21")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.Negated || f.Operator != ast.OpGt || f.Scalar != "21" {
		t.Errorf("got %+v", f)
	}
}

func TestParse_Quantifier(t *testing.T) {
	f, err := Parse("age", "gt(any).{18,21,65}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Quantifier != ast.QuantifierAny {
		t.Errorf("Quantifier = %q, want any", f.Quantifier)
	}
	if !f.IsList || len(f.List) != 3 || f.List[1] != "21" {
		t.Errorf("List = %+v", f.List)
	}
}

func TestParse_QuantifierRejectedForNonComparison(t *testing.T) {
	if _, err := Parse("tags", "cs(any).{a,b}"); err == nil {
		t.Fatal("expected error for quantifier on a non-comparison operator")
	}
}

func TestParse_FTSLanguage(t *testing.T) {
	f, err := Parse("body", "fts(english).cats")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Operator != ast.OpFts || f.FTSLang != "english" || f.Scalar != "cats" {
		t.Errorf("got %+v", f)
	}
}

func TestParse_FTSRejectsQuantifier(t *testing.T) {
	if _, err := Parse("body", "fts(any).cats"); err == nil {
		t.Fatal("expected error: fts does not accept a quantifier")
	}
}

func TestParse_InList(t *testing.T) {
	f, err := Parse("id", "in.(1,2,3)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Operator != ast.OpIn || !f.IsList || len(f.List) != 3 {
		t.Errorf("got %+v", f)
	}
}

func TestParse_OvList(t *testing.T) {
	f, err := Parse("ranges", "ov.(1,10)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Operator != ast.OpOv || !f.IsList || len(f.List) != 2 {
		t.Errorf("got %+v", f)
	}
}

func TestParse_QuotedListItemWithEscapedQuoteAndComma(t *testing.T) {
	f, err := Parse("name", `in.("a,b","c\"d")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"a,b", `c"d`}
	if len(f.List) != 2 || f.List[0] != want[0] || f.List[1] != want[1] {
		t.Errorf("List = %+v, want %+v", f.List, want)
	}
}

func TestParse_PrefixNotOperator(t *testing.T) {
	f, err := Parse("tags", "cs.{a,b}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Operator != ast.OpCs || f.Scalar != "{a,b}" {
		t.Errorf("got %+v", f)
	}
}

func TestParse_IsPayloadPassedThroughAsScalar(t *testing.T) {
	f, err := Parse("deleted_at", "is.null")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Operator != ast.OpIs || f.Scalar != "null" {
		t.Errorf("got %+v", f)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown operator", "id", "bogus.1"},
		{"missing operator or value", "id", ""},
		{"missing payload after operator", "id", "eq"},
		{"empty field name", "", "eq.1"},
		{"expected paren list for in", "id", "in.1,2,3"},
		{"expected brace list for quantified comparison", "id", "eq(any).1,2,3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.key, tt.value); err == nil {
				t.Fatalf("expected error for key=%q value=%q", tt.key, tt.value)
			}
		})
	}
}

func TestSplitListItems_EmptyInner(t *testing.T) {
	items := splitListItems("")
	if len(items) != 1 || items[0] != "" {
		t.Errorf("got %+v, want a single empty item", items)
	}
}
