package dispatch

import (
	"testing"

	"github.com/queryforge/queryforge/internal/ast"
)

func TestReservedKey(t *testing.T) {
	for _, k := range []string{"select", "order", "limit", "offset", "on_conflict", "columns"} {
		if !ReservedKey(k) {
			t.Errorf("ReservedKey(%q) = false, want true", k)
		}
	}
	if ReservedKey("age") {
		t.Error("ReservedKey(\"age\") = true, want false")
	}
}

func TestParse_SelectOrderLimitOffset(t *testing.T) {
	params, err := Parse("select=id,name&order=id.desc&limit=10&offset=5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !params.HasSelect || len(params.Select) != 2 {
		t.Fatalf("Select = %+v", params.Select)
	}
	if len(params.Order) != 1 || params.Order[0].Direction != ast.OrderDesc {
		t.Fatalf("Order = %+v", params.Order)
	}
	if params.Limit == nil || *params.Limit != 10 {
		t.Fatalf("Limit = %v", params.Limit)
	}
	if params.Offset == nil || *params.Offset != 5 {
		t.Fatalf("Offset = %v", params.Offset)
	}
}

func TestParse_FilterFallthrough(t *testing.T) {
	params, err := Parse("age=gt.21")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(params.Filters) != 1 {
		t.Fatalf("Filters = %+v", params.Filters)
	}
	f, ok := params.Filters[0].(*ast.Filter)
	if !ok || f.Field.Name != "age" || f.Operator != ast.OpGt {
		t.Errorf("got %+v", params.Filters[0])
	}
}

func TestParse_LogicKeyRouting(t *testing.T) {
	params, err := Parse("or=(age.gt.21,age.lt.10)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(params.Filters) != 1 {
		t.Fatalf("Filters = %+v", params.Filters)
	}
	tree, ok := params.Filters[0].(*ast.LogicTree)
	if !ok || tree.Operator != ast.LogicOr || tree.Negated {
		t.Fatalf("got %+v", params.Filters[0])
	}
	if len(tree.Conditions) != 2 {
		t.Fatalf("Conditions = %+v", tree.Conditions)
	}
}

func TestParse_NegatedLogicKey(t *testing.T) {
	params, err := Parse("not.and=(age.gt.21,name.eq.bob)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tree := params.Filters[0].(*ast.LogicTree)
	if tree.Operator != ast.LogicAnd || !tree.Negated {
		t.Errorf("got %+v", tree)
	}
}

func TestParse_OnConflictAndColumnsAreNoOps(t *testing.T) {
	params, err := Parse("on_conflict=id&columns=id,name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(params.Filters) != 0 || params.HasSelect {
		t.Errorf("got %+v", params)
	}
}

func TestParse_InvalidLimit(t *testing.T) {
	if _, err := Parse("limit=-1"); err == nil {
		t.Fatal("expected error for negative limit")
	}
	if _, err := Parse("offset=abc"); err == nil {
		t.Fatal("expected error for non-numeric offset")
	}
}

func TestParse_DeterministicKeyOrder(t *testing.T) {
	params, err := Parse("zeta=eq.1&alpha=eq.2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(params.Filters) != 2 {
		t.Fatalf("Filters = %+v", params.Filters)
	}
	first := params.Filters[0].(*ast.Filter)
	if first.Field.Name != "alpha" {
		t.Errorf("expected alpha before zeta, got %q first", first.Field.Name)
	}
}
