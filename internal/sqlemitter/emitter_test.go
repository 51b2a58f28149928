package sqlemitter

import (
	"errors"
	"reflect"
	"testing"

	"github.com/queryforge/queryforge/internal/ast"
)

func ptrInt64(n int64) *int64 { return &n }

func TestEmit_FullQuery(t *testing.T) {
	params := &ast.ParsedParams{
		HasSelect: true,
		Select: []ast.SelectItem{
			{Kind: ast.SelectField, Name: "id"},
			{Kind: ast.SelectField, Name: "name"},
		},
		Filters: []ast.Condition{
			&ast.Filter{Field: ast.Field{Name: "age"}, Operator: ast.OpGt, Scalar: "21"},
		},
		Order: []ast.OrderTerm{
			{Field: ast.Field{Name: "name"}, Direction: ast.OrderAsc},
		},
		Limit:  ptrInt64(10),
		Offset: ptrInt64(0),
	}

	result, err := Emit("users", params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `SELECT "id", "name" FROM "users" WHERE "age" > $1 ORDER BY "name" LIMIT $2 OFFSET $3`
	if result.SQL != want {
		t.Errorf("got %q, want %q", result.SQL, want)
	}
	wantParams := []interface{}{int64(21), int64(10), int64(0)}
	if !reflect.DeepEqual(result.Params, wantParams) {
		t.Errorf("Params = %+v, want %+v", result.Params, wantParams)
	}
	if !reflect.DeepEqual(result.Tables, []string{"users"}) {
		t.Errorf("Tables = %+v", result.Tables)
	}
}

func TestEmit_NoSelectUsesStar(t *testing.T) {
	result, err := Emit("users", &ast.ParsedParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SQL != `SELECT * FROM "users"` {
		t.Errorf("got %q", result.SQL)
	}
}

func TestEmit_RejectsRelationItems(t *testing.T) {
	params := &ast.ParsedParams{
		HasSelect: true,
		Select:    []ast.SelectItem{{Kind: ast.SelectRelation, Name: "orders"}},
	}
	_, err := Emit("customers", params)
	if !errors.Is(err, ErrEmbeddingRequiresSchemaCache) {
		t.Fatalf("got %v, want ErrEmbeddingRequiresSchemaCache", err)
	}
}

type fakeLookup struct {
	rel ast.Relationship
}

func (f fakeLookup) FindRelationship(tenant, schema, source, target string) (ast.Relationship, error) {
	return f.rel, nil
}

func (f fakeLookup) FindRelationshipWithHint(tenant, schema, source, target, hint string) (ast.Relationship, error) {
	return f.rel, nil
}

func TestEmitWithRelations_OneToMany(t *testing.T) {
	lookup := fakeLookup{rel: ast.Relationship{
		SourceSchema: "public", SourceTable: "customers", SourceColumns: []string{"id"},
		TargetSchema: "public", TargetTable: "orders", TargetColumns: []string{"customer_id"},
		Cardinality:  ast.CardinalityOneToMany,
	}}

	params := &ast.ParsedParams{
		HasSelect: true,
		Select: []ast.SelectItem{
			{Kind: ast.SelectField, Name: "id"},
			{Kind: ast.SelectField, Name: "name"},
			{
				Kind: ast.SelectRelation, Name: "orders",
				Children: []ast.SelectItem{
					{Kind: ast.SelectField, Name: "id"},
					{Kind: ast.SelectField, Name: "total"},
				},
			},
		},
	}

	result, err := EmitWithRelations("tenant-1", "public", "customers", params, lookup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `SELECT "id", "name", "orders_0_agg"."orders_0" AS "orders" FROM "customers" ` +
		`LEFT JOIN LATERAL ( SELECT json_agg("orders_0") AS "orders_0" FROM "public"."orders" AS "orders_0" ` +
		`WHERE "customers"."id" = "orders_0"."customer_id" ) AS "orders_0_agg" ON true`
	if result.SQL != want {
		t.Errorf("got %q,\nwant %q", result.SQL, want)
	}
	if !reflect.DeepEqual(result.Tables, []string{"customers", "orders"}) {
		t.Errorf("Tables = %+v", result.Tables)
	}
}

func TestEmitWithRelations_ManyToOne(t *testing.T) {
	lookup := fakeLookup{rel: ast.Relationship{
		SourceSchema: "public", SourceTable: "orders", SourceColumns: []string{"customer_id"},
		TargetSchema: "public", TargetTable: "customers", TargetColumns: []string{"id"},
		Cardinality:  ast.CardinalityManyToOne,
	}}

	params := &ast.ParsedParams{
		HasSelect: true,
		Select: []ast.SelectItem{
			{Kind: ast.SelectField, Name: "id"},
			{Kind: ast.SelectRelation, Name: "customer", Children: []ast.SelectItem{{Kind: ast.SelectField, Name: "name"}}},
		},
	}

	result, err := EmitWithRelations("tenant-1", "public", "orders", params, lookup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `SELECT "id", "customer_0_agg"."customer_0" AS "customer" FROM "orders" ` +
		`LEFT JOIN LATERAL ( SELECT row_to_json("customer_0") AS "customer_0" FROM "public"."customers" AS "customer_0" ` +
		`WHERE "orders"."customer_id" = "customer_0"."id" LIMIT 1 ) AS "customer_0_agg" ON true`
	if result.SQL != want {
		t.Errorf("got %q,\nwant %q", result.SQL, want)
	}
}

func TestEmitFilterClause(t *testing.T) {
	params := &ast.ParsedParams{
		Filters: []ast.Condition{
			&ast.Filter{Field: ast.Field{Name: "age"}, Operator: ast.OpGt, Scalar: "21"},
			&ast.Filter{Field: ast.Field{Name: "name"}, Operator: ast.OpEq, Scalar: "bob"},
		},
	}
	result, err := EmitFilterClause(params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `"age" > $1 AND "name" = $2`
	if result.Clause != want {
		t.Errorf("got %q, want %q", result.Clause, want)
	}
	if len(result.Params) != 2 {
		t.Fatalf("Params = %+v", result.Params)
	}
}

func TestEmitFilterClause_NoLeadingWhereOrSelect(t *testing.T) {
	result, err := EmitFilterClause(&ast.ParsedParams{
		Filters: []ast.Condition{&ast.Filter{Field: ast.Field{Name: "x"}, Operator: ast.OpEq, Scalar: "1"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Clause != `"x" = $1` {
		t.Errorf("got %q", result.Clause)
	}
}
