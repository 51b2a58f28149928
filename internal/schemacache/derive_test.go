package schemacache

import (
	"testing"

	"github.com/queryforge/queryforge/internal/ast"
)

func findRelationship(rels []ast.Relationship, sourceTable, targetTable string) (ast.Relationship, bool) {
	for _, r := range rels {
		if r.SourceTable == sourceTable && r.TargetTable == targetTable {
			return r, true
		}
	}
	return ast.Relationship{}, false
}

func TestDeriveRelationships_ManyToOneAndMirror(t *testing.T) {
	fks := []ForeignKey{
		{
			ConstraintName: "fk_orders_customer",
			SourceSchema:   "public", SourceTable: "orders", SourceColumns: []string{"customer_id"},
			TargetSchema: "public", TargetTable: "customers", TargetColumns: []string{"id"},
		},
	}
	uniques := []UniqueKey{{Schema: "public", Table: "customers", Columns: []string{"id"}}}

	rels := DeriveRelationships(fks, uniques)

	fwd, ok := findRelationship(rels, "orders", "customers")
	if !ok || fwd.Cardinality != ast.CardinalityManyToOne {
		t.Fatalf("forward relationship = %+v, ok=%v", fwd, ok)
	}

	mirror, ok := findRelationship(rels, "customers", "orders")
	if !ok || mirror.Cardinality != ast.CardinalityOneToMany {
		t.Fatalf("mirror relationship = %+v, ok=%v", mirror, ok)
	}
}

func TestDeriveRelationships_OneToOneWhenSourceColumnsAreUnique(t *testing.T) {
	fks := []ForeignKey{
		{
			ConstraintName: "fk_profile_user",
			SourceSchema:   "public", SourceTable: "profiles", SourceColumns: []string{"user_id"},
			TargetSchema: "public", TargetTable: "users", TargetColumns: []string{"id"},
		},
	}
	uniques := []UniqueKey{
		{Schema: "public", Table: "profiles", Columns: []string{"user_id"}},
		{Schema: "public", Table: "users", Columns: []string{"id"}},
	}

	rels := DeriveRelationships(fks, uniques)

	fwd, ok := findRelationship(rels, "profiles", "users")
	if !ok || fwd.Cardinality != ast.CardinalityOneToOne {
		t.Fatalf("forward relationship = %+v, ok=%v", fwd, ok)
	}
	mirror, ok := findRelationship(rels, "users", "profiles")
	if !ok || mirror.Cardinality != ast.CardinalityOneToOne {
		t.Fatalf("mirror relationship = %+v, ok=%v", mirror, ok)
	}
}

func TestDeriveRelationships_ManyToManyViaJunction(t *testing.T) {
	fks := []ForeignKey{
		{
			ConstraintName: "fk_post_tags_post",
			SourceSchema:   "public", SourceTable: "post_tags", SourceColumns: []string{"post_id"},
			TargetSchema: "public", TargetTable: "posts", TargetColumns: []string{"id"},
		},
		{
			ConstraintName: "fk_post_tags_tag",
			SourceSchema:   "public", SourceTable: "post_tags", SourceColumns: []string{"tag_id"},
			TargetSchema: "public", TargetTable: "tags", TargetColumns: []string{"id"},
		},
	}
	uniques := []UniqueKey{
		{Schema: "public", Table: "post_tags", Columns: []string{"post_id", "tag_id"}},
		{Schema: "public", Table: "posts", Columns: []string{"id"}},
		{Schema: "public", Table: "tags", Columns: []string{"id"}},
	}

	rels := DeriveRelationships(fks, uniques)

	m2m, ok := findRelationship(rels, "posts", "tags")
	if !ok {
		t.Fatalf("expected a posts -> tags m2m relationship among %+v", rels)
	}
	if m2m.Cardinality != ast.CardinalityManyToMany {
		t.Fatalf("Cardinality = %v", m2m.Cardinality)
	}
	if m2m.Junction == nil {
		t.Fatalf("Junction is nil")
	}
	if m2m.Junction.Table != "post_tags" {
		t.Errorf("Junction.Table = %q", m2m.Junction.Table)
	}
	if len(m2m.Junction.SourceColumns) != 1 || m2m.Junction.SourceColumns[0] != "post_id" {
		t.Errorf("Junction.SourceColumns = %+v", m2m.Junction.SourceColumns)
	}
	if len(m2m.Junction.TargetColumns) != 1 || m2m.Junction.TargetColumns[0] != "tag_id" {
		t.Errorf("Junction.TargetColumns = %+v", m2m.Junction.TargetColumns)
	}

	reverse, ok := findRelationship(rels, "tags", "posts")
	if !ok || reverse.Cardinality != ast.CardinalityManyToMany {
		t.Fatalf("reverse m2m relationship = %+v, ok=%v", reverse, ok)
	}
}

func TestDeriveRelationships_NoJunctionWithoutCombinedUniqueKey(t *testing.T) {
	fks := []ForeignKey{
		{
			ConstraintName: "fk_events_actor",
			SourceSchema:   "public", SourceTable: "events", SourceColumns: []string{"actor_id"},
			TargetSchema: "public", TargetTable: "users", TargetColumns: []string{"id"},
		},
		{
			ConstraintName: "fk_events_target",
			SourceSchema:   "public", SourceTable: "events", SourceColumns: []string{"target_id"},
			TargetSchema: "public", TargetTable: "users", TargetColumns: []string{"id"},
		},
	}
	// No unique key on (actor_id, target_id): events is a log table, not a
	// junction, so no m2m relationship should be derived between the two
	// foreign keys' targets even though both point at "users".
	uniques := []UniqueKey{{Schema: "public", Table: "users", Columns: []string{"id"}}}

	rels := DeriveRelationships(fks, uniques)
	if _, ok := findRelationship(rels, "users", "users"); ok {
		t.Fatal("expected no m2m relationship to be derived")
	}
}
