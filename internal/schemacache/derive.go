package schemacache

import "github.com/queryforge/queryforge/internal/ast"

// ForeignKey is one raw foreign-key row from the database catalog: the
// source side holds the constraint, the target side is referenced.
type ForeignKey struct {
	ConstraintName string

	SourceSchema  string
	SourceTable   string
	SourceColumns []string

	TargetSchema  string
	TargetTable   string
	TargetColumns []string
}

// UniqueKey is one raw primary or unique key row from the database
// catalog.
type UniqueKey struct {
	Schema  string
	Table   string
	Columns []string
}

// DeriveRelationships implements spec.md §4.5's cardinality-derivation
// algorithm: each foreign key yields an m2o (or o2o) Relationship and its
// mirror, and pairs of foreign keys on a junction table yield m2m
// Relationships in both directions.
func DeriveRelationships(fks []ForeignKey, uniques []UniqueKey) []ast.Relationship {
	var result []ast.Relationship

	for _, fk := range fks {
		card := ast.CardinalityManyToOne
		if colsWithinSomeKey(fk.SourceColumns, uniques, fk.SourceSchema, fk.SourceTable) {
			card = ast.CardinalityOneToOne
		}

		forward := ast.Relationship{
			ConstraintName: fk.ConstraintName,
			SourceSchema:   fk.SourceSchema,
			SourceTable:    fk.SourceTable,
			SourceColumns:  fk.SourceColumns,
			TargetSchema:   fk.TargetSchema,
			TargetTable:    fk.TargetTable,
			TargetColumns:  fk.TargetColumns,
			Cardinality:    card,
		}
		result = append(result, forward)

		mirrorCard := ast.CardinalityOneToMany
		if card == ast.CardinalityOneToOne {
			mirrorCard = ast.CardinalityOneToOne
		}
		result = append(result, ast.Relationship{
			ConstraintName: fk.ConstraintName,
			SourceSchema:   fk.TargetSchema,
			SourceTable:    fk.TargetTable,
			SourceColumns:  fk.TargetColumns,
			TargetSchema:   fk.SourceSchema,
			TargetTable:    fk.SourceTable,
			TargetColumns:  fk.SourceColumns,
			Cardinality:    mirrorCard,
		})
	}

	result = append(result, deriveManyToMany(fks, uniques)...)
	return result
}

func deriveManyToMany(fks []ForeignKey, uniques []UniqueKey) []ast.Relationship {
	byTable := make(map[tableKey][]ForeignKey)
	for _, fk := range fks {
		key := tableKey{fk.SourceSchema, fk.SourceTable}
		byTable[key] = append(byTable[key], fk)
	}

	var result []ast.Relationship
	for key, list := range byTable {
		if len(list) < 2 {
			continue
		}
		for i := 0; i < len(list); i++ {
			for j := i + 1; j < len(list); j++ {
				fk1, fk2 := list[i], list[j]
				union := append(append([]string{}, fk1.SourceColumns...), fk2.SourceColumns...)
				if !someKeyWithinUnion(union, uniques, key.schema, key.table) {
					continue
				}

				result = append(result,
					ast.Relationship{
						ConstraintName: fk1.ConstraintName + "+" + fk2.ConstraintName,
						SourceSchema:   fk1.TargetSchema,
						SourceTable:    fk1.TargetTable,
						SourceColumns:  fk1.TargetColumns,
						TargetSchema:   fk2.TargetSchema,
						TargetTable:    fk2.TargetTable,
						TargetColumns:  fk2.TargetColumns,
						Cardinality:    ast.CardinalityManyToMany,
						Junction: &ast.Junction{
							Schema:           key.schema,
							Table:            key.table,
							SourceColumns:    fk1.SourceColumns,
							TargetColumns:    fk2.SourceColumns,
							SourceConstraint: fk1.ConstraintName,
							TargetConstraint: fk2.ConstraintName,
						},
					},
					ast.Relationship{
						ConstraintName: fk2.ConstraintName + "+" + fk1.ConstraintName,
						SourceSchema:   fk2.TargetSchema,
						SourceTable:    fk2.TargetTable,
						SourceColumns:  fk2.TargetColumns,
						TargetSchema:   fk1.TargetSchema,
						TargetTable:    fk1.TargetTable,
						TargetColumns:  fk1.TargetColumns,
						Cardinality:    ast.CardinalityManyToMany,
						Junction: &ast.Junction{
							Schema:           key.schema,
							Table:            key.table,
							SourceColumns:    fk2.SourceColumns,
							TargetColumns:    fk1.SourceColumns,
							SourceConstraint: fk2.ConstraintName,
							TargetConstraint: fk1.ConstraintName,
						},
					},
				)
			}
		}
	}
	return result
}

// colsWithinSomeKey reports whether cols is a subset of some primary/
// unique key's column set on (schema, table) — the o2o test.
func colsWithinSomeKey(cols []string, uniques []UniqueKey, schema, table string) bool {
	set := toSet(cols)
	for _, uk := range uniques {
		if uk.Schema != schema || uk.Table != table {
			continue
		}
		if isSubsetOf(set, toSet(uk.Columns)) {
			return true
		}
	}
	return false
}

// someKeyWithinUnion reports whether some primary/unique key on
// (schema, table) is a subset of union — the m2m junction test.
func someKeyWithinUnion(union []string, uniques []UniqueKey, schema, table string) bool {
	set := toSet(union)
	for _, uk := range uniques {
		if uk.Schema != schema || uk.Table != table {
			continue
		}
		if isSubsetOf(toSet(uk.Columns), set) {
			return true
		}
	}
	return false
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}

// isSubsetOf reports whether every element of a is present in b.
func isSubsetOf(a, b map[string]bool) bool {
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
