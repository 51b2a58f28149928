// Package relation implements spec.md §4.7: building LEFT JOIN LATERAL
// subqueries that embed a relation or spread SelectItem, against a
// read-only schema-cache lookup.
package relation

import (
	"fmt"
	"strings"

	"github.com/queryforge/queryforge/internal/ast"
)

// Lookup is the subset of the schema cache's contract the builder needs:
// resolving a relation name (optionally disambiguated by a hint) against
// a parent table into the Relationship that describes the join.
type Lookup interface {
	FindRelationship(tenant, schema, source, target string) (ast.Relationship, error)
	FindRelationshipWithHint(tenant, schema, source, target, hint string) (ast.Relationship, error)
}

// Embedded is the SQL fragments produced by embedding one relation/spread
// SelectItem, including any nested relations found in its children.
type Embedded struct {
	Joins   []string
	Columns []string
	Tables  []string
}

// Builder assigns unique aliases across a single query and resolves
// relationships via Lookup. It holds no state across queries — a fresh
// Builder is created per to_sql_with_relations call.
type Builder struct {
	lookup Lookup
	tenant string
	schema string
	depth  int
}

// NewBuilder creates a Builder scoped to one (tenant, schema) pair.
func NewBuilder(lookup Lookup, tenant, schema string) *Builder {
	return &Builder{lookup: lookup, tenant: tenant, schema: schema}
}

// Embed resolves and lowers one top-level relation/spread SelectItem
// rooted at parentAlias (typically the unaliased target table name) and
// parentTable, recursing into any nested relation/spread children.
func (b *Builder) Embed(parentAlias, parentTable string, item ast.SelectItem) (*Embedded, error) {
	res := &Embedded{}
	if err := b.embed(parentAlias, b.schema, parentTable, item, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (b *Builder) embed(parentAlias, parentSchema, parentTable string, item ast.SelectItem, res *Embedded) error {
	rel, err := b.resolve(parentSchema, parentTable, item)
	if err != nil {
		return err
	}

	alias := fmt.Sprintf("%s_%d", item.Name, b.depth)
	b.depth++
	aggAlias := alias + "_agg"

	targetRef := qualify(rel.TargetSchema, rel.TargetTable) + " AS " + QuoteIdent(alias)
	joinCond := joinConditions(parentAlias, rel.SourceColumns, alias, rel.TargetColumns)

	var lateral string
	switch rel.Cardinality {
	case ast.CardinalityManyToOne, ast.CardinalityOneToOne:
		lateral = fmt.Sprintf(
			"LEFT JOIN LATERAL ( SELECT row_to_json(%s) AS %s FROM %s WHERE %s LIMIT 1 ) AS %s ON true",
			QuoteIdent(alias), QuoteIdent(alias), targetRef, joinCond, QuoteIdent(aggAlias),
		)
	case ast.CardinalityOneToMany:
		lateral = fmt.Sprintf(
			"LEFT JOIN LATERAL ( SELECT json_agg(%s) AS %s FROM %s WHERE %s ) AS %s ON true",
			QuoteIdent(alias), QuoteIdent(alias), targetRef, joinCond, QuoteIdent(aggAlias),
		)
	case ast.CardinalityManyToMany:
		if rel.Junction == nil {
			return fmt.Errorf("relation: m2m relationship %q missing junction descriptor", rel.ConstraintName)
		}
		j := rel.Junction
		junctionAlias := fmt.Sprintf("junction_%d", b.depth-1)
		junctionRef := qualify(j.Schema, j.Table) + " AS " + QuoteIdent(junctionAlias)
		targetJoinCond := joinConditions(junctionAlias, j.TargetColumns, alias, rel.TargetColumns)
		parentJoinCond := joinConditions(parentAlias, rel.SourceColumns, junctionAlias, j.SourceColumns)
		lateral = fmt.Sprintf(
			"LEFT JOIN LATERAL ( SELECT json_agg(%s.*) AS %s FROM %s JOIN %s ON %s WHERE %s ) AS %s ON true",
			QuoteIdent(alias), QuoteIdent(alias), junctionRef, targetRef, targetJoinCond, parentJoinCond, QuoteIdent(aggAlias),
		)
	default:
		return fmt.Errorf("relation: unknown cardinality %q", rel.Cardinality)
	}

	res.Joins = append(res.Joins, lateral)
	res.Tables = append(res.Tables, rel.TargetTable)

	outputName := item.Name
	if item.Alias != "" {
		outputName = item.Alias
	}

	if item.Kind == ast.SelectSpread {
		for _, child := range item.Children {
			if child.Kind != ast.SelectField {
				continue
			}
			outAlias := child.Name
			if child.Alias != "" {
				outAlias = child.Alias
			}
			expr := fmt.Sprintf("(%s.%s->>'%s') AS %s", QuoteIdent(aggAlias), QuoteIdent(alias), escapeLiteral(child.Name), QuoteIdent(outAlias))
			res.Columns = append(res.Columns, expr)
		}
	} else {
		expr := fmt.Sprintf("%s.%s AS %s", QuoteIdent(aggAlias), QuoteIdent(alias), QuoteIdent(outputName))
		res.Columns = append(res.Columns, expr)
	}

	for _, child := range item.Children {
		if child.Kind == ast.SelectField {
			continue
		}
		if err := b.embed(alias, rel.TargetSchema, rel.TargetTable, child, res); err != nil {
			return err
		}
	}

	return nil
}

func (b *Builder) resolve(parentSchema, parentTable string, item ast.SelectItem) (ast.Relationship, error) {
	if item.RelationHint != "" {
		return b.lookup.FindRelationshipWithHint(b.tenant, parentSchema, parentTable, item.Name, item.RelationHint)
	}
	return b.lookup.FindRelationship(b.tenant, parentSchema, parentTable, item.Name)
}

func joinConditions(leftAlias string, leftCols []string, rightAlias string, rightCols []string) string {
	parts := make([]string, len(leftCols))
	for i := range leftCols {
		parts[i] = fmt.Sprintf("%s.%s = %s.%s", QuoteIdent(leftAlias), QuoteIdent(leftCols[i]), QuoteIdent(rightAlias), QuoteIdent(rightCols[i]))
	}
	return strings.Join(parts, " AND ")
}

func qualify(schema, table string) string {
	if schema == "" {
		return QuoteIdent(table)
	}
	return QuoteIdent(schema) + "." + QuoteIdent(table)
}

// QuoteIdent wraps s in double quotes, doubling any embedded quote.
// Duplicated from internal/sqlemitter to avoid an import cycle (sqlemitter
// imports relation to drive embedding).
func QuoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func escapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
