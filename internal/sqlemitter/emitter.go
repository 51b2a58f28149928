package sqlemitter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/queryforge/queryforge/internal/ast"
	"github.com/queryforge/queryforge/internal/relation"
)

// ErrEmbeddingRequiresSchemaCache is returned by Emit when the select
// list names a relation or spread item; use EmitWithRelations instead.
var ErrEmbeddingRequiresSchemaCache = errors.New("sqlemitter: embedded relations require a schema cache; use EmitWithRelations")

// Result is the {sql, params, tables} triple §6 specifies.
type Result struct {
	SQL    string
	Params []interface{}
	Tables []string
}

// Emit lowers params against table with no relation embedding, per
// spec.md §4.6.
func Emit(table string, params *ast.ParsedParams) (*Result, error) {
	for _, item := range selectItems(params) {
		if item.Kind != ast.SelectField {
			return nil, ErrEmbeddingRequiresSchemaCache
		}
	}

	plist := &ParamList{}

	cols := "*"
	if params.HasSelect && len(params.Select) > 0 {
		parts := make([]string, len(params.Select))
		for i, item := range params.Select {
			parts[i] = FieldColumnSQL(item)
		}
		cols = strings.Join(parts, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", cols, QuoteIdent(table))

	if err := writeWhere(&b, params, plist); err != nil {
		return nil, err
	}
	writeOrder(&b, params)
	writeLimitOffset(&b, params, plist)

	return &Result{SQL: b.String(), Params: plist.Values, Tables: []string{table}}, nil
}

// EmitWithRelations lowers params against (schema, table), resolving and
// embedding any relation/spread top-level select items via lookup.
func EmitWithRelations(tenant, schema, table string, params *ast.ParsedParams, lookup relation.Lookup) (*Result, error) {
	plist := &ParamList{}
	builder := relation.NewBuilder(lookup, tenant, schema)

	tables := map[string]bool{table: true}
	var joins []string
	var cols []string

	if !params.HasSelect || len(params.Select) == 0 {
		cols = append(cols, "*")
	} else {
		for _, item := range params.Select {
			switch item.Kind {
			case ast.SelectField:
				cols = append(cols, FieldColumnSQL(item))
			case ast.SelectRelation, ast.SelectSpread:
				embedded, err := builder.Embed(table, table, item)
				if err != nil {
					return nil, err
				}
				joins = append(joins, embedded.Joins...)
				cols = append(cols, embedded.Columns...)
				for _, t := range embedded.Tables {
					tables[t] = true
				}
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(cols, ", "), QuoteIdent(table))
	for _, j := range joins {
		b.WriteString(" ")
		b.WriteString(j)
	}

	if err := writeWhere(&b, params, plist); err != nil {
		return nil, err
	}
	writeOrder(&b, params)
	writeLimitOffset(&b, params, plist)

	tableList := make([]string, 0, len(tables))
	tableList = append(tableList, table)
	for t := range tables {
		if t != table {
			tableList = append(tableList, t)
		}
	}

	return &Result{SQL: b.String(), Params: plist.Values, Tables: tableList}, nil
}

// FilterClauseResult is the {clause, params} shape EmitFilterClause
// produces for subscription-style filters, per spec.md §6.
type FilterClauseResult struct {
	Clause string
	Params []interface{}
}

// EmitFilterClause lowers only params.Filters into a bare, unparenthesized
// conjunction with no leading WHERE and no surrounding SELECT, per
// SPEC_FULL.md §3's build_filter_clause addition.
func EmitFilterClause(params *ast.ParsedParams) (*FilterClauseResult, error) {
	plist := &ParamList{}

	parts := make([]string, len(params.Filters))
	for i, c := range params.Filters {
		s, err := LowerCondition(c, plist)
		if err != nil {
			return nil, err
		}
		parts[i] = s
	}

	return &FilterClauseResult{Clause: strings.Join(parts, " AND "), Params: plist.Values}, nil
}

func selectItems(params *ast.ParsedParams) []ast.SelectItem {
	if !params.HasSelect {
		return nil
	}
	return params.Select
}

func writeWhere(b *strings.Builder, params *ast.ParsedParams, plist *ParamList) error {
	if len(params.Filters) == 0 {
		return nil
	}
	parts := make([]string, len(params.Filters))
	for i, c := range params.Filters {
		s, err := LowerCondition(c, plist)
		if err != nil {
			return err
		}
		parts[i] = s
	}
	b.WriteString(" WHERE ")
	b.WriteString(strings.Join(parts, " AND "))
	return nil
}

func writeOrder(b *strings.Builder, params *ast.ParsedParams) {
	if len(params.Order) == 0 {
		return
	}
	parts := make([]string, len(params.Order))
	for i, t := range params.Order {
		parts[i] = OrderTermSQL(t)
	}
	b.WriteString(" ORDER BY ")
	b.WriteString(strings.Join(parts, ", "))
}

func writeLimitOffset(b *strings.Builder, params *ast.ParsedParams, plist *ParamList) {
	if params.Limit != nil {
		idx := plist.Add(*params.Limit)
		fmt.Fprintf(b, " LIMIT $%d", idx)
	}
	if params.Offset != nil {
		idx := plist.Add(*params.Offset)
		fmt.Fprintf(b, " OFFSET $%d", idx)
	}
}
