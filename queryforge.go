// Package queryforge compiles PostgREST-style query strings into
// parameterized PostgreSQL SELECT statements. It is a facade over the
// internal parser, logic, select, order, and emitter packages: callers
// that only need the compiler reach for the functions here rather than
// the internal/* packages directly.
package queryforge

import (
	"net/url"

	"github.com/queryforge/queryforge/internal/ast"
	"github.com/queryforge/queryforge/internal/dispatch"
	"github.com/queryforge/queryforge/internal/relation"
	"github.com/queryforge/queryforge/internal/sqlemitter"
)

// ParsedParams is the AST produced by parsing one request's query
// string.
type ParsedParams = ast.ParsedParams

// Result is the {sql, params, tables} triple returned by compilation.
type Result = sqlemitter.Result

// FilterClauseResult is the {clause, params} pair returned by
// BuildFilterClause.
type FilterClauseResult = sqlemitter.FilterClauseResult

// SchemaLookup is the read contract a caller's schema cache must satisfy
// to support relation embedding.
type SchemaLookup = relation.Lookup

// ParseQueryString decodes qs as application/x-www-form-urlencoded and
// dispatches each key to its sublanguage parser.
func ParseQueryString(qs string) (*ParsedParams, error) {
	return dispatch.Parse(qs)
}

// ParseParams dispatches an already-decoded key/value map. Repeated
// filter keys are not representable in a plain map; callers with
// repeated keys should use ParseQueryString instead.
func ParseParams(pairs map[string]string) (*ParsedParams, error) {
	values := make(url.Values, len(pairs))
	for k, v := range pairs {
		values.Set(k, v)
	}
	return dispatch.Parse(values.Encode())
}

// ToSQL emits params against table with no relation embedding.
func ToSQL(table string, params *ParsedParams) (*Result, error) {
	return sqlemitter.Emit(table, params)
}

// ToSQLWithRelations emits params against (schema, table), embedding any
// relation/spread select items by resolving them through lookup.
func ToSQLWithRelations(tenant, schema, table string, params *ParsedParams, lookup SchemaLookup) (*Result, error) {
	return sqlemitter.EmitWithRelations(tenant, schema, table, params, lookup)
}

// QueryStringToSQL composes ParseQueryString and ToSQL.
func QueryStringToSQL(table, qs string) (*Result, error) {
	params, err := ParseQueryString(qs)
	if err != nil {
		return nil, err
	}
	return ToSQL(table, params)
}

// QueryStringToSQLWithRelations composes ParseQueryString and
// ToSQLWithRelations.
func QueryStringToSQLWithRelations(tenant, schema, table, qs string, lookup SchemaLookup) (*Result, error) {
	params, err := ParseQueryString(qs)
	if err != nil {
		return nil, err
	}
	return ToSQLWithRelations(tenant, schema, table, params, lookup)
}

// BuildFilterClause emits only the WHERE-body for pairs (no surrounding
// SELECT), for use by subscription-style filter evaluation.
func BuildFilterClause(pairs map[string]string) (*FilterClauseResult, error) {
	params, err := ParseParams(pairs)
	if err != nil {
		return nil, err
	}
	return sqlemitter.EmitFilterClause(params)
}
