// Package schemacache implements spec.md §4.5: a read-mostly, per-tenant
// lookup of table and relationship metadata, refreshed atomically and
// read under a shared sync.RWMutex read lock (readers wait only for the
// brief snapshot swap, never for introspection), mirroring the teacher's
// clickhouse.Manager
// snapshot-swap pattern (internal/clickhouse/manager.go).
package schemacache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/queryforge/queryforge/internal/ast"
)

// Table is the column metadata the cache exposes for one (schema, table).
type Table struct {
	Schema  string
	Name    string
	Columns []string
}

type tableKey struct {
	schema string
	table  string
}

// snapshot is one tenant's fully-built metadata, replaced wholesale on
// refresh so readers never observe a torn mixture of old and new data.
type snapshot struct {
	tables        map[tableKey]Table
	relationships map[tableKey][]ast.Relationship
}

// DefaultRefreshTimeout bounds how long a single Refresh call may block on
// its Introspector, per spec.md §5.
const DefaultRefreshTimeout = 30 * time.Second

// Cache is the process-wide schema metadata store. The zero value is not
// usable; construct with New.
type Cache struct {
	mu      sync.RWMutex
	tenants map[string]*snapshot

	logger  *slog.Logger
	timeout time.Duration
}

// New creates an empty Cache ready to serve not_found for every lookup
// until a Refresh populates it.
func New(logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		tenants: make(map[string]*snapshot),
		logger:  logger.With("component", "schema_cache"),
		timeout: DefaultRefreshTimeout,
	}
}

// GetTable returns the table metadata for (tenant, schema, table).
func (c *Cache) GetTable(tenant, schema, table string) (Table, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap, ok := c.tenants[tenant]
	if !ok {
		return Table{}, false
	}
	t, ok := snap.tables[tableKey{schema, table}]
	return t, ok
}

// GetRelationships returns every Relationship whose source is
// (schema, table); possibly empty.
func (c *Cache) GetRelationships(tenant, schema, table string) []ast.Relationship {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap, ok := c.tenants[tenant]
	if !ok {
		return nil
	}
	return append([]ast.Relationship(nil), snap.relationships[tableKey{schema, table}]...)
}

// FindRelationship returns the unique Relationship from (schema, source)
// whose target table is target, or a not-found ParseError.
func (c *Cache) FindRelationship(tenant, schema, source, target string) (ast.Relationship, error) {
	rels := c.GetRelationships(tenant, schema, source)

	var found ast.Relationship
	count := 0
	for _, r := range rels {
		if r.TargetTable == target {
			found = r
			count++
		}
	}
	if count != 1 {
		return ast.Relationship{}, ast.NewRelationshipNotFound(target)
	}
	return found, nil
}

// FindRelationshipWithHint narrows FindRelationship's target-table filter
// by additionally matching hint against the constraint name or either
// side's column list.
func (c *Cache) FindRelationshipWithHint(tenant, schema, source, target, hint string) (ast.Relationship, error) {
	rels := c.GetRelationships(tenant, schema, source)

	var matches []ast.Relationship
	for _, r := range rels {
		if r.TargetTable != target {
			continue
		}
		if r.ConstraintName == hint || containsString(r.SourceColumns, hint) || containsString(r.TargetColumns, hint) {
			matches = append(matches, r)
		}
	}

	switch len(matches) {
	case 0:
		return ast.Relationship{}, ast.NewRelationshipNotFound(target)
	case 1:
		return matches[0], nil
	default:
		return ast.Relationship{}, ast.NewRelationshipAmbiguous(target)
	}
}

// Introspector performs the physical schema-introspection queries spec.md
// §1 places out of scope; Refresh only specifies the shape it consumes.
type Introspector interface {
	Introspect(ctx context.Context, schema string) ([]Table, []ForeignKey, []UniqueKey, error)
}

// Refresh rebuilds the (schema, table) → Table and → []Relationship maps
// for tenant from one introspection pass, then swaps them in atomically.
// On error the previously visible state is retained.
func (c *Cache) Refresh(ctx context.Context, tenant, schema string, intro Introspector) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.logger.Debug("refresh start", "tenant", tenant, "schema", schema)

	tables, fks, uniques, err := intro.Introspect(ctx, schema)
	if err != nil {
		c.logger.Warn("refresh failed, retaining stale state", "tenant", tenant, "error", err)
		return fmt.Errorf("schemacache: introspect %s/%s: %w", tenant, schema, err)
	}

	rels := DeriveRelationships(fks, uniques)

	snap := &snapshot{
		tables:        make(map[tableKey]Table, len(tables)),
		relationships: make(map[tableKey][]ast.Relationship),
	}
	for _, t := range tables {
		snap.tables[tableKey{t.Schema, t.Name}] = t
	}
	for _, r := range rels {
		key := tableKey{r.SourceSchema, r.SourceTable}
		snap.relationships[key] = append(snap.relationships[key], r)
	}

	c.mu.Lock()
	c.tenants[tenant] = snap
	c.mu.Unlock()

	c.logger.Info("refresh complete", "tenant", tenant, "tables", len(tables), "relationships", len(rels))
	return nil
}

// Clear removes all cached state for tenant.
func (c *Cache) Clear(tenant string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tenants, tenant)
}

// Teardown drops all cached state for every tenant.
func (c *Cache) Teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tenants = make(map[string]*snapshot)
}

func containsString(items []string, s string) bool {
	for _, it := range items {
		if it == s {
			return true
		}
	}
	return false
}
