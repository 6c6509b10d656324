package reconcile

import (
	"context"
	"strings"
	"sync"
	"time"

	"tablediff/core/endpoint"

	"golang.org/x/sync/singleflight"
)

// schemaEntry is a cached table description.
type schemaEntry struct {
	schema *endpoint.TableSchema
	built  time.Time
}

// SchemaCache caches table descriptions per (connection id, table) with a TTL.
// Concurrent misses for the same key share one Describe call.
type SchemaCache struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]schemaEntry
	sf      singleflight.Group

	now func() time.Time
}

// NewSchemaCache returns a cache with the given TTL. A zero TTL disables caching.
func NewSchemaCache(ttl time.Duration) *SchemaCache {
	return &SchemaCache{
		ttl:     ttl,
		entries: make(map[string]schemaEntry),
		now:     time.Now,
	}
}

func cacheKey(connID, table string) string {
	return connID + "|" + table
}

func (c *SchemaCache) expired(e schemaEntry) bool {
	return c.now().Sub(e.built) > c.ttl
}

// Describe returns the description of table on the connection connID, using a
// cached value when it is still fresh. The returned schema is a copy.
func (c *SchemaCache) Describe(ctx context.Context, connID string, a endpoint.Adapter, table string) (*endpoint.TableSchema, error) {
	if c == nil || c.ttl <= 0 || connID == "" {
		return a.Describe(ctx, table)
	}
	key := cacheKey(connID, table)

	// Fast path: cached and fresh
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && !c.expired(e) {
		return cloneSchema(e.schema), nil
	}

	// Slow path: describe once per key to prevent stampedes
	v, err, _ := c.sf.Do(key, func() (any, error) {
		c.mu.RLock()
		e, ok := c.entries[key]
		c.mu.RUnlock()
		if ok && !c.expired(e) {
			return e.schema, nil
		}

		schema, err := a.Describe(ctx, table)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = schemaEntry{schema: schema, built: c.now()}
		c.mu.Unlock()
		return schema, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneSchema(v.(*endpoint.TableSchema)), nil
}

// Invalidate drops the cached description of one table.
func (c *SchemaCache) Invalidate(connID, table string) {
	c.mu.Lock()
	delete(c.entries, cacheKey(connID, table))
	c.mu.Unlock()
}

// InvalidateConnection drops every cached description for a connection.
func (c *SchemaCache) InvalidateConnection(connID string) {
	prefix := connID + "|"
	c.mu.Lock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}

func cloneSchema(s *endpoint.TableSchema) *endpoint.TableSchema {
	out := *s
	out.Columns = append([]endpoint.Column(nil), s.Columns...)
	out.PrimaryKeys = append([]string(nil), s.PrimaryKeys...)
	return &out
}
