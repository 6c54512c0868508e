// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cache holds query results of the document service for a bounded
// time. Entries are keyed by collection, document id (or the literal "list")
// and the JSON form of the query constraints, and are invalidated either by
// TTL or explicitly by key substring.
package cache

import (
	"encoding/json"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/MKhiriev/go-bank-sync/models"
)

// ListSegment is the middle key segment used for collection queries.
const ListSegment = "list"

// Cache is a TTL cache of document lists.
type Cache struct {
	items *gocache.Cache
	ttl   time.Duration
}

// New creates a cache whose entries live for ttl. Expired entries are swept
// every cleanupInterval; a non-positive interval disables the janitor and
// leaves eviction to reads.
func New(ttl, cleanupInterval time.Duration) *Cache {
	return &Cache{
		items: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// TTL returns the configured entry lifetime.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get returns a copy of the documents stored under key. A read of an expired
// entry evicts it and reports a miss.
func (c *Cache) Get(key string) ([]models.Document, bool) {
	value, found := c.items.Get(key)
	if !found {
		// go-cache hides expired items from Get but keeps them until the
		// janitor runs.
		c.items.Delete(key)
		return nil, false
	}

	docs, ok := value.([]models.Document)
	if !ok {
		c.items.Delete(key)
		return nil, false
	}
	return cloneDocuments(docs), true
}

// Set stores a copy of docs under key with the default TTL.
func (c *Cache) Set(key string, docs []models.Document) {
	c.items.SetDefault(key, cloneDocuments(docs))
}

// Invalidate removes every entry whose key contains pattern and returns the
// number of live entries removed. An empty pattern removes nothing.
func (c *Cache) Invalidate(pattern string) int {
	if pattern == "" {
		return 0
	}

	c.items.DeleteExpired()

	removed := 0
	for key := range c.items.Items() {
		if strings.Contains(key, pattern) {
			c.items.Delete(key)
			removed++
		}
	}
	return removed
}

// Flush drops every entry.
func (c *Cache) Flush() {
	c.items.Flush()
}

// Len returns the number of unexpired entries.
func (c *Cache) Len() int {
	return len(c.items.Items())
}

// Key composes collection:docOrList:JSON(constraints). Nil constraints
// encode as an empty JSON array so that "no constraints" has one key.
func Key(collection, docOrList string, constraints []models.Constraint) string {
	if constraints == nil {
		constraints = []models.Constraint{}
	}
	encoded, err := json.Marshal(constraints)
	if err != nil {
		// unencodable values still need a stable, distinct key
		encoded = []byte(constraintsString(constraints))
	}
	return collection + ":" + docOrList + ":" + string(encoded)
}

// ListKey is the key of a collection query.
func ListKey(collection string, constraints []models.Constraint) string {
	return Key(collection, ListSegment, constraints)
}

func constraintsString(constraints []models.Constraint) string {
	parts := make([]string, 0, len(constraints))
	for _, c := range constraints {
		parts = append(parts, c.String())
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func cloneDocuments(docs []models.Document) []models.Document {
	out := make([]models.Document, len(docs))
	for i, d := range docs {
		out[i] = d.Clone()
	}
	return out
}
