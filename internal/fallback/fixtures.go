// Package fallback serves canned banking documents when the document store
// cannot answer. The data set is either the embedded demo fixtures or a JSON
// file of the form {"collection": [{"id": "...", ...}, ...]}.
package fallback

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/MKhiriev/go-bank-sync/internal/store"
	"github.com/MKhiriev/go-bank-sync/models"
)

//go:embed fixtures.json
var demoFixtures []byte

// Provider answers reads from a static data set.
type Provider interface {
	Document(collection, id string) (*models.Document, bool)
	Query(collection string, constraints ...models.Constraint) []models.Document
}

// Fixtures is an immutable, in-memory data set keyed by collection.
type Fixtures struct {
	collections map[string][]models.Document
}

// Demo returns the embedded demo data set.
func Demo() *Fixtures {
	f, err := Parse(demoFixtures)
	if err != nil {
		panic(fmt.Sprintf("embedded fixtures: %v", err))
	}
	return f
}

// Load reads fixtures from path, or returns [Demo] when path is empty.
func Load(path string) (*Fixtures, error) {
	if strings.TrimSpace(path) == "" {
		return Demo(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadingFixtures, err)
	}
	return Parse(data)
}

// Parse decodes a fixtures document. Documents without an id are rejected.
func Parse(data []byte) (*Fixtures, error) {
	var raw map[string][]models.Document
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodingFixtures, err)
	}

	for collection, docs := range raw {
		for i, doc := range docs {
			if doc.ID == "" {
				return nil, fmt.Errorf("%w: %s[%d]", ErrMissingFixtureID, collection, i)
			}
		}
		store.SortByID(docs)
	}
	return &Fixtures{collections: raw}, nil
}

// Document returns a copy of the fixture with the given id.
func (f *Fixtures) Document(collection, id string) (*models.Document, bool) {
	for _, doc := range f.collections[collection] {
		if doc.ID == id {
			clone := doc.Clone()
			return &clone, true
		}
	}
	return nil, false
}

// Query evaluates constraints over the fixtures of a collection. Invalid
// constraints yield an empty result.
func (f *Fixtures) Query(collection string, constraints ...models.Constraint) []models.Document {
	docs := make([]models.Document, 0, len(f.collections[collection]))
	for _, doc := range f.collections[collection] {
		docs = append(docs, doc.Clone())
	}

	result, err := store.ApplyConstraints(docs, constraints)
	if err != nil {
		return []models.Document{}
	}
	return result
}

// Collections returns the collection names present in the data set.
func (f *Fixtures) Collections() []string {
	names := make([]string, 0, len(f.collections))
	for name := range f.collections {
		names = append(names, name)
	}
	return names
}

// SeedInto copies every fixture into a memory store.
func (f *Fixtures) SeedInto(s *store.MemoryStore) int {
	n := 0
	for collection, docs := range f.collections {
		s.Seed(collection, docs...)
		n += len(docs)
	}
	return n
}
