package store

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/MKhiriev/go-bank-sync/models"
)

// ValidateConstraints checks that every constraint is well formed. Backends
// call it before touching the database so that all of them reject the same
// queries.
func ValidateConstraints(constraints []models.Constraint) error {
	for i, c := range constraints {
		switch c.Kind {
		case models.ConstraintWhere:
			if c.Field == "" {
				return fmt.Errorf("%w: constraint %d: empty field", ErrInvalidQuery, i)
			}
			if !c.Op.Valid() {
				return fmt.Errorf("%w: constraint %d: unknown operator %q", ErrInvalidQuery, i, c.Op)
			}
			if c.Op == models.OpIn {
				values, ok := asSlice(c.Value)
				if !ok || len(values) == 0 {
					return fmt.Errorf("%w: constraint %d: %q needs a non-empty list", ErrInvalidQuery, i, c.Op)
				}
			}
		case models.ConstraintOrderBy:
			if c.Field == "" {
				return fmt.Errorf("%w: constraint %d: empty field", ErrInvalidQuery, i)
			}
			if c.Direction != models.Asc && c.Direction != models.Desc {
				return fmt.Errorf("%w: constraint %d: unknown direction %q", ErrInvalidQuery, i, c.Direction)
			}
		case models.ConstraintLimit:
			if c.N <= 0 {
				return fmt.Errorf("%w: constraint %d: limit must be positive", ErrInvalidQuery, i)
			}
		default:
			return fmt.Errorf("%w: constraint %d: unknown kind %q", ErrInvalidQuery, i, c.Kind)
		}
	}
	return nil
}

// ApplyConstraints filters, sorts and truncates docs the way a document
// database evaluates a query: all filters first, then every orderBy in
// sequence, then the last limit. Documents missing an orderBy field are
// excluded. docs must already be in id order.
func ApplyConstraints(docs []models.Document, constraints []models.Constraint) ([]models.Document, error) {
	if err := ValidateConstraints(constraints); err != nil {
		return nil, err
	}

	var orders []models.Constraint
	limit := 0
	out := make([]models.Document, 0, len(docs))

	for _, doc := range docs {
		if matchesAll(doc, constraints) {
			out = append(out, doc)
		}
	}

	for _, c := range constraints {
		switch c.Kind {
		case models.ConstraintOrderBy:
			orders = append(orders, c)
		case models.ConstraintLimit:
			limit = c.N
		}
	}

	if len(orders) > 0 {
		out = slices.DeleteFunc(out, func(d models.Document) bool {
			for _, o := range orders {
				if _, ok := lookup(d, o.Field); !ok {
					return true
				}
			}
			return false
		})
		slices.SortStableFunc(out, func(a, b models.Document) int {
			for _, o := range orders {
				av, _ := lookup(a, o.Field)
				bv, _ := lookup(b, o.Field)
				c := orderValues(av, bv)
				if o.Direction == models.Desc {
					c = -c
				}
				if c != 0 {
					return c
				}
			}
			return 0
		})
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SortByID orders docs by id, the natural order of a collection.
func SortByID(docs []models.Document) {
	slices.SortFunc(docs, func(a, b models.Document) int {
		return strings.Compare(a.ID, b.ID)
	})
}

func matchesAll(doc models.Document, constraints []models.Constraint) bool {
	for _, c := range constraints {
		if c.Kind != models.ConstraintWhere {
			continue
		}
		if !matches(doc, c) {
			return false
		}
	}
	return true
}

func matches(doc models.Document, c models.Constraint) bool {
	v, ok := lookup(doc, c.Field)
	if !ok {
		return false
	}

	switch c.Op {
	case models.OpEqual:
		return equalValues(v, c.Value)
	case models.OpNotEqual:
		return !equalValues(v, c.Value)
	case models.OpLess, models.OpLessOrEqual, models.OpGreater, models.OpGreaterOrEqual:
		cmp, ok := compareValues(v, c.Value)
		if !ok {
			return false
		}
		switch c.Op {
		case models.OpLess:
			return cmp < 0
		case models.OpLessOrEqual:
			return cmp <= 0
		case models.OpGreater:
			return cmp > 0
		default:
			return cmp >= 0
		}
	case models.OpIn:
		candidates, _ := asSlice(c.Value)
		for _, candidate := range candidates {
			if equalValues(v, candidate) {
				return true
			}
		}
		return false
	case models.OpArrayContains:
		items, ok := asSlice(v)
		if !ok {
			return false
		}
		for _, item := range items {
			if equalValues(item, c.Value) {
				return true
			}
		}
		return false
	}
	return false
}

// lookup resolves a dotted field path. The pseudo field "id" addresses the
// document id.
func lookup(doc models.Document, path string) (any, bool) {
	if path == models.FieldID {
		if v, ok := doc.Fields[models.FieldID]; ok {
			return v, true
		}
		return doc.ID, true
	}

	var cur any = map[string]any(doc.Fields)
	for _, part := range strings.Split(path, ".") {
		var m map[string]any
		switch typed := cur.(type) {
		case map[string]any:
			m = typed
		case models.Fields:
			m = typed
		default:
			return nil, false
		}
		next, ok := m[part]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func equalValues(a, b any) bool {
	if cmp, ok := compareValues(a, b); ok {
		return cmp == 0
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders two scalars of a compatible kind. Timestamps compare
// against RFC 3339 strings so that JSON-backed stores behave like typed ones.
func compareValues(a, b any) (int, bool) {
	if af, ok := models.ToFloat(a); ok {
		if bf, ok := models.ToFloat(b); ok {
			return cmpOrdered(af, bf), true
		}
		return 0, false
	}

	_, aIsTime := a.(time.Time)
	_, bIsTime := b.(time.Time)
	if aIsTime || bIsTime {
		at, aok := models.ToTime(a)
		bt, bok := models.ToTime(b)
		if !aok || !bok {
			return 0, false
		}
		return at.Compare(bt), true
	}

	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return strings.Compare(as, bs), true
		}
		return 0, false
	}

	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ab == bb:
				return 0, true
			case !ab:
				return -1, true
			default:
				return 1, true
			}
		}
	}
	return 0, false
}

// orderValues is a total order: values of different kinds sort by kind rank.
func orderValues(a, b any) int {
	if cmp, ok := compareValues(a, b); ok {
		return cmp
	}
	return cmpOrdered(typeRank(a), typeRank(b))
}

func typeRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case time.Time:
		return 3
	case string:
		return 4
	}
	if _, ok := models.ToFloat(v); ok {
		return 2
	}
	return 5
}

func cmpOrdered[T int | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func asSlice(v any) ([]any, bool) {
	if typed, ok := v.([]any); ok {
		return typed, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
