// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"maps"
	"strconv"
	"time"
)

// Well-known field names stamped on every document written through the
// service layer.
const (
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
	FieldID        = "id"
)

// Fields is the schemaless body of a document: field name to value.
type Fields map[string]any

// Clone returns a shallow copy of f. Nested maps and slices are shared.
func (f Fields) Clone() Fields {
	if f == nil {
		return Fields{}
	}
	return maps.Clone(f)
}

// serverTimestamp is the type of the [ServerTimestamp] sentinel.
type serverTimestamp struct{}

// ServerTimestamp is a field value placeholder that the document store
// replaces with its own commit clock at write time. Every placeholder in a
// single write (or batch) resolves to the same instant.
var ServerTimestamp any = serverTimestamp{}

// IsServerTimestamp reports whether v is the [ServerTimestamp] sentinel.
func IsServerTimestamp(v any) bool {
	_, ok := v.(serverTimestamp)
	return ok
}

// ResolveServerTimestamps returns a copy of fields where every
// [ServerTimestamp] placeholder is replaced by at.
func ResolveServerTimestamps(fields Fields, at time.Time) Fields {
	out := fields.Clone()
	for k, v := range out {
		if IsServerTimestamp(v) {
			out[k] = at
		}
	}
	return out
}

// Document is a single record of a collection. The identifier is assigned by
// the store (or by the caller on upsert) and is not part of Fields.
type Document struct {
	ID     string
	Fields Fields
}

// Clone returns a copy of d with its own top-level field map.
func (d Document) Clone() Document {
	return Document{ID: d.ID, Fields: d.Fields.Clone()}
}

// CreatedAt returns the createdAt timestamp or the zero time.
func (d Document) CreatedAt() time.Time {
	return d.Time(FieldCreatedAt)
}

// UpdatedAt returns the updatedAt timestamp or the zero time.
func (d Document) UpdatedAt() time.Time {
	return d.Time(FieldUpdatedAt)
}

// Has reports whether the document carries a non-nil value for field.
func (d Document) Has(field string) bool {
	v, ok := d.Fields[field]
	return ok && v != nil
}

// String returns the first non-empty string value found under names, in
// order. Numbers are formatted so that numeric identifiers still match.
func (d Document) String(names ...string) string {
	for _, name := range names {
		switch v := d.Fields[name].(type) {
		case string:
			if v != "" {
				return v
			}
		case int:
			return strconv.Itoa(v)
		case int64:
			return strconv.FormatInt(v, 10)
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// Float returns the first numeric value found under names.
func (d Document) Float(names ...string) (float64, bool) {
	for _, name := range names {
		if f, ok := ToFloat(d.Fields[name]); ok {
			return f, true
		}
	}
	return 0, false
}

// Time returns the first timestamp found under names. RFC 3339 strings and
// unix milliseconds are accepted as well as [time.Time].
func (d Document) Time(names ...string) time.Time {
	for _, name := range names {
		if t, ok := ToTime(d.Fields[name]); ok {
			return t
		}
	}
	return time.Time{}
}

// Slice returns the list of nested objects stored under field. Elements that
// are not objects are skipped.
func (d Document) Slice(field string) []Fields {
	raw, ok := d.Fields[field].([]any)
	if !ok {
		if typed, ok := d.Fields[field].([]map[string]any); ok {
			out := make([]Fields, 0, len(typed))
			for _, m := range typed {
				out = append(out, Fields(m))
			}
			return out
		}
		return nil
	}

	out := make([]Fields, 0, len(raw))
	for _, item := range raw {
		switch m := item.(type) {
		case map[string]any:
			out = append(out, Fields(m))
		case Fields:
			out = append(out, m)
		}
	}
	return out
}

// MarshalJSON encodes the document as a flat object carrying its id.
func (d Document) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(d.Fields)+1)
	for k, v := range d.Fields {
		flat[k] = v
	}
	flat[FieldID] = d.ID
	return json.Marshal(flat)
}

// UnmarshalJSON decodes a flat object; the "id" key becomes Document.ID.
func (d *Document) UnmarshalJSON(b []byte) error {
	var flat map[string]any
	if err := json.Unmarshal(b, &flat); err != nil {
		return err
	}
	if id, ok := flat[FieldID].(string); ok {
		d.ID = id
	}
	delete(flat, FieldID)
	d.Fields = flat
	return nil
}

// ToFloat converts any numeric value (including json.Number) to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// ToTime converts a timestamp-like value to time.Time.
func ToTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, !t.IsZero()
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		return parsed, err == nil
	}
	if ms, ok := ToFloat(v); ok {
		return time.UnixMilli(int64(ms)), true
	}
	return time.Time{}, false
}
