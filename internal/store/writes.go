package store

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-bank-sync/models"
)

// NewDocumentID returns a store-style auto id: 20 lowercase hex characters.
func NewDocumentID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
}

// ValidateWrites rejects batches the backends cannot apply.
func ValidateWrites(writes []models.Write) error {
	for i, w := range writes {
		if w.Collection == "" || w.ID == "" {
			return fmt.Errorf("%w: write %d: collection and id are required", ErrInvalidQuery, i)
		}
		switch w.Kind {
		case models.WriteSet, models.WriteUpdate, models.WriteDelete:
		default:
			return fmt.Errorf("%w: write %d: unknown kind %q", ErrInvalidQuery, i, w.Kind)
		}
	}
	return nil
}

// touchedCollections lists each collection of writes once, in first-seen order.
func touchedCollections(writes []models.Write) []string {
	seen := make(map[string]struct{}, len(writes))
	out := make([]string, 0, len(writes))
	for _, w := range writes {
		if _, ok := seen[w.Collection]; ok {
			continue
		}
		seen[w.Collection] = struct{}{}
		out = append(out, w.Collection)
	}
	return out
}

// mergeFields overlays patch on top of base.
func mergeFields(base, patch models.Fields) models.Fields {
	out := base.Clone()
	for k, v := range patch {
		out[k] = v
	}
	return out
}
