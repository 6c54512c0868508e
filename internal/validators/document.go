package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-bank-sync/internal/store"
	"github.com/MKhiriev/go-bank-sync/models"
)

// Field names used to restrict validation to part of a value.
const (
	FieldCollection  = "collection"
	FieldDocumentID  = "document_id"
	FieldBody        = "body"
	FieldUpdateBody  = "update_body"
	FieldWrites      = "writes"
	FieldConstraints = "constraints"
)

// MaxBatchWrites is the largest batch a single commit accepts.
const MaxBatchWrites = 500

const maxNameLength = 1500

// Target addresses a document (or a whole collection when ID is empty)
// together with the body sent for it.
type Target struct {
	Collection string
	ID         string
	Fields     models.Fields
}

// DocumentValidator checks the inputs of document CRUD, batch and query
// operations before they reach the store.
type DocumentValidator struct{}

func NewDocumentValidator() Validator {
	return &DocumentValidator{}
}

func (v *DocumentValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case Target:
		return v.validateTarget(ctx, value, fields...)
	case *Target:
		return v.validateTarget(ctx, *value, fields...)

	case models.Write:
		return v.validateWrite(ctx, value)
	case *models.Write:
		return v.validateWrite(ctx, *value)
	case []models.Write:
		return v.validateWrites(ctx, value)

	case []models.Constraint:
		return v.validateConstraints(value)
	case models.Constraint:
		return v.validateConstraints([]models.Constraint{value})

	default:
		return ErrUnsupportedType
	}
}

func (v *DocumentValidator) validateTarget(_ context.Context, target Target, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldCollection, FieldDocumentID, FieldBody}
	}

	for _, f := range fields {
		switch f {
		case FieldCollection:
			if err := validateName(target.Collection, ErrInvalidCollection); err != nil {
				return err
			}
		case FieldDocumentID:
			if err := validateName(target.ID, ErrInvalidDocumentID); err != nil {
				return err
			}
		case FieldBody:
			if err := validateBody(target.Fields); err != nil {
				return err
			}
		case FieldUpdateBody:
			if len(target.Fields) == 0 {
				return ErrNoFieldsToUpdate
			}
			if err := validateBody(target.Fields); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateWrite accepts a set-write without id; the service assigns one.
func (v *DocumentValidator) validateWrite(ctx context.Context, w models.Write) error {
	target := Target{Collection: w.Collection, ID: w.ID, Fields: w.Fields}

	switch w.Kind {
	case models.WriteSet:
		if w.ID == "" {
			return v.validateTarget(ctx, target, FieldCollection, FieldBody)
		}
		return v.validateTarget(ctx, target)
	case models.WriteUpdate:
		return v.validateTarget(ctx, target, FieldCollection, FieldDocumentID, FieldUpdateBody)
	case models.WriteDelete:
		return v.validateTarget(ctx, target, FieldCollection, FieldDocumentID)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidWriteKind, w.Kind)
	}
}

func (v *DocumentValidator) validateWrites(ctx context.Context, writes []models.Write) error {
	if len(writes) == 0 {
		return ErrEmptyWrites
	}
	if len(writes) > MaxBatchWrites {
		return fmt.Errorf("%w: %d > %d", ErrTooManyWrites, len(writes), MaxBatchWrites)
	}

	for i, w := range writes {
		if err := v.validateWrite(ctx, w); err != nil {
			return fmt.Errorf("validation error at index %d: %w", i, err)
		}
	}
	return nil
}

func (v *DocumentValidator) validateConstraints(constraints []models.Constraint) error {
	if err := store.ValidateConstraints(constraints); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConstraints, err)
	}
	return nil
}

// validateName applies the document-database path rules shared by
// collection names and document ids.
func validateName(name string, sentinel error) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty", sentinel)
	case len(name) > maxNameLength:
		return fmt.Errorf("%w: too long", sentinel)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", sentinel, name)
	case strings.ContainsAny(name, "/:"):
		return fmt.Errorf("%w: %q contains a reserved character", sentinel, name)
	case strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__"):
		return fmt.Errorf("%w: %q is reserved", sentinel, name)
	}
	return nil
}

func validateBody(body models.Fields) error {
	for k := range body {
		if k == "" {
			return ErrEmptyFieldName
		}
		if k == models.FieldID {
			return fmt.Errorf("%w: %q", ErrReservedField, k)
		}
	}
	return nil
}
