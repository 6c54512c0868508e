// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-bank-sync/models"
)

func TestNewDocumentValidator(t *testing.T) {
	require.NotNil(t, NewDocumentValidator())
}

func TestValidate_Dispatch(t *testing.T) {
	v := NewDocumentValidator()
	ctx := context.Background()

	target := Target{Collection: "accounts", ID: "a1", Fields: models.Fields{"balance": 1}}
	write := models.DeleteWrite("accounts", "a1")

	assert.NoError(t, v.Validate(ctx, target))
	assert.NoError(t, v.Validate(ctx, &target))
	assert.NoError(t, v.Validate(ctx, write))
	assert.NoError(t, v.Validate(ctx, &write))
	assert.NoError(t, v.Validate(ctx, []models.Write{write}))
	assert.NoError(t, v.Validate(ctx, models.Limit(1)))
	assert.NoError(t, v.Validate(ctx, []models.Constraint{models.Where("a", models.OpEqual, 1)}))

	assert.ErrorIs(t, v.Validate(ctx, 42), ErrUnsupportedType)
	assert.ErrorIs(t, v.Validate(ctx, "accounts"), ErrUnsupportedType)
}

func TestValidate_Target(t *testing.T) {
	v := NewDocumentValidator()
	ctx := context.Background()

	tests := []struct {
		name    string
		target  Target
		fields  []string
		wantErr error
	}{
		{name: "valid", target: Target{Collection: "users", ID: "u1", Fields: models.Fields{"name": "Ada"}}},
		{name: "collection only", target: Target{Collection: "users"}, fields: []string{FieldCollection}},
		{name: "empty collection", target: Target{ID: "u1"}, wantErr: ErrInvalidCollection},
		{name: "blank collection", target: Target{Collection: "  ", ID: "u1"}, wantErr: ErrInvalidCollection},
		{name: "slash in collection", target: Target{Collection: "users/u1", ID: "x"}, wantErr: ErrInvalidCollection},
		{name: "colon in collection", target: Target{Collection: "users:list", ID: "x"}, wantErr: ErrInvalidCollection},
		{name: "reserved collection", target: Target{Collection: "__meta__", ID: "x"}, wantErr: ErrInvalidCollection},
		{name: "empty id", target: Target{Collection: "users"}, wantErr: ErrInvalidDocumentID},
		{name: "dot id", target: Target{Collection: "users", ID: ".."}, wantErr: ErrInvalidDocumentID},
		{name: "too long id", target: Target{Collection: "users", ID: strings.Repeat("x", maxNameLength+1)}, wantErr: ErrInvalidDocumentID},
		{name: "id inside body", target: Target{Collection: "users", ID: "u1", Fields: models.Fields{"id": "u2"}}, wantErr: ErrReservedField},
		{name: "empty field name", target: Target{Collection: "users", ID: "u1", Fields: models.Fields{"": 1}}, wantErr: ErrEmptyFieldName},
		{name: "empty update body", target: Target{Collection: "users", ID: "u1"}, fields: []string{FieldUpdateBody}, wantErr: ErrNoFieldsToUpdate},
		{name: "unknown field", target: Target{Collection: "users"}, fields: []string{"owner"}, wantErr: ErrUnknownField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(ctx, tt.target, tt.fields...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidate_Writes(t *testing.T) {
	v := NewDocumentValidator()
	ctx := context.Background()

	tooMany := make([]models.Write, MaxBatchWrites+1)
	for i := range tooMany {
		tooMany[i] = models.DeleteWrite("accounts", "a1")
	}

	tests := []struct {
		name    string
		writes  []models.Write
		wantErr error
	}{
		{
			name: "mixed batch",
			writes: []models.Write{
				models.SetWrite("transactions", "", models.Fields{"amount": 10}),
				models.SetWrite("accounts", "a1", models.Fields{"balance": 90}),
				models.UpdateWrite("users", "u1", models.Fields{"name": "Ada"}),
				models.DeleteWrite("accounts", "a2"),
			},
		},
		{name: "empty batch", wantErr: ErrEmptyWrites},
		{name: "too many writes", writes: tooMany, wantErr: ErrTooManyWrites},
		{name: "update without id", writes: []models.Write{models.UpdateWrite("users", "", models.Fields{"a": 1})}, wantErr: ErrInvalidDocumentID},
		{name: "update without fields", writes: []models.Write{models.UpdateWrite("users", "u1", nil)}, wantErr: ErrNoFieldsToUpdate},
		{name: "delete without collection", writes: []models.Write{models.DeleteWrite("", "u1")}, wantErr: ErrInvalidCollection},
		{name: "unknown kind", writes: []models.Write{{Kind: "merge", Collection: "users", ID: "u1"}}, wantErr: ErrInvalidWriteKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(ctx, tt.writes)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidate_Constraints(t *testing.T) {
	v := NewDocumentValidator()

	err := v.Validate(context.Background(), []models.Constraint{models.Where("amount", "~", 1)})
	assert.ErrorIs(t, err, ErrInvalidConstraints)
}
