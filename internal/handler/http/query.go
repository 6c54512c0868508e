package http

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-bank-sync/internal/store"
	"github.com/MKhiriev/go-bank-sync/models"
)

const (
	queryWhere   = "where"
	queryOrderBy = "orderBy"
	queryLimit   = "limit"
)

// parseConstraints turns the query string into store constraints.
//
//	where=field,op,value   repeatable; value is decoded as JSON when possible
//	orderBy=field[,dir]    repeatable; dir is asc (default) or desc
//	limit=n                n > 0
//
// Constraints come out as wheres, then orders, then the limit, each group
// in the order given, so equal query strings map to the same cache key.
func parseConstraints(values url.Values) ([]models.Constraint, error) {
	var constraints []models.Constraint

	for _, raw := range values[queryWhere] {
		parts := strings.SplitN(raw, ",", 3)
		if len(parts) != 3 || parts[0] == "" {
			return nil, fmt.Errorf("%w: where=%q, want field,op,value", ErrInvalidQueryParam, raw)
		}
		op := models.Operator(parts[1])
		if !op.Valid() {
			return nil, fmt.Errorf("%w: unknown operator %q", ErrInvalidQueryParam, parts[1])
		}
		constraints = append(constraints, models.Where(parts[0], op, parseValue(parts[2])))
	}

	for _, raw := range values[queryOrderBy] {
		field, dir, _ := strings.Cut(raw, ",")
		if field == "" {
			return nil, fmt.Errorf("%w: orderBy=%q", ErrInvalidQueryParam, raw)
		}
		constraints = append(constraints, models.OrderBy(field, models.Direction(strings.ToLower(dir))))
	}

	if raw := values.Get(queryLimit); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: limit=%q", ErrInvalidQueryParam, raw)
		}
		constraints = append(constraints, models.Limit(n))
	}

	if err := store.ValidateConstraints(constraints); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidQueryParam, err)
	}
	return constraints, nil
}

// parseValue decodes numbers, booleans, null, quoted strings and arrays.
// Anything that is not valid JSON is taken as a bare string.
func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}
