package models

import "fmt"

// ConstraintKind distinguishes the three query building blocks a document
// store understands.
type ConstraintKind string

const (
	ConstraintWhere   ConstraintKind = "where"
	ConstraintOrderBy ConstraintKind = "orderBy"
	ConstraintLimit   ConstraintKind = "limit"
)

// Operator is a comparison operator of a where-constraint.
type Operator string

const (
	OpEqual          Operator = "=="
	OpNotEqual       Operator = "!="
	OpLess           Operator = "<"
	OpLessOrEqual    Operator = "<="
	OpGreater        Operator = ">"
	OpGreaterOrEqual Operator = ">="
	OpIn             Operator = "in"
	OpArrayContains  Operator = "array-contains"
)

var knownOperators = map[Operator]struct{}{
	OpEqual: {}, OpNotEqual: {}, OpLess: {}, OpLessOrEqual: {},
	OpGreater: {}, OpGreaterOrEqual: {}, OpIn: {}, OpArrayContains: {},
}

// Valid reports whether op is a supported operator.
func (op Operator) Valid() bool {
	_, ok := knownOperators[op]
	return ok
}

// Direction is the sort direction of an orderBy-constraint.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Constraint is one element of a query. Constraints are applied in the order
// given; two logically equal queries with a different constraint order are
// different queries as far as caching is concerned.
type Constraint struct {
	Kind      ConstraintKind `json:"kind"`
	Field     string         `json:"field,omitempty"`
	Op        Operator       `json:"op,omitempty"`
	Value     any            `json:"value,omitempty"`
	Direction Direction      `json:"direction,omitempty"`
	N         int            `json:"n,omitempty"`
}

// Where builds an equality/comparison filter.
func Where(field string, op Operator, value any) Constraint {
	return Constraint{Kind: ConstraintWhere, Field: field, Op: op, Value: value}
}

// OrderBy builds a sort constraint.
func OrderBy(field string, dir Direction) Constraint {
	if dir == "" {
		dir = Asc
	}
	return Constraint{Kind: ConstraintOrderBy, Field: field, Direction: dir}
}

// Limit builds a result-size constraint.
func Limit(n int) Constraint {
	return Constraint{Kind: ConstraintLimit, N: n}
}

// String renders the constraint for logs.
func (c Constraint) String() string {
	switch c.Kind {
	case ConstraintWhere:
		return fmt.Sprintf("where(%s %s %v)", c.Field, c.Op, c.Value)
	case ConstraintOrderBy:
		return fmt.Sprintf("orderBy(%s %s)", c.Field, c.Direction)
	case ConstraintLimit:
		return fmt.Sprintf("limit(%d)", c.N)
	}
	return string(c.Kind)
}
