package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidCollection  = errors.New("invalid collection name")
	ErrInvalidDocumentID  = errors.New("invalid document id")
	ErrReservedField      = errors.New("reserved field name in document body")
	ErrEmptyFieldName     = errors.New("field name cannot be empty")
	ErrNoFieldsToUpdate   = errors.New("at least one field must be provided for update")
	ErrEmptyWrites        = errors.New("batch must contain at least one write")
	ErrTooManyWrites      = errors.New("batch exceeds the maximum number of writes")
	ErrInvalidWriteKind   = errors.New("invalid write kind")
	ErrInvalidConstraints = errors.New("invalid query constraints")
)
