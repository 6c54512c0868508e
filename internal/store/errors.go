package store

import "errors"

// Sentinel errors returned by every [DocumentStore] backend. Driver-specific
// failures are wrapped so that callers can match them with [errors.Is].
var (
	// ErrNotFound is returned when a single document addressed by id does
	// not exist.
	ErrNotFound = errors.New("document not found")

	// ErrPermissionDenied is returned when the backend rejects the caller
	// (security rules, missing credentials, insufficient privilege).
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUnavailable is returned for transient transport failures: the
	// backend could not be reached or the deadline expired.
	ErrUnavailable = errors.New("document store unavailable")

	// ErrNotConfigured is returned by the unconfigured store used in
	// offline/demo mode.
	ErrNotConfigured = errors.New("document store is not configured")

	// ErrInvalidQuery is returned for malformed constraints or writes.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrClosed is returned when a listener is registered on a closed store.
	ErrClosed = errors.New("document store is closed")
)

// Low-level database operation errors. These are returned (or wrapped) by
// the SQL backend when a statement fails before any document semantics can
// be applied.
var (
	// ErrBuildingSQLQuery is returned when squirrel cannot render a statement.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing an INSERT, UPDATE or
	// DELETE fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a single result row fails.
	ErrScanningRow = errors.New("failed to scan document row")

	// ErrScanningRows is returned when row iteration fails mid-result-set.
	ErrScanningRows = errors.New("failed to scan document rows")

	// ErrDecodingDocument is returned when a stored JSON payload is corrupt.
	ErrDecodingDocument = errors.New("failed to decode document payload")
)
