package store

import (
	sq "github.com/Masterminds/squirrel"
)

const documentsTable = "documents"

const upsertConflictClause = "ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at"

// newStatementBuilder returns a squirrel builder with the placeholder style
// of dialect.
func newStatementBuilder(dialect string) sq.StatementBuilderType {
	if dialect == DialectPostgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

func (s *SQLStore) buildGetDocumentQuery(collection, id string) (string, []any, error) {
	return s.builder.
		Select("id", "data").
		From(documentsTable).
		Where(sq.Eq{"collection": collection, "id": id}).
		ToSql()
}

// buildLockDocumentQuery reads a document inside a read-modify-write
// transaction. Postgres locks the row; SQLite already serializes writers.
func (s *SQLStore) buildLockDocumentQuery(collection, id string) (string, []any, error) {
	query := s.builder.
		Select("id", "data").
		From(documentsTable).
		Where(sq.Eq{"collection": collection, "id": id})
	if s.dialect == DialectPostgres {
		query = query.Suffix("FOR UPDATE")
	}
	return query.ToSql()
}

func (s *SQLStore) buildListDocumentsQuery(collection string) (string, []any, error) {
	return s.builder.
		Select("id", "data").
		From(documentsTable).
		Where(sq.Eq{"collection": collection}).
		OrderBy("id").
		ToSql()
}

func (s *SQLStore) buildUpsertDocumentQuery(collection, id, data string, now int64) (string, []any, error) {
	return s.builder.
		Insert(documentsTable).
		Columns("collection", "id", "data", "created_at", "updated_at").
		Values(collection, id, data, now, now).
		Suffix(upsertConflictClause).
		ToSql()
}

func (s *SQLStore) buildUpdateDocumentQuery(collection, id, data string, now int64) (string, []any, error) {
	return s.builder.
		Update(documentsTable).
		Set("data", data).
		Set("updated_at", now).
		Where(sq.Eq{"collection": collection, "id": id}).
		ToSql()
}

func (s *SQLStore) buildDeleteDocumentQuery(collection, id string) (string, []any, error) {
	return s.builder.
		Delete(documentsTable).
		Where(sq.Eq{"collection": collection, "id": id}).
		ToSql()
}
