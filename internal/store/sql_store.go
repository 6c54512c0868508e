// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-bank-sync/internal/logger"
	"github.com/MKhiriev/go-bank-sync/models"
)

// SQLStore keeps documents as JSON payloads in a single relational table.
// Filters, ordering and limits are evaluated in Go after loading the
// collection; listeners are synthesized by an in-process watch hub that is
// notified after every committed write.
type SQLStore struct {
	*DB
	builder sq.StatementBuilderType
	hub     *watchHub
	now     func() time.Time
	logger  *logger.Logger
}

// NewSQLStore constructs a [SQLStore] on top of a migrated database.
func NewSQLStore(db *DB, log *logger.Logger) *SQLStore {
	return &SQLStore{
		DB:      db,
		builder: newStatementBuilder(db.dialect),
		hub:     newWatchHub(log),
		now:     func() time.Time { return time.Now().UTC() },
		logger:  log,
	}
}

func (s *SQLStore) Add(ctx context.Context, collection string, fields models.Fields) (models.Document, error) {
	return s.Set(ctx, collection, NewDocumentID(), fields)
}

func (s *SQLStore) Set(ctx context.Context, collection, id string, fields models.Fields) (models.Document, error) {
	log := logger.FromContextOr(ctx, s.logger)

	if collection == "" || id == "" {
		return models.Document{}, fmt.Errorf("%w: collection and id are required", ErrInvalidQuery)
	}

	now := s.now()
	resolved := models.ResolveServerTimestamps(fields, now)
	if err := s.upsert(ctx, s.DB.DB, collection, id, resolved, now); err != nil {
		log.Err(err).
			Str("func", "SQLStore.Set").
			Str("collection", collection).
			Str("id", id).
			Msg("failed to store document")
		return models.Document{}, err
	}

	s.hub.notify(collection)
	return models.Document{ID: id, Fields: resolved}, nil
}

func (s *SQLStore) Get(ctx context.Context, collection, id string) (models.Document, error) {
	return s.get(ctx, s.DB.DB, collection, id)
}

func (s *SQLStore) Update(ctx context.Context, collection, id string, fields models.Fields) error {
	log := logger.FromContextOr(ctx, s.logger)

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		return s.update(ctx, tx, collection, id, fields, s.now())
	})
	if err != nil {
		log.Err(err).
			Str("func", "SQLStore.Update").
			Str("collection", collection).
			Str("id", id).
			Msg("failed to update document")
		return err
	}

	s.hub.notify(collection)
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, collection, id string) error {
	affected, err := s.delete(ctx, s.DB.DB, collection, id)
	if err != nil {
		logger.FromContextOr(ctx, s.logger).Err(err).
			Str("func", "SQLStore.Delete").
			Str("collection", collection).
			Str("id", id).
			Msg("failed to delete document")
		return err
	}

	if affected > 0 {
		s.hub.notify(collection)
	}
	return nil
}

func (s *SQLStore) Query(ctx context.Context, collection string, constraints ...models.Constraint) ([]models.Document, error) {
	if err := ValidateConstraints(constraints); err != nil {
		return nil, err
	}

	docs, err := s.list(ctx, collection)
	if err != nil {
		logger.FromContextOr(ctx, s.logger).Err(err).
			Str("func", "SQLStore.Query").
			Str("collection", collection).
			Msg("failed to list documents")
		return nil, err
	}

	return ApplyConstraints(docs, constraints)
}

func (s *SQLStore) Commit(ctx context.Context, writes []models.Write) error {
	if err := ValidateWrites(writes); err != nil {
		return err
	}

	now := s.now()
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for i, w := range writes {
			var err error
			switch w.Kind {
			case models.WriteSet:
				err = s.upsert(ctx, tx, w.Collection, w.ID, models.ResolveServerTimestamps(w.Fields, now), now)
			case models.WriteUpdate:
				err = s.update(ctx, tx, w.Collection, w.ID, w.Fields, now)
			case models.WriteDelete:
				_, err = s.delete(ctx, tx, w.Collection, w.ID)
			}
			if err != nil {
				return fmt.Errorf("write %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		logger.FromContextOr(ctx, s.logger).Err(err).
			Str("func", "SQLStore.Commit").
			Int("writes", len(writes)).
			Msg("batch rolled back")
		return err
	}

	s.hub.notify(touchedCollections(writes)...)
	return nil
}

func (s *SQLStore) WatchDocument(ctx context.Context, collection, id string, cb DocumentCallback) (Unsubscribe, error) {
	return s.hub.watchDocumentWith(ctx, collection, func(ctx context.Context) (models.Document, error) {
		return s.Get(ctx, collection, id)
	}, cb)
}

func (s *SQLStore) WatchQuery(ctx context.Context, collection string, constraints []models.Constraint, cb QueryCallback) (Unsubscribe, error) {
	if err := ValidateConstraints(constraints); err != nil {
		return nil, err
	}
	return s.hub.watchQueryWith(ctx, collection, func(ctx context.Context) ([]models.Document, error) {
		return s.Query(ctx, collection, constraints...)
	}, cb)
}

// Close stops all listeners and closes the connection pool.
func (s *SQLStore) Close() error {
	s.hub.close()
	return s.DB.Close()
}

func (s *SQLStore) get(ctx context.Context, exec sqlExecutor, collection, id string) (models.Document, error) {
	query, args, err := s.buildGetDocumentQuery(collection, id)
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return s.scanDocument(ctx, exec, collection, id, query, args)
}

func (s *SQLStore) lock(ctx context.Context, exec sqlExecutor, collection, id string) (models.Document, error) {
	query, args, err := s.buildLockDocumentQuery(collection, id)
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return s.scanDocument(ctx, exec, collection, id, query, args)
}

func (s *SQLStore) scanDocument(ctx context.Context, exec sqlExecutor, collection, id, query string, args []any) (models.Document, error) {
	var docID, data string
	if err := exec.QueryRowContext(ctx, query, args...).Scan(&docID, &data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Document{}, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
		}
		return models.Document{}, s.classify(ErrScanningRow, err)
	}

	fields, err := decodeFields(data)
	if err != nil {
		return models.Document{}, err
	}
	return models.Document{ID: docID, Fields: fields}, nil
}

func (s *SQLStore) list(ctx context.Context, collection string) ([]models.Document, error) {
	query, args, err := s.buildListDocumentsQuery(collection)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.classify(ErrExecutingQuery, err)
	}
	defer rows.Close()

	docs := make([]models.Document, 0, 16)
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, s.classify(ErrScanningRow, err)
		}
		fields, err := decodeFields(data)
		if err != nil {
			return nil, err
		}
		docs = append(docs, models.Document{ID: id, Fields: fields})
	}

	if err := rows.Err(); err != nil {
		return nil, s.classify(ErrScanningRows, err)
	}

	return docs, nil
}

func (s *SQLStore) upsert(ctx context.Context, exec sqlExecutor, collection, id string, fields models.Fields, now time.Time) error {
	data, err := encodeFields(fields)
	if err != nil {
		return err
	}

	query, args, err := s.buildUpsertDocumentQuery(collection, id, data, now.UnixMilli())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		return s.classify(ErrExecutingStatement, err)
	}
	return nil
}

func (s *SQLStore) update(ctx context.Context, exec sqlExecutor, collection, id string, patch models.Fields, now time.Time) error {
	existing, err := s.lock(ctx, exec, collection, id)
	if err != nil {
		return err
	}

	data, err := encodeFields(mergeFields(existing.Fields, models.ResolveServerTimestamps(patch, now)))
	if err != nil {
		return err
	}

	query, args, err := s.buildUpdateDocumentQuery(collection, id, data, now.UnixMilli())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		return s.classify(ErrExecutingStatement, err)
	}
	return nil
}

func (s *SQLStore) delete(ctx context.Context, exec sqlExecutor, collection, id string) (int64, error) {
	query, args, err := s.buildDeleteDocumentQuery(collection, id)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, s.classify(ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return affected, nil
}

func (s *SQLStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return s.classify(ErrBeginningTransaction, err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return s.classify(ErrCommitingTransaction, err)
	}
	return nil
}

func encodeFields(fields models.Fields) (string, error) {
	b, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	return string(b), nil
}

// decodeFields restores the payload. The well-known timestamp fields come
// back as time.Time; other timestamps stay RFC 3339 strings.
func decodeFields(data string) (models.Fields, error) {
	var fields models.Fields
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodingDocument, err)
	}
	if fields == nil {
		fields = models.Fields{}
	}

	for _, name := range []string{models.FieldCreatedAt, models.FieldUpdatedAt} {
		if raw, ok := fields[name].(string); ok {
			if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
				fields[name] = t
			}
		}
	}
	return fields, nil
}
