package store

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/MKhiriev/go-bank-sync/internal/config"
	"github.com/MKhiriev/go-bank-sync/internal/logger"
	"github.com/MKhiriev/go-bank-sync/models"
)

// FirestoreStore is a Cloud Firestore-backed implementation of DocumentStore.
type FirestoreStore struct {
	client *firestore.Client
	logger *logger.Logger
}

// NewConnectFirestore opens a Firestore client for the configured project.
// FIRESTORE_EMULATOR_HOST is honoured by the SDK.
func NewConnectFirestore(ctx context.Context, cfg config.Firestore, log *logger.Logger) (*FirestoreStore, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		log.Err(err).Str("func", "NewConnectFirestore").Msg("error creating firestore client")
		return nil, classifyFirestoreError(err)
	}
	log.Info().Str("func", "NewConnectFirestore").Str("project", cfg.ProjectID).Msg("firestore client created")

	return NewFirestoreStore(client, log), nil
}

// NewFirestoreStore creates a new FirestoreStore using the given Firestore client.
func NewFirestoreStore(client *firestore.Client, log *logger.Logger) *FirestoreStore {
	return &FirestoreStore{
		client: client,
		logger: log,
	}
}

func (s *FirestoreStore) docRef(collection, id string) *firestore.DocumentRef {
	return s.client.Collection(collection).Doc(id)
}

func (s *FirestoreStore) Add(ctx context.Context, collection string, fields models.Fields) (models.Document, error) {
	ref, wr, err := s.client.Collection(collection).Add(ctx, toFirestore(fields))
	if err != nil {
		return models.Document{}, classifyFirestoreError(err)
	}
	return models.Document{ID: ref.ID, Fields: models.ResolveServerTimestamps(fields, wr.UpdateTime)}, nil
}

func (s *FirestoreStore) Set(ctx context.Context, collection, id string, fields models.Fields) (models.Document, error) {
	wr, err := s.docRef(collection, id).Set(ctx, toFirestore(fields))
	if err != nil {
		return models.Document{}, classifyFirestoreError(err)
	}
	return models.Document{ID: id, Fields: models.ResolveServerTimestamps(fields, wr.UpdateTime)}, nil
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (models.Document, error) {
	snap, err := s.docRef(collection, id).Get(ctx)
	if err != nil {
		return models.Document{}, classifyFirestoreError(err)
	}
	return snapshotToDocument(snap), nil
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, fields models.Fields) error {
	_, err := s.docRef(collection, id).Update(ctx, toUpdates(fields))
	if err != nil {
		return classifyFirestoreError(err)
	}
	return nil
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.docRef(collection, id).Delete(ctx); err != nil {
		return classifyFirestoreError(err)
	}
	return nil
}

func (s *FirestoreStore) Query(ctx context.Context, collection string, constraints ...models.Constraint) ([]models.Document, error) {
	q, err := s.buildQuery(collection, constraints)
	if err != nil {
		return nil, err
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var result []models.Document
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, classifyFirestoreError(err)
		}
		result = append(result, snapshotToDocument(snap))
	}
	return result, nil
}

// Commit runs all writes in one transaction so that an update of a missing
// document aborts the whole batch.
func (s *FirestoreStore) Commit(ctx context.Context, writes []models.Write) error {
	if err := ValidateWrites(writes); err != nil {
		return err
	}

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, w := range writes {
			ref := s.docRef(w.Collection, w.ID)
			var err error
			switch w.Kind {
			case models.WriteSet:
				err = tx.Set(ref, toFirestore(w.Fields))
			case models.WriteUpdate:
				err = tx.Update(ref, toUpdates(w.Fields))
			case models.WriteDelete:
				err = tx.Delete(ref)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return classifyFirestoreError(err)
	}
	return nil
}

func (s *FirestoreStore) WatchDocument(ctx context.Context, collection, id string, cb DocumentCallback) (Unsubscribe, error) {
	ctx, cancel := context.WithCancel(ctx)
	iter := s.docRef(collection, id).Snapshots(ctx)

	go func() {
		defer iter.Stop()
		for {
			snap, err := iter.Next()
			if err != nil {
				if ctx.Err() == nil && status.Code(err) != codes.Canceled {
					cb(nil, classifyFirestoreError(err))
				}
				return
			}
			if !snap.Exists() {
				cb(nil, nil)
				continue
			}
			doc := snapshotToDocument(snap)
			cb(&doc, nil)
		}
	}()

	return Unsubscribe(cancel), nil
}

func (s *FirestoreStore) WatchQuery(ctx context.Context, collection string, constraints []models.Constraint, cb QueryCallback) (Unsubscribe, error) {
	q, err := s.buildQuery(collection, constraints)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	iter := q.Snapshots(ctx)

	go func() {
		defer iter.Stop()
		for {
			qs, err := iter.Next()
			if err != nil {
				if ctx.Err() == nil && status.Code(err) != codes.Canceled {
					cb(nil, classifyFirestoreError(err))
				}
				return
			}
			snaps, err := qs.Documents.GetAll()
			if err != nil {
				if ctx.Err() == nil {
					cb(nil, classifyFirestoreError(err))
				}
				return
			}
			docs := make([]models.Document, 0, len(snaps))
			for _, snap := range snaps {
				docs = append(docs, snapshotToDocument(snap))
			}
			cb(docs, nil)
		}
	}()

	return Unsubscribe(cancel), nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func (s *FirestoreStore) buildQuery(collection string, constraints []models.Constraint) (firestore.Query, error) {
	q := s.client.Collection(collection).Query
	if err := ValidateConstraints(constraints); err != nil {
		return q, err
	}

	for _, c := range constraints {
		switch c.Kind {
		case models.ConstraintWhere:
			if c.Field == models.FieldID {
				q = q.Where(firestore.DocumentID, string(c.Op), s.documentIDValue(collection, c))
				continue
			}
			value := c.Value
			if c.Op == models.OpIn {
				value, _ = asSlice(c.Value)
			}
			q = q.Where(c.Field, string(c.Op), value)
		case models.ConstraintOrderBy:
			dir := firestore.Asc
			if c.Direction == models.Desc {
				dir = firestore.Desc
			}
			q = q.OrderBy(c.Field, dir)
		case models.ConstraintLimit:
			q = q.Limit(c.N)
		}
	}
	return q, nil
}

// documentIDValue turns id filter values into document references, which is
// what the SDK expects for firestore.DocumentID.
func (s *FirestoreStore) documentIDValue(collection string, c models.Constraint) any {
	toRef := func(v any) any {
		if id, ok := v.(string); ok {
			return s.docRef(collection, id)
		}
		return v
	}

	if c.Op != models.OpIn {
		return toRef(c.Value)
	}
	values, _ := asSlice(c.Value)
	refs := make([]any, 0, len(values))
	for _, v := range values {
		refs = append(refs, toRef(v))
	}
	return refs
}

func snapshotToDocument(snap *firestore.DocumentSnapshot) models.Document {
	return models.Document{ID: snap.Ref.ID, Fields: models.Fields(snap.Data())}
}

// toFirestore swaps the store-neutral timestamp sentinel for the SDK one.
func toFirestore(fields models.Fields) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if models.IsServerTimestamp(v) {
			out[k] = firestore.ServerTimestamp
			continue
		}
		out[k] = v
	}
	return out
}

// toUpdates uses FieldPath so that keys containing dots are not treated as
// nested paths.
func toUpdates(fields models.Fields) []firestore.Update {
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		if models.IsServerTimestamp(v) {
			v = firestore.ServerTimestamp
		}
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: v})
	}
	return updates
}

func classifyFirestoreError(err error) error {
	if err == nil {
		return nil
	}

	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case codes.PermissionDenied, codes.Unauthenticated:
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted, codes.Canceled:
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	case codes.InvalidArgument, codes.FailedPrecondition:
		return fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}
