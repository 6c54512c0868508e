package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-bank-sync/internal/config"
	"github.com/MKhiriev/go-bank-sync/internal/logger"
)

// Storages bundles the backends the service layer depends on.
type Storages struct {
	Documents DocumentStore
	Driver    string
}

// NewStorages connects the document store selected by cfg.Driver. SQL
// backends are migrated before use.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	storeLog := log.WithComponent("store")

	var documents DocumentStore
	switch cfg.Driver {
	case config.DriverNone:
		log.Warn().Str("func", "NewStorages").Msg("no document store configured, running offline")
		documents = NewUnconfigured()
	case config.DriverMemory:
		documents = NewMemoryStore(storeLog)
	case config.DriverFirestore:
		fs, err := NewConnectFirestore(ctx, cfg.Firestore, storeLog)
		if err != nil {
			return nil, err
		}
		documents = fs
	case config.DriverSQLite, config.DriverPostgres:
		db, err := connectSQL(ctx, cfg, storeLog)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(); err != nil {
			log.Err(err).Str("func", "NewStorages").Msg("error migrating database")
			db.Close()
			return nil, err
		}
		documents = NewSQLStore(db, storeLog)
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", ErrNotConfigured, cfg.Driver)
	}

	log.Info().Str("func", "NewStorages").Str("driver", cfg.Driver).Msg("document store ready")
	return &Storages{Documents: documents, Driver: cfg.Driver}, nil
}

func connectSQL(ctx context.Context, cfg config.Storage, log *logger.Logger) (*DB, error) {
	if cfg.Driver == config.DriverSQLite {
		return NewConnectSQLite(ctx, cfg.DB, log)
	}
	return NewConnectPostgres(ctx, cfg.DB, log)
}

// Close releases the document store.
func (s *Storages) Close() error {
	return s.Documents.Close()
}
