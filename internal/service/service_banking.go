package service

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"github.com/MKhiriev/go-bank-sync/internal/logger"
	"github.com/MKhiriev/go-bank-sync/models"
)

// defaultTransactionsLimit bounds the admin transaction view when neither
// the caller nor the settings document gives a limit.
const defaultTransactionsLimit = 50

type bankingService struct {
	documents DocumentService
	logger    *logger.Logger
}

func NewBankingService(documents DocumentService, logger *logger.Logger) BankingService {
	return &bankingService{
		documents: documents,
		logger:    logger,
	}
}

func (b *bankingService) UserProfile(ctx context.Context, userID string) (*models.User, error) {
	doc, err := b.userDocument(ctx, userID)
	if err != nil || doc == nil {
		return nil, err
	}

	user := models.UserFromDocument(*doc)
	return &user, nil
}

func (b *bankingService) UpdateUserProfile(ctx context.Context, userID string, fields models.Fields) error {
	return b.documents.Update(ctx, models.CollectionUsers, userID, fields)
}

// Accounts prefers accounts embedded in the user document. Only when there
// are none is the accounts collection queried, once per owner foreign key.
func (b *bankingService) Accounts(ctx context.Context, userID string) ([]models.Account, error) {
	source, err := b.accountSource(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch src := source.(type) {
	case models.EmbeddedAccounts:
		return src.Accounts, nil
	case models.StandaloneAccounts:
		docs := b.byOwner(ctx, models.CollectionAccounts, src.UserID, src.ForeignKeys)
		accounts := make([]models.Account, 0, len(docs))
		for _, doc := range docs {
			accounts = append(accounts, models.AccountFromDocument(doc))
		}
		return accounts, nil
	}
	return []models.Account{}, nil
}

func (b *bankingService) Transactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	source, err := b.transactionSource(ctx, userID)
	if err != nil {
		return nil, err
	}

	var txs []models.Transaction
	switch src := source.(type) {
	case models.EmbeddedTransactions:
		txs = src.Transactions
	case models.StandaloneTransactions:
		docs := b.byOwner(ctx, models.CollectionTransactions, src.UserID, src.ForeignKeys)
		txs = make([]models.Transaction, 0, len(docs))
		for _, doc := range docs {
			txs = append(txs, models.TransactionFromDocument(doc))
		}
	}

	if txs == nil {
		txs = []models.Transaction{}
	}
	sortNewestFirst(txs)
	return txs, nil
}

func (b *bankingService) Users(ctx context.Context) []models.User {
	docs := b.documents.List(ctx, models.CollectionUsers)

	users := make([]models.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, models.UserFromDocument(doc))
	}
	return users
}

// AllTransactions is the admin view over every user's transactions. Sorting
// happens here because documents carry their date under different names.
func (b *bankingService) AllTransactions(ctx context.Context, limit int) []models.Transaction {
	if limit <= 0 {
		limit = b.SystemSettings(ctx).TransactionsPageLimit
	}
	if limit <= 0 {
		limit = defaultTransactionsLimit
	}

	docs := b.documents.List(ctx, models.CollectionTransactions)
	txs := make([]models.Transaction, 0, len(docs))
	for _, doc := range docs {
		txs = append(txs, models.TransactionFromDocument(doc))
	}

	sortNewestFirst(txs)
	if len(txs) > limit {
		txs = txs[:limit]
	}
	return txs
}

func (b *bankingService) SystemSettings(ctx context.Context) models.SystemSettings {
	doc, err := b.documents.Read(ctx, models.CollectionSettings, models.SystemSettingsID)
	if err != nil {
		logger.FromContextOr(ctx, b.logger).Warn().Err(err).
			Str("func", "bankingService.SystemSettings").
			Msg("failed to read system settings, using defaults")
		return models.DefaultSystemSettings()
	}
	if doc == nil {
		return models.DefaultSystemSettings()
	}
	return models.SystemSettingsFromDocument(*doc)
}

// UpdateSystemSettings merges into the settings document, creating it on
// first use.
func (b *bankingService) UpdateSystemSettings(ctx context.Context, fields models.Fields) error {
	err := b.documents.Update(ctx, models.CollectionSettings, models.SystemSettingsID, fields)
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	_, err = b.documents.CreateWithID(ctx, models.CollectionSettings, models.SystemSettingsID, fields)
	return err
}

func (b *bankingService) userDocument(ctx context.Context, userID string) (*models.Document, error) {
	doc, err := b.documents.Read(ctx, models.CollectionUsers, userID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		logger.FromContextOr(ctx, b.logger).Warn().
			Str("func", "bankingService.userDocument").
			Str("collection", models.CollectionUsers).
			Str("id", userID).
			Msg("user document not found")
	}
	return doc, nil
}

func (b *bankingService) accountSource(ctx context.Context, userID string) (models.AccountSource, error) {
	doc, err := b.userDocument(ctx, userID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return models.StandaloneAccounts{UserID: userID, ForeignKeys: models.OwnerFields}, nil
	}
	return models.ResolveAccountSource(*doc), nil
}

func (b *bankingService) transactionSource(ctx context.Context, userID string) (models.TransactionSource, error) {
	doc, err := b.userDocument(ctx, userID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return models.StandaloneTransactions{UserID: userID, ForeignKeys: models.OwnerFields}, nil
	}
	return models.ResolveTransactionSource(*doc), nil
}

// byOwner queries collection once per foreign key and merges the results,
// keeping the first occurrence of every id.
func (b *bankingService) byOwner(ctx context.Context, collection, userID string, foreignKeys []string) []models.Document {
	seen := make(map[string]struct{})
	merged := make([]models.Document, 0)

	for _, key := range foreignKeys {
		for _, doc := range b.documents.List(ctx, collection, models.Where(key, models.OpEqual, userID)) {
			if _, dup := seen[doc.ID]; dup {
				continue
			}
			seen[doc.ID] = struct{}{}
			merged = append(merged, doc)
		}
	}
	return merged
}

func sortNewestFirst(txs []models.Transaction) {
	slices.SortStableFunc(txs, func(a, b models.Transaction) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
