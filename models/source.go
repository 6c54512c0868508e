package models

// AccountSource tells where a user's accounts live. It is resolved once from
// the user document and is either [EmbeddedAccounts] or [StandaloneAccounts].
type AccountSource interface {
	accountSource()
}

// EmbeddedAccounts holds accounts stored as an array on the user document.
type EmbeddedAccounts struct {
	Accounts []Account
}

// StandaloneAccounts means the accounts must be looked up in the accounts
// collection by any of the owner foreign keys.
type StandaloneAccounts struct {
	UserID      string
	ForeignKeys []string
}

func (EmbeddedAccounts) accountSource()   {}
func (StandaloneAccounts) accountSource() {}

// TransactionSource is the transactions counterpart of [AccountSource].
type TransactionSource interface {
	transactionSource()
}

// EmbeddedTransactions holds transactions stored on the user document.
type EmbeddedTransactions struct {
	Transactions []Transaction
}

// StandaloneTransactions means the transactions collection must be queried.
type StandaloneTransactions struct {
	UserID      string
	ForeignKeys []string
}

func (EmbeddedTransactions) transactionSource()   {}
func (StandaloneTransactions) transactionSource() {}

// ResolveAccountSource picks the preferred source for the accounts of the
// given user document: a non-empty embedded "accounts" array wins.
func ResolveAccountSource(user Document) AccountSource {
	embedded := user.Slice(CollectionAccounts)
	if len(embedded) == 0 {
		return StandaloneAccounts{UserID: user.ID, ForeignKeys: OwnerFields}
	}

	accounts := make([]Account, 0, len(embedded))
	for i, f := range embedded {
		acc := AccountFromDocument(embeddedDocument(user.ID, i, f, "accountId"))
		if acc.UserID == "" {
			acc.UserID = user.ID
		}
		accounts = append(accounts, acc)
	}
	return EmbeddedAccounts{Accounts: accounts}
}

// ResolveTransactionSource picks the preferred source for the transactions
// of the given user document.
func ResolveTransactionSource(user Document) TransactionSource {
	embedded := user.Slice(CollectionTransactions)
	if len(embedded) == 0 {
		return StandaloneTransactions{UserID: user.ID, ForeignKeys: OwnerFields}
	}

	txs := make([]Transaction, 0, len(embedded))
	for i, f := range embedded {
		tx := TransactionFromDocument(embeddedDocument(user.ID, i, f, "transactionId"))
		if tx.UserID == "" {
			tx.UserID = user.ID
		}
		txs = append(txs, tx)
	}
	return EmbeddedTransactions{Transactions: txs}
}
