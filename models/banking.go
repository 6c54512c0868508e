// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"strconv"
	"time"
)

// Collections used by the banking demo.
const (
	CollectionUsers        = "users"
	CollectionAccounts     = "accounts"
	CollectionTransactions = "transactions"
	CollectionSettings     = "settings"

	// SystemSettingsID is the id of the single system settings document.
	SystemSettingsID = "system"
)

// BankingCollections lists every collection the banking read models use.
var BankingCollections = []string{
	CollectionUsers,
	CollectionAccounts,
	CollectionTransactions,
	CollectionSettings,
}

// Owner foreign-key field names found on standalone account and transaction
// documents. Older documents use "uid", newer ones "userId".
var OwnerFields = []string{"userId", "uid"}

// Role of a user of the demo.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User is the decoded profile of a users document.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Account is a bank account, either embedded in a user document or stored
// in the accounts collection.
type Account struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Name      string    `json:"name,omitempty"`
	Type      string    `json:"type,omitempty"`
	Number    string    `json:"number,omitempty"`
	Balance   float64   `json:"balance"`
	Currency  string    `json:"currency,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Transaction is a single money movement.
type Transaction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id,omitempty"`
	AccountID   string    `json:"account_id,omitempty"`
	Type        string    `json:"type,omitempty"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status,omitempty"`
	Date        time.Time `json:"date"`
}

// SystemSettings is the admin-editable configuration document.
type SystemSettings struct {
	MaintenanceMode       bool    `json:"maintenance_mode"`
	AllowRegistrations    bool    `json:"allow_registrations"`
	DailyTransferLimit    float64 `json:"daily_transfer_limit"`
	DefaultCurrency       string  `json:"default_currency"`
	TransactionsPageLimit int     `json:"transactions_page_limit"`
}

// DefaultSystemSettings is served when no settings document exists yet.
func DefaultSystemSettings() SystemSettings {
	return SystemSettings{
		AllowRegistrations:    true,
		DailyTransferLimit:    10000,
		DefaultCurrency:       "USD",
		TransactionsPageLimit: 50,
	}
}

// UserFromDocument decodes a users document.
func UserFromDocument(doc Document) User {
	role := Role(doc.String("role"))
	if role == "" {
		role = RoleCustomer
	}
	return User{
		ID:          doc.ID,
		Email:       doc.String("email"),
		DisplayName: doc.String("displayName", "name", "fullName"),
		Phone:       doc.String("phone", "phoneNumber"),
		Address:     doc.String("address"),
		Role:        role,
		CreatedAt:   doc.CreatedAt(),
		UpdatedAt:   doc.UpdatedAt(),
	}
}

// AccountFromDocument decodes an account regardless of which field-name
// convention the document was written with.
func AccountFromDocument(doc Document) Account {
	balance, _ := doc.Float("balance")
	return Account{
		ID:        doc.ID,
		UserID:    doc.String(OwnerFields...),
		Name:      doc.String("name", "accountName"),
		Type:      doc.String("type", "accountType"),
		Number:    doc.String("number", "accountNumber"),
		Balance:   balance,
		Currency:  doc.String("currency"),
		CreatedAt: doc.CreatedAt(),
	}
}

// TransactionFromDocument decodes a transaction.
func TransactionFromDocument(doc Document) Transaction {
	amount, _ := doc.Float("amount")
	return Transaction{
		ID:          doc.ID,
		UserID:      doc.String(OwnerFields...),
		AccountID:   doc.String("accountId", "account_id"),
		Type:        doc.String("type", "transactionType"),
		Amount:      amount,
		Description: doc.String("description", "memo"),
		Status:      doc.String("status"),
		Date:        doc.Time("date", "timestamp", FieldCreatedAt),
	}
}

// SystemSettingsFromDocument overlays the stored fields on the defaults.
func SystemSettingsFromDocument(doc Document) SystemSettings {
	s := DefaultSystemSettings()
	if v, ok := doc.Fields["maintenanceMode"].(bool); ok {
		s.MaintenanceMode = v
	}
	if v, ok := doc.Fields["allowRegistrations"].(bool); ok {
		s.AllowRegistrations = v
	}
	if v, ok := doc.Float("dailyTransferLimit"); ok {
		s.DailyTransferLimit = v
	}
	if v := doc.String("defaultCurrency"); v != "" {
		s.DefaultCurrency = v
	}
	if v, ok := doc.Float("transactionsPageLimit"); ok && v > 0 {
		s.TransactionsPageLimit = int(v)
	}
	return s
}

// embeddedDocument turns an element of an embedded array into a Document.
// Embedded records without an id get a positional one so that they can still
// be de-duplicated.
func embeddedDocument(parentID string, index int, f Fields, idFields ...string) Document {
	doc := Document{Fields: f}
	doc.ID = doc.String(append([]string{FieldID}, idFields...)...)
	if doc.ID == "" {
		doc.ID = parentID + "#" + strconv.Itoa(index)
	}
	return doc
}
