package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction types
const (
	TransactionCredit = "credit"
	TransactionDebit  = "debit"
)

// Transaction is an immutable wallet ledger entry. The user's wallet balance
// is updated at write time alongside the entry, never recomputed.
type Transaction struct {
	gorm.Model

	TransactionID string  `json:"transaction_id" gorm:"uniqueIndex"`
	UserID        string  `json:"user_id" gorm:"index"`
	Type          string  `json:"type"` // credit or debit
	Amount        float64 `json:"amount"`
	Description   string  `json:"description"`
	Reference     string  `json:"reference"` // booking/vehicle ID where applicable
	BalanceAfter  float64 `json:"balance_after"`
}

// BeforeCreate assigns the transaction reference ID.
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.TransactionID == "" {
		t.TransactionID = "TXN-" + uuid.NewString()
	}
	return nil
}
