package services

import (
	"fmt"

	"github.com/bharatwheels/partner-backend/internal/models"
	"github.com/bharatwheels/partner-backend/internal/storage"
)

// WalletService records immutable ledger entries and keeps the user's
// balance in step at write time.
type WalletService struct {
	store storage.Store
}

// NewWalletService creates the wallet service.
func NewWalletService(store storage.Store) *WalletService {
	return &WalletService{store: store}
}

// Credit adds money to a user's wallet.
func (w *WalletService) Credit(userID string, amount float64, description, reference string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	txn := &models.Transaction{
		UserID:      userID,
		Type:        models.TransactionCredit,
		Amount:      amount,
		Description: description,
		Reference:   reference,
	}
	if err := w.store.ApplyTransaction(txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// Debit removes money from a user's wallet; fails on insufficient balance.
func (w *WalletService) Debit(userID string, amount float64, description, reference string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	txn := &models.Transaction{
		UserID:      userID,
		Type:        models.TransactionDebit,
		Amount:      amount,
		Description: description,
		Reference:   reference,
	}
	if err := w.store.ApplyTransaction(txn); err != nil {
		return nil, err
	}
	return txn, nil
}
