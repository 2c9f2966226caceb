package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// TreasuryRepository хранит баланс магазина в памяти
type TreasuryRepository struct {
	mu      sync.RWMutex
	balance decimal.Decimal
}

// NewTreasuryRepository создаёт кассу с начальным балансом
func NewTreasuryRepository(initial decimal.Decimal) *TreasuryRepository {
	return &TreasuryRepository{balance: initial}
}

func (r *TreasuryRepository) Balance(ctx context.Context) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.balance, nil
}

func (r *TreasuryRepository) SetBalance(ctx context.Context, balance decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balance = balance
	return nil
}
