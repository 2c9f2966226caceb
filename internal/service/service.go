package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shestoi/GoBigTech/gamestore/internal/repository"
)

// StoreService содержит бизнес-логику магазина: закупки, продажи, обслуживание инвентаря
// Зависит от интерфейсов хранилищ, а не от конкретной реализации
//
// Все операции выполняются под одним мьютексом: каталог, инвентарь и касса
// меняются как единый логический шаг даже при конкурентных вызовах из HTTP API
type StoreService struct {
	mu        sync.Mutex
	logger    *zap.Logger
	catalog   repository.CatalogRepository
	inventory repository.InventoryRepository
	treasury  repository.TreasuryRepository
	publisher EventPublisher
	metrics   MetricsRecorder
}

// NewStoreService создаёт новый экземпляр StoreService
// publisher и metrics могут быть nil
func NewStoreService(
	logger *zap.Logger,
	catalog repository.CatalogRepository,
	inventory repository.InventoryRepository,
	treasury repository.TreasuryRepository,
	publisher EventPublisher,
	metrics MetricsRecorder,
) *StoreService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &StoreService{
		logger:    logger,
		catalog:   catalog,
		inventory: inventory,
		treasury:  treasury,
		publisher: publisher,
		metrics:   metrics,
	}
}

// ListProviders возвращает каталоги всех поставщиков
func (s *StoreService) ListProviders(ctx context.Context) ([]repository.Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	providers, err := s.catalog.ListProviders(ctx)
	if err != nil {
		return nil, internalErr("list providers", err)
	}
	return providers, nil
}

// ListInventory возвращает товары в порядке добавления
func (s *StoreService) ListInventory(ctx context.Context) ([]repository.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.inventory.List(ctx)
	if err != nil {
		return nil, internalErr("list inventory", err)
	}
	return items, nil
}

// GetBalance возвращает текущий баланс кассы
func (s *StoreService) GetBalance(ctx context.Context) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	balance, err := s.treasury.Balance(ctx)
	if err != nil {
		return decimal.Zero, internalErr("read balance", err)
	}
	return balance, nil
}

func internalErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
}
