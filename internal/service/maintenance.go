package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shestoi/GoBigTech/gamestore/internal/repository"
)

// AddItemInput содержит данные для ручного добавления товара
type AddItemInput struct {
	Name     string
	Price    decimal.Decimal
	Stock    int
	Cost     decimal.Decimal
	Provider string
}

// RemoveItemInput содержит данные для удаления товара
// Confirmed должен быть выставлен явным подтверждением пользователя
type RemoveItemInput struct {
	Name      string
	Confirmed bool
}

// AddItem всегда отклоняется: товары появляются в инвентаре только через закупку
func (s *StoreService) AddItem(ctx context.Context, input AddItemInput) error {
	s.logger.Info("add item rejected", zap.String("item", input.Name))
	return fmt.Errorf("%w: items are added to inventory only by purchasing from a provider", ErrOperationDisabled)
}

// ModifyPrice перезаписывает цену продажи товара
func (s *StoreService) ModifyPrice(ctx context.Context, name string, price decimal.Decimal) (*repository.InventoryItem, error) {
	item, err := s.updateItem(ctx, name, func(item *repository.InventoryItem) error {
		if price.IsNegative() {
			return fmt.Errorf("%w: must not be negative, got %s", ErrInvalidPrice, price.String())
		}
		item.Price = price
		return nil
	})
	if err != nil {
		s.logMaintenanceError("modify price", name, err)
		return nil, err
	}

	s.logger.Info("item price modified",
		zap.String("item", name),
		zap.String("price", item.Price.StringFixed(2)),
	)
	return item, nil
}

// ModifyStock перезаписывает остаток товара, себестоимость не пересчитывается
func (s *StoreService) ModifyStock(ctx context.Context, name string, stock int) (*repository.InventoryItem, error) {
	item, err := s.updateItem(ctx, name, func(item *repository.InventoryItem) error {
		if stock < 0 {
			return fmt.Errorf("%w: must not be negative, got %d", ErrInvalidQuantity, stock)
		}
		item.Stock = stock
		return nil
	})
	if err != nil {
		s.logMaintenanceError("modify stock", name, err)
		return nil, err
	}

	s.logger.Info("item stock modified",
		zap.String("item", name),
		zap.Int("stock", item.Stock),
	)
	return item, nil
}

// RemoveItem удаляет товар из инвентаря после подтверждения
func (s *StoreService) RemoveItem(ctx context.Context, input RemoveItemInput) error {
	err := s.removeLocked(ctx, input)
	if err != nil {
		s.logMaintenanceError("remove item", input.Name, err)
		return err
	}

	s.logger.Info("item removed", zap.String("item", input.Name))
	return nil
}

func (s *StoreService) removeLocked(ctx context.Context, input RemoveItemInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getItemLocked(ctx, input.Name); err != nil {
		return err
	}
	if !input.Confirmed {
		return fmt.Errorf("%w: %q", ErrRemovalNotConfirmed, input.Name)
	}
	if err := s.inventory.Delete(ctx, input.Name); err != nil {
		return internalErr("delete inventory item", err)
	}
	return nil
}

// updateItem находит товар, применяет к нему mutate и сохраняет
// Проверка существования выполняется раньше проверки нового значения
func (s *StoreService) updateItem(ctx context.Context, name string, mutate func(item *repository.InventoryItem) error) (*repository.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.getItemLocked(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := mutate(&item); err != nil {
		return nil, err
	}
	if err := s.inventory.Save(ctx, item); err != nil {
		return nil, internalErr("save inventory item", err)
	}
	return &item, nil
}

func (s *StoreService) getItemLocked(ctx context.Context, name string) (repository.InventoryItem, error) {
	item, err := s.inventory.Get(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.InventoryItem{}, fmt.Errorf("%w: %q", ErrItemNotFound, name)
		}
		return repository.InventoryItem{}, internalErr("lookup inventory item", err)
	}
	return item, nil
}

func (s *StoreService) logMaintenanceError(op, name string, err error) {
	if IsValidation(err) {
		s.logger.Info(op+" rejected",
			zap.String("item", name),
			zap.String("reason", Kind(err)),
		)
		return
	}
	s.logger.Error(op+" failed", zap.String("item", name), zap.Error(err))
}
