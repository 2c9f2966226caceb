package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shestoi/GoBigTech/gamestore/internal/repository"
)

// defaultMarkup - наценка для новых товаров: цена продажи = себестоимость * 2
var defaultMarkup = decimal.NewFromInt(2)

// PurchaseInput содержит входные данные закупки у поставщика
type PurchaseInput struct {
	Provider string
	Item     string
	Quantity int
}

// PurchaseOutput содержит результат закупки
type PurchaseOutput struct {
	PurchaseID   string
	Provider     string
	Item         string
	Quantity     int
	Created      bool            // товар создан этой закупкой (иначе пополнен)
	Stock        int             // остаток товара после закупки
	Price        decimal.Decimal // цена продажи; для нового товара - назначенная по умолчанию
	UnitCost     decimal.Decimal // цена поставщика за единицу
	Cost         decimal.Decimal // средневзвешенная себестоимость после закупки
	TotalCost    decimal.Decimal
	BalanceAfter decimal.Decimal
}

// Purchase закупает товар у поставщика и кладёт его в инвентарь
// Проверки выполняются по порядку, первая неудачная возвращает ошибку и ничего не меняет:
// поставщик, товар у поставщика, количество, остаток у поставщика, баланс кассы
func (s *StoreService) Purchase(ctx context.Context, input PurchaseInput) (*PurchaseOutput, error) {
	out, err := s.purchaseLocked(ctx, input)
	if err != nil {
		s.recordPurchase(ctx, Kind(err), 0)
		if IsValidation(err) {
			s.logger.Info("purchase rejected",
				zap.String("provider", input.Provider),
				zap.String("item", input.Item),
				zap.Int("quantity", input.Quantity),
				zap.String("reason", Kind(err)),
			)
		} else {
			s.logger.Error("purchase failed",
				zap.Error(err),
				zap.String("provider", input.Provider),
				zap.String("item", input.Item),
			)
		}
		return nil, err
	}

	s.recordPurchase(ctx, "success", out.Quantity)
	s.logger.Info("purchase completed",
		zap.String("purchase_id", out.PurchaseID),
		zap.String("provider", out.Provider),
		zap.String("item", out.Item),
		zap.Int("quantity", out.Quantity),
		zap.Bool("created", out.Created),
		zap.Int("stock", out.Stock),
		zap.String("total_cost", out.TotalCost.StringFixed(2)),
		zap.String("balance", out.BalanceAfter.StringFixed(2)),
	)

	event := PurchaseCompletedEvent{
		PurchaseID:   out.PurchaseID,
		OccurredAt:   time.Now().UTC(),
		Provider:     out.Provider,
		Item:         out.Item,
		Quantity:     out.Quantity,
		UnitCost:     out.UnitCost,
		TotalCost:    out.TotalCost,
		Created:      out.Created,
		BalanceAfter: out.BalanceAfter,
	}
	if err := s.publisher.PublishPurchaseCompleted(ctx, event); err != nil {
		s.logger.Warn("failed to publish purchase completed event",
			zap.Error(err),
			zap.String("purchase_id", out.PurchaseID),
		)
	}

	return out, nil
}

func (s *StoreService) purchaseLocked(ctx context.Context, input PurchaseInput) (*PurchaseOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 1-2. Поставщик и товар в его каталоге
	offer, err := s.offerLocked(ctx, input.Provider, input.Item)
	if err != nil {
		return nil, err
	}

	// 3. Количество строго положительное
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("%w: must be greater than 0, got %d", ErrInvalidQuantity, input.Quantity)
	}

	// 4. Остаток у поставщика
	if input.Quantity > offer.Available {
		return nil, fmt.Errorf("%w: requested %d, available %d", ErrInsufficientProviderStock, input.Quantity, offer.Available)
	}

	// 5. Баланс
	totalCost := offer.Cost.Mul(decimal.NewFromInt(int64(input.Quantity)))
	balance, err := s.treasury.Balance(ctx)
	if err != nil {
		return nil, internalErr("read balance", err)
	}
	if totalCost.GreaterThan(balance) {
		return nil, fmt.Errorf("%w: total %s, balance %s", ErrInsufficientFunds, totalCost.StringFixed(2), balance.StringFixed(2))
	}

	current, err := s.inventory.Get(ctx, input.Item)
	found := err == nil
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, internalErr("lookup inventory item", err)
	}

	item, created := restock(current, found, offer, input.Quantity)

	// Применяем изменения; при сбое хранилища откатываем уже сделанные шаги
	newBalance := balance.Sub(totalCost)
	if err := s.treasury.SetBalance(ctx, newBalance); err != nil {
		return nil, internalErr("debit treasury", err)
	}
	if err := s.catalog.SetAvailable(ctx, offer.ProviderName, offer.ItemName, offer.Available-input.Quantity); err != nil {
		s.compensate(ctx, "restore balance", func() error { return s.treasury.SetBalance(ctx, balance) })
		return nil, internalErr("decrement provider stock", err)
	}
	if err := s.inventory.Save(ctx, item); err != nil {
		s.compensate(ctx, "restore provider stock", func() error {
			return s.catalog.SetAvailable(ctx, offer.ProviderName, offer.ItemName, offer.Available)
		})
		s.compensate(ctx, "restore balance", func() error { return s.treasury.SetBalance(ctx, balance) })
		return nil, internalErr("save inventory item", err)
	}

	return &PurchaseOutput{
		PurchaseID:   uuid.New().String(),
		Provider:     input.Provider,
		Item:         input.Item,
		Quantity:     input.Quantity,
		Created:      created,
		Stock:        item.Stock,
		Price:        item.Price,
		UnitCost:     offer.Cost,
		Cost:         item.Cost,
		TotalCost:    totalCost,
		BalanceAfter: newBalance,
	}, nil
}

// GetOffer возвращает предложение поставщика с теми же проверками, что и Purchase:
// сначала поставщик, затем товар в его каталоге
func (s *StoreService) GetOffer(ctx context.Context, providerName, itemName string) (repository.ProviderOffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offerLocked(ctx, providerName, itemName)
}

func (s *StoreService) offerLocked(ctx context.Context, providerName, itemName string) (repository.ProviderOffer, error) {
	exists, err := s.catalog.HasProvider(ctx, providerName)
	if err != nil {
		return repository.ProviderOffer{}, internalErr("lookup provider", err)
	}
	if !exists {
		return repository.ProviderOffer{}, fmt.Errorf("%w: %q", ErrProviderNotFound, providerName)
	}

	offer, err := s.catalog.GetOffer(ctx, providerName, itemName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.ProviderOffer{}, fmt.Errorf("%w: %q is not offered by %q", ErrItemNotFound, itemName, providerName)
		}
		return repository.ProviderOffer{}, internalErr("lookup offer", err)
	}
	return offer, nil
}

// restock возвращает состояние товара после закупки
// Для существующего товара пересчитывает средневзвешенную себестоимость, цена и поставщик не меняются
// Новый товар получает цену по умолчанию round(cost * 2, 2)
func restock(current repository.InventoryItem, found bool, offer repository.ProviderOffer, quantity int) (repository.InventoryItem, bool) {
	if !found {
		return repository.InventoryItem{
			Name:     offer.ItemName,
			Price:    offer.Cost.Mul(defaultMarkup).Round(2),
			Stock:    quantity,
			Cost:     offer.Cost,
			Provider: offer.ProviderName,
		}, true
	}

	current.Cost = WeightedAverageCost(current.Cost, current.Stock, offer.Cost, quantity)
	current.Stock += quantity
	return current, false
}

// WeightedAverageCost вычисляет (oldCost*oldStock + unitCost*qty) / (oldStock + qty)
// Если суммарное количество не положительное, возвращает unitCost
func WeightedAverageCost(oldCost decimal.Decimal, oldStock int, unitCost decimal.Decimal, qty int) decimal.Decimal {
	total := oldStock + qty
	if total <= 0 {
		return unitCost
	}
	num := oldCost.Mul(decimal.NewFromInt(int64(oldStock))).Add(unitCost.Mul(decimal.NewFromInt(int64(qty))))
	return num.Div(decimal.NewFromInt(int64(total)))
}

func (s *StoreService) compensate(ctx context.Context, step string, fn func() error) {
	if err := fn(); err != nil {
		s.logger.Error("compensation failed, store state may be inconsistent",
			zap.String("step", step),
			zap.Error(err),
		)
	}
}

func (s *StoreService) recordPurchase(ctx context.Context, result string, quantity int) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordPurchase(ctx, result, quantity)
}
