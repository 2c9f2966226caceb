package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/shestoi/GoBigTech/gamestore/internal/repository"
)

// InventoryValueReport содержит стоимость инвентаря
type InventoryValueReport struct {
	SaleValue  decimal.Decimal // сумма price * stock
	CostBasis  decimal.Decimal // сумма cost * stock
	ItemTypes  int
	TotalStock int
}

// AveragePriceReport содержит средние цены по инвентарю
type AveragePriceReport struct {
	ItemTypes      int
	TotalStock     int
	PerItemType    decimal.Decimal
	StockWeighted  decimal.Decimal
	HasStockWeight bool // false, если суммарный остаток равен 0
}

// InventoryValue считает стоимость всего инвентаря по цене продажи и по себестоимости
// Пустой инвентарь даёт нулевой отчёт
func (s *StoreService) InventoryValue(ctx context.Context) (*InventoryValueReport, error) {
	items, err := s.ListInventory(ctx)
	if err != nil {
		return nil, err
	}

	report := &InventoryValueReport{
		SaleValue: decimal.Zero,
		CostBasis: decimal.Zero,
		ItemTypes: len(items),
	}
	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Stock))
		report.SaleValue = report.SaleValue.Add(item.Price.Mul(qty))
		report.CostBasis = report.CostBasis.Add(item.Cost.Mul(qty))
		report.TotalStock += item.Stock
	}
	return report, nil
}

// MostExpensive возвращает товар с максимальной ценой
// При равных ценах побеждает тот, что раньше в инвентаре
func (s *StoreService) MostExpensive(ctx context.Context) (*repository.InventoryItem, error) {
	items, err := s.ListInventory(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyInventory
	}

	best := items[0]
	for _, item := range items[1:] {
		if item.Price.GreaterThan(best.Price) {
			best = item
		}
	}
	return &best, nil
}

// AveragePrice возвращает среднюю цену на тип товара и среднюю, взвешенную по остатку
func (s *StoreService) AveragePrice(ctx context.Context) (*AveragePriceReport, error) {
	items, err := s.ListInventory(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyInventory
	}

	sum := decimal.Zero
	weighted := decimal.Zero
	report := &AveragePriceReport{ItemTypes: len(items)}
	for _, item := range items {
		sum = sum.Add(item.Price)
		weighted = weighted.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Stock))))
		report.TotalStock += item.Stock
	}

	report.PerItemType = sum.Div(decimal.NewFromInt(int64(len(items))))
	if report.TotalStock > 0 {
		report.StockWeighted = weighted.Div(decimal.NewFromInt(int64(report.TotalStock)))
		report.HasStockWeight = true
	}
	return report, nil
}
