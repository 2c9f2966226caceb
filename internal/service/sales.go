package service

import (
	"context"
	"math"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// defaultDemandFactor подставляется вместо отрицательного коэффициента спроса
const defaultDemandFactor = 1.0

// expectedDemandShare - доля остатка, которую при нормальном спросе можно продать за день
const expectedDemandShare = 0.2

// SalesLine содержит результат продаж одного товара за день
type SalesLine struct {
	Name    string
	Sold    int
	Revenue decimal.Decimal
	COGS    decimal.Decimal
}

// DaySalesReport содержит итоги симуляции дня продаж
type DaySalesReport struct {
	DemandFactor   float64
	FactorClamped  bool // отрицательный, NaN или +Inf коэффициент был заменён на 1.0
	Lines          []SalesLine
	TotalItemsSold int
	TotalRevenue   decimal.Decimal
	TotalCOGS      decimal.Decimal
	Profit         decimal.Decimal
	BalanceAfter   decimal.Decimal
}

// SimulateDay симулирует день продаж
// Для каждого товара с ненулевым остатком считает ожидаемый спрос и детерминированное
// количество проданных единиц, списывает остаток и зачисляет прибыль в кассу
func (s *StoreService) SimulateDay(ctx context.Context, demandFactor float64) (*DaySalesReport, error) {
	report, err := s.simulateDayLocked(ctx, demandFactor)
	if err != nil {
		s.logger.Error("day sales simulation failed", zap.Error(err))
		return nil, err
	}

	if report.FactorClamped {
		s.logger.Info("invalid demand factor replaced with default",
			zap.Float64("requested", demandFactor),
			zap.Float64("used", report.DemandFactor),
		)
	}
	s.logger.Info("day sales simulated",
		zap.Float64("demand_factor", report.DemandFactor),
		zap.Int("items_sold", report.TotalItemsSold),
		zap.String("revenue", report.TotalRevenue.StringFixed(2)),
		zap.String("cogs", report.TotalCOGS.StringFixed(2)),
		zap.String("profit", report.Profit.StringFixed(2)),
		zap.String("balance", report.BalanceAfter.StringFixed(2)),
	)

	if s.metrics != nil {
		s.metrics.RecordDaySales(ctx, report.TotalItemsSold, report.TotalRevenue)
	}

	event := DayClosedEvent{
		OccurredAt:   time.Now().UTC(),
		DemandFactor: report.DemandFactor,
		ItemsSold:    report.TotalItemsSold,
		Revenue:      report.TotalRevenue,
		COGS:         report.TotalCOGS,
		Profit:       report.Profit,
		BalanceAfter: report.BalanceAfter,
	}
	if err := s.publisher.PublishDayClosed(ctx, event); err != nil {
		s.logger.Warn("failed to publish day closed event", zap.Error(err))
	}

	return report, nil
}

func (s *StoreService) simulateDayLocked(ctx context.Context, demandFactor float64) (*DaySalesReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := &DaySalesReport{
		DemandFactor: demandFactor,
		TotalRevenue: decimal.Zero,
		TotalCOGS:    decimal.Zero,
	}
	if demandFactor < 0 || math.IsNaN(demandFactor) || math.IsInf(demandFactor, 1) {
		report.DemandFactor = defaultDemandFactor
		report.FactorClamped = true
	}

	items, err := s.inventory.List(ctx)
	if err != nil {
		return nil, internalErr("list inventory", err)
	}
	balance, err := s.treasury.Balance(ctx)
	if err != nil {
		return nil, internalErr("read balance", err)
	}

	for _, item := range items {
		if item.Stock <= 0 {
			continue
		}

		sold := UnitsSold(item.Name, item.Price, item.Stock, report.DemandFactor)
		qty := decimal.NewFromInt(int64(sold))
		line := SalesLine{
			Name:    item.Name,
			Sold:    sold,
			Revenue: item.Price.Mul(qty),
			COGS:    item.Cost.Mul(qty),
		}

		if sold > 0 {
			item.Stock -= sold
			if err := s.inventory.Save(ctx, item); err != nil {
				return nil, internalErr("save inventory item", err)
			}
		}

		report.Lines = append(report.Lines, line)
		report.TotalItemsSold += sold
		report.TotalRevenue = report.TotalRevenue.Add(line.Revenue)
		report.TotalCOGS = report.TotalCOGS.Add(line.COGS)
	}

	report.Profit = report.TotalRevenue.Sub(report.TotalCOGS)
	report.BalanceAfter = balance.Add(report.Profit)
	if err := s.treasury.SetBalance(ctx, report.BalanceAfter); err != nil {
		return nil, internalErr("credit treasury", err)
	}

	return report, nil
}

// ExpectedDemand возвращает модельный максимум продаж за день: round(factor * stock * 0.2)
// Округление к чётному, как у банковского округления
// Результат не превышает math.MaxInt-1, чтобы expected+1 оставался в int
func ExpectedDemand(demandFactor float64, stock int) int {
	expected := math.RoundToEven(demandFactor * (float64(stock) * expectedDemandShare))
	if expected >= float64(math.MaxInt) {
		return math.MaxInt - 1
	}
	return int(expected)
}

// UnitsSold возвращает количество проданных единиц товара за день
// Это не случайная величина: (длина имени + целая часть цены) mod (expected + 1),
// ограниченная остатком. Одинаковый вход всегда даёт одинаковый результат
func UnitsSold(name string, price decimal.Decimal, stock int, demandFactor float64) int {
	expected := ExpectedDemand(demandFactor, stock)
	if expected <= 0 {
		return 0
	}
	seed := int64(utf8.RuneCountInString(name)) + price.IntPart()
	sold := int(seed % int64(expected+1))
	if sold < 0 {
		sold = 0
	}
	if sold > stock {
		sold = stock
	}
	return sold
}
