package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shestoi/GoBigTech/gamestore/internal/repository"
	"github.com/shestoi/GoBigTech/gamestore/internal/repository/memory"
)

// MockEventPublisher реализует EventPublisher для тестов
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishPurchaseCompleted(ctx context.Context, event PurchaseCompletedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishDayClosed(ctx context.Context, event DayClosedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockMetricsRecorder реализует MetricsRecorder для тестов
type MockMetricsRecorder struct {
	mock.Mock
}

func (m *MockMetricsRecorder) RecordPurchase(ctx context.Context, result string, quantity int) {
	m.Called(ctx, result, quantity)
}

func (m *MockMetricsRecorder) RecordDaySales(ctx context.Context, itemsSold int, revenue decimal.Decimal) {
	m.Called(ctx, itemsSold, revenue)
}

// MockInventoryRepository реализует repository.InventoryRepository для тестов сбоев хранилища
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) List(ctx context.Context) ([]repository.InventoryItem, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]repository.InventoryItem)
	return items, args.Error(1)
}

func (m *MockInventoryRepository) Get(ctx context.Context, name string) (repository.InventoryItem, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(repository.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) Save(ctx context.Context, item repository.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

type testStore struct {
	svc       *StoreService
	catalog   *memory.CatalogRepository
	inventory *memory.InventoryRepository
	treasury  *memory.TreasuryRepository
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestStore(items []repository.InventoryItem, providers []repository.Provider, balance string) *testStore {
	ts := &testStore{
		catalog:   memory.NewCatalogRepository(providers),
		inventory: memory.NewInventoryRepository(items),
		treasury:  memory.NewTreasuryRepository(dec(balance)),
	}
	ts.svc = NewStoreService(zap.NewNop(), ts.catalog, ts.inventory, ts.treasury, nil, nil)
	return ts
}

func consoleCorpStore() *testStore {
	return newTestStore(
		[]repository.InventoryItem{
			{Name: "Pro Controller - Carbon", Price: dec("44.99"), Stock: 9, Cost: dec("22.00"), Provider: "ConsoleCorp"},
			{Name: "Test", Price: dec("19.99"), Stock: 14, Cost: dec("10.00"), Provider: "ConsoleCorp"},
		},
		[]repository.Provider{
			{Name: "ConsoleCorp", Offers: []repository.ProviderOffer{
				{ItemName: "Pro Controller - Carbon", Cost: dec("22.00"), Available: 40},
				{ItemName: "HDMI Elite Cable", Cost: dec("5.00"), Available: 25},
				{ItemName: "Gaming Chair", Cost: dec("150.00"), Available: 30},
			}},
			{Name: "PixelParts", Offers: []repository.ProviderOffer{
				{ItemName: "Pro Controller - Carbon", Cost: dec("30.00"), Available: 10},
			}},
		},
		"2000.00",
	)
}

// snapshot фиксирует состояние всех трёх хранилищ
type snapshot struct {
	providers []repository.Provider
	items     []repository.InventoryItem
	balance   decimal.Decimal
}

func (ts *testStore) snapshot(t *testing.T) snapshot {
	t.Helper()
	ctx := context.Background()

	providers, err := ts.catalog.ListProviders(ctx)
	require.NoError(t, err)
	items, err := ts.inventory.List(ctx)
	require.NoError(t, err)
	balance, err := ts.treasury.Balance(ctx)
	require.NoError(t, err)

	return snapshot{providers: providers, items: items, balance: balance}
}

func requireMoney(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	require.Equal(t, expected, actual.StringFixed(2))
}

func TestStoreService_Purchase_RestockExistingItem(t *testing.T) {
	ctx := context.Background()
	ts := consoleCorpStore()

	out, err := ts.svc.Purchase(ctx, PurchaseInput{Provider: "ConsoleCorp", Item: "Pro Controller - Carbon", Quantity: 5})
	require.NoError(t, err)

	assert.False(t, out.Created)
	assert.NotEmpty(t, out.PurchaseID)
	assert.Equal(t, 14, out.Stock)
	requireMoney(t, "22.00", out.Cost)
	requireMoney(t, "110.00", out.TotalCost)
	requireMoney(t, "1890.00", out.BalanceAfter)

	item, err := ts.inventory.Get(ctx, "Pro Controller - Carbon")
	require.NoError(t, err)
	assert.Equal(t, 14, item.Stock)
	requireMoney(t, "22.00", item.Cost)
	requireMoney(t, "44.99", item.Price)

	offer, err := ts.catalog.GetOffer(ctx, "ConsoleCorp", "Pro Controller - Carbon")
	require.NoError(t, err)
	assert.Equal(t, 35, offer.Available)

	balance, err := ts.treasury.Balance(ctx)
	require.NoError(t, err)
	requireMoney(t, "1890.00", balance)
}

func TestStoreService_Purchase_CreatesNewItem(t *testing.T) {
	ctx := context.Background()
	ts := consoleCorpStore()

	out, err := ts.svc.Purchase(ctx, PurchaseInput{Provider: "ConsoleCorp", Item: "HDMI Elite Cable", Quantity: 10})
	require.NoError(t, err)

	assert.True(t, out.Created)
	requireMoney(t, "10.00", out.Price)

	items, err := ts.inventory.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)

	// Новый товар добавляется в конец инвентаря
	created := items[2]
	assert.Equal(t, "HDMI Elite Cable", created.Name)
	assert.Equal(t, 10, created.Stock)
	assert.Equal(t, "ConsoleCorp", created.Provider)
	requireMoney(t, "10.00", created.Price)
	requireMoney(t, "5.00", created.Cost)
}

func TestStoreService_Purchase_WeightedAverageCost(t *testing.T) {
	ctx := context.Background()
	ts := consoleCorpStore()

	// 9 шт. по 22.00 уже на складе, докупаем 10 шт. по 30.00
	out, err := ts.svc.Purchase(ctx, PurchaseInput{Provider: "PixelParts", Item: "Pro Controller - Carbon", Quantity: 10})
	require.NoError(t, err)

	// (9*22 + 10*30) / 19 = 498 / 19
	expected := dec("498").Div(dec("19"))
	assert.True(t, expected.Equal(out.Cost), "expected %s, got %s", expected, out.Cost)
	assert.Equal(t, 19, out.Stock)

	// цена и поставщик не меняются при пополнении
	item, err := ts.inventory.Get(ctx, "Pro Controller - Carbon")
	require.NoError(t, err)
	requireMoney(t, "44.99", item.Price)
	assert.Equal(t, "ConsoleCorp", item.Provider)
}

func TestStoreService_Purchase_Validation(t *testing.T) {
	tests := []struct {
		name        string
		input       PurchaseInput
		balance     string
		expectedErr error
	}{
		{
			name:        "unknown provider",
			input:       PurchaseInput{Provider: "Nobody", Item: "HDMI Elite Cable", Quantity: 1},
			balance:     "2000.00",
			expectedErr: ErrProviderNotFound,
		},
		{
			name:        "item not offered by provider",
			input:       PurchaseInput{Provider: "PixelParts", Item: "HDMI Elite Cable", Quantity: 1},
			balance:     "2000.00",
			expectedErr: ErrItemNotFound,
		},
		{
			name:        "zero quantity",
			input:       PurchaseInput{Provider: "ConsoleCorp", Item: "HDMI Elite Cable", Quantity: 0},
			balance:     "2000.00",
			expectedErr: ErrInvalidQuantity,
		},
		{
			name:        "negative quantity",
			input:       PurchaseInput{Provider: "ConsoleCorp", Item: "HDMI Elite Cable", Quantity: -3},
			balance:     "2000.00",
			expectedErr: ErrInvalidQuantity,
		},
		{
			name:        "quantity above availability",
			input:       PurchaseInput{Provider: "ConsoleCorp", Item: "HDMI Elite Cable", Quantity: 26},
			balance:     "2000.00",
			expectedErr: ErrInsufficientProviderStock,
		},
		{
			name:        "not enough funds",
			input:       PurchaseInput{Provider: "ConsoleCorp", Item: "Gaming Chair", Quantity: 14},
			balance:     "2000.00",
			expectedErr: ErrInsufficientFunds,
		},
		{
			name:        "provider check wins over quantity check",
			input:       PurchaseInput{Provider: "Nobody", Item: "Nothing", Quantity: -1},
			balance:     "2000.00",
			expectedErr: ErrProviderNotFound,
		},
		{
			name:        "availability check wins over funds check",
			input:       PurchaseInput{Provider: "ConsoleCorp", Item: "Gaming Chair", Quantity: 31},
			balance:     "10.00",
			expectedErr: ErrInsufficientProviderStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			ctx := context.Background()
			ts := consoleCorpStore()
			require.NoError(t, ts.treasury.SetBalance(ctx, dec(tt.balance)))
			before := ts.snapshot(t)

			// Act
			out, err := ts.svc.Purchase(ctx, tt.input)

			// Assert
			require.Error(t, err)
			require.Nil(t, out)
			require.ErrorIs(t, err, tt.expectedErr)
			require.True(t, IsValidation(err))

			after := ts.snapshot(t)
			require.Equal(t, before.providers, after.providers)
			require.Equal(t, before.items, after.items)
			requireMoney(t, before.balance.StringFixed(2), after.balance)
		})
	}
}

func TestStoreService_Purchase_ExactBalanceAllowed(t *testing.T) {
	ctx := context.Background()
	ts := consoleCorpStore()
	require.NoError(t, ts.treasury.SetBalance(ctx, dec("300.00")))

	out, err := ts.svc.Purchase(ctx, PurchaseInput{Provider: "ConsoleCorp", Item: "Gaming Chair", Quantity: 2})
	require.NoError(t, err)
	requireMoney(t, "0.00", out.BalanceAfter)
}

func TestStoreService_Purchase_PublishesEventAndMetrics(t *testing.T) {
	ctx := context.Background()
	publisher := new(MockEventPublisher)
	metrics := new(MockMetricsRecorder)

	ts := consoleCorpStore()
	svc := NewStoreService(zap.NewNop(), ts.catalog, ts.inventory, ts.treasury, publisher, metrics)

	publisher.On("PublishPurchaseCompleted", ctx, mock.MatchedBy(func(e PurchaseCompletedEvent) bool {
		return e.Provider == "ConsoleCorp" &&
			e.Item == "HDMI Elite Cable" &&
			e.Quantity == 4 &&
			e.Created &&
			e.TotalCost.Equal(dec("20")) &&
			e.PurchaseID != ""
	})).Return(errors.New("broker unavailable")).Once()
	metrics.On("RecordPurchase", ctx, "success", 4).Once()

	// Ошибка публикации не откатывает закупку
	out, err := svc.Purchase(ctx, PurchaseInput{Provider: "ConsoleCorp", Item: "HDMI Elite Cable", Quantity: 4})
	require.NoError(t, err)
	require.True(t, out.Created)

	publisher.AssertExpectations(t)
	metrics.AssertExpectations(t)
}

func TestStoreService_Purchase_RejectedRecordsMetric(t *testing.T) {
	ctx := context.Background()
	publisher := new(MockEventPublisher)
	metrics := new(MockMetricsRecorder)

	ts := consoleCorpStore()
	svc := NewStoreService(zap.NewNop(), ts.catalog, ts.inventory, ts.treasury, publisher, metrics)

	metrics.On("RecordPurchase", ctx, "insufficient_provider_stock", 0).Once()

	_, err := svc.Purchase(ctx, PurchaseInput{Provider: "ConsoleCorp", Item: "HDMI Elite Cable", Quantity: 100})
	require.ErrorIs(t, err, ErrInsufficientProviderStock)

	// PublishPurchaseCompleted НЕ должен вызываться
	publisher.AssertExpectations(t)
	metrics.AssertExpectations(t)
}

func TestStoreService_Purchase_CompensatesOnInventoryFailure(t *testing.T) {
	ctx := context.Background()
	catalog := memory.NewCatalogRepository([]repository.Provider{
		{Name: "ConsoleCorp", Offers: []repository.ProviderOffer{
			{ItemName: "HDMI Elite Cable", Cost: dec("5.00"), Available: 25},
		}},
	})
	treasury := memory.NewTreasuryRepository(dec("100.00"))
	inventory := new(MockInventoryRepository)

	inventory.On("Get", ctx, "HDMI Elite Cable").Return(repository.InventoryItem{}, repository.ErrNotFound).Once()
	inventory.On("Save", ctx, mock.Anything).Return(errors.New("disk full")).Once()

	svc := NewStoreService(zap.NewNop(), catalog, inventory, treasury, nil, nil)

	_, err := svc.Purchase(ctx, PurchaseInput{Provider: "ConsoleCorp", Item: "HDMI Elite Cable", Quantity: 3})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInternal)
	require.False(t, IsValidation(err))
	assert.Equal(t, "internal", Kind(err))

	// Баланс и остаток поставщика восстановлены
	balance, err := treasury.Balance(ctx)
	require.NoError(t, err)
	requireMoney(t, "100.00", balance)

	offer, err := catalog.GetOffer(ctx, "ConsoleCorp", "HDMI Elite Cable")
	require.NoError(t, err)
	assert.Equal(t, 25, offer.Available)

	inventory.AssertExpectations(t)
}

func TestStoreService_GetOffer(t *testing.T) {
	ctx := context.Background()
	ts := consoleCorpStore()

	offer, err := ts.svc.GetOffer(ctx, "ConsoleCorp", "HDMI Elite Cable")
	require.NoError(t, err)
	requireMoney(t, "5.00", offer.Cost)
	assert.Equal(t, 25, offer.Available)

	_, err = ts.svc.GetOffer(ctx, "Nobody", "HDMI Elite Cable")
	require.ErrorIs(t, err, ErrProviderNotFound)

	_, err = ts.svc.GetOffer(ctx, "PixelParts", "HDMI Elite Cable")
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestWeightedAverageCost(t *testing.T) {
	tests := []struct {
		name     string
		oldCost  string
		oldStock int
		unitCost string
		qty      int
		expected string
	}{
		{name: "same cost", oldCost: "22.00", oldStock: 9, unitCost: "22.00", qty: 5, expected: "22.00"},
		{name: "empty stock takes unit cost", oldCost: "15.00", oldStock: 0, unitCost: "20.00", qty: 4, expected: "20.00"},
		{name: "mixed", oldCost: "10.00", oldStock: 10, unitCost: "20.00", qty: 10, expected: "15.00"},
		{name: "zero total", oldCost: "10.00", oldStock: 0, unitCost: "7.50", qty: 0, expected: "7.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeightedAverageCost(dec(tt.oldCost), tt.oldStock, dec(tt.unitCost), tt.qty)
			requireMoney(t, tt.expected, got)
		})
	}
}

func TestStoreService_SimulateDay_TestItemScenario(t *testing.T) {
	ctx := context.Background()
	ts := newTestStore(
		[]repository.InventoryItem{
			{Name: "Test", Price: dec("19.99"), Stock: 14, Cost: dec("10.00"), Provider: "ConsoleCorp"},
		},
		nil,
		"2000.00",
	)

	report, err := ts.svc.SimulateDay(ctx, 1.0)
	require.NoError(t, err)

	require.Len(t, report.Lines, 1)
	assert.Equal(t, "Test", report.Lines[0].Name)
	assert.Equal(t, 3, report.Lines[0].Sold)
	requireMoney(t, "59.97", report.TotalRevenue)
	requireMoney(t, "30.00", report.TotalCOGS)
	requireMoney(t, "29.97", report.Profit)
	requireMoney(t, "2029.97", report.BalanceAfter)
	assert.False(t, report.FactorClamped)

	item, err := ts.inventory.Get(ctx, "Test")
	require.NoError(t, err)
	assert.Equal(t, 11, item.Stock)
}

func TestStoreService_SimulateDay_Deterministic(t *testing.T) {
	ctx := context.Background()

	first, err := consoleCorpStore().svc.SimulateDay(ctx, 1.7)
	require.NoError(t, err)
	second, err := consoleCorpStore().svc.SimulateDay(ctx, 1.7)
	require.NoError(t, err)

	require.Equal(t, len(first.Lines), len(second.Lines))
	for i := range first.Lines {
		assert.Equal(t, first.Lines[i].Name, second.Lines[i].Name)
		assert.Equal(t, first.Lines[i].Sold, second.Lines[i].Sold)
	}
	requireMoney(t, first.BalanceAfter.StringFixed(2), second.BalanceAfter)
}

func TestStoreService_SimulateDay_NegativeFactorClamped(t *testing.T) {
	ctx := context.Background()

	clamped, err := consoleCorpStore().svc.SimulateDay(ctx, -2.5)
	require.NoError(t, err)
	normal, err := consoleCorpStore().svc.SimulateDay(ctx, 1.0)
	require.NoError(t, err)

	assert.True(t, clamped.FactorClamped)
	assert.Equal(t, 1.0, clamped.DemandFactor)
	assert.Equal(t, normal.TotalItemsSold, clamped.TotalItemsSold)
	requireMoney(t, normal.Profit.StringFixed(2), clamped.Profit)
}

func TestStoreService_SimulateDay_HugeFactor(t *testing.T) {
	tests := []struct {
		name          string
		factor        float64
		expectedSold  int
		expectClamped bool
	}{
		// (4 + 19) mod (expected + 1) = 23, ограничено остатком 14
		{name: "large finite factor", factor: 1e18, expectedSold: 14},
		{name: "factor beyond int range", factor: 1e20, expectedSold: 14},
		{name: "max float factor", factor: math.MaxFloat64, expectedSold: 14},
		// +Inf заменяется на 1.0: 23 mod 4 = 3
		{name: "positive infinity", factor: math.Inf(1), expectedSold: 3, expectClamped: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestStore(
				[]repository.InventoryItem{
					{Name: "Test", Price: dec("19.99"), Stock: 14, Cost: dec("10.00"), Provider: "ConsoleCorp"},
				},
				nil,
				"2000.00",
			)

			report, err := ts.svc.SimulateDay(context.Background(), tt.factor)
			require.NoError(t, err)

			require.Len(t, report.Lines, 1)
			assert.Equal(t, tt.expectedSold, report.Lines[0].Sold)
			assert.Equal(t, tt.expectClamped, report.FactorClamped)
		})
	}
}

func TestExpectedDemand_Saturates(t *testing.T) {
	assert.Equal(t, math.MaxInt-1, ExpectedDemand(1e20, 14))
	assert.Equal(t, math.MaxInt-1, ExpectedDemand(math.Inf(1), 1))
	assert.Equal(t, 3, ExpectedDemand(1.0, 14))
}

func TestStoreService_SimulateDay_ZeroFactorSellsNothing(t *testing.T) {
	ctx := context.Background()
	ts := consoleCorpStore()
	before := ts.snapshot(t)

	report, err := ts.svc.SimulateDay(ctx, 0)
	require.NoError(t, err)

	// Строки есть для каждого товара с остатком, даже если ничего не продано
	require.Len(t, report.Lines, 2)
	for _, line := range report.Lines {
		assert.Equal(t, 0, line.Sold)
	}
	assert.Equal(t, 0, report.TotalItemsSold)
	require.Equal(t, before.items, ts.snapshot(t).items)
	requireMoney(t, "2000.00", report.BalanceAfter)
}

func TestStoreService_SimulateDay_SkipsOutOfStockAndEmpty(t *testing.T) {
	ctx := context.Background()

	t.Run("out of stock items have no line", func(t *testing.T) {
		ts := newTestStore([]repository.InventoryItem{
			{Name: "Sold Out", Price: dec("9.99"), Stock: 0, Cost: dec("3.00")},
			{Name: "Test", Price: dec("19.99"), Stock: 14, Cost: dec("10.00")},
		}, nil, "0")

		report, err := ts.svc.SimulateDay(ctx, 1.0)
		require.NoError(t, err)
		require.Len(t, report.Lines, 1)
		assert.Equal(t, "Test", report.Lines[0].Name)
	})

	t.Run("empty inventory gives empty report", func(t *testing.T) {
		ts := newTestStore(nil, nil, "150.00")

		report, err := ts.svc.SimulateDay(ctx, 2.0)
		require.NoError(t, err)
		assert.Empty(t, report.Lines)
		assert.Equal(t, 0, report.TotalItemsSold)
		requireMoney(t, "0.00", report.Profit)
		requireMoney(t, "150.00", report.BalanceAfter)
	})
}

func TestStoreService_SimulateDay_NeverSellsMoreThanStock(t *testing.T) {
	ctx := context.Background()
	ts := newTestStore([]repository.InventoryItem{
		{Name: "A", Price: dec("1000.00"), Stock: 1, Cost: dec("1.00")},
		{Name: "Long Named Collector Edition", Price: dec("3.00"), Stock: 2, Cost: dec("1.00")},
		{Name: "Bulk", Price: dec("0.50"), Stock: 500, Cost: dec("0.10")},
	}, nil, "0")

	for _, factor := range []float64{0, 0.5, 1, 2, 10, 100} {
		before, err := ts.inventory.List(ctx)
		require.NoError(t, err)

		report, err := ts.svc.SimulateDay(ctx, factor)
		require.NoError(t, err)

		stockBefore := make(map[string]int, len(before))
		for _, item := range before {
			stockBefore[item.Name] = item.Stock
		}
		for _, line := range report.Lines {
			assert.LessOrEqual(t, line.Sold, stockBefore[line.Name], "factor %v item %s", factor, line.Name)
			assert.GreaterOrEqual(t, line.Sold, 0)
		}
	}
}

func TestStoreService_SimulateDay_PublishesDayClosed(t *testing.T) {
	ctx := context.Background()
	publisher := new(MockEventPublisher)
	metrics := new(MockMetricsRecorder)
	ts := newTestStore([]repository.InventoryItem{
		{Name: "Test", Price: dec("19.99"), Stock: 14, Cost: dec("10.00")},
	}, nil, "0")
	svc := NewStoreService(zap.NewNop(), ts.catalog, ts.inventory, ts.treasury, publisher, metrics)

	publisher.On("PublishDayClosed", ctx, mock.MatchedBy(func(e DayClosedEvent) bool {
		return e.ItemsSold == 3 && e.Profit.Equal(dec("29.97")) && e.DemandFactor == 1.0
	})).Return(nil).Once()
	metrics.On("RecordDaySales", ctx, 3, mock.MatchedBy(func(revenue decimal.Decimal) bool {
		return revenue.Equal(dec("59.97"))
	})).Once()

	_, err := svc.SimulateDay(ctx, 1.0)
	require.NoError(t, err)

	publisher.AssertExpectations(t)
	metrics.AssertExpectations(t)
}

func TestExpectedDemand_RoundsHalfToEven(t *testing.T) {
	tests := []struct {
		factor   float64
		stock    int
		expected int
	}{
		{factor: 1.0, stock: 14, expected: 3},
		{factor: 0.25, stock: 10, expected: 0}, // 0.5 -> 0
		{factor: 0.75, stock: 10, expected: 2}, // 1.5 -> 2
		{factor: 1.25, stock: 10, expected: 2}, // 2.5 -> 2
		{factor: 0, stock: 100, expected: 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ExpectedDemand(tt.factor, tt.stock), "factor %v stock %d", tt.factor, tt.stock)
	}
}

func TestUnitsSold_CountsRunes(t *testing.T) {
	// "Jeu vidéo" - 9 символов, но 10 байт; expected = round(1.0*50*0.2) = 10
	// (9 + 3) mod 11 = 1
	assert.Equal(t, 1, UnitsSold("Jeu vidéo", dec("3.99"), 50, 1.0))
}

func TestStoreService_ModifyPrice(t *testing.T) {
	tests := []struct {
		name        string
		item        string
		price       string
		expectedErr error
	}{
		{name: "success", item: "Test", price: "24.50"},
		{name: "zero price allowed", item: "Test", price: "0"},
		{name: "unknown item", item: "Missing", price: "5.00", expectedErr: ErrItemNotFound},
		{name: "negative price", item: "Test", price: "-1.00", expectedErr: ErrInvalidPrice},
		{name: "existence checked before value", item: "Missing", price: "-1.00", expectedErr: ErrItemNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			ts := consoleCorpStore()
			before := ts.snapshot(t)

			item, err := ts.svc.ModifyPrice(ctx, tt.item, dec(tt.price))

			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				require.Equal(t, before.items, ts.snapshot(t).items)
				return
			}
			require.NoError(t, err)
			requireMoney(t, dec(tt.price).StringFixed(2), item.Price)

			stored, err := ts.inventory.Get(ctx, tt.item)
			require.NoError(t, err)
			requireMoney(t, dec(tt.price).StringFixed(2), stored.Price)
			assert.Equal(t, 14, stored.Stock)
			requireMoney(t, "10.00", stored.Cost)
		})
	}
}

func TestStoreService_ModifyStock(t *testing.T) {
	ctx := context.Background()
	ts := consoleCorpStore()

	item, err := ts.svc.ModifyStock(ctx, "Test", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, item.Stock)
	// себестоимость не пересчитывается
	requireMoney(t, "10.00", item.Cost)

	_, err = ts.svc.ModifyStock(ctx, "Test", -1)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = ts.svc.ModifyStock(ctx, "Missing", 5)
	require.ErrorIs(t, err, ErrItemNotFound)

	stored, err := ts.inventory.Get(ctx, "Test")
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Stock)
}

func TestStoreService_RemoveItem(t *testing.T) {
	ctx := context.Background()
	ts := consoleCorpStore()

	err := ts.svc.RemoveItem(ctx, RemoveItemInput{Name: "Test", Confirmed: false})
	require.ErrorIs(t, err, ErrRemovalNotConfirmed)
	_, err = ts.inventory.Get(ctx, "Test")
	require.NoError(t, err)

	err = ts.svc.RemoveItem(ctx, RemoveItemInput{Name: "Missing", Confirmed: true})
	require.ErrorIs(t, err, ErrItemNotFound)

	err = ts.svc.RemoveItem(ctx, RemoveItemInput{Name: "Test", Confirmed: true})
	require.NoError(t, err)
	_, err = ts.inventory.Get(ctx, "Test")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStoreService_AddItemDisabled(t *testing.T) {
	ctx := context.Background()
	ts := consoleCorpStore()
	before := ts.snapshot(t)

	err := ts.svc.AddItem(ctx, AddItemInput{Name: "Brand New", Price: dec("1.00"), Stock: 1})
	require.ErrorIs(t, err, ErrOperationDisabled)
	assert.Equal(t, "operation_disabled", Kind(err))
	require.Equal(t, before.items, ts.snapshot(t).items)
}

func TestStoreService_Reports(t *testing.T) {
	ctx := context.Background()
	ts := newTestStore([]repository.InventoryItem{
		{Name: "Cheap", Price: dec("10.00"), Stock: 3, Cost: dec("4.00")},
		{Name: "Pricey", Price: dec("50.00"), Stock: 1, Cost: dec("20.00")},
		{Name: "Also Pricey", Price: dec("50.00"), Stock: 0, Cost: dec("25.00")},
	}, nil, "0")

	value, err := ts.svc.InventoryValue(ctx)
	require.NoError(t, err)
	requireMoney(t, "80.00", value.SaleValue)
	requireMoney(t, "32.00", value.CostBasis)
	assert.Equal(t, 4, value.TotalStock)

	top, err := ts.svc.MostExpensive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Pricey", top.Name)

	avg, err := ts.svc.AveragePrice(ctx)
	require.NoError(t, err)
	requireMoney(t, "36.67", avg.PerItemType)
	require.True(t, avg.HasStockWeight)
	requireMoney(t, "20.00", avg.StockWeighted)
}

func TestStoreService_ReportsOnEmptyInventory(t *testing.T) {
	ctx := context.Background()
	ts := newTestStore(nil, nil, "0")

	value, err := ts.svc.InventoryValue(ctx)
	require.NoError(t, err)
	requireMoney(t, "0.00", value.SaleValue)

	_, err = ts.svc.MostExpensive(ctx)
	require.ErrorIs(t, err, ErrEmptyInventory)

	_, err = ts.svc.AveragePrice(ctx)
	require.ErrorIs(t, err, ErrEmptyInventory)
}

func TestKind(t *testing.T) {
	wrapped := internalErr("save", ErrItemNotFound)
	assert.Equal(t, "internal", Kind(wrapped))
	assert.False(t, IsValidation(wrapped))
	assert.Equal(t, "", Kind(nil))
	assert.Equal(t, "insufficient_funds", Kind(ErrInsufficientFunds))
}
