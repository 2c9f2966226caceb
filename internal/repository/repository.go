package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// InventoryItem представляет товар магазина
// Это бизнес-сущность, не привязанная к HTTP, консоли или хранилищу
type InventoryItem struct {
	Name     string
	Price    decimal.Decimal // цена продажи
	Stock    int             // остаток на складе
	Cost     decimal.Decimal // средневзвешенная себестоимость единицы
	Provider string          // поставщик, от которого товар пришёл впервые
}

// ProviderOffer представляет позицию в каталоге поставщика
type ProviderOffer struct {
	ProviderName string
	ItemName     string
	Cost         decimal.Decimal
	Available    int
}

// Provider представляет поставщика с упорядоченным каталогом
type Provider struct {
	Name   string
	Offers []ProviderOffer
}

// CatalogRepository определяет интерфейс для работы с каталогами поставщиков
type CatalogRepository interface {
	// ListProviders возвращает поставщиков в порядке загрузки
	ListProviders(ctx context.Context) ([]Provider, error)

	// HasProvider проверяет, существует ли поставщик
	HasProvider(ctx context.Context, providerName string) (bool, error)

	// GetOffer получает позицию каталога
	// Возвращает ErrNotFound, если поставщика или товара у него нет
	GetOffer(ctx context.Context, providerName, itemName string) (ProviderOffer, error)

	// SetAvailable перезаписывает доступное количество позиции
	SetAvailable(ctx context.Context, providerName, itemName string, available int) error
}

// InventoryRepository определяет интерфейс для работы с товарами магазина
// Порядок обхода List совпадает с порядком добавления товаров
type InventoryRepository interface {
	List(ctx context.Context) ([]InventoryItem, error)

	// Get возвращает ErrNotFound, если товара нет
	Get(ctx context.Context, name string) (InventoryItem, error)

	// Save создаёт товар в конце списка или обновляет существующий на его месте
	Save(ctx context.Context, item InventoryItem) error

	// Delete возвращает ErrNotFound, если товара нет
	Delete(ctx context.Context, name string) error
}

// TreasuryRepository хранит баланс магазина
type TreasuryRepository interface {
	Balance(ctx context.Context) (decimal.Decimal, error)
	SetBalance(ctx context.Context, balance decimal.Decimal) error
}

// ErrNotFound возвращается, когда запись не найдена в хранилище
var ErrNotFound = errors.New("not found")
