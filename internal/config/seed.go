package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/shestoi/GoBigTech/gamestore/internal/repository"
)

//go:embed seed.json
var defaultSeed []byte

// Seed описывает начальное состояние магазина
type Seed struct {
	Balance   decimal.Decimal `json:"balance"`
	Inventory []SeedItem      `json:"inventory"`
	Providers []SeedProvider  `json:"providers"`
}

// SeedItem - товар инвентаря в seed
type SeedItem struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Cost     decimal.Decimal `json:"cost"`
	Provider string          `json:"provider"`
}

// SeedProvider - поставщик с каталогом
type SeedProvider struct {
	Name  string      `json:"name"`
	Items []SeedOffer `json:"items"`
}

// SeedOffer - позиция каталога поставщика
type SeedOffer struct {
	Name      string          `json:"name"`
	Cost      decimal.Decimal `json:"cost"`
	Available int             `json:"available"`
}

// ErrInvalidSeed возвращается, если seed не проходит валидацию
var ErrInvalidSeed = errors.New("invalid seed")

// LoadSeed читает seed из файла path; пустой path - встроенный seed
func LoadSeed(path string) (Seed, error) {
	data := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Seed{}, fmt.Errorf("read seed file: %w", err)
		}
		data = b
	}
	return ParseSeed(data)
}

// ParseSeed разбирает и валидирует seed в формате JSON
func ParseSeed(data []byte) (Seed, error) {
	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}
	if err := seed.Validate(); err != nil {
		return Seed{}, err
	}
	return seed, nil
}

// Validate проверяет, что seed удовлетворяет инвариантам модели
func (s Seed) Validate() error {
	if s.Balance.IsNegative() {
		return fmt.Errorf("%w: negative balance %s", ErrInvalidSeed, s.Balance)
	}

	items := make(map[string]struct{}, len(s.Inventory))
	for _, item := range s.Inventory {
		if item.Name == "" {
			return fmt.Errorf("%w: inventory item without name", ErrInvalidSeed)
		}
		if _, dup := items[item.Name]; dup {
			return fmt.Errorf("%w: duplicate inventory item %q", ErrInvalidSeed, item.Name)
		}
		items[item.Name] = struct{}{}
		if item.Price.IsNegative() || item.Cost.IsNegative() || item.Stock < 0 {
			return fmt.Errorf("%w: inventory item %q has negative price, cost or stock", ErrInvalidSeed, item.Name)
		}
	}

	providers := make(map[string]struct{}, len(s.Providers))
	for _, p := range s.Providers {
		if p.Name == "" {
			return fmt.Errorf("%w: provider without name", ErrInvalidSeed)
		}
		if _, dup := providers[p.Name]; dup {
			return fmt.Errorf("%w: duplicate provider %q", ErrInvalidSeed, p.Name)
		}
		providers[p.Name] = struct{}{}

		offers := make(map[string]struct{}, len(p.Items))
		for _, offer := range p.Items {
			if offer.Name == "" {
				return fmt.Errorf("%w: provider %q has an item without name", ErrInvalidSeed, p.Name)
			}
			if _, dup := offers[offer.Name]; dup {
				return fmt.Errorf("%w: provider %q lists %q twice", ErrInvalidSeed, p.Name, offer.Name)
			}
			offers[offer.Name] = struct{}{}
			if offer.Cost.IsNegative() || offer.Available < 0 {
				return fmt.Errorf("%w: offer %q of %q has negative cost or availability", ErrInvalidSeed, offer.Name, p.Name)
			}
		}
	}
	return nil
}

// InventoryItems преобразует seed в товары инвентаря (порядок сохраняется)
func (s Seed) InventoryItems() []repository.InventoryItem {
	out := make([]repository.InventoryItem, 0, len(s.Inventory))
	for _, item := range s.Inventory {
		out = append(out, repository.InventoryItem{
			Name:     item.Name,
			Price:    item.Price,
			Stock:    item.Stock,
			Cost:     item.Cost,
			Provider: item.Provider,
		})
	}
	return out
}

// CatalogProviders преобразует seed в каталоги поставщиков (порядок сохраняется)
func (s Seed) CatalogProviders() []repository.Provider {
	out := make([]repository.Provider, 0, len(s.Providers))
	for _, p := range s.Providers {
		provider := repository.Provider{
			Name:   p.Name,
			Offers: make([]repository.ProviderOffer, 0, len(p.Items)),
		}
		for _, offer := range p.Items {
			provider.Offers = append(provider.Offers, repository.ProviderOffer{
				ProviderName: p.Name,
				ItemName:     offer.Name,
				Cost:         offer.Cost,
				Available:    offer.Available,
			})
		}
		out = append(out, provider)
	}
	return out
}
