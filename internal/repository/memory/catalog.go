package memory

import (
	"context"
	"sync"

	"github.com/shestoi/GoBigTech/gamestore/internal/repository"
)

// CatalogRepository реализует repository.CatalogRepository используя in-memory хранилище
// Порядок поставщиков и их позиций сохраняется таким, как при загрузке
type CatalogRepository struct {
	mu        sync.RWMutex
	providers []repository.Provider
	index     map[string]int // имя поставщика -> индекс в providers
}

// NewCatalogRepository создаёт новый in-memory каталог
// Переданные поставщики копируются, внешние изменения слайсов на каталог не влияют
func NewCatalogRepository(providers []repository.Provider) *CatalogRepository {
	r := &CatalogRepository{
		providers: make([]repository.Provider, 0, len(providers)),
		index:     make(map[string]int, len(providers)),
	}
	for _, p := range providers {
		offers := make([]repository.ProviderOffer, len(p.Offers))
		copy(offers, p.Offers)
		for i := range offers {
			offers[i].ProviderName = p.Name
		}
		r.index[p.Name] = len(r.providers)
		r.providers = append(r.providers, repository.Provider{Name: p.Name, Offers: offers})
	}
	return r
}

// ListProviders возвращает глубокую копию каталога
func (r *CatalogRepository) ListProviders(ctx context.Context) ([]repository.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]repository.Provider, 0, len(r.providers))
	for _, p := range r.providers {
		offers := make([]repository.ProviderOffer, len(p.Offers))
		copy(offers, p.Offers)
		out = append(out, repository.Provider{Name: p.Name, Offers: offers})
	}
	return out, nil
}

// HasProvider проверяет наличие поставщика
func (r *CatalogRepository) HasProvider(ctx context.Context, providerName string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.index[providerName]
	return exists, nil
}

// GetOffer получает позицию каталога
func (r *CatalogRepository) GetOffer(ctx context.Context, providerName, itemName string) (repository.ProviderOffer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	offer := r.findLocked(providerName, itemName)
	if offer == nil {
		return repository.ProviderOffer{}, repository.ErrNotFound
	}
	return *offer, nil
}

// SetAvailable перезаписывает доступное количество
func (r *CatalogRepository) SetAvailable(ctx context.Context, providerName, itemName string, available int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	offer := r.findLocked(providerName, itemName)
	if offer == nil {
		return repository.ErrNotFound
	}
	offer.Available = available
	return nil
}

// findLocked возвращает указатель на позицию внутри каталога (вызывается под мьютексом)
func (r *CatalogRepository) findLocked(providerName, itemName string) *repository.ProviderOffer {
	idx, exists := r.index[providerName]
	if !exists {
		return nil
	}
	offers := r.providers[idx].Offers
	for i := range offers {
		if offers[i].ItemName == itemName {
			return &offers[i]
		}
	}
	return nil
}
