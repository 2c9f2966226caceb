package memory

import (
	"context"
	"sync"

	"github.com/shestoi/GoBigTech/gamestore/internal/repository"
)

// InventoryRepository реализует repository.InventoryRepository используя in-memory хранилище
// Хранит порядок добавления товаров, чтобы обход совпадал с порядком загрузки и покупок
type InventoryRepository struct {
	mu    sync.RWMutex
	items map[string]repository.InventoryItem
	order []string // имена товаров в порядке добавления
}

// NewInventoryRepository создаёт новый in-memory репозиторий товаров
// Начальные товары копируются в том порядке, в котором переданы
func NewInventoryRepository(initial []repository.InventoryItem) *InventoryRepository {
	r := &InventoryRepository{
		items: make(map[string]repository.InventoryItem, len(initial)),
		order: make([]string, 0, len(initial)),
	}
	for _, item := range initial {
		r.saveLocked(item)
	}
	return r
}

// List возвращает копию всех товаров в порядке добавления
func (r *InventoryRepository) List(ctx context.Context) ([]repository.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]repository.InventoryItem, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.items[name])
	}
	return out, nil
}

// Get получает товар по имени
func (r *InventoryRepository) Get(ctx context.Context, name string) (repository.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[name]
	if !exists {
		return repository.InventoryItem{}, repository.ErrNotFound
	}
	return item, nil
}

// Save создаёт или обновляет товар
func (r *InventoryRepository) Save(ctx context.Context, item repository.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.saveLocked(item)
	return nil
}

// Delete удаляет товар и его позицию в порядке обхода
func (r *InventoryRepository) Delete(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[name]; !exists {
		return repository.ErrNotFound
	}
	delete(r.items, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// saveLocked вызывается только под захваченным мьютексом
func (r *InventoryRepository) saveLocked(item repository.InventoryItem) {
	if _, exists := r.items[item.Name]; !exists {
		r.order = append(r.order, item.Name)
	}
	r.items[item.Name] = item
}
