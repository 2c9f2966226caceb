package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shestoi/GoBigTech/gamestore/internal/repository"
	"github.com/shestoi/GoBigTech/gamestore/internal/service"
)

// Store - операции магазина, которые нужны HTTP слою
type Store interface {
	ListProviders(ctx context.Context) ([]repository.Provider, error)
	Purchase(ctx context.Context, input service.PurchaseInput) (*service.PurchaseOutput, error)
	SimulateDay(ctx context.Context, demandFactor float64) (*service.DaySalesReport, error)
	ListInventory(ctx context.Context) ([]repository.InventoryItem, error)
	AddItem(ctx context.Context, input service.AddItemInput) error
	ModifyPrice(ctx context.Context, name string, price decimal.Decimal) (*repository.InventoryItem, error)
	ModifyStock(ctx context.Context, name string, stock int) (*repository.InventoryItem, error)
	RemoveItem(ctx context.Context, input service.RemoveItemInput) error
	InventoryValue(ctx context.Context) (*service.InventoryValueReport, error)
	MostExpensive(ctx context.Context) (*repository.InventoryItem, error)
	AveragePrice(ctx context.Context) (*service.AveragePriceReport, error)
	GetBalance(ctx context.Context) (decimal.Decimal, error)
	GetOffer(ctx context.Context, providerName, itemName string) (repository.ProviderOffer, error)
}

// Handler содержит HTTP-обработчики GameStore API
// Зависит от service слоя, но не знает о деталях хранения
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler создаёт новый HTTP handler
func NewHandler(store Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// GetProviders обрабатывает GET /providers
func (h *Handler) GetProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := h.store.ListProviders(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProviderResponses(providers))
}

// PostPurchases обрабатывает POST /purchases - закупка у поставщика
func (h *Handler) PostPurchases(w http.ResponseWriter, r *http.Request) {
	var req PurchaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Provider == nil || req.Item == nil || req.Quantity == nil {
		writeBadRequest(w, "provider, item and quantity are required")
		return
	}

	quantity, err := strconv.Atoi(req.Quantity.String())
	if err != nil {
		// поставщик и товар проверяются раньше количества
		if _, offerErr := h.store.GetOffer(r.Context(), *req.Provider, *req.Item); offerErr != nil {
			h.writeServiceError(w, r, offerErr)
			return
		}
		h.writeServiceError(w, r, fmt.Errorf("%w: must be a whole number, got %s", service.ErrInvalidQuantity, req.Quantity.String()))
		return
	}

	out, err := h.store.Purchase(r.Context(), service.PurchaseInput{
		Provider: *req.Provider,
		Item:     *req.Item,
		Quantity: quantity,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPurchaseResponse(out))
}

// PostSalesDay обрабатывает POST /sales/day - симуляция дня продаж
func (h *Handler) PostSalesDay(w http.ResponseWriter, r *http.Request) {
	var req SimulateDayRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.DemandFactor == nil {
		writeBadRequest(w, "demand_factor is required")
		return
	}

	report, err := h.store.SimulateDay(r.Context(), *req.DemandFactor)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDaySalesResponse(report))
}

// GetInventory обрабатывает GET /inventory
func (h *Handler) GetInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListInventory(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	resp := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toItemResponse(item))
	}
	writeJSON(w, http.StatusOK, resp)
}

// PostInventory обрабатывает POST /inventory; ручное добавление товаров отключено
func (h *Handler) PostInventory(w http.ResponseWriter, r *http.Request) {
	// Тело не проверяется: добавление отклоняется при любом запросе
	var req AddItemRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	err := h.store.AddItem(r.Context(), service.AddItemInput{
		Name:     req.Name,
		Price:    req.Price,
		Stock:    req.Stock,
		Cost:     req.Cost,
		Provider: req.Provider,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// PutItemPrice обрабатывает PUT /inventory/{name}/price
func (h *Handler) PutItemPrice(w http.ResponseWriter, r *http.Request) {
	name, ok := itemName(w, r)
	if !ok {
		return
	}
	var req ModifyPriceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Price == nil {
		writeBadRequest(w, "price is required")
		return
	}

	item, err := h.store.ModifyPrice(r.Context(), name, *req.Price)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(*item))
}

// PutItemStock обрабатывает PUT /inventory/{name}/stock
func (h *Handler) PutItemStock(w http.ResponseWriter, r *http.Request) {
	name, ok := itemName(w, r)
	if !ok {
		return
	}
	var req ModifyStockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Stock == nil {
		writeBadRequest(w, "stock is required")
		return
	}

	item, err := h.store.ModifyStock(r.Context(), name, *req.Stock)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(*item))
}

// DeleteItem обрабатывает DELETE /inventory/{name}?confirm=yes
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	name, ok := itemName(w, r)
	if !ok {
		return
	}
	confirm := strings.ToLower(r.URL.Query().Get("confirm"))

	err := h.store.RemoveItem(r.Context(), service.RemoveItemInput{
		Name:      name,
		Confirmed: confirm == "yes" || confirm == "true",
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetInventoryValue обрабатывает GET /inventory/value
func (h *Handler) GetInventoryValue(w http.ResponseWriter, r *http.Request) {
	report, err := h.store.InventoryValue(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, InventoryValueResponse{
		SaleValue:  money(report.SaleValue),
		CostBasis:  money(report.CostBasis),
		ItemTypes:  report.ItemTypes,
		TotalStock: report.TotalStock,
	})
}

// GetMostExpensive обрабатывает GET /inventory/most-expensive
func (h *Handler) GetMostExpensive(w http.ResponseWriter, r *http.Request) {
	item, err := h.store.MostExpensive(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(*item))
}

// GetAveragePrice обрабатывает GET /inventory/average-price
func (h *Handler) GetAveragePrice(w http.ResponseWriter, r *http.Request) {
	report, err := h.store.AveragePrice(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	resp := AveragePriceResponse{
		ItemTypes:   report.ItemTypes,
		TotalStock:  report.TotalStock,
		PerItemType: money(report.PerItemType),
	}
	if report.HasStockWeight {
		weighted := money(report.StockWeighted)
		resp.StockWeighted = &weighted
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetBalance обрабатывает GET /balance
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.store.GetBalance(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, BalanceResponse{Balance: money(balance)})
}

// itemName достаёт имя товара из пути; имена могут содержать пробелы и экранированные символы
func itemName(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(name)
		if err != nil {
			writeBadRequest(w, fmt.Sprintf("invalid item name: %v", err))
			return "", false
		}
		name = unescaped
	}
	if name == "" {
		writeBadRequest(w, "item name is required")
		return "", false
	}
	return name, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeBadRequest(w, fmt.Sprintf("invalid JSON: %v", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
