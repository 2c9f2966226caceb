package httpapi

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/shestoi/GoBigTech/gamestore/internal/repository"
	"github.com/shestoi/GoBigTech/gamestore/internal/service"
)

// Денежные суммы в ответах - строки с двумя знаками после точки

type OfferResponse struct {
	Name      string `json:"name"`
	Cost      string `json:"cost"`
	Available int    `json:"available"`
}

type ProviderResponse struct {
	Name  string          `json:"name"`
	Items []OfferResponse `json:"items"`
}

type ItemResponse struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Stock    int    `json:"stock"`
	Cost     string `json:"cost"`
	Provider string `json:"provider"`
}

// PurchaseRequest представляет HTTP запрос на закупку у поставщика
type PurchaseRequest struct {
	Provider *string `json:"provider"`
	Item     *string `json:"item"`
	// Quantity принимается как число JSON любого вида; дробные значения отклоняются после проверки поставщика и товара
	Quantity *json.Number `json:"quantity"`
}

type PurchaseResponse struct {
	PurchaseID   string `json:"purchase_id"`
	Provider     string `json:"provider"`
	Item         string `json:"item"`
	Quantity     int    `json:"quantity"`
	Created      bool   `json:"created"`
	Stock        int    `json:"stock"`
	Price        string `json:"price"`
	UnitCost     string `json:"unit_cost"`
	Cost         string `json:"cost"`
	TotalCost    string `json:"total_cost"`
	BalanceAfter string `json:"balance_after"`
}

type SimulateDayRequest struct {
	DemandFactor *float64 `json:"demand_factor"`
}

type SalesLineResponse struct {
	Name    string `json:"name"`
	Sold    int    `json:"sold"`
	Revenue string `json:"revenue"`
	COGS    string `json:"cogs"`
}

type DaySalesResponse struct {
	DemandFactor   float64             `json:"demand_factor"`
	FactorClamped  bool                `json:"factor_clamped"`
	TotalItemsSold int                 `json:"total_items_sold"`
	TotalRevenue   string              `json:"total_revenue"`
	TotalCOGS      string              `json:"total_cogs"`
	Profit         string              `json:"profit"`
	BalanceAfter   string              `json:"balance_after"`
	Lines          []SalesLineResponse `json:"lines"`
}

// AddItemRequest принимается только для совместимости: добавление всегда запрещено
type AddItemRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Cost     decimal.Decimal `json:"cost"`
	Provider string          `json:"provider"`
}

type ModifyPriceRequest struct {
	Price *decimal.Decimal `json:"price"`
}

type ModifyStockRequest struct {
	Stock *int `json:"stock"`
}

type InventoryValueResponse struct {
	SaleValue  string `json:"sale_value"`
	CostBasis  string `json:"cost_basis"`
	ItemTypes  int    `json:"item_types"`
	TotalStock int    `json:"total_stock"`
}

type AveragePriceResponse struct {
	ItemTypes     int     `json:"item_types"`
	TotalStock    int     `json:"total_stock"`
	PerItemType   string  `json:"per_item_type"`
	StockWeighted *string `json:"stock_weighted"` // null, если суммарный остаток 0
}

type BalanceResponse struct {
	Balance string `json:"balance"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toItemResponse(item repository.InventoryItem) ItemResponse {
	return ItemResponse{
		Name:     item.Name,
		Price:    money(item.Price),
		Stock:    item.Stock,
		Cost:     money(item.Cost),
		Provider: item.Provider,
	}
}

func toProviderResponses(providers []repository.Provider) []ProviderResponse {
	out := make([]ProviderResponse, 0, len(providers))
	for _, p := range providers {
		items := make([]OfferResponse, 0, len(p.Offers))
		for _, offer := range p.Offers {
			items = append(items, OfferResponse{Name: offer.ItemName, Cost: money(offer.Cost), Available: offer.Available})
		}
		out = append(out, ProviderResponse{Name: p.Name, Items: items})
	}
	return out
}

func toPurchaseResponse(out *service.PurchaseOutput) PurchaseResponse {
	return PurchaseResponse{
		PurchaseID:   out.PurchaseID,
		Provider:     out.Provider,
		Item:         out.Item,
		Quantity:     out.Quantity,
		Created:      out.Created,
		Stock:        out.Stock,
		Price:        money(out.Price),
		UnitCost:     money(out.UnitCost),
		Cost:         money(out.Cost),
		TotalCost:    money(out.TotalCost),
		BalanceAfter: money(out.BalanceAfter),
	}
}

func toDaySalesResponse(report *service.DaySalesReport) DaySalesResponse {
	lines := make([]SalesLineResponse, 0, len(report.Lines))
	for _, line := range report.Lines {
		lines = append(lines, SalesLineResponse{
			Name:    line.Name,
			Sold:    line.Sold,
			Revenue: money(line.Revenue),
			COGS:    money(line.COGS),
		})
	}
	return DaySalesResponse{
		DemandFactor:   report.DemandFactor,
		FactorClamped:  report.FactorClamped,
		TotalItemsSold: report.TotalItemsSold,
		TotalRevenue:   money(report.TotalRevenue),
		TotalCOGS:      money(report.TotalCOGS),
		Profit:         money(report.Profit),
		BalanceAfter:   money(report.BalanceAfter),
		Lines:          lines,
	}
}
