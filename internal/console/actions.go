package console

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shestoi/GoBigTech/gamestore/internal/repository"
	"github.com/shestoi/GoBigTech/gamestore/internal/service"
)

func (m *Menu) addItem(ctx context.Context) error {
	return m.store.AddItem(ctx, service.AddItemInput{})
}

func (m *Menu) modifyItem(ctx context.Context) error {
	m.println("\n=== Modify Item ===")
	item, err := m.promptExistingItem(ctx, "Enter the name of the item to modify: ")
	if err != nil {
		return err
	}

	m.println("\nCurrent item details:")
	m.printItem(item)

	m.println("\nWhat would you like to modify?")
	m.println("1. Price")
	m.println("2. Stock")
	choice, err := m.prompt("Enter your choice (1-2): ")
	if err != nil {
		return err
	}

	switch choice {
	case "1":
		price, err := m.promptMoney("Enter new price: $")
		if err != nil {
			return err
		}
		if _, err := m.store.ModifyPrice(ctx, item.Name, price); err != nil {
			return err
		}
		m.println("Price updated successfully!")
	case "2":
		stock, err := m.promptInt("Enter new stock quantity: ")
		if err != nil {
			return err
		}
		if _, err := m.store.ModifyStock(ctx, item.Name, stock); err != nil {
			return err
		}
		m.println("Stock updated successfully!")
	default:
		m.println("Invalid choice!")
	}
	return nil
}

func (m *Menu) removeItem(ctx context.Context) error {
	m.println("\n=== Remove Item ===")
	item, err := m.promptExistingItem(ctx, "Enter the name of the item to remove: ")
	if err != nil {
		return err
	}

	m.println("\nCurrent item details:")
	m.printItem(item)

	confirm, err := m.prompt("\nAre you sure you want to remove this item? (yes/no): ")
	if err != nil {
		return err
	}
	err = m.store.RemoveItem(ctx, service.RemoveItemInput{
		Name:      item.Name,
		Confirmed: strings.EqualFold(confirm, "yes"),
	})
	if err != nil {
		return err
	}
	m.println("Item removed successfully!")
	return nil
}

// promptExistingItem читает имя и сразу проверяет, что товар есть в инвентаре
func (m *Menu) promptExistingItem(ctx context.Context, text string) (repository.InventoryItem, error) {
	name, err := m.prompt(text)
	if err != nil {
		return repository.InventoryItem{}, err
	}

	items, err := m.store.ListInventory(ctx)
	if err != nil {
		return repository.InventoryItem{}, err
	}
	for _, item := range items {
		if item.Name == name {
			return item, nil
		}
	}
	m.println("Item not found in inventory!")
	return repository.InventoryItem{}, errCancelled
}

func (m *Menu) printItem(item repository.InventoryItem) {
	m.printf("Name: %s\n", item.Name)
	m.printf("Price: %s\n", money(item.Price))
	m.printf("Stock: %d\n", item.Stock)
	provider := item.Provider
	if provider == "" {
		provider = "Unknown"
	}
	m.printf("Provider: %s\n", provider)
}

func (m *Menu) displayInventory(ctx context.Context) error {
	items, err := m.store.ListInventory(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return service.ErrEmptyInventory
	}

	m.println("\n=== Current Inventory ===")
	for _, item := range items {
		m.printf("\nName: %s\n", item.Name)
		m.printf("Price: %s\n", money(item.Price))
		m.printf("Stock: %d\n", item.Stock)
		m.println(strings.Repeat("-", 20))
	}
	return nil
}

func (m *Menu) inventoryValue(ctx context.Context) error {
	report, err := m.store.InventoryValue(ctx)
	if err != nil {
		return err
	}
	m.printf("\nTotal inventory sale value: %s\n", money(report.SaleValue))
	m.printf("Total inventory cost (what you paid): %s\n", money(report.CostBasis))
	return nil
}

func (m *Menu) mostExpensive(ctx context.Context) error {
	item, err := m.store.MostExpensive(ctx)
	if err != nil {
		return err
	}
	m.println("\nMost expensive item:")
	m.printItem(*item)
	return nil
}

func (m *Menu) averagePrice(ctx context.Context) error {
	report, err := m.store.AveragePrice(ctx)
	if err != nil {
		return err
	}
	m.printf("\nAverage price per product type: %s\n", money(report.PerItemType))
	if report.HasStockWeight {
		m.printf("Weighted average price (by stock): %s\n", money(report.StockWeighted))
	}
	return nil
}

func (m *Menu) showProviders(ctx context.Context) error {
	providers, err := m.store.ListProviders(ctx)
	if err != nil {
		return err
	}
	m.println("\n=== Providers ===")
	for _, p := range providers {
		m.printf("\nProvider: %s\n", p.Name)
		for _, offer := range p.Offers {
			m.printf(" - %s: cost %s, available %d\n", offer.ItemName, money(offer.Cost), offer.Available)
		}
	}
	return nil
}

func (m *Menu) buyFromProvider(ctx context.Context) error {
	m.println("\n=== Buy from Provider ===")
	providers, err := m.store.ListProviders(ctx)
	if err != nil {
		return err
	}
	for i, p := range providers {
		m.printf("%d. %s\n", i+1, p.Name)
	}
	pIdx, err := m.promptChoice("Select a provider by number (or 'c' to cancel): ", "Invalid provider choice!", len(providers))
	if err != nil {
		return err
	}
	provider := providers[pIdx]

	m.printf("\nItems from %s:\n", provider.Name)
	for i, offer := range provider.Offers {
		m.printf("%d. %s - cost %s, available %d\n", i+1, offer.ItemName, money(offer.Cost), offer.Available)
	}
	iIdx, err := m.promptChoice("Select item by number (or 'c' to cancel): ", "Invalid item choice!", len(provider.Offers))
	if err != nil {
		return err
	}
	offer := provider.Offers[iIdx]

	m.printf("\nSelected: %s from %s - cost %s, available %d\n", offer.ItemName, provider.Name, money(offer.Cost), offer.Available)
	qty, err := m.promptInt("Enter quantity to buy: ")
	if err != nil {
		return err
	}

	balance, err := m.store.GetBalance(ctx)
	if err != nil {
		return err
	}
	total := offer.Cost.Mul(decimal.NewFromInt(int64(qty)))
	m.printf("Total cost will be: %s\n", money(total))
	m.printf("Store money available: %s\n", money(balance))
	confirm, err := m.prompt("Proceed with purchase? (yes/no): ")
	if err != nil {
		return err
	}
	if !strings.EqualFold(confirm, "yes") {
		m.println("Purchase cancelled.")
		return nil
	}

	out, err := m.store.Purchase(ctx, service.PurchaseInput{
		Provider: provider.Name,
		Item:     offer.ItemName,
		Quantity: qty,
	})
	if err != nil {
		return err
	}
	if out.Created {
		m.printf("Bought new item '%s' and added to inventory with price %s\n", out.Item, money(out.Price))
	} else {
		m.printf("Bought %d of existing item '%s'. Stock now %d\n", out.Quantity, out.Item, out.Stock)
	}
	return nil
}

func (m *Menu) simulateDay(ctx context.Context) error {
	items, err := m.store.ListInventory(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		m.println("No inventory to simulate sales.")
		return nil
	}

	m.println("\n=== Simulate Day of Sales ===")
	factor, err := m.promptFactor("Enter day demand factor (0.0 - quiet, 1.0 - normal, 2.0 - busy): ")
	if err != nil {
		return err
	}

	report, err := m.store.SimulateDay(ctx, factor)
	if err != nil {
		return err
	}
	if report.FactorClamped {
		m.println("Factor cannot be negative. Using 1.0")
	}

	m.println("\nDay sales summary:")
	m.printf("Total items sold: %d\n", report.TotalItemsSold)
	m.printf("Total revenue: %s\n", money(report.TotalRevenue))
	m.printf("Total cost of goods sold: %s\n", money(report.TotalCOGS))
	m.printf("Profit (revenue - COGS): %s\n", money(report.Profit))
	m.printf("Store money after sales: %s\n", money(report.BalanceAfter))

	m.println("\nDetailed sales per item:")
	for _, line := range report.Lines {
		m.printf(" - %s: sold %d, revenue %s, cogs %s\n", line.Name, line.Sold, money(line.Revenue), money(line.COGS))
	}
	return nil
}

func (m *Menu) showBalance(ctx context.Context) error {
	balance, err := m.store.GetBalance(ctx)
	if err != nil {
		return err
	}
	m.printf("\nStore money: %s\n", money(balance))
	return nil
}
