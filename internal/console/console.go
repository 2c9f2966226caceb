package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shestoi/GoBigTech/gamestore/internal/repository"
	"github.com/shestoi/GoBigTech/gamestore/internal/service"
)

// Store - операции магазина, которые нужны консольному меню
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
}

// errCancelled - пользователь отменил действие на одном из шагов
var errCancelled = errors.New("cancelled")

// Menu - интерактивное меню магазина поверх io.Reader/io.Writer
type Menu struct {
	store Store
	in    *bufio.Scanner
	out   io.Writer
}

// NewMenu создаёт меню, читающее команды из in и пишущее в out
func NewMenu(store Store, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		store: store,
		in:    bufio.NewScanner(in),
		out:   out,
	}
}

const banner = `
  ____                        ____  _
 / ___| __ _ _ __ ___   ___  / ___|| |_ ___  _ __ ___
| |  _ / _' | '_ ' _ \ / _ \ \___ \| __/ _ \| '__/ _ \
| |_| | (_| | | | | | |  __/  ___) | || (_) | | |  __/
 \____|\__,_|_| |_| |_|\___| |____/ \__\___/|_|  \___|

            Welcome to GameStore simulator
`

const menuText = `
=== Game Store Inventory Management ===
1. Add new item (disabled - buy from providers)
2. Modify item (price/stock)
3. Remove item
4. Display inventory
5. Calculate total inventory value
6. Find most expensive item
7. Calculate average price
8. Show providers and their catalog
9. Buy from provider
10. Simulate a day of sales
11. Show store money
0. Exit
`

// Run крутит меню до выбора 0, конца ввода или отмены ctx
// Ошибки валидации показываются пользователю, внутренние ошибки прерывают работу
func (m *Menu) Run(ctx context.Context) error {
	m.println(banner)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		m.print(menuText)
		choice, err := m.prompt("\nEnter your choice (number): ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if choice == "0" {
			m.println("Thank you for using the Game Store Inventory Management System!")
			return nil
		}

		err = m.dispatch(ctx, choice)
		switch {
		case err == nil, errors.Is(err, errCancelled):
		case errors.Is(err, io.EOF):
			return nil
		case service.IsValidation(err):
			m.println(userMessage(err))
		default:
			return err
		}
	}
}

func (m *Menu) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		return m.addItem(ctx)
	case "2":
		return m.modifyItem(ctx)
	case "3":
		return m.removeItem(ctx)
	case "4":
		return m.displayInventory(ctx)
	case "5":
		return m.inventoryValue(ctx)
	case "6":
		return m.mostExpensive(ctx)
	case "7":
		return m.averagePrice(ctx)
	case "8":
		return m.showProviders(ctx)
	case "9":
		return m.buyFromProvider(ctx)
	case "10":
		return m.simulateDay(ctx)
	case "11":
		return m.showBalance(ctx)
	default:
		m.println("Invalid choice! Please try again.")
		return nil
	}
}

// userMessage переводит ошибку валидации в сообщение для пользователя
func userMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrProviderNotFound):
		return "Provider not found!"
	case errors.Is(err, service.ErrItemNotFound):
		return "Item not found!"
	case errors.Is(err, service.ErrInvalidQuantity):
		return "Quantity must be a positive number!"
	case errors.Is(err, service.ErrInvalidPrice):
		return "Price cannot be negative!"
	case errors.Is(err, service.ErrInsufficientProviderStock):
		return "Provider doesn't have that many available!"
	case errors.Is(err, service.ErrInsufficientFunds):
		return "Not enough money to complete purchase!"
	case errors.Is(err, service.ErrOperationDisabled):
		return "Direct item creation is disabled. Buy from providers to add new items."
	case errors.Is(err, service.ErrRemovalNotConfirmed):
		return "Operation cancelled."
	case errors.Is(err, service.ErrEmptyInventory):
		return "Inventory is empty!"
	default:
		return err.Error()
	}
}

func (m *Menu) print(s string) {
	fmt.Fprint(m.out, s)
}

func (m *Menu) println(s string) {
	fmt.Fprintln(m.out, s)
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}

// prompt печатает приглашение и читает строку без пробелов по краям
func (m *Menu) prompt(text string) (string, error) {
	m.print(text)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(m.in.Text()), nil
}

// promptInt повторяет вопрос, пока не будет введено неотрицательное целое
func (m *Menu) promptInt(text string) (int, error) {
	for {
		raw, err := m.prompt(text)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			m.println("Please enter a valid number!")
			continue
		}
		if n < 0 {
			m.println("Please enter a positive number!")
			continue
		}
		return n, nil
	}
}

// promptMoney повторяет вопрос, пока не будет введена неотрицательная сумма
func (m *Menu) promptMoney(text string) (decimal.Decimal, error) {
	for {
		raw, err := m.prompt(text)
		if err != nil {
			return decimal.Zero, err
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			m.println("Please enter a valid number!")
			continue
		}
		if d.IsNegative() {
			m.println("Please enter a positive number!")
			continue
		}
		return d, nil
	}
}

// promptFactor как promptMoney, но для коэффициента спроса; отрицательные значения
// пропускаются дальше, их обрабатывает симуляция
func (m *Menu) promptFactor(text string) (float64, error) {
	for {
		raw, err := m.prompt(text)
		if err != nil {
			return 0, err
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			m.println("Please enter a valid number!")
			continue
		}
		return f, nil
	}
}

// promptChoice выбирает элемент списка по номеру (1..n); 'c' или неверный номер отменяют действие
func (m *Menu) promptChoice(text, invalidMsg string, n int) (int, error) {
	raw, err := m.prompt(text)
	if err != nil {
		return 0, err
	}
	if strings.EqualFold(raw, "c") {
		m.println("Cancelled.")
		return 0, errCancelled
	}
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 1 || idx > n {
		m.println(invalidMsg)
		return 0, errCancelled
	}
	return idx - 1, nil
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
