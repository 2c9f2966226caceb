package service

import "errors"

// Ошибки валидации пользовательского ввода
// Ни одна из них не оставляет частичных изменений в хранилищах
var (
	ErrProviderNotFound          = errors.New("provider not found")
	ErrItemNotFound              = errors.New("item not found")
	ErrInvalidQuantity           = errors.New("invalid quantity")
	ErrInvalidPrice              = errors.New("invalid price")
	ErrInsufficientProviderStock = errors.New("insufficient provider stock")
	ErrInsufficientFunds         = errors.New("insufficient funds")
	ErrOperationDisabled         = errors.New("operation disabled")
	ErrRemovalNotConfirmed       = errors.New("removal not confirmed")
	ErrEmptyInventory            = errors.New("inventory is empty")
)

// ErrInternal оборачивает неожиданные сбои хранилища
// Это нарушение контракта, а не ошибка ввода: вызывающий код не должен переспрашивать пользователя
var ErrInternal = errors.New("internal store error")

var validationErrors = []error{
	ErrProviderNotFound,
	ErrItemNotFound,
	ErrInvalidQuantity,
	ErrInvalidPrice,
	ErrInsufficientProviderStock,
	ErrInsufficientFunds,
	ErrOperationDisabled,
	ErrRemovalNotConfirmed,
	ErrEmptyInventory,
}

// IsValidation возвращает true для отказов из-за некорректного ввода
func IsValidation(err error) bool {
	if err == nil || errors.Is(err, ErrInternal) {
		return false
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Kind возвращает короткое машинное имя ошибки (для API и логов)
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInternal):
		return "internal"
	case errors.Is(err, ErrProviderNotFound):
		return "provider_not_found"
	case errors.Is(err, ErrItemNotFound):
		return "item_not_found"
	case errors.Is(err, ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, ErrInvalidPrice):
		return "invalid_price"
	case errors.Is(err, ErrInsufficientProviderStock):
		return "insufficient_provider_stock"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrOperationDisabled):
		return "operation_disabled"
	case errors.Is(err, ErrRemovalNotConfirmed):
		return "removal_not_confirmed"
	case errors.Is(err, ErrEmptyInventory):
		return "empty_inventory"
	default:
		return "internal"
	}
}
