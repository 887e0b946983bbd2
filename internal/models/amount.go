package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrCurrencyMismatch se retorna al combinar montos de monedas distintas
var ErrCurrencyMismatch = errors.New("currency mismatch")

var hundred = decimal.NewFromInt(100)

func init() {
	// Los montos viajan como número JSON, no como string
	decimal.MarshalJSONWithoutQuotes = true
}

// Currency representa una moneda identificada por su símbolo (ej. "USD")
type Currency struct {
	Symbol string `json:"symbol"`
}

// USD es la única moneda usada por el catálogo
var USD = Currency{Symbol: "USD"}

// Amount representa un valor decimal en una moneda
type Amount struct {
	Currency Currency        `json:"currency"`
	Value    decimal.Decimal `json:"value"`
}

// NewAmount crea un monto a partir de su representación decimal
func NewAmount(currency Currency, value string) (Amount, error) {
	v, err := decimal.NewFromString(value)
	if err != nil {
		return Amount{}, fmt.Errorf("error parsing amount %q: %w", value, err)
	}
	return Amount{Currency: currency, Value: v}, nil
}

// Scale multiplica el valor del monto por factor, sin cambiar la moneda
func Scale(factor decimal.Decimal, amount Amount) Amount {
	return Amount{Currency: amount.Currency, Value: amount.Value.Mul(factor)}
}

// Add suma un valor escalar al monto. El segundo operando no lleva moneda;
// para sumar dos montos usar Plus.
func Add(amount Amount, value decimal.Decimal) Amount {
	return Amount{Currency: amount.Currency, Value: amount.Value.Add(value)}
}

// ApplyDiscount resta discountPercent por ciento del valor
func ApplyDiscount(discountPercent decimal.Decimal, amount Amount) Amount {
	discount := amount.Value.Mul(discountPercent).Div(hundred)
	return Amount{Currency: amount.Currency, Value: amount.Value.Sub(discount)}
}

// Plus suma dos montos de la misma moneda
func Plus(a, b Amount) (Amount, error) {
	if a.Currency.Symbol != b.Currency.Symbol {
		return Amount{}, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, a.Currency.Symbol, b.Currency.Symbol)
	}
	return Add(a, b.Value), nil
}

// String formatea el monto con dos decimales
func (a Amount) String() string {
	return a.Value.StringFixed(2) + " " + a.Currency.Symbol
}
