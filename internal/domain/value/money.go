package value

import (
	"fmt"
	"math"
)

// Currency — валюта гонорара. Конвертации нет, валюта только хранится.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyJPY Currency = "JPY"
)

func ParseCurrency(s string) (Currency, error) {
	switch Currency(s) {
	case CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyJPY:
		return Currency(s), nil
	}

	return "", fmt.Errorf("unknown currency %q", s)
}

func (c Currency) String() string {
	return string(c)
}

// Money хранит гонорар в минорных единицах (центах), чтобы повторные
// раунды переговоров не накапливали ошибку плавающей точки.
type Money struct {
	AmountMinor int64
	Currency    Currency
}

// ParseMoney округляет сумму до 2 знаков на границе ввода.
// Сумма должна быть строго положительной.
func ParseMoney(amount float64, currency string) (Money, error) {
	cur, err := ParseCurrency(currency)
	if err != nil {
		return Money{}, err
	}

	minor := int64(math.Round(amount * 100))
	if minor <= 0 {
		return Money{}, fmt.Errorf("fee must be positive, got %v", amount)
	}

	return Money{AmountMinor: minor, Currency: cur}, nil
}

// Amount возвращает сумму в основных единицах валюты.
func (m Money) Amount() float64 {
	return float64(m.AmountMinor) / 100
}

func (m Money) IsZero() bool {
	return m.AmountMinor == 0
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f %s", m.Amount(), m.Currency)
}
