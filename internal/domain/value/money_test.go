package value_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"gig_market/internal/domain/value"
	"gig_market/pkg/tests"
)

func TestParseMoney(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name     string
		amount   float64
		currency string
		minor    int64
		wantErr  bool
	}{
		{name: "Whole", amount: 1500, currency: "USD", minor: 150000},
		{name: "Cents rounded", amount: 99.999, currency: "EUR", minor: 10000},
		{name: "Small", amount: 0.01, currency: "GBP", minor: 1},
		{name: "Zero", amount: 0, currency: "USD", wantErr: true},
		{name: "Negative", amount: -10, currency: "USD", wantErr: true},
		{name: "Unknown currency", amount: 100, currency: "RUB", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			money, err := value.ParseMoney(tc.amount, tc.currency)

			if tc.wantErr {
				rq.Error(err)
				return
			}

			rq.NoError(err)
			rq.Equal(tc.minor, money.AmountMinor)
			rq.Equal(tc.currency, money.Currency.String())
		})
	}
}

func TestParseMoneyRoundsOnce(t *testing.T) {
	rq := require.New(t)
	random := tests.NewRandomizer()

	// Округление происходит один раз на границе ввода, дальше сумма
	// живёт в минорных единицах без дрейфа.
	for i := 0; i < 200; i++ {
		amount := random.Float64()*10000 + 0.01

		money, err := value.ParseMoney(amount, "EUR")
		rq.NoError(err)
		rq.Equal(int64(math.Round(amount*100)), money.AmountMinor)

		reparsed, err := value.ParseMoney(money.Amount(), "EUR")
		rq.NoError(err)
		rq.Equal(money.AmountMinor, reparsed.AmountMinor)
	}
}

func TestMoneyString(t *testing.T) {
	rq := require.New(t)

	money, err := value.ParseMoney(1234.5, "USD")
	rq.NoError(err)
	rq.Equal("1234.50 USD", money.String())
	rq.InDelta(1234.5, money.Amount(), 0.0001)
	rq.False(money.IsZero())
	rq.True(value.Money{}.IsZero())
}
