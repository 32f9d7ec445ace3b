package deal_test

import (
	"testing"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/stretchr/testify/require"

	servicedeal "gig_market/internal/domain/service/deal"
	"gig_market/internal/domain/value"
)

func TestTermsValidate(t *testing.T) {
	rq := require.New(t)

	now := time.Date(2026, 8, 1, 18, 30, 0, 0, time.UTC)
	geo := value.DefaultGeography()

	fee, err := value.ParseMoney(1000, "USD")
	rq.NoError(err)

	valid := servicedeal.Terms{
		VenueName: "Paradise Garage",
		Location:  value.Location{Zone: "North America", Country: "United States", City: "New York"},
		Date:      now.AddDate(0, 0, 7),
		Fee:       fee,
	}

	testCases := []struct {
		name    string
		mutate  func(terms *servicedeal.Terms)
		wantErr bool
	}{
		{name: "Valid minimal", mutate: func(*servicedeal.Terms) {}},
		{
			name:   "Today is allowed despite time of day",
			mutate: func(terms *servicedeal.Terms) { terms.Date = now },
		},
		{
			name:    "Missing venue",
			mutate:  func(terms *servicedeal.Terms) { terms.VenueName = "" },
			wantErr: true,
		},
		{
			name:    "Bad geography",
			mutate:  func(terms *servicedeal.Terms) { terms.Location.City = "Berlin" },
			wantErr: true,
		},
		{
			name:    "Past date",
			mutate:  func(terms *servicedeal.Terms) { terms.Date = now.AddDate(0, 0, -1) },
			wantErr: true,
		},
		{
			name:    "Missing fee",
			mutate:  func(terms *servicedeal.Terms) { terms.Fee = value.Money{} },
			wantErr: true,
		},
		{
			name: "Half open event window",
			mutate: func(terms *servicedeal.Terms) {
				terms.EventWindow = window2(t, "22:00", "")
			},
			wantErr: true,
		},
		{
			name: "Set outside event",
			mutate: func(terms *servicedeal.Terms) {
				terms.EventWindow = window2(t, "22:00", "02:00")
				terms.SetWindow = window2(t, "01:00", "03:00")
			},
			wantErr: true,
		},
		{
			name: "Overnight set inside overnight event",
			mutate: func(terms *servicedeal.Terms) {
				terms.EventWindow = window2(t, "22:00", "02:00")
				terms.SetWindow = window2(t, "23:00", "01:00")
			},
		},
		{
			name: "Set without event window",
			mutate: func(terms *servicedeal.Terms) {
				terms.SetWindow = window2(t, "23:00", "01:00")
			},
		},
		{
			name:    "Unknown extra",
			mutate:  func(terms *servicedeal.Terms) { terms.Extras = value.Extras{"fireworks": "yes"} },
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			terms := valid
			tc.mutate(&terms)

			err := terms.Validate(now, geo)

			if tc.wantErr {
				rq.Error(err)
				rq.True(failure.IsInvalidArgumentError(err))
				return
			}

			rq.NoError(err)
		})
	}
}

func window2(t *testing.T, start, end string) value.TimeWindow {
	t.Helper()

	s, err := value.ParseClockTime(start)
	require.NoError(t, err)

	e, err := value.ParseClockTime(end)
	require.NoError(t, err)

	return value.TimeWindow{Start: s, End: e}
}
