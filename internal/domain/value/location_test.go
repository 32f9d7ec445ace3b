package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gig_market/internal/domain/value"
)

func TestGeographyValidateLocation(t *testing.T) {
	rq := require.New(t)

	geo := value.DefaultGeography()

	testCases := []struct {
		name     string
		location value.Location
		wantErr  bool
	}{
		{
			name:     "Valid chain",
			location: value.Location{Zone: "Europe", Country: "Germany", City: "Berlin"},
		},
		{
			name:     "City in wrong country",
			location: value.Location{Zone: "Europe", Country: "France", City: "Berlin"},
			wantErr:  true,
		},
		{
			name:     "Country in wrong zone",
			location: value.Location{Zone: "Asia", Country: "Germany", City: "Berlin"},
			wantErr:  true,
		},
		{
			name:     "Unknown zone",
			location: value.Location{Zone: "Atlantis", Country: "Germany", City: "Berlin"},
			wantErr:  true,
		},
		{
			name:     "Missing city",
			location: value.Location{Zone: "Europe", Country: "Germany"},
			wantErr:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := geo.ValidateLocation(tc.location)

			if tc.wantErr {
				rq.Error(err)
				return
			}

			rq.NoError(err)
		})
	}
}
