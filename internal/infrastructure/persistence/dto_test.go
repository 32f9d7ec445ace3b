package persistence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gig_market/internal/domain/entity"
	"gig_market/internal/domain/value"
)

func TestDealSchemaRoundTrip(t *testing.T) {
	rq := require.New(t)

	fee, err := value.ParseMoney(1800.5, "EUR")
	rq.NoError(err)

	eventStart, err := value.ParseClockTime("22:00")
	rq.NoError(err)
	eventEnd, err := value.ParseClockTime("02:00")
	rq.NoError(err)

	original := &entity.Deal{
		ID:          value.NewDealID(),
		InitiatorID: value.NewProfileID(),
		RecipientID: value.NewProfileID(),
		EventName:   "Warehouse Night",
		VenueName:   "Club Ost",
		Location:    value.Location{Zone: "Europe", Country: "Germany", City: "Berlin"},
		Date:        time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		EventWindow: value.TimeWindow{Start: eventStart, End: eventEnd},
		Fee:         fee,
		Performance: value.PerformanceDJSet,
		Extras:      value.Extras{value.ExtraMeals: value.ExtraIncluded},
		Notes:       "two hour set",
		Status:      value.DealStatusPending,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
	original.AwaitingResponseFrom = original.RecipientID

	schema, err := newDealSchema(original)
	rq.NoError(err)
	rq.Equal("22:00", schema.EventStart)
	rq.Equal("", schema.SetStart)
	rq.Equal(int64(180050), schema.FeeMinor)

	restored, err := schema.toDomain()
	rq.NoError(err)
	rq.Equal(original, restored)
}

func TestDealSchemaRejectsCorruptRow(t *testing.T) {
	rq := require.New(t)

	schema := dealSchema{
		ID:       "x",
		Status:   "LOST",
		Currency: "EUR",
	}

	_, err := schema.toDomain()
	rq.Error(err)
}

func TestProfileSchemaToDomain(t *testing.T) {
	rq := require.New(t)

	schema := profileSchema{
		ID:      value.NewProfileID().String(),
		Name:    "DJ Hart",
		Role:    "ARTIST",
		Zone:    "Europe",
		Country: "Germany",
		City:    "Berlin",
	}

	profile, err := schema.toDomain()
	rq.NoError(err)
	rq.Equal(value.RoleArtist, profile.Role)
	rq.Equal("Berlin", profile.Location.City)

	schema.Role = "ROADIE"
	_, err = schema.toDomain()
	rq.Error(err)
}
