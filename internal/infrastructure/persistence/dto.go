package persistence

import (
	"encoding/json"
	"fmt"
	"time"

	"gig_market/internal/domain/entity"
	"gig_market/internal/domain/value"
)

// dealSchema — строка таблицы deals. Время суток хранится строками
// HH:MM ('' — не задано), гонорар — в минорных единицах.
type dealSchema struct {
	ID                   string    `db:"id"`
	InitiatorID          string    `db:"initiator_id"`
	RecipientID          string    `db:"recipient_id"`
	AwaitingResponseFrom string    `db:"awaiting_response_from"`
	EventName            string    `db:"event_name"`
	VenueName            string    `db:"venue_name"`
	Zone                 string    `db:"zone"`
	Country              string    `db:"country"`
	City                 string    `db:"city"`
	EventDate            time.Time `db:"event_date"`
	EventStart           string    `db:"event_start"`
	EventEnd             string    `db:"event_end"`
	SetStart             string    `db:"set_start"`
	SetEnd               string    `db:"set_end"`
	FeeMinor             int64     `db:"fee_minor"`
	Currency             string    `db:"currency"`
	PerformanceType      string    `db:"performance_type"`
	Extras               []byte    `db:"extras"`
	Notes                string    `db:"notes"`
	Status               string    `db:"status"`
	DeclineReason        string    `db:"decline_reason"`
	DeclinedBy           string    `db:"declined_by"`
	Revision             int       `db:"revision"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
}

func newDealSchema(deal *entity.Deal) (dealSchema, error) {
	extras, err := json.Marshal(deal.Extras)
	if err != nil {
		return dealSchema{}, fmt.Errorf("json.Marshal extras: %w", err)
	}

	return dealSchema{
		ID:                   deal.ID.String(),
		InitiatorID:          deal.InitiatorID.String(),
		RecipientID:          deal.RecipientID.String(),
		AwaitingResponseFrom: deal.AwaitingResponseFrom.String(),
		EventName:            deal.EventName,
		VenueName:            deal.VenueName,
		Zone:                 deal.Location.Zone,
		Country:              deal.Location.Country,
		City:                 deal.Location.City,
		EventDate:            deal.Date,
		EventStart:           deal.EventWindow.Start.String(),
		EventEnd:             deal.EventWindow.End.String(),
		SetStart:             deal.SetWindow.Start.String(),
		SetEnd:               deal.SetWindow.End.String(),
		FeeMinor:             deal.Fee.AmountMinor,
		Currency:             deal.Fee.Currency.String(),
		PerformanceType:      deal.Performance.String(),
		Extras:               extras,
		Notes:                deal.Notes,
		Status:               deal.Status.String(),
		DeclineReason:        deal.DeclineReason,
		DeclinedBy:           deal.DeclinedBy.String(),
		Revision:             deal.Revision,
		CreatedAt:            deal.CreatedAt,
		UpdatedAt:            deal.UpdatedAt,
	}, nil
}

func (s dealSchema) toDomain() (*entity.Deal, error) {
	status, err := value.ParseDealStatus(s.Status)
	if err != nil {
		return nil, fmt.Errorf("value.ParseDealStatus: %w", err)
	}

	currency, err := value.ParseCurrency(s.Currency)
	if err != nil {
		return nil, fmt.Errorf("value.ParseCurrency: %w", err)
	}

	performance, err := value.ParsePerformanceType(s.PerformanceType)
	if err != nil {
		return nil, fmt.Errorf("value.ParsePerformanceType: %w", err)
	}

	eventWindow, err := parseWindow(s.EventStart, s.EventEnd)
	if err != nil {
		return nil, fmt.Errorf("parse event window: %w", err)
	}

	setWindow, err := parseWindow(s.SetStart, s.SetEnd)
	if err != nil {
		return nil, fmt.Errorf("parse set window: %w", err)
	}

	var extras value.Extras
	if len(s.Extras) > 0 {
		if err := json.Unmarshal(s.Extras, &extras); err != nil {
			return nil, fmt.Errorf("json.Unmarshal extras: %w", err)
		}
	}

	return &entity.Deal{
		ID:                   value.DealID(s.ID),
		InitiatorID:          value.ProfileID(s.InitiatorID),
		RecipientID:          value.ProfileID(s.RecipientID),
		AwaitingResponseFrom: value.ProfileID(s.AwaitingResponseFrom),
		EventName:            s.EventName,
		VenueName:            s.VenueName,
		Location: value.Location{
			Zone:    s.Zone,
			Country: s.Country,
			City:    s.City,
		},
		Date:          s.EventDate,
		EventWindow:   eventWindow,
		SetWindow:     setWindow,
		Fee:           value.Money{AmountMinor: s.FeeMinor, Currency: currency},
		Performance:   performance,
		Extras:        extras,
		Notes:         s.Notes,
		Status:        status,
		DeclineReason: s.DeclineReason,
		DeclinedBy:    value.ProfileID(s.DeclinedBy),
		Revision:      s.Revision,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}, nil
}

func parseWindow(start, end string) (value.TimeWindow, error) {
	s, err := value.ParseClockTime(start)
	if err != nil {
		return value.TimeWindow{}, err
	}

	e, err := value.ParseClockTime(end)
	if err != nil {
		return value.TimeWindow{}, err
	}

	return value.TimeWindow{Start: s, End: e}, nil
}

type revisionSchema struct {
	DealID     string    `db:"deal_id"`
	Revision   int       `db:"revision"`
	ProposedBy string    `db:"proposed_by"`
	MessageID  string    `db:"message_id"`
	FeeMinor   int64     `db:"fee_minor"`
	Currency   string    `db:"currency"`
	Extras     []byte    `db:"extras"`
	Notes      string    `db:"notes"`
	CreatedAt  time.Time `db:"created_at"`
}

func (s revisionSchema) toDomain() (entity.DealRevision, error) {
	currency, err := value.ParseCurrency(s.Currency)
	if err != nil {
		return entity.DealRevision{}, fmt.Errorf("value.ParseCurrency: %w", err)
	}

	var extras value.Extras
	if len(s.Extras) > 0 {
		if err := json.Unmarshal(s.Extras, &extras); err != nil {
			return entity.DealRevision{}, fmt.Errorf("json.Unmarshal extras: %w", err)
		}
	}

	return entity.DealRevision{
		DealID:     value.DealID(s.DealID),
		Revision:   s.Revision,
		ProposedBy: value.ProfileID(s.ProposedBy),
		MessageID:  value.MessageID(s.MessageID),
		Fee:        value.Money{AmountMinor: s.FeeMinor, Currency: currency},
		Extras:     extras,
		Notes:      s.Notes,
		CreatedAt:  s.CreatedAt,
	}, nil
}

type messageSchema struct {
	ID            string    `db:"id"`
	FromProfileID string    `db:"from_profile_id"`
	ToProfileID   string    `db:"to_profile_id"`
	Text          string    `db:"text"`
	DealID        string    `db:"deal_id"`
	IsSystem      bool      `db:"is_system"`
	Payload       []byte    `db:"payload"`
	CreatedAt     time.Time `db:"created_at"`
}

func (s messageSchema) toDomain() entity.Message {
	return entity.Message{
		ID:            value.MessageID(s.ID),
		FromProfileID: value.ProfileID(s.FromProfileID),
		ToProfileID:   value.ProfileID(s.ToProfileID),
		Text:          s.Text,
		DealID:        value.DealID(s.DealID),
		IsSystem:      s.IsSystem,
		Payload:       s.Payload,
		CreatedAt:     s.CreatedAt,
	}
}

type profileSchema struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Role      string `db:"role"`
	Zone      string `db:"zone"`
	Country   string `db:"country"`
	City      string `db:"city"`
	AvatarURL string `db:"avatar_url"`
}

func (s profileSchema) toDomain() (entity.Profile, error) {
	role, err := value.ParseRole(s.Role)
	if err != nil {
		return entity.Profile{}, fmt.Errorf("value.ParseRole: %w", err)
	}

	return entity.Profile{
		ID:   value.ProfileID(s.ID),
		Name: s.Name,
		Role: role,
		Location: value.Location{
			Zone:    s.Zone,
			Country: s.Country,
			City:    s.City,
		},
		AvatarURL: s.AvatarURL,
	}, nil
}
