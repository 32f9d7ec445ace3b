package deal

import (
	"fmt"
	"time"

	"git.appkode.ru/pub/go/failure"

	"gig_market/internal/domain/value"
	"gig_market/pkg/errcodes"
)

// Terms — условия оффера при создании сделки. Парсинг строковых полей
// (время, валюта) происходит на транспортной границе, здесь — только
// доменные проверки.
type Terms struct {
	EventName   string
	VenueName   string
	Location    value.Location
	Date        time.Time
	EventWindow value.TimeWindow
	SetWindow   value.TimeWindow
	Fee         value.Money
	Performance value.PerformanceType
	Extras      value.Extras
	Notes       string
}

// Validate проверяет условия оффера. Каждое нарушение — отдельный код
// ValidationError.
func (t Terms) Validate(now time.Time, geo value.Geography) error {
	if t.VenueName == "" {
		return failure.NewInvalidArgumentError(
			"venue name is required",
			failure.WithCode(errcodes.InvalidVenueName),
		)
	}

	if err := geo.ValidateLocation(t.Location); err != nil {
		return failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("geo.ValidateLocation: %w", err),
			failure.WithCode(errcodes.InvalidLocation),
		)
	}

	// Сравнение только по календарному дню, время суток не учитывается.
	today := now.UTC().Truncate(24 * time.Hour)
	if t.Date.IsZero() || t.Date.UTC().Truncate(24*time.Hour).Before(today) {
		return failure.NewInvalidArgumentError(
			"event date must not be in the past",
			failure.WithCode(errcodes.InvalidEventDate),
		)
	}

	if t.Fee.IsZero() {
		return failure.NewInvalidArgumentError(
			"fee is required and must be positive",
			failure.WithCode(errcodes.InvalidFee),
		)
	}

	if err := validateWindows(t.EventWindow, t.SetWindow); err != nil {
		return err
	}

	if err := t.Extras.Validate(); err != nil {
		return failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("extras.Validate: %w", err),
			failure.WithCode(errcodes.InvalidExtras),
		)
	}

	return nil
}

// validateWindows требует парности границ и вложенности сета в событие;
// окна через полночь нормализуются правилом +24ч.
func validateWindows(event, set value.TimeWindow) error {
	incomplete := (!event.Start.IsZero() || !event.End.IsZero()) && !event.IsSet() ||
		(!set.Start.IsZero() || !set.End.IsZero()) && !set.IsSet()
	if incomplete {
		return failure.NewInvalidArgumentError(
			"time window requires both start and end",
			failure.WithCode(errcodes.InvalidTimeWindow),
		)
	}

	if event.IsSet() && set.IsSet() && !event.Contains(set) {
		return failure.NewInvalidArgumentError(
			"set window must lie within the event window",
			failure.WithCode(errcodes.InvalidTimeWindow),
		)
	}

	return nil
}
