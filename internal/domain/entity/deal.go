package entity

import (
	"time"

	"gig_market/internal/domain/value"
)

// Deal — агрегат букинг-оффера между стороной спроса (инициатор) и
// стороной предложения (получатель). Мутируется только операциями
// движка переговоров.
type Deal struct {
	ID value.DealID `json:"id" db:"id"`

	InitiatorID value.ProfileID `json:"initiator_id" db:"initiator_id"`
	RecipientID value.ProfileID `json:"recipient_id" db:"recipient_id"`

	// Кто должен ответить на последний оффер. Переустанавливается на
	// каждом Create/Counter, проверяется в условных UPDATE.
	AwaitingResponseFrom value.ProfileID `json:"awaiting_response_from" db:"awaiting_response_from"`

	EventName string         `json:"event_name,omitempty" db:"event_name"`
	VenueName string         `json:"venue_name" db:"venue_name"`
	Location  value.Location `json:"location"`

	// Дата выступления, только календарный день (UTC полночь).
	Date time.Time `json:"date" db:"event_date"`

	EventWindow value.TimeWindow `json:"event_window"`
	SetWindow   value.TimeWindow `json:"set_window"`

	Fee         value.Money           `json:"fee"`
	Performance value.PerformanceType `json:"performance_type" db:"performance_type"`
	Extras      value.Extras          `json:"extras,omitempty"`
	Notes       string                `json:"notes,omitempty" db:"notes"`

	Status        value.DealStatus `json:"status" db:"status"`
	DeclineReason string           `json:"decline_reason,omitempty" db:"decline_reason"`
	DeclinedBy    value.ProfileID  `json:"declined_by,omitempty" db:"declined_by"`

	// Номер последней ревизии условий; 0 — первоначальный оффер.
	Revision int `json:"revision" db:"revision"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SetDurationMinutes — производная длительность сета; 0, если границы
// сета не заданы.
func (d Deal) SetDurationMinutes() int {
	return d.SetWindow.DurationMinutes()
}

// HasParticipant сообщает, назван ли профиль на сделке.
func (d Deal) HasParticipant(id value.ProfileID) bool {
	return d.InitiatorID == id || d.RecipientID == id
}

// Counterpart возвращает вторую сторону сделки.
func (d Deal) Counterpart(id value.ProfileID) value.ProfileID {
	if d.InitiatorID == id {
		return d.RecipientID
	}

	return d.InitiatorID
}

// DealRevision — зафиксированный раунд переговоров: переговорное
// подмножество условий, предложенное одной из сторон.
type DealRevision struct {
	DealID     value.DealID    `json:"deal_id" db:"deal_id"`
	Revision   int             `json:"revision" db:"revision"`
	ProposedBy value.ProfileID `json:"proposed_by" db:"proposed_by"`
	MessageID  value.MessageID `json:"message_id" db:"message_id"`
	Fee        value.Money     `json:"fee"`
	Extras     value.Extras    `json:"extras,omitempty"`
	Notes      string          `json:"notes,omitempty" db:"notes"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}
