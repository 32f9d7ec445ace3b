// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

import "time"

type Location struct {
	Zone    string `json:"zone" validate:"required"`
	Country string `json:"country" validate:"required"`
	City    string `json:"city" validate:"required"`
}

type Deal struct {
	ID                   string `json:"id"`
	InitiatorProfileID   string `json:"initiatorProfileId"`
	RecipientProfileID   string `json:"recipientProfileId"`
	AwaitingResponseFrom string `json:"awaitingResponseFrom"`

	EventName string   `json:"eventName,omitempty"`
	VenueName string   `json:"venueName"`
	Location  Location `json:"location"`

	// Календарная дата события, формат 2006-01-02.
	Date string `json:"date"`

	EventStartTime string `json:"eventStartTime,omitempty"`
	EventEndTime   string `json:"eventEndTime,omitempty"`
	SetStartTime   string `json:"setStartTime,omitempty"`
	SetEndTime     string `json:"setEndTime,omitempty"`

	// Производная длительность сета в минутах.
	SetDuration int `json:"setDuration"`

	Fee             float64           `json:"fee"`
	Currency        string            `json:"currency"`
	PerformanceType string            `json:"performanceType"`
	Extras          map[string]string `json:"extras,omitempty"`
	Notes           string            `json:"notes,omitempty"`

	Status        string `json:"status"`
	DeclineReason string `json:"declineReason,omitempty"`
	DeclinedBy    string `json:"declinedBy,omitempty"`

	Revision  int       `json:"revision"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateDealRequest struct {
	RecipientProfileID string `json:"recipientProfileId" validate:"required"`

	EventName string   `json:"eventName"`
	VenueName string   `json:"venueName" validate:"required"`
	Location  Location `json:"location" validate:"required"`
	Date      string   `json:"date" validate:"required"`

	EventStartTime string `json:"eventStartTime"`
	EventEndTime   string `json:"eventEndTime"`
	SetStartTime   string `json:"setStartTime"`
	SetEndTime     string `json:"setEndTime"`

	Fee             float64           `json:"fee" validate:"required,gt=0"`
	Currency        string            `json:"currency" validate:"required"`
	PerformanceType string            `json:"performanceType"`
	Extras          map[string]string `json:"extras"`
	Notes           string            `json:"notes"`
}

type DeclineDealRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type CounterOffer struct {
	Fee      float64           `json:"fee" validate:"required,gt=0"`
	Currency string            `json:"currency" validate:"required"`
	Extras   map[string]string `json:"extras"`
	Notes    string            `json:"notes"`
}

type DealRevision struct {
	Revision   int               `json:"revision"`
	ProposedBy string            `json:"proposedBy"`
	MessageID  string            `json:"messageId"`
	Fee        float64           `json:"fee"`
	Currency   string            `json:"currency"`
	Extras     map[string]string `json:"extras,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
}

type Message struct {
	ID              string    `json:"id"`
	FromProfileID   string    `json:"fromProfileId"`
	ToProfileID     string    `json:"toProfileId"`
	Text            string    `json:"text"`
	DealID          string    `json:"dealId,omitempty"`
	IsSystemMessage bool      `json:"isSystemMessage"`
	CreatedAt       time.Time `json:"createdAt"`
}

type TimelineEntry struct {
	Message Message `json:"message"`

	Icon        string `json:"icon"`
	ActorName   string `json:"actorName"`
	ActionLabel string `json:"actionLabel"`

	CounterOffer *CounterOffer `json:"counterOffer,omitempty"`
}

type Profile struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Role      string   `json:"role"`
	Location  Location `json:"location"`
	AvatarURL string   `json:"avatarUrl,omitempty"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`
}

// ErrorCode Код ошибки
type ErrorCode string
