package entity

import (
	"encoding/json"
	"time"

	"gig_market/internal/domain/value"
)

// Message — запись в треде между двумя профилями. Движок переговоров
// использует тред как append-only лог: пишет системные сообщения и
// контрофферы, читает его для проекции статуса.
type Message struct {
	ID            value.MessageID `json:"id" db:"id"`
	FromProfileID value.ProfileID `json:"from_profile_id" db:"from_profile_id"`
	ToProfileID   value.ProfileID `json:"to_profile_id" db:"to_profile_id"`
	Text          string          `json:"text" db:"text"`

	// Ссылка на сделку; пустая у обычных сообщений чата.
	DealID value.DealID `json:"deal_id,omitempty" db:"deal_id"`

	// Системные сообщения генерирует сам движок, а не пользователь.
	IsSystem bool `json:"is_system" db:"is_system"`

	// Структурированный вложенный payload (системное событие или
	// контроффер); кодек — internal/domain/service/offercodec.
	Payload json.RawMessage `json:"payload,omitempty" db:"payload"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
