// Package offercodec кодирует структурированные payload'ы сообщений
// треда: системные события жизненного цикла сделки и контрофферы.
// Контроффер — не персистентная сущность: он живёт внутри одного
// сообщения и ссылается на сделку через DealID сообщения.
package offercodec

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"gig_market/internal/domain/value"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// Типы payload'а, тег "type" во вложенном JSON.
const (
	TypeSystem       = "system"
	TypeCounterOffer = "counter-offer"
)

// EventKind — вид системного события в треде.
type EventKind string

const (
	EventOffer    EventKind = "offer"
	EventAccepted EventKind = "accepted"
	EventDeclined EventKind = "declined"
)

// SystemEvent — payload системного сообщения, фиксирующего событие
// жизненного цикла сделки.
type SystemEvent struct {
	DealID value.DealID    `json:"dealId"`
	Kind   EventKind       `json:"kind"`
	Actor  value.ProfileID `json:"actor,omitempty"`
}

// Offer — переговорное подмножество условий сделки.
type Offer struct {
	Fee    value.Money
	Extras value.Extras
	Notes  string
}

type envelope struct {
	Type string `json:"type"`
}

type systemWire struct {
	Type   string          `json:"type"`
	DealID value.DealID    `json:"dealId"`
	Kind   EventKind       `json:"kind"`
	Actor  value.ProfileID `json:"actor,omitempty"`
}

type counterOfferWire struct {
	Type     string                    `json:"type"`
	Fee      float64                   `json:"fee"`
	Currency string                    `json:"currency"`
	Extras   map[value.ExtraKey]string `json:"extras,omitempty"`
	Notes    string                    `json:"notes,omitempty"`
}

// PayloadType возвращает тег payload'а; пустая строка для обычных
// сообщений без payload'а.
func PayloadType(payload []byte) string {
	if len(payload) == 0 {
		return ""
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return ""
	}

	return env.Type
}

// EncodeSystemEvent сериализует событие жизненного цикла.
func EncodeSystemEvent(event SystemEvent) ([]byte, error) {
	payload, err := json.Marshal(systemWire{
		Type:   TypeSystem,
		DealID: event.DealID,
		Kind:   event.Kind,
		Actor:  event.Actor,
	})
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return payload, nil
}

// DecodeSystemEvent разбирает payload системного сообщения.
func DecodeSystemEvent(payload []byte) (SystemEvent, error) {
	var wire systemWire
	if err := json.Unmarshal(payload, &wire); err != nil {
		return SystemEvent{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	if wire.Type != TypeSystem {
		return SystemEvent{}, fmt.Errorf("payload type %q is not %q", wire.Type, TypeSystem)
	}

	return SystemEvent{
		DealID: wire.DealID,
		Kind:   wire.Kind,
		Actor:  wire.Actor,
	}, nil
}

// EncodeCounterOffer сериализует контроффер в тегированный payload.
func EncodeCounterOffer(offer Offer) ([]byte, error) {
	if err := offer.Extras.Validate(); err != nil {
		return nil, fmt.Errorf("extras.Validate: %w", err)
	}

	payload, err := json.Marshal(counterOfferWire{
		Type:     TypeCounterOffer,
		Fee:      offer.Fee.Amount(),
		Currency: offer.Fee.Currency.String(),
		Extras:   offer.Extras,
		Notes:    offer.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return payload, nil
}

// DecodeCounterOffer разбирает payload контроффера. Сумма повторно
// проходит через ParseMoney, так что decode(encode(x)) == x.
func DecodeCounterOffer(payload []byte) (Offer, error) {
	var wire counterOfferWire
	if err := json.Unmarshal(payload, &wire); err != nil {
		return Offer{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	if wire.Type != TypeCounterOffer {
		return Offer{}, fmt.Errorf("payload type %q is not %q", wire.Type, TypeCounterOffer)
	}

	fee, err := value.ParseMoney(wire.Fee, wire.Currency)
	if err != nil {
		return Offer{}, fmt.Errorf("value.ParseMoney: %w", err)
	}

	extras := value.Extras(wire.Extras)
	if err := extras.Validate(); err != nil {
		return Offer{}, fmt.Errorf("extras.Validate: %w", err)
	}

	return Offer{
		Fee:    fee,
		Extras: extras,
		Notes:  wire.Notes,
	}, nil
}

// RenderCounterOfferText — человекочитаемый текст сообщения для чата.
// Только для отображения: обратно он не разбирается, источником истины
// служит payload.
func RenderCounterOfferText(offer Offer) string {
	var b strings.Builder

	b.WriteString("Counter-Offer:\n")
	fmt.Fprintf(&b, "Fee: %s\n", offer.Fee)

	if len(offer.Extras) > 0 {
		b.WriteString("Extras:\n")

		for _, key := range value.ExtraKeys {
			note, ok := offer.Extras[key]
			if !ok {
				continue
			}

			if note == value.ExtraIncluded {
				fmt.Fprintf(&b, "  • %s\n", key.Label())
			} else {
				fmt.Fprintf(&b, "  • %s: %s\n", key.Label(), note)
			}
		}
	}

	if offer.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", offer.Notes)
	}

	return strings.TrimRight(b.String(), "\n")
}
