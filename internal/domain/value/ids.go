package value

import (
	"fmt"

	"github.com/rs/xid"
)

// DealID — непрозрачный идентификатор сделки.
type DealID string

func NewDealID() DealID {
	return DealID(xid.New().String())
}

func ParseDealID(s string) (DealID, error) {
	if _, err := xid.FromString(s); err != nil {
		return "", fmt.Errorf("xid.FromString: %w", err)
	}

	return DealID(s), nil
}

func (id DealID) String() string {
	return string(id)
}

// ProfileID — идентификатор профиля в каталоге.
type ProfileID string

func NewProfileID() ProfileID {
	return ProfileID(xid.New().String())
}

func ParseProfileID(s string) (ProfileID, error) {
	if _, err := xid.FromString(s); err != nil {
		return "", fmt.Errorf("xid.FromString: %w", err)
	}

	return ProfileID(s), nil
}

func (id ProfileID) String() string {
	return string(id)
}

// MessageID — идентификатор сообщения в треде.
type MessageID string

func NewMessageID() MessageID {
	return MessageID(xid.New().String())
}

func (id MessageID) String() string {
	return string(id)
}
