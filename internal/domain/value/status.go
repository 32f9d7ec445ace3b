package value

import "fmt"

// DealStatus — статус сделки в жизненном цикле переговоров.
type DealStatus string

const (
	DealStatusPending     DealStatus = "PENDING"
	DealStatusNegotiating DealStatus = "NEGOTIATING"
	DealStatusAccepted    DealStatus = "ACCEPTED"
	DealStatusDeclined    DealStatus = "DECLINED"
	DealStatusCompleted   DealStatus = "COMPLETED"
)

func ParseDealStatus(s string) (DealStatus, error) {
	switch DealStatus(s) {
	case DealStatusPending, DealStatusNegotiating, DealStatusAccepted,
		DealStatusDeclined, DealStatusCompleted:
		return DealStatus(s), nil
	}

	return "", fmt.Errorf("unknown deal status %q", s)
}

func (s DealStatus) String() string {
	return string(s)
}

// IsOpen сообщает, ждёт ли сделка ответа (Accept/Decline/Counter легальны).
func (s DealStatus) IsOpen() bool {
	return s == DealStatusPending || s == DealStatusNegotiating
}

// IsTerminal — ACCEPTED, DECLINED и COMPLETED конечны для переговоров.
func (s DealStatus) IsTerminal() bool {
	return !s.IsOpen()
}
