package deal

import (
	"context"
	"fmt"

	"gig_market/internal/domain/entity"
	"gig_market/internal/domain/service/offercodec"
	"gig_market/internal/domain/value"
)

// Иконки таймлайна переговоров.
const (
	IconOffer    = "offer"
	IconCounter  = "counter"
	IconAccepted = "accepted"
	IconDeclined = "declined"
)

// Подписи действий, отображаемые рядом с актором.
const (
	LabelSentOffer      = "sent an offer"
	LabelCounterOffered = "counter-offered"
	LabelAcceptedOffer  = "accepted offer"
	LabelDeclinedOffer  = "declined offer"
)

// TimelineEntry — отображаемый кортеж для одного сообщения треда,
// связанного со сделкой.
type TimelineEntry struct {
	Message entity.Message

	Icon        string
	ActorName   string
	ActionLabel string

	// Контроффер декодируется из payload'а сообщения на лету, а не из
	// записи сделки.
	CounterOffer *offercodec.Offer
}

// ProjectThread сводит тред viewer↔counterpart с записями сделок в
// таймлайн переговоров. Сообщения без ссылки на сделку (обычный чат)
// в таймлайн не попадают.
func (s *Service) ProjectThread(
	ctx context.Context,
	viewerID, counterpartID value.ProfileID,
) ([]TimelineEntry, error) {
	messages, err := s.thread.Thread(ctx, viewerID, counterpartID)
	if err != nil {
		return nil, fmt.Errorf("thread.Thread: %w", err)
	}

	counterpart, err := s.profile(ctx, counterpartID)
	if err != nil {
		return nil, err
	}

	deals, err := s.dealsByMessages(ctx, messages)
	if err != nil {
		return nil, err
	}

	entries := make([]TimelineEntry, 0, len(messages))

	for _, message := range messages {
		if message.DealID == "" {
			continue
		}

		entry := s.projectMessage(message, deals[message.DealID], viewerID, counterpart.Name)
		entries = append(entries, entry)
	}

	return entries, nil
}

// projectMessage решает, какую иконку, актора и подпись показать для
// сообщения. Сделка может отсутствовать (инициатор удалил PENDING-оффер),
// тогда сообщение проецируется как исторический оффер.
func (s *Service) projectMessage(
	message entity.Message,
	deal *entity.Deal,
	viewerID value.ProfileID,
	counterpartName string,
) TimelineEntry {
	entry := TimelineEntry{
		Message:     message,
		Icon:        IconOffer,
		ActorName:   s.displayName(message.FromProfileID, viewerID, counterpartName),
		ActionLabel: LabelSentOffer,
	}

	// Контроффер распознаётся по payload'у независимо от статуса сделки.
	if offercodec.PayloadType(message.Payload) == offercodec.TypeCounterOffer {
		if offer, err := offercodec.DecodeCounterOffer(message.Payload); err == nil {
			entry.Icon = IconCounter
			entry.ActionLabel = LabelCounterOffered
			entry.CounterOffer = &offer

			return entry
		}
	}

	if deal == nil {
		return entry
	}

	switch {
	case deal.Status == value.DealStatusDeclined:
		entry.Icon = IconDeclined
		entry.ActionLabel = LabelDeclinedOffer
		entry.ActorName = s.displayName(deal.DeclinedBy, viewerID, counterpartName)
	case s.indicatesAcceptance(message, deal):
		entry.Icon = IconAccepted
		entry.ActionLabel = LabelAcceptedOffer
	}

	return entry
}

// indicatesAcceptance: системное событие accepted либо сделка, уже
// акцептованная или завершённая.
func (s *Service) indicatesAcceptance(message entity.Message, deal *entity.Deal) bool {
	if offercodec.PayloadType(message.Payload) == offercodec.TypeSystem {
		if event, err := offercodec.DecodeSystemEvent(message.Payload); err == nil {
			return event.Kind == offercodec.EventAccepted
		}
	}

	return deal.Status == value.DealStatusAccepted || deal.Status == value.DealStatusCompleted
}

func (s *Service) displayName(id, viewerID value.ProfileID, counterpartName string) string {
	if id == viewerID {
		return "You"
	}

	return counterpartName
}

// dealsByMessages батчем загружает сделки, на которые ссылается тред.
// Удалённые сделки просто отсутствуют в результате.
func (s *Service) dealsByMessages(
	ctx context.Context,
	messages []entity.Message,
) (map[value.DealID]*entity.Deal, error) {
	seen := make(map[value.DealID]struct{}, len(messages))
	ids := make([]value.DealID, 0, len(messages))

	for _, message := range messages {
		if message.DealID == "" {
			continue
		}

		if _, ok := seen[message.DealID]; ok {
			continue
		}

		seen[message.DealID] = struct{}{}
		ids = append(ids, message.DealID)
	}

	if len(ids) == 0 {
		return nil, nil
	}

	deals, err := s.dealRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, s.mapRepoError(err, "dealRepo.GetByIDs")
	}

	byID := make(map[value.DealID]*entity.Deal, len(deals))
	for _, deal := range deals {
		byID[deal.ID] = deal
	}

	return byID, nil
}
