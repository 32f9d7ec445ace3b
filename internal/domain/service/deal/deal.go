// Package deal — движок переговоров по букинг-сделкам: создание оффера,
// раунды контрофферов, акцепт/отказ с фиксацией виновника и причины,
// удаление неотвеченного оффера и проекция статуса треда.
package deal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"git.appkode.ru/pub/go/failure"

	"gig_market/internal/domain"
	"gig_market/internal/domain/entity"
	"gig_market/internal/domain/service/offercodec"
	"gig_market/internal/domain/value"
	"gig_market/pkg/contextx"
	"gig_market/pkg/errcodes"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Filter — отбор сделок в списке.
type Filter struct {
	Status value.DealStatus // пустой — без фильтра
}

// ResolveParams — условный переход сделки в конечный статус.
// ExpectedRevision защищает применяемые условия: если параллельный
// контроффер успел увеличить ревизию, переход проигрывает и
// возвращается конфликт.
type ResolveParams struct {
	DealID           value.DealID
	Actor            value.ProfileID
	ExpectedRevision int
	Status           value.DealStatus
	DeclineReason    string

	// Переговорные условия последней ревизии, применяемые при акцепте.
	// nil — оставить условия сделки как есть.
	ApplyOffer *offercodec.Offer
}

// CounterParams — условная фиксация нового раунда переговоров.
type CounterParams struct {
	DealID           value.DealID
	Actor            value.ProfileID
	ExpectedRevision int
	NextAwaiting     value.ProfileID
	Revision         entity.DealRevision
}

type DealRepository interface {
	Create(ctx context.Context, deal *entity.Deal) error
	GetByID(ctx context.Context, id value.DealID) (*entity.Deal, error)
	GetByIDs(ctx context.Context, ids []value.DealID) ([]*entity.Deal, error)
	ListByProfile(ctx context.Context, profileID value.ProfileID, filter Filter) ([]entity.Deal, error)
	Resolve(ctx context.Context, params ResolveParams) (*entity.Deal, error)
	Counter(ctx context.Context, params CounterParams) (*entity.Deal, error)
	LatestRevision(ctx context.Context, id value.DealID) (*entity.DealRevision, error)
	ListRevisions(ctx context.Context, id value.DealID) ([]entity.DealRevision, error)
	DeletePending(ctx context.Context, id value.DealID, initiator value.ProfileID) error
	CompleteElapsed(ctx context.Context, before time.Time) (int64, error)
}

// MessageThread — внешний коллаборатор: append-only лог сообщений между
// двумя профилями. Движок пишет в него системные сообщения и
// контрофферы и читает его для проекции.
type MessageThread interface {
	Send(ctx context.Context, message entity.Message) (entity.Message, error)
	Thread(ctx context.Context, a, b value.ProfileID) ([]entity.Message, error)
}

// ProfileDirectory — внешний коллаборатор: read-only каталог профилей.
type ProfileDirectory interface {
	GetByID(ctx context.Context, id value.ProfileID) (entity.Profile, error)
}

// Notifier — опциональный внешний канал оповещений о закрытых сделках.
type Notifier interface {
	DealResolved(ctx context.Context, deal entity.Deal)
}

type Service struct {
	dealRepo  DealRepository
	thread    MessageThread
	directory ProfileDirectory
	notifier  Notifier
	geography value.Geography
	now       func() time.Time
}

func NewService(
	dealRepo DealRepository,
	thread MessageThread,
	directory ProfileDirectory,
) *Service {
	return &Service{
		dealRepo:  dealRepo,
		thread:    thread,
		directory: directory,
		geography: value.DefaultGeography(),
		now:       time.Now,
	}
}

// WithClock подменяет источник времени (для тестов темпоральных правил).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithNotifier включает оповещения о закрытых сделках.
func (s *Service) WithNotifier(notifier Notifier) *Service {
	s.notifier = notifier
	return s
}

// Create валидирует условия, проверяет связку ролей и создаёт сделку в
// статусе PENDING. Системное сообщение-оффер уходит в тред best-effort:
// источник истины — запись сделки.
func (s *Service) Create(
	ctx context.Context,
	initiatorID, recipientID value.ProfileID,
	terms Terms,
) (*entity.Deal, error) {
	if initiatorID == recipientID {
		return nil, failure.NewInvalidArgumentError(
			"initiator and recipient must differ",
			failure.WithCode(errcodes.InvalidRolePairing),
		)
	}

	if err := terms.Validate(s.now(), s.geography); err != nil {
		return nil, fmt.Errorf("terms.Validate: %w", err)
	}

	initiator, err := s.profile(ctx, initiatorID)
	if err != nil {
		return nil, err
	}

	recipient, err := s.profile(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	// Инициатор всегда сторона спроса, получатель — предложения.
	if !initiator.Role.IsDemandSide() || !recipient.Role.IsSupplySide() {
		return nil, failure.NewForbiddenError(
			fmt.Sprintf("role pairing %s -> %s is not allowed", initiator.Role, recipient.Role),
			failure.WithCode(errcodes.InvalidRolePairing),
		)
	}

	now := s.now().UTC()
	deal := &entity.Deal{
		ID:                   value.NewDealID(),
		InitiatorID:          initiatorID,
		RecipientID:          recipientID,
		AwaitingResponseFrom: recipientID,
		EventName:            terms.EventName,
		VenueName:            terms.VenueName,
		Location:             terms.Location,
		Date:                 terms.Date.UTC().Truncate(24 * time.Hour),
		EventWindow:          terms.EventWindow,
		SetWindow:            terms.SetWindow,
		Fee:                  terms.Fee,
		Performance:          terms.Performance,
		Extras:               terms.Extras.Clone(),
		Notes:                terms.Notes,
		Status:               value.DealStatusPending,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.dealRepo.Create(ctx, deal); err != nil {
		return nil, fmt.Errorf("dealRepo.Create: %w", err)
	}

	metricDealsCreated.Inc()

	s.postSystemMessage(ctx, deal, initiatorID, offercodec.EventOffer,
		fmt.Sprintf("New booking offer for %s on %s", deal.VenueName, deal.Date.Format("2006-01-02")))

	return deal, nil
}

// GetByID возвращает сделку её участнику. Для посторонних профилей
// сделка неотличима от несуществующей.
func (s *Service) GetByID(ctx context.Context, id value.DealID, requesterID value.ProfileID) (*entity.Deal, error) {
	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, "dealRepo.GetByID")
	}

	if !deal.HasParticipant(requesterID) {
		return nil, failure.NewNotFoundError(
			"deal not found",
			failure.WithCode(errcodes.DealNotFound),
		)
	}

	return deal, nil
}

// List возвращает сделки, где профиль — инициатор или получатель.
func (s *Service) List(ctx context.Context, profileID value.ProfileID, filter Filter) ([]entity.Deal, error) {
	deals, err := s.dealRepo.ListByProfile(ctx, profileID, filter)
	if err != nil {
		return nil, s.mapRepoError(err, "dealRepo.ListByProfile")
	}

	return deals, nil
}

// Revisions возвращает историю раундов переговоров по сделке.
func (s *Service) Revisions(ctx context.Context, id value.DealID, requesterID value.ProfileID) ([]entity.DealRevision, error) {
	if _, err := s.GetByID(ctx, id, requesterID); err != nil {
		return nil, err
	}

	revisions, err := s.dealRepo.ListRevisions(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, "dealRepo.ListRevisions")
	}

	return revisions, nil
}

// Accept переводит сделку в ACCEPTED. Легален только для текущего
// получателя последнего оффера; условия последней ревизии применяются
// к записи сделки.
func (s *Service) Accept(ctx context.Context, id value.DealID, actorID value.ProfileID) (*entity.Deal, error) {
	deal, err := s.respondable(ctx, id, actorID)
	if err != nil {
		return nil, err
	}

	params := ResolveParams{
		DealID:           id,
		Actor:            actorID,
		ExpectedRevision: deal.Revision,
		Status:           value.DealStatusAccepted,
	}

	if deal.Revision > 0 {
		latest, err := s.dealRepo.LatestRevision(ctx, id)
		if err != nil {
			return nil, s.mapRepoError(err, "dealRepo.LatestRevision")
		}

		params.ApplyOffer = &offercodec.Offer{
			Fee:    latest.Fee,
			Extras: latest.Extras,
			Notes:  latest.Notes,
		}
	}

	updated, err := s.dealRepo.Resolve(ctx, params)
	if err != nil {
		return nil, s.mapRepoError(err, "dealRepo.Resolve")
	}

	metricDealsAccepted.Inc()

	s.postSystemMessage(ctx, updated, actorID, offercodec.EventAccepted,
		fmt.Sprintf("Booking offer for %s accepted", updated.VenueName))

	if s.notifier != nil {
		s.notifier.DealResolved(ctx, *updated)
	}

	return updated, nil
}

// Decline переводит сделку в DECLINED с обязательной причиной и
// фиксирует, кто отказал.
func (s *Service) Decline(
	ctx context.Context,
	id value.DealID,
	actorID value.ProfileID,
	reason string,
) (*entity.Deal, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, failure.NewInvalidArgumentError(
			"decline reason is required",
			failure.WithCode(errcodes.DeclineReasonRequired),
		)
	}

	deal, err := s.respondable(ctx, id, actorID)
	if err != nil {
		return nil, err
	}

	updated, err := s.dealRepo.Resolve(ctx, ResolveParams{
		DealID:           id,
		Actor:            actorID,
		ExpectedRevision: deal.Revision,
		Status:           value.DealStatusDeclined,
		DeclineReason:    reason,
	})
	if err != nil {
		return nil, s.mapRepoError(err, "dealRepo.Resolve")
	}

	metricDealsDeclined.Inc()

	s.postSystemMessage(ctx, updated, actorID, offercodec.EventDeclined,
		fmt.Sprintf("Booking offer for %s declined", updated.VenueName))

	if s.notifier != nil {
		s.notifier.DealResolved(ctx, *updated)
	}

	return updated, nil
}

// Counter фиксирует контроффер: новая ревизия условий, статус
// NEGOTIATING, право ответа переходит другой стороне. Возвращает
// отправленное сообщение с payload'ом контроффера.
func (s *Service) Counter(
	ctx context.Context,
	id value.DealID,
	actorID value.ProfileID,
	offer offercodec.Offer,
) (*entity.Deal, entity.Message, error) {
	if offer.Fee.IsZero() {
		return nil, entity.Message{}, failure.NewInvalidArgumentError(
			"counter-offer fee is required and must be positive",
			failure.WithCode(errcodes.InvalidFee),
		)
	}

	if err := offer.Extras.Validate(); err != nil {
		return nil, entity.Message{}, failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("extras.Validate: %w", err),
			failure.WithCode(errcodes.InvalidExtras),
		)
	}

	deal, err := s.respondable(ctx, id, actorID)
	if err != nil {
		return nil, entity.Message{}, err
	}

	// ID сообщения выделяется заранее: ревизия ссылается на него, а
	// повторная отправка с тем же ID идемпотентна.
	messageID := value.NewMessageID()

	updated, err := s.dealRepo.Counter(ctx, CounterParams{
		DealID:           id,
		Actor:            actorID,
		ExpectedRevision: deal.Revision,
		NextAwaiting:     deal.Counterpart(actorID),
		Revision: entity.DealRevision{
			DealID:     id,
			Revision:   deal.Revision + 1,
			ProposedBy: actorID,
			MessageID:  messageID,
			Fee:        offer.Fee,
			Extras:     offer.Extras.Clone(),
			Notes:      offer.Notes,
			CreatedAt:  s.now().UTC(),
		},
	})
	if err != nil {
		return nil, entity.Message{}, s.mapRepoError(err, "dealRepo.Counter")
	}

	metricCounterOffers.Inc()

	payload, err := offercodec.EncodeCounterOffer(offer)
	if err != nil {
		return nil, entity.Message{}, fmt.Errorf("offercodec.EncodeCounterOffer: %w", err)
	}

	message := entity.Message{
		ID:            messageID,
		FromProfileID: actorID,
		ToProfileID:   updated.Counterpart(actorID),
		Text:          offercodec.RenderCounterOfferText(offer),
		DealID:        id,
		IsSystem:      false,
		Payload:       payload,
		CreatedAt:     s.now().UTC(),
	}

	sent, err := s.thread.Send(ctx, message)
	if err != nil {
		// Запись сделки — источник истины; сообщение можно переотправить.
		logger(ctx).Error("thread.Send", "deal_id", id.String(), "error", err)
		return updated, message, nil
	}

	return updated, sent, nil
}

// Delete физически удаляет неотвеченный первый оффер. Доступно только
// инициатору и только из PENDING.
func (s *Service) Delete(ctx context.Context, id value.DealID, actorID value.ProfileID) error {
	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		return s.mapRepoError(err, "dealRepo.GetByID")
	}

	if deal.InitiatorID != actorID {
		return failure.NewForbiddenError(
			"only the initiator may delete a deal",
			failure.WithCode(errcodes.DeleteNotAllowed),
		)
	}

	if deal.Status != value.DealStatusPending {
		return failure.NewConflictError(
			fmt.Sprintf("deal in status %s cannot be deleted", deal.Status),
			failure.WithCode(errcodes.DealAlreadyResolved),
		)
	}

	if err := s.dealRepo.DeletePending(ctx, id, actorID); err != nil {
		return s.mapRepoError(err, "dealRepo.DeletePending")
	}

	return nil
}

// CompleteElapsed помечает акцептованные сделки с прошедшей датой как
// COMPLETED. Вызывается периодической задачей.
func (s *Service) CompleteElapsed(ctx context.Context) (int64, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)

	count, err := s.dealRepo.CompleteElapsed(ctx, today)
	if err != nil {
		return 0, s.mapRepoError(err, "dealRepo.CompleteElapsed")
	}

	if count > 0 {
		metricDealsCompleted.Add(float64(count))
		logger(ctx).Info("elapsed deals completed", "count", count)
	}

	return count, nil
}

// respondable загружает сделку и проверяет, что actor вправе ответить
// на последний оффер прямо сейчас.
func (s *Service) respondable(ctx context.Context, id value.DealID, actorID value.ProfileID) (*entity.Deal, error) {
	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, "dealRepo.GetByID")
	}

	if !deal.HasParticipant(actorID) {
		return nil, failure.NewForbiddenError(
			"profile is not a participant of the deal",
			failure.WithCode(errcodes.NotDealParticipant),
		)
	}

	if !deal.Status.IsOpen() {
		return nil, failure.NewConflictError(
			fmt.Sprintf("deal is already %s", deal.Status),
			failure.WithCode(errcodes.DealAlreadyResolved),
		)
	}

	if deal.AwaitingResponseFrom != actorID {
		return nil, failure.NewForbiddenError(
			"it is not this profile's turn to respond",
			failure.WithCode(errcodes.NotYourTurnToRespond),
		)
	}

	return deal, nil
}

func (s *Service) profile(ctx context.Context, id value.ProfileID) (entity.Profile, error) {
	profile, err := s.directory.GetByID(ctx, id)
	if err != nil {
		if code, ok := domain.GetCode(err); ok && code == errcodes.ProfileNotFound {
			return entity.Profile{}, failure.NewNotFoundErrorFromError(
				fmt.Errorf("directory.GetByID: %w", err),
				failure.WithCode(errcodes.ProfileNotFound),
			)
		}

		return entity.Profile{}, fmt.Errorf("directory.GetByID: %w", err)
	}

	return profile, nil
}

// postSystemMessage отправляет системное сообщение о событии жизненного
// цикла. Best-effort: отказ треда логируется, но не валит операцию.
func (s *Service) postSystemMessage(
	ctx context.Context,
	deal *entity.Deal,
	actorID value.ProfileID,
	kind offercodec.EventKind,
	text string,
) {
	payload, err := offercodec.EncodeSystemEvent(offercodec.SystemEvent{
		DealID: deal.ID,
		Kind:   kind,
		Actor:  actorID,
	})
	if err != nil {
		logger(ctx).Error("offercodec.EncodeSystemEvent", "deal_id", deal.ID.String(), "error", err)
		return
	}

	if _, err := s.thread.Send(ctx, entity.Message{
		ID:            value.NewMessageID(),
		FromProfileID: actorID,
		ToProfileID:   deal.Counterpart(actorID),
		Text:          text,
		DealID:        deal.ID,
		IsSystem:      true,
		Payload:       payload,
		CreatedAt:     s.now().UTC(),
	}); err != nil {
		logger(ctx).Error("thread.Send", "deal_id", deal.ID.String(), "kind", string(kind), "error", err)
	}
}

// mapRepoError переводит доменные коды хранилища в таксономию failure,
// чтобы транспорт отдал корректный HTTP-статус.
func (s *Service) mapRepoError(err error, op string) error {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch appErr.Code {
	case errcodes.DealNotFound, errcodes.ProfileNotFound:
		return failure.NewNotFoundErrorFromError(
			fmt.Errorf("%s: %w", op, err),
			failure.WithCode(appErr.Code),
		)
	case errcodes.Conflict, errcodes.DealAlreadyResolved:
		return failure.NewConflictErrorFromError(
			fmt.Errorf("%s: %w", op, err),
			failure.WithCode(errcodes.DealAlreadyResolved),
		)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
