package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"gig_market/internal/domain"
	"gig_market/internal/domain/entity"
	servicedeal "gig_market/internal/domain/service/deal"
	"gig_market/internal/domain/value"
	"gig_market/pkg/errcodes"
)

const dealColumns = `
	id, initiator_id, recipient_id, awaiting_response_from,
	event_name, venue_name, zone, country, city, event_date,
	event_start, event_end, set_start, set_end,
	fee_minor, currency, performance_type, extras, notes,
	status, decline_reason, declined_by, revision, created_at, updated_at`

type DealRepository struct {
	db *sqlx.DB
}

// NewDealRepository создаёт новый экземпляр репозитория.
func NewDealRepository(db *sqlx.DB) *DealRepository {
	return &DealRepository{db: db}
}

// withTx выполняет функцию в транзакции.
func (r *DealRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.InternalServerError,
				"transaction failed",
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

// Create сохраняет новую сделку.
func (r *DealRepository) Create(ctx context.Context, deal *entity.Deal) error {
	schema, err := newDealSchema(deal)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to build schema")
	}

	query := `
		INSERT INTO deals (` + dealColumns + `)
		VALUES (
			:id, :initiator_id, :recipient_id, :awaiting_response_from,
			:event_name, :venue_name, :zone, :country, :city, :event_date,
			:event_start, :event_end, :set_start, :set_end,
			:fee_minor, :currency, :performance_type, :extras, :notes,
			:status, :decline_reason, :declined_by, :revision, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, schema); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to create deal")
	}

	return nil
}

// GetByID возвращает сделку по идентификатору.
func (r *DealRepository) GetByID(ctx context.Context, id value.DealID) (*entity.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE id = $1`

	var schema dealSchema
	if err := r.db.GetContext(ctx, &schema, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.DealNotFound, "deal not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get deal")
	}

	return schema.toDomain()
}

// GetByIDs возвращает сделки по списку идентификаторов.
func (r *DealRepository) GetByIDs(ctx context.Context, ids []value.DealID) ([]*entity.Deal, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.String())
	}

	query, args, err := sqlx.In(`SELECT `+dealColumns+` FROM deals WHERE id IN (?)`, raw)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to build query")
	}

	var schemas []dealSchema
	if err := r.db.SelectContext(ctx, &schemas, r.db.Rebind(query), args...); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get deals")
	}

	deals := make([]*entity.Deal, 0, len(schemas))
	for _, s := range schemas {
		deal, err := s.toDomain()
		if err != nil {
			return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to convert deal")
		}
		deals = append(deals, deal)
	}

	return deals, nil
}

// ListByProfile возвращает сделки, где профиль — инициатор или получатель.
func (r *DealRepository) ListByProfile(
	ctx context.Context,
	profileID value.ProfileID,
	filter servicedeal.Filter,
) ([]entity.Deal, error) {
	query := `
		SELECT ` + dealColumns + `
		FROM deals
		WHERE (initiator_id = $1 OR recipient_id = $1)`

	args := []any{profileID.String()}

	if filter.Status != "" {
		query += ` AND status = $2`
		args = append(args, filter.Status.String())
	}

	query += ` ORDER BY created_at DESC`

	var schemas []dealSchema
	if err := r.db.SelectContext(ctx, &schemas, query, args...); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list deals")
	}

	deals := make([]entity.Deal, 0, len(schemas))
	for _, s := range schemas {
		deal, err := s.toDomain()
		if err != nil {
			return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to convert deal")
		}
		deals = append(deals, *deal)
	}

	return deals, nil
}

// Resolve — условный переход в ACCEPTED/DECLINED. UPDATE применяется,
// только если сделка ещё открыта, отвечает нужная сторона и ревизия не
// изменилась; проигравший конкурентный запрос получает конфликт.
func (r *DealRepository) Resolve(ctx context.Context, params servicedeal.ResolveParams) (*entity.Deal, error) {
	query := `
		UPDATE deals
		SET status = $1,
		    decline_reason = $2,
		    declined_by = $3,
		    updated_at = $4
		WHERE id = $5
		  AND status IN ('PENDING', 'NEGOTIATING')
		  AND awaiting_response_from = $6
		  AND revision = $7
		RETURNING ` + dealColumns

	declinedBy := ""
	if params.Status == value.DealStatusDeclined {
		declinedBy = params.Actor.String()
	}

	args := []any{
		params.Status.String(),
		params.DeclineReason,
		declinedBy,
		time.Now().UTC(),
		params.DealID.String(),
		params.Actor.String(),
		params.ExpectedRevision,
	}

	if params.ApplyOffer != nil {
		extras, err := json.Marshal(params.ApplyOffer.Extras)
		if err != nil {
			return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to marshal extras")
		}

		query = `
			UPDATE deals
			SET status = $1,
			    decline_reason = $2,
			    declined_by = $3,
			    updated_at = $4,
			    fee_minor = $8,
			    currency = $9,
			    extras = $10,
			    notes = $11
			WHERE id = $5
			  AND status IN ('PENDING', 'NEGOTIATING')
			  AND awaiting_response_from = $6
			  AND revision = $7
			RETURNING ` + dealColumns

		args = append(args,
			params.ApplyOffer.Fee.AmountMinor,
			params.ApplyOffer.Fee.Currency.String(),
			extras,
			params.ApplyOffer.Notes,
		)
	}

	var schema dealSchema
	if err := r.db.GetContext(ctx, &schema, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.conflictOrNotFound(ctx, params.DealID)
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to resolve deal")
	}

	return schema.toDomain()
}

// Counter атомарно фиксирует новый раунд: ревизия условий и передача
// права ответа другой стороне, с теми же CAS-условиями, что и Resolve.
func (r *DealRepository) Counter(ctx context.Context, params servicedeal.CounterParams) (*entity.Deal, error) {
	var schema dealSchema

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE deals
			SET status = 'NEGOTIATING',
			    awaiting_response_from = $1,
			    revision = revision + 1,
			    updated_at = $2
			WHERE id = $3
			  AND status IN ('PENDING', 'NEGOTIATING')
			  AND awaiting_response_from = $4
			  AND revision = $5
			RETURNING ` + dealColumns

		err := tx.GetContext(ctx, &schema, query,
			params.NextAwaiting.String(),
			time.Now().UTC(),
			params.DealID.String(),
			params.Actor.String(),
			params.ExpectedRevision,
		)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return r.conflictOrNotFound(ctx, params.DealID)
			}
			return domain.WrapError(err, errcodes.InternalServerError, "failed to update deal")
		}

		extras, err := json.Marshal(params.Revision.Extras)
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to marshal extras")
		}

		insert := `
			INSERT INTO deal_revisions (
				deal_id, revision, proposed_by, message_id,
				fee_minor, currency, extras, notes, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

		_, err = tx.ExecContext(ctx, insert,
			params.Revision.DealID.String(),
			params.Revision.Revision,
			params.Revision.ProposedBy.String(),
			params.Revision.MessageID.String(),
			params.Revision.Fee.AmountMinor,
			params.Revision.Fee.Currency.String(),
			extras,
			params.Revision.Notes,
			params.Revision.CreatedAt,
		)
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to insert revision")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return schema.toDomain()
}

// LatestRevision возвращает последний раунд переговоров.
func (r *DealRepository) LatestRevision(ctx context.Context, id value.DealID) (*entity.DealRevision, error) {
	query := `
		SELECT deal_id, revision, proposed_by, message_id,
		       fee_minor, currency, extras, notes, created_at
		FROM deal_revisions
		WHERE deal_id = $1
		ORDER BY revision DESC
		LIMIT 1`

	var schema revisionSchema
	if err := r.db.GetContext(ctx, &schema, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.DealNotFound, "revision not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get revision")
	}

	revision, err := schema.toDomain()
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to convert revision")
	}

	return &revision, nil
}

// ListRevisions возвращает историю раундов в порядке предложения.
func (r *DealRepository) ListRevisions(ctx context.Context, id value.DealID) ([]entity.DealRevision, error) {
	query := `
		SELECT deal_id, revision, proposed_by, message_id,
		       fee_minor, currency, extras, notes, created_at
		FROM deal_revisions
		WHERE deal_id = $1
		ORDER BY revision`

	var schemas []revisionSchema
	if err := r.db.SelectContext(ctx, &schemas, query, id.String()); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list revisions")
	}

	revisions := make([]entity.DealRevision, 0, len(schemas))
	for _, s := range schemas {
		revision, err := s.toDomain()
		if err != nil {
			return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to convert revision")
		}
		revisions = append(revisions, revision)
	}

	return revisions, nil
}

// DeletePending физически удаляет неотвеченный PENDING-оффер инициатора.
func (r *DealRepository) DeletePending(ctx context.Context, id value.DealID, initiator value.ProfileID) error {
	query := `
		DELETE FROM deals
		WHERE id = $1 AND initiator_id = $2 AND status = 'PENDING'`

	res, err := r.db.ExecContext(ctx, query, id.String(), initiator.String())
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to delete deal")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check rows affected")
	}

	if affected == 0 {
		return r.conflictOrNotFound(ctx, id)
	}

	return nil
}

// CompleteElapsed помечает акцептованные сделки с прошедшей датой
// завершёнными.
func (r *DealRepository) CompleteElapsed(ctx context.Context, before time.Time) (int64, error) {
	query := `
		UPDATE deals
		SET status = 'COMPLETED', updated_at = $1
		WHERE status = 'ACCEPTED' AND event_date < $2`

	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), before)
	if err != nil {
		return 0, domain.WrapError(err, errcodes.InternalServerError, "failed to complete deals")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, domain.WrapError(err, errcodes.InternalServerError, "failed to check rows affected")
	}

	return affected, nil
}

// conflictOrNotFound различает проигранную гонку и отсутствующую сделку
// после условного UPDATE, не задевшего ни одной строки.
func (r *DealRepository) conflictOrNotFound(ctx context.Context, id value.DealID) error {
	var exists bool

	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM deals WHERE id = $1)`, id.String())
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check deal existence")
	}

	if !exists {
		return domain.NewError(errcodes.DealNotFound, "deal not found")
	}

	return domain.NewError(errcodes.Conflict, "deal state changed concurrently")
}
