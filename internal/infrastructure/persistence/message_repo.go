package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"gig_market/internal/domain"
	"gig_market/internal/domain/entity"
	"gig_market/internal/domain/service/offercodec"
	"gig_market/internal/domain/value"
	"gig_market/pkg/errcodes"
)

const messageDedupeTTL = 24 * time.Hour

// MessageRepository — реализация треда сообщений поверх Postgres.
// Redis-ключи защищают системные сообщения от дублей при повторной
// best-effort отправке; без Redis дедупликацию обеспечивает только
// первичный ключ сообщения.
type MessageRepository struct {
	db    *sqlx.DB
	redis *redis.Client
}

func NewMessageRepository(db *sqlx.DB, redisClient *redis.Client) *MessageRepository {
	return &MessageRepository{db: db, redis: redisClient}
}

// Send дописывает сообщение в лог. Повторная отправка с тем же ID
// идемпотентна.
func (r *MessageRepository) Send(ctx context.Context, message entity.Message) (entity.Message, error) {
	if message.ID == "" {
		message.ID = value.NewMessageID()
	}

	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	if key, ok := r.dedupeKey(message); ok && r.redis != nil {
		fresh, err := r.redis.SetNX(ctx, key, message.ID.String(), messageDedupeTTL).Result()
		if err == nil && !fresh {
			return message, nil
		}
		// Недоступный Redis не блокирует отправку: страхует ON CONFLICT.
	}

	query := `
		INSERT INTO messages (id, from_profile_id, to_profile_id, text, deal_id, is_system, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query,
		message.ID.String(),
		message.FromProfileID.String(),
		message.ToProfileID.String(),
		message.Text,
		message.DealID.String(),
		message.IsSystem,
		[]byte(message.Payload),
		message.CreatedAt,
	)
	if err != nil {
		return entity.Message{}, domain.WrapError(err, errcodes.InternalServerError, "failed to send message")
	}

	return message, nil
}

// Thread возвращает сообщения между двумя профилями в порядке отправки.
func (r *MessageRepository) Thread(ctx context.Context, a, b value.ProfileID) ([]entity.Message, error) {
	query := `
		SELECT id, from_profile_id, to_profile_id, text, deal_id, is_system, payload, created_at
		FROM messages
		WHERE (from_profile_id = $1 AND to_profile_id = $2)
		   OR (from_profile_id = $2 AND to_profile_id = $1)
		ORDER BY created_at, id`

	var schemas []messageSchema
	if err := r.db.SelectContext(ctx, &schemas, query, a.String(), b.String()); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get thread")
	}

	messages := make([]entity.Message, 0, len(schemas))
	for _, s := range schemas {
		messages = append(messages, s.toDomain())
	}

	return messages, nil
}

// dedupeKey — одно системное событие каждого вида на сделку: повторная
// best-effort отправка получает тот же ключ независимо от ID сообщения.
func (r *MessageRepository) dedupeKey(message entity.Message) (string, bool) {
	if !message.IsSystem || message.DealID == "" {
		return "", false
	}

	event, err := offercodec.DecodeSystemEvent(message.Payload)
	if err != nil {
		return "", false
	}

	return fmt.Sprintf("gig_market:sysmsg:%s:%s", message.DealID, event.Kind), true
}
