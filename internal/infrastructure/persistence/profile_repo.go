package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/patrickmn/go-cache"

	"gig_market/internal/domain"
	"gig_market/internal/domain/entity"
	"gig_market/internal/domain/value"
	"gig_market/pkg/errcodes"
)

const (
	profileCacheTTL     = 5 * time.Minute
	profileCacheCleanup = 10 * time.Minute
)

// ProfileRepository — read-only каталог профилей для движка переговоров.
// Профили меняются редко, поэтому чтения прикрыты TTL-кэшем: проекция
// треда дёргает каталог на каждый запрос.
type ProfileRepository struct {
	db    *sqlx.DB
	cache *cache.Cache
}

func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{
		db:    db,
		cache: cache.New(profileCacheTTL, profileCacheCleanup),
	}
}

// GetByID возвращает профиль по идентификатору.
func (r *ProfileRepository) GetByID(ctx context.Context, id value.ProfileID) (entity.Profile, error) {
	if cached, found := r.cache.Get(id.String()); found {
		return cached.(entity.Profile), nil
	}

	query := `
		SELECT id, name, role, zone, country, city, avatar_url
		FROM profiles
		WHERE id = $1`

	var schema profileSchema
	if err := r.db.GetContext(ctx, &schema, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Profile{}, domain.NewError(errcodes.ProfileNotFound, "profile not found")
		}
		return entity.Profile{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get profile")
	}

	profile, err := schema.toDomain()
	if err != nil {
		return entity.Profile{}, domain.WrapError(err, errcodes.InternalServerError, "failed to convert profile")
	}

	r.cache.Set(id.String(), profile, cache.DefaultExpiration)

	return profile, nil
}

// Create сохраняет профиль. Используется сидированием и тестами; CRUD
// профилей живёт за пределами движка переговоров.
func (r *ProfileRepository) Create(ctx context.Context, profile entity.Profile) error {
	query := `
		INSERT INTO profiles (id, name, role, zone, country, city, avatar_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		profile.ID.String(),
		profile.Name,
		profile.Role.String(),
		profile.Location.Zone,
		profile.Location.Country,
		profile.Location.City,
		profile.AvatarURL,
	)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to create profile")
	}

	return nil
}
