package entity

import (
	"gig_market/internal/domain/value"
)

// Profile — запись каталога профилей. Для движка переговоров это
// read-only коллаборатор: роль нужна для авторизации, имя и аватар —
// для отображения.
type Profile struct {
	ID        value.ProfileID `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Role      value.Role      `json:"role" db:"role"`
	Location  value.Location  `json:"location"`
	AvatarURL string          `json:"avatar_url,omitempty" db:"avatar_url"`
}
