package value

import "fmt"

// Role классифицирует профиль на маркетплейсе. Спрос (VENUE, PROMOTER)
// инициирует сделки, предложение (ARTIST, AGENT) отвечает на них.
type Role string

const (
	RoleArtist   Role = "ARTIST"
	RoleAgent    Role = "AGENT"
	RoleVenue    Role = "VENUE"
	RolePromoter Role = "PROMOTER"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleArtist, RoleAgent, RoleVenue, RolePromoter:
		return Role(s), nil
	}

	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	return string(r)
}

// IsDemandSide сообщает, может ли роль инициировать сделку.
func (r Role) IsDemandSide() bool {
	return r == RoleVenue || r == RolePromoter
}

// IsSupplySide сообщает, может ли роль быть получателем сделки.
func (r Role) IsSupplySide() bool {
	return r == RoleArtist || r == RoleAgent
}
