package middlewarex

import (
	"net/http"

	"gig_market/pkg/contextx"
)

const headerNameProfileID = "X-Profile-Id"

// ProfileID кладёт действующий профиль из заголовка в контекст.
// Аутентификация живёт выше по стеку; здесь только идентификация
// вызывающего для явной передачи actingProfileId в операции.
func ProfileID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if profileID := r.Header.Get(headerNameProfileID); profileID != "" {
			ctx := contextx.WithUserID(r.Context(), contextx.UserID(profileID))
			r = r.WithContext(ctx)
		}

		next.ServeHTTP(w, r)
	})
}
