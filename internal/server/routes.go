package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"gig_market/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) { //nolint:funlen
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Route("/deals", func(r chi.Router) {
				r.Post("/", handler(s.postV1Deal))
				r.Get("/", handler(s.getV1Deals))
				r.Get("/timeline", handler(s.getV1DealTimeline))

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", handler(s.getV1Deal))
					r.Delete("/", handler(s.deleteV1Deal))
					r.Get("/revisions", handler(s.getV1DealRevisions))
					r.Post("/accept", handler(s.postV1DealAccept))
					r.Post("/decline", handler(s.postV1DealDecline))
					r.Post("/counter", handler(s.postV1DealCounter))
				})
			})

			r.Route("/profiles", func(r chi.Router) {
				r.Get("/{id}", handler(s.getV1Profile))
			})
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
