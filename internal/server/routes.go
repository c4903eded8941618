package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"verhandlungsbot/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Route("/negotiations", func(r chi.Router) {
				r.Post("/", handler(s.postV1Negotiations))
				r.Get("/{id}", handler(s.getV1Negotiation))
				r.Post("/{id}/messages", handler(s.postV1NegotiationMessage))
				r.Post("/{id}/confirm", handler(s.postV1NegotiationConfirm))
				r.Post("/{id}/abort", handler(s.postV1NegotiationAbort))
			})

			// дашборд исследователя, доступ по ключу
			r.Route("/results", func(r chi.Router) {
				r.Get("/", handler(s.getV1Results))
				r.Get("/{id}/transcript", handler(s.getV1ResultTranscript))
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
