package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"buff_autoaccept/pkg/httpx/reply"
	"buff_autoaccept/pkg/logx"
	"buff_autoaccept/pkg/middlewarex"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Get("/status", handler(s.getV1Status))

			r.Route("/offers", func(r chi.Router) {
				r.Get("/ignored", handler(s.getV1IgnoredOffers))
			})

			r.Route("/journal", func(r chi.Router) {
				r.Get("/", handler(s.getV1Journal))
				r.Get("/{offerID}", handler(s.getV1JournalOffer))
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

// NewRouter собирает chi-роутер со стандартной цепочкой middleware.
func NewRouter(s Server, sensitiveDataMasker logx.SensitiveDataMaskerInterface, logFieldMaxLen int) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.RequestLogging(sensitiveDataMasker, logFieldMaxLen),
		middlewarex.ResponseLogging(sensitiveDataMasker, logFieldMaxLen),
		middlewarex.Recovery,
	)

	s.RegisterRoutes(r)

	return r
}
