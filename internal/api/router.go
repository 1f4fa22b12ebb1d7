package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter registers every market and account endpoint.
func NewRouter(h *HandlerProvider) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/markets", h.CreateMarketHandler)
	r.Route("/markets/{marketId}", func(r chi.Router) {
		r.Get("/", h.GetMarketHandler)
		r.Post("/deposits", h.DepositHandler)
		r.Post("/assertion", h.AssertHandler)
		r.Post("/redemptions", h.RedeemHandler)
		r.Get("/positions/{outcome}/{participant}", h.GetPositionHandler)
		r.Get("/journal", h.GetJournalHandler)
	})

	r.Route("/accounts/{account}", func(r chi.Router) {
		r.Get("/balance", h.GetBalanceHandler)
		r.Post("/mint", h.MintHandler)
		r.Post("/burn", h.BurnHandler)
		r.Post("/transfers", h.TransferHandler)
	})

	return r
}
