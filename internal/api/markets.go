package api

import (
	"net/http"
	"time"

	"github.com/fastprodman/predictionmarket/internal/market"
	"github.com/fastprodman/predictionmarket/internal/services/markets"
)

type createMarketRequest struct {
	Outcome1    string  `json:"outcome1"`
	Outcome2    string  `json:"outcome2"`
	Description string  `json:"description"`
	Sequence    *uint64 `json:"sequence,omitempty"`
}

type outcomeResponse struct {
	Label  string `json:"label"`
	Ledger string `json:"ledger"`
	Pool   string `json:"pool"`
}

type marketResponse struct {
	ID          string            `json:"id"`
	Description string            `json:"description"`
	Sequence    uint64            `json:"sequence"`
	Outcomes    []outcomeResponse `json:"outcomes"`
	Resolution  string            `json:"resolution"`
	Winner      string            `json:"winner,omitempty"`
	AssertedBy  string            `json:"assertedBy,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	ResolvedAt  *time.Time        `json:"resolvedAt,omitempty"`
}

func newMarketResponse(m market.Market) marketResponse {
	resp := marketResponse{
		ID:          m.ID.String(),
		Description: m.Description,
		Sequence:    m.Sequence,
		Resolution:  m.Resolution.String(),
		AssertedBy:  m.AssertedBy,
		CreatedAt:   m.CreatedAt,
	}

	for i, o := range m.Outcomes() {
		resp.Outcomes = append(resp.Outcomes, outcomeResponse{
			Label:  o.Label,
			Ledger: o.Ledger.String(),
			Pool:   formatCents(m.Pools[i]),
		})
	}

	if w, err := m.Winner(); err == nil {
		resp.Winner = m.Outcomes()[w].Label
		at := m.ResolvedAt
		resp.ResolvedAt = &at
	}

	return resp
}

// CreateMarketHandler handles POST /markets
func (h *HandlerProvider) CreateMarketHandler(w http.ResponseWriter, r *http.Request) {
	var req createMarketRequest

	err := decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.engine.CreateMarket(r.Context(), markets.CreateMarketRequest{
		Outcome1:    req.Outcome1,
		Outcome2:    req.Outcome2,
		Description: req.Description,
		Sequence:    req.Sequence,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

// GetMarketHandler handles GET /markets/{marketId}
func (h *HandlerProvider) GetMarketHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseMarketIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid market id in path")
		return
	}

	m, err := h.engine.Market(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newMarketResponse(m))
}

type depositRequest struct {
	Outcome string `json:"outcome"`
	Amount  string `json:"amount"`
}

// DepositHandler handles POST /markets/{marketId}/deposits
func (h *HandlerProvider) DepositHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseMarketIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid market id in path")
		return
	}

	tok, err := bearerToken(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req depositRequest

	err = decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := parseAmountCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.engine.Deposit(r.Context(), tok, markets.DepositRequest{
		MarketID: id,
		Outcome:  req.Outcome,
		Amount:   amount,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type assertRequest struct {
	Outcome string `json:"outcome"`
}

// AssertHandler handles POST /markets/{marketId}/assertion
func (h *HandlerProvider) AssertHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseMarketIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid market id in path")
		return
	}

	tok, err := bearerToken(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req assertRequest

	err = decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.engine.Assert(r.Context(), tok, id, req.Outcome)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type redemptionResponse struct {
	MarketID    string `json:"marketId"`
	Participant string `json:"participant"`
	Outcome     string `json:"outcome"`
	Stake       string `json:"stake"`
	Payout      string `json:"payout"`
}

// RedeemHandler handles POST /markets/{marketId}/redemptions
func (h *HandlerProvider) RedeemHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseMarketIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid market id in path")
		return
	}

	tok, err := bearerToken(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	red, err := h.engine.Redeem(r.Context(), tok, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, redemptionResponse{
		MarketID:    red.MarketID.String(),
		Participant: red.Participant,
		Outcome:     red.Outcome,
		Stake:       formatCents(red.Stake),
		Payout:      formatCents(red.Payout),
	})
}

// GetPositionHandler handles GET /markets/{marketId}/positions/{outcome}/{participant}
func (h *HandlerProvider) GetPositionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseMarketIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid market id in path")
		return
	}

	outcome, err := pathParam(r, "outcome")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	participant, err := pathParam(r, "participant")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bal, err := h.engine.PositionBalance(r.Context(), id, outcome, participant)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"marketId":    id.String(),
		"outcome":     outcome,
		"participant": participant,
		"balance":     formatCents(bal),
	})
}

type journalEntryResponse struct {
	ID          string    `json:"id"`
	Participant string    `json:"participant"`
	Kind        string    `json:"kind"`
	Outcome     string    `json:"outcome"`
	Stake       string    `json:"stake"`
	Amount      string    `json:"amount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// GetJournalHandler handles GET /markets/{marketId}/journal
func (h *HandlerProvider) GetJournalHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseMarketIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid market id in path")
		return
	}

	entries, err := h.engine.Journal(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := make([]journalEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, journalEntryResponse{
			ID:          e.ID.String(),
			Participant: e.Participant,
			Kind:        string(e.Kind),
			Outcome:     e.Outcome,
			Stake:       formatCents(e.Stake),
			Amount:      formatCents(e.Amount),
			CreatedAt:   e.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
