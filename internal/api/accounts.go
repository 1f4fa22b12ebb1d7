package api

import (
	"context"
	"net/http"

	"github.com/fastprodman/predictionmarket/internal/auth"
)

type amountRequest struct {
	Amount string `json:"amount"`
}

// GetBalanceHandler handles GET /accounts/{account}/balance
func (h *HandlerProvider) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	account, err := pathParam(r, "account")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bal, err := h.treasury.Balance(r.Context(), account)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"account": account,
		"balance": formatCents(bal),
	})
}

// MintHandler handles POST /accounts/{account}/mint
func (h *HandlerProvider) MintHandler(w http.ResponseWriter, r *http.Request) {
	h.moveFunds(w, r, h.treasury.Mint)
}

// BurnHandler handles POST /accounts/{account}/burn
func (h *HandlerProvider) BurnHandler(w http.ResponseWriter, r *http.Request) {
	h.moveFunds(w, r, h.treasury.Burn)
}

// TransferHandler handles POST /accounts/{account}/transfers. The token
// holder pays; {account} receives.
func (h *HandlerProvider) TransferHandler(w http.ResponseWriter, r *http.Request) {
	h.moveFunds(w, r, h.treasury.Transfer)
}

func (h *HandlerProvider) moveFunds(
	w http.ResponseWriter,
	r *http.Request,
	move func(ctx context.Context, tok auth.Token, account string, amount int64) error,
) {
	account, err := pathParam(r, "account")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tok, err := bearerToken(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req amountRequest

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

	err = move(r.Context(), tok, account, amount)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
