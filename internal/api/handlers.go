package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/ledger"
	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/render"
	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/session"
	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/settle"
)

const maxBodySize = 1 << 20

type minimiseRequest struct {
	Participants []ledger.Participant `json:"participants"`
	Transactions []transactionRequest `json:"transactions"`
}

// transactionRequest keeps Amount as a pointer so a missing or null amount is
// rejected instead of decoding as zero.
type transactionRequest struct {
	Giver  ledger.Participant `json:"giver"`
	Taker  ledger.Participant `json:"taker"`
	Amount *int64             `json:"amount"`
}

type minimiseResponse struct {
	Balances        []ledger.Entry      `json:"balances"`
	Settlements     []settle.Settlement `json:"settlements"`
	OriginalCount   int                 `json:"original_count"`
	SettlementCount int                 `json:"settlement_count"`
}

// plan decodes a minimise request and runs the core. On failure it has
// already written the response.
func (a *API) plan(w http.ResponseWriter, r *http.Request) ([]ledger.Transaction, *settle.Result, bool) {
	var req minimiseRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, nil, false
	}
	if len(req.Participants) == 0 {
		writeError(w, http.StatusBadRequest, "participants are required")
		return nil, nil, false
	}

	txs := make([]ledger.Transaction, 0, len(req.Transactions))
	for i, tx := range req.Transactions {
		if tx.Amount == nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("transaction %d: amount is required", i))
			return nil, nil, false
		}
		txs = append(txs, ledger.Transaction{Giver: tx.Giver, Taker: tx.Taker, Amount: *tx.Amount})
	}

	res, err := settle.Plan(req.Participants, txs, settle.WithOrder(a.config.SettleOrder))
	if err != nil {
		a.writeLedgerError(w, err)
		return nil, nil, false
	}
	return txs, res, true
}

func (a *API) writeLedgerError(w http.ResponseWriter, err error) {
	var upe *ledger.UnknownParticipantError
	var oe *ledger.OverflowError
	switch {
	case errors.As(err, &upe):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:       err.Error(),
			Participant: string(upe.Participant),
		})
	case errors.As(err, &oe):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:       err.Error(),
			Participant: string(oe.Participant),
		})
	case errors.Is(err, ledger.ErrAmountOverflow):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ledger.ErrUnbalancedLedger):
		a.logger.Error("ledger invariant violated", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	default:
		a.logger.Error("minimise failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (a *API) handleMinimise(w http.ResponseWriter, r *http.Request) {
	txs, res, ok := a.plan(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, minimiseResponse{
		Balances:        res.Balances.Entries(),
		Settlements:     res.Settlements,
		OriginalCount:   len(txs),
		SettlementCount: len(res.Settlements),
	})
}

func (a *API) handleMinimiseGraph(w http.ResponseWriter, r *http.Request) {
	txs, res, ok := a.plan(w, r)
	if !ok {
		return
	}
	participants := res.Balances.Participants()
	dot := render.DOTPair(
		render.Graph{
			Title:        "Original transactions",
			Participants: participants,
			Edges:        render.EdgesFromTransactions(txs),
		},
		render.Graph{
			Title:        "Minimised transactions",
			Participants: participants,
			Edges:        render.EdgesFromSettlements(res.Settlements),
		},
	)
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	_, _ = w.Write([]byte(dot))
}

// authorizeSession writes 404 or 403 and returns false unless the caller is a
// member of the guild the channel's session belongs to.
func (a *API) authorizeSession(w http.ResponseWriter, r *http.Request, channelID string) bool {
	guildID, err := a.sessions.Guild(channelID)
	if err != nil {
		a.writeSessionError(w, err)
		return false
	}
	claims, ok := claimsFrom(r.Context())
	if !ok || !a.userHasGuildAccess(r.Context(), claims.AccessToken, guildID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return false
	}
	return true
}

func (a *API) handleGetSession(w http.ResponseWriter, r *http.Request) {
	channelID := mux.Vars(r)["channel_id"]
	if !a.authorizeSession(w, r, channelID) {
		return
	}
	snap, err := a.sessions.Snapshot(channelID)
	if err != nil {
		a.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (a *API) handleSettleSession(w http.ResponseWriter, r *http.Request) {
	channelID := mux.Vars(r)["channel_id"]
	if !a.authorizeSession(w, r, channelID) {
		return
	}
	res, err := a.sessions.Settle(channelID)
	if err != nil {
		a.writeSessionError(w, err)
		return
	}
	if claims, ok := claimsFrom(r.Context()); ok {
		a.logger.Info("session settled via API",
			zap.String("channel_id", channelID),
			zap.String("user_id", claims.UserID))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tasks":   res.Tasks,
		"summary": res.Summary,
	})
}

func (a *API) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNoSession):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrNotEnoughParticipants):
		writeError(w, http.StatusConflict, err.Error())
	default:
		a.writeLedgerError(w, err)
	}
}
