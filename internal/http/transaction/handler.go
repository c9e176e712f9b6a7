package transaction

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pizzangooo/loyalty/internal/loyalty"
)

type Handler struct {
	svc *loyalty.Service
}

func NewHandler(svc *loyalty.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.record)
	r.Get("/", h.list)
	r.Patch("/{id}", h.revise)
	r.Delete("/{id}", h.delete)
}

type recordRequest struct {
	CardID string `json:"cardId"`
	Amount int64  `json:"amount"`
}

type mutationResponse struct {
	Transaction transactionResponse `json:"transaction"`
	UpdatedCard *cardResponse       `json:"updatedCard,omitempty"`
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Amount < 0 {
		http.Error(w, "amount must not be negative", http.StatusBadRequest)
		return
	}

	tx, card, err := h.svc.RecordTransaction(r.Context(), req.CardID, req.Amount)
	if err != nil {
		if errors.Is(err, loyalty.ErrCardNotFound) {
			http.Error(w, "card not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(mutationResponse{
		Transaction: toResponse(tx),
		UpdatedCard: toCardResponsePtr(card),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	txs, err := h.svc.Transactions(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(txs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type reviseRequest struct {
	Amount int64 `json:"amount"`
}

func (h *Handler) revise(w http.ResponseWriter, r *http.Request) {
	var req reviseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Amount < 0 {
		http.Error(w, "amount must not be negative", http.StatusBadRequest)
		return
	}

	tx, card, err := h.svc.ReviseTransactionAmount(r.Context(), chi.URLParam(r, "id"), req.Amount)
	if err != nil {
		if errors.Is(err, loyalty.ErrTransactionNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(mutationResponse{
		Transaction: toResponse(tx),
		UpdatedCard: toCardResponsePtr(card),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type deleteResponse struct {
	DeletedTransactionID string        `json:"deletedTransactionId"`
	UpdatedCard          *cardResponse `json:"updatedCard,omitempty"`
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	card, err := h.svc.RemoveTransaction(r.Context(), id)
	if err != nil {
		if errors.Is(err, loyalty.ErrTransactionNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(deleteResponse{
		DeletedTransactionID: id,
		UpdatedCard:          toCardResponsePtr(card),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
