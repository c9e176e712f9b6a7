package card

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
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Get("/{id}/transactions", h.transactions)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var (
		cards []loyalty.Card
		err   error
	)

	if customerID := r.URL.Query().Get("customer_id"); customerID != "" {
		cards, err = h.svc.CardsByCustomer(r.Context(), customerID)
	} else {
		cards, err = h.svc.Cards(r.Context())
	}

	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(cards)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	card, err := h.svc.CardByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, loyalty.ErrCardNotFound) {
			http.Error(w, "card not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(card)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) transactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.svc.TransactionsByCard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toTransactionResponseList(txs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type deleteResponse struct {
	DeletedCardID         string   `json:"deletedCardId"`
	DeletedTransactionIDs []string `json:"deletedTransactionIds"`
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.svc.RemoveCard(r.Context(), id)
	if err != nil {
		if errors.Is(err, loyalty.ErrCardNotFound) {
			http.Error(w, "card not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(deleteResponse{
		DeletedCardID:         id,
		DeletedTransactionIDs: deleted,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
