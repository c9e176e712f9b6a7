package customer

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

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
	r.Post("/", h.register)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}/fee", h.updateFee)
	r.Delete("/{id}", h.delete)
}

type registerRequest struct {
	Name         string           `json:"name"`
	Instagram    string           `json:"instagram"`
	Phone        loyalty.Phone    `json:"phone"`
	RegisteredBy string           `json:"registeredBy,omitempty"`
	DOB          *time.Time       `json:"dob,omitempty"`
	EntryFeePaid bool             `json:"entryFeePaid"`
	CardType     loyalty.CardType `json:"cardType"`
}

type registerResponse struct {
	Customer customerResponse `json:"customer"`
	Card     cardResponse     `json:"card"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.CardType != loyalty.CardTypeFidelity && req.CardType != loyalty.CardTypeVIP {
		http.Error(w, "invalid card type", http.StatusBadRequest)
		return
	}

	customer, card, err := h.svc.RegisterCustomer(r.Context(), loyalty.RegisterParams{
		Name:         req.Name,
		Instagram:    req.Instagram,
		Phone:        req.Phone,
		RegisteredBy: req.RegisteredBy,
		DOB:          req.DOB,
		EntryFeePaid: req.EntryFeePaid,
		CardType:     req.CardType,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(registerResponse{
		Customer: toResponse(customer),
		Card:     toCardResponse(card),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	customers, err := h.svc.Customers(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(customers)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type customerDetailResponse struct {
	Customer customerResponse `json:"customer"`
	Cards    []cardResponse   `json:"cards"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	customer, err := h.svc.CustomerByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, loyalty.ErrCustomerNotFound) {
			http.Error(w, "customer not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	cards, err := h.svc.CardsByCustomer(r.Context(), id)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(customerDetailResponse{
		Customer: toResponse(customer),
		Cards:    toCardResponseList(cards),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateFeeRequest struct {
	EntryFeePaid bool `json:"entryFeePaid"`
}

func (h *Handler) updateFee(w http.ResponseWriter, r *http.Request) {
	var req updateFeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	customer, err := h.svc.SetEntryFeePaid(r.Context(), chi.URLParam(r, "id"), req.EntryFeePaid)
	if err != nil {
		if errors.Is(err, loyalty.ErrCustomerNotFound) {
			http.Error(w, "customer not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(customer)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveCustomer(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, loyalty.ErrCustomerNotFound) {
			http.Error(w, "customer not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
