// Package syncdoc serves the shared dataset document for remote sync. It
// stores whatever valid dataset it last received and hands it back verbatim,
// so any number of point-of-sale installs can converge on the same copy.
package syncdoc

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pizzangooo/loyalty/internal/loyalty"
	"github.com/pizzangooo/loyalty/internal/store"
)

const documentKey = "sync_document"

type Handler struct {
	kv store.KV
}

func NewHandler(kv store.KV) *Handler {
	return &Handler{kv: kv}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Post("/", h.put)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.kv.Get(r.Context(), documentKey)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			// No document yet: serve the empty triple so fresh clients
			// start from a valid dataset.
			empty, err := loyalty.EncodeDataset(loyalty.NewDataset())
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}

			doc = empty
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if _, err := w.Write(doc); err != nil {
		slog.Error("failed to write document", "error", err)
	}
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func (h *Handler) put(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeStatus(w, http.StatusBadRequest, statusResponse{Status: "error", Message: err.Error()})
		return
	}

	if _, err := loyalty.DecodeDataset(body); err != nil {
		writeStatus(w, http.StatusBadRequest, statusResponse{Status: "error", Message: err.Error()})
		return
	}

	// Store the raw bytes rather than a re-encoding so the document
	// round-trips exactly as the client sent it.
	if err := h.kv.Set(r.Context(), documentKey, body); err != nil {
		writeStatus(w, http.StatusInternalServerError, statusResponse{Status: "error", Message: err.Error()})
		return
	}

	writeStatus(w, http.StatusOK, statusResponse{Status: "success"})
}

func writeStatus(w http.ResponseWriter, code int, resp statusResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
