package data

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pizzangooo/loyalty/internal/cloud"
	"github.com/pizzangooo/loyalty/internal/export"
	"github.com/pizzangooo/loyalty/internal/importer"
	"github.com/pizzangooo/loyalty/internal/loyalty"
)

type Handler struct {
	exporter *export.Service
	importer *importer.Service
	cloud    *cloud.Manager
}

func NewHandler(exporter *export.Service, imp *importer.Service, cm *cloud.Manager) *Handler {
	return &Handler{exporter: exporter, importer: imp, cloud: cm}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/export", h.export)
	r.Post("/import", h.importData)
	r.Post("/sync/pull", h.syncPull)
	r.Get("/sync/url", h.getSyncURL)
	r.Put("/sync/url", h.setSyncURL)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	format := export.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = export.FormatJSON
	}

	payload, err := h.exporter.Export(r.Context(), format)
	if err != nil {
		if errors.Is(err, export.ErrUnknownFormat) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	contentType := "application/json"
	if format == export.FormatCSV {
		contentType = "text/csv"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.exporter.Filename(format)))

	if _, err := w.Write(payload); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}

type importResponse struct {
	Customers    int `json:"customers"`
	Cards        int `json:"cards"`
	Transactions int `json:"transactions"`
}

func (h *Handler) importData(w http.ResponseWriter, r *http.Request) {
	ds, err := h.importer.Import(r.Context(), r.Body)
	if err != nil {
		if errors.Is(err, loyalty.ErrInvalidFormat) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(importResponse{
		Customers:    len(ds.Customers),
		Cards:        len(ds.Cards),
		Transactions: len(ds.Transactions),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type syncPullResponse struct {
	Synced bool `json:"synced"`
}

func (h *Handler) syncPull(w http.ResponseWriter, r *http.Request) {
	synced, err := h.cloud.Pull(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(syncPullResponse{Synced: synced}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type syncURLResponse struct {
	URL string `json:"url"`
}

func (h *Handler) getSyncURL(w http.ResponseWriter, r *http.Request) {
	url, err := h.cloud.Endpoint(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(syncURLResponse{URL: url}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type syncURLRequest struct {
	URL string `json:"url"`
}

func (h *Handler) setSyncURL(w http.ResponseWriter, r *http.Request) {
	var req syncURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.cloud.SetEndpoint(r.Context(), req.URL); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(syncURLResponse{URL: req.URL}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
