package cashiermonitor

import (
	"encoding/json"
	"errors"
	"net/http"

	"uno-qr-menu/pkg/logger"
	"uno-qr-menu/pkg/xerrors"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type Handler struct {
	monitor *Monitor
	logger  *logger.Logger
}

func NewHandler(monitor *Monitor, log *logger.Logger) *Handler {
	return &Handler{monitor: monitor, logger: log}
}

func (h *Handler) Routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/dashboard", h.Dashboard)
		r.Get("/orders", h.Orders)
		r.Get("/orders/{orderID}/receipt", h.Receipt)
		r.Post("/orders/{orderID}/status", h.UpdateOrderStatus)
		r.Post("/quick-action-requests/{requestID}/complete", h.CompleteQuickAction)
		r.Post("/sound", h.SetSound)
	})

	return r
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.monitor.Snapshot())
}

func (h *Handler) Orders(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	writeJSON(w, http.StatusOK, h.monitor.FilteredOrders(status))
}

func (h *Handler) Receipt(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	rec, err := h.monitor.Receipt(orderID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if err := h.monitor.UpdateOrderStatus(r.Context(), orderID, req.Status); err != nil {
		switch {
		case errors.Is(err, xerrors.ErrInvalidStatus):
			writeError(w, http.StatusBadRequest, "Invalid status")
		case errors.Is(err, xerrors.ErrNotFound):
			writeError(w, http.StatusNotFound, "Order not found")
		default:
			h.logger.Error("", "status_update_failed", "Failed to update order status", err)
			writeError(w, http.StatusInternalServerError, "Failed to update order status")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

func (h *Handler) CompleteQuickAction(w http.ResponseWriter, r *http.Request) {
	requestID, err := uuid.Parse(chi.URLParam(r, "requestID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request id")
		return
	}

	if err := h.monitor.CompleteQuickAction(r.Context(), requestID); err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Request not found")
			return
		}
		h.logger.Error("", "quick_action_complete_failed", "Failed to complete quick action", err)
		writeError(w, http.StatusInternalServerError, "Failed to complete quick action")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

type setSoundRequest struct {
	Enabled bool `json:"enabled"`
}

func (h *Handler) SetSound(w http.ResponseWriter, r *http.Request) {
	var req setSoundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	h.monitor.SetSoundEnabled(req.Enabled)
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": req.Enabled})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
