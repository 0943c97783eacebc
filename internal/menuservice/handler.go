package menuservice

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"uno-qr-menu/pkg/logger"
	"uno-qr-menu/pkg/xerrors"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Handler struct {
	service  *Service
	validate *validator.Validate
	logger   *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   log,
	}
}

func (h *Handler) Routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/menu/categories", h.Categories)
		r.Get("/menu/items", h.MenuItems)
		r.Get("/quick-actions", h.QuickActions)

		r.Route("/tables/{table}", func(r chi.Router) {
			r.Get("/cart", h.Cart)
			r.Post("/cart/items", h.AddToCart)
			r.Patch("/cart/items/{lineID}", h.UpdateCartLine)
			r.Delete("/cart/items/{lineID}", h.RemoveCartLine)
			r.Post("/diners", h.ConfirmDiners)
			r.Post("/order", h.SubmitOrder)
			r.Post("/quick-actions", h.RaiseQuickAction)
		})
	})

	return r
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) MenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.MenuItems(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) QuickActions(w http.ResponseWriter, r *http.Request) {
	actions, err := h.service.QuickActions(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, actions)
}

type addToCartRequest struct {
	ItemID   uuid.UUID  `json:"item_id" validate:"required"`
	PriceID  *uuid.UUID `json:"price_id"`
	Quantity int        `json:"quantity"`
	Notes    string     `json:"notes"`
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")

	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	line, err := h.service.AddToCart(r.Context(), table, req.ItemID, req.PriceID, req.Quantity, req.Notes)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, line)
}

type updateCartLineRequest struct {
	Delta    *int    `json:"delta,omitempty"`
	Quantity *string `json:"quantity,omitempty"`
}

func (h *Handler) UpdateCartLine(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	lineID, err := uuid.Parse(chi.URLParam(r, "lineID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid line id")
		return
	}

	var req updateCartLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	switch {
	case req.Delta != nil:
		err = h.service.AdjustQuantity(table, lineID, *req.Delta)
	case req.Quantity != nil:
		err = h.service.SetQuantity(table, lineID, *req.Quantity)
	default:
		writeError(w, http.StatusBadRequest, "Either delta or quantity is required")
		return
	}

	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.service.Cart(table))
}

func (h *Handler) RemoveCartLine(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	lineID, err := uuid.Parse(chi.URLParam(r, "lineID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid line id")
		return
	}

	if err := h.service.RemoveLine(table, lineID); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.service.Cart(table))
}

func (h *Handler) Cart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Cart(chi.URLParam(r, "table")))
}

type confirmDinersRequest struct {
	Count int `json:"count" validate:"required,min=1"`
}

func (h *Handler) ConfirmDiners(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")

	var req confirmDinersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	line, err := h.service.ConfirmDiners(r.Context(), table, req.Count)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"diners":     req.Count,
		"water_line": line,
	})
}

func (h *Handler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	requestID := requestIDFrom(r)

	result, err := h.service.SubmitOrder(r.Context(), table, requestID)
	if err != nil {
		if errors.Is(err, xerrors.ErrEmptyCart) {
			writeError(w, http.StatusBadRequest, "Your cart is empty")
			return
		}
		h.logger.Error(requestID, "order_submission_failed", "Failed to submit order", err)
		writeError(w, http.StatusInternalServerError, "Failed to submit order. Please try again.")
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

type raiseQuickActionRequest struct {
	ActionID uuid.UUID `json:"action_id" validate:"required"`
}

func (h *Handler) RaiseQuickAction(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")

	var req raiseQuickActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.service.RaiseQuickAction(r.Context(), table, req.ActionID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"request_id": id})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, xerrors.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, xerrors.ErrSessionNotFound), errors.Is(err, xerrors.ErrLineNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, xerrors.ErrVariantRequired):
		writeError(w, http.StatusBadRequest, "Please select a size")
	default:
		h.logger.Error(requestIDFrom(r), "request_failed", r.URL.Path, err)
		writeError(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}

func requestIDFrom(r *http.Request) string {
	if requestID := r.Header.Get("X-Request-ID"); requestID != "" {
		return requestID
	}
	if requestID := middleware.GetReqID(r.Context()); requestID != "" {
		return requestID
	}
	return "req-" + strconv.FormatInt(time.Now().UnixNano(), 10)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
