package adminservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"uno-qr-menu/pkg/logger"
	"uno-qr-menu/pkg/models"
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
		r.Get("/categories", h.Categories)
		r.Post("/categories", h.CreateCategory)
		r.Put("/categories/{id}", h.UpdateCategory)
		r.Delete("/categories/{id}", h.DeleteCategory)

		r.Get("/menu-items", h.MenuItems)
		r.Post("/menu-items", h.CreateMenuItem)
		r.Put("/menu-items/{id}", h.UpdateMenuItem)
		r.Post("/menu-items/{id}/availability", h.ToggleAvailability)
		r.Delete("/menu-items/{id}", h.DeleteMenuItem)

		r.Post("/item-prices", h.CreateItemPrice)
		r.Delete("/item-prices/{id}", h.DeleteItemPrice)

		r.Get("/quick-actions", h.QuickActions)
		r.Post("/quick-actions", h.CreateQuickAction)
		r.Put("/quick-actions/{id}", h.UpdateQuickAction)
		r.Delete("/quick-actions/{id}", h.DeleteQuickAction)

		r.Get("/orders", h.Orders)
		r.Get("/orders/{id}", h.Order)
		r.Delete("/orders/{id}", h.DeleteOrder)
		r.Delete("/orders", h.DeleteAllOrders)

		r.Get("/analytics/summary", h.AnalyticsSummary)
		r.Get("/analytics/export.csv", h.ExportCSV)
	})

	return r
}

// confirmed gates irreversible deletions behind an explicit query flag, the
// API counterpart of the dashboard's confirmation prompt.
func confirmed(r *http.Request) bool {
	return r.URL.Query().Get("confirm") == "true"
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Store().GetCategories(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

type categoryRequest struct {
	NameEN       string `json:"name_en" validate:"required"`
	NameAR       string `json:"name_ar" validate:"required"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !h.decode(w, r, &req) {
		return
	}

	c := &models.Category{
		NameEN:       req.NameEN,
		NameAR:       req.NameAR,
		DisplayOrder: req.DisplayOrder,
		IsActive:     req.IsActive,
	}
	id, err := h.service.Store().CreateCategory(r.Context(), c)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req categoryRequest
	if !h.decode(w, r, &req) {
		return
	}

	c := &models.Category{
		ID:           id,
		NameEN:       req.NameEN,
		NameAR:       req.NameAR,
		DisplayOrder: req.DisplayOrder,
		IsActive:     req.IsActive,
	}
	if err := h.service.Store().UpdateCategory(r.Context(), c); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.service.Store().DeleteCategory)
}

func (h *Handler) MenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Store().GetMenuItems(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type menuItemRequest struct {
	CategoryID      uuid.UUID `json:"category_id" validate:"required"`
	NameEN          string    `json:"name_en" validate:"required"`
	NameAR          string    `json:"name_ar" validate:"required"`
	DescriptionEN   string    `json:"description_en"`
	DescriptionAR   string    `json:"description_ar"`
	ImageURL        *string   `json:"image_url"`
	IsAvailable     bool      `json:"is_available"`
	PrepTimeMinutes int       `json:"prep_time_minutes"`
	DisplayOrder    int       `json:"display_order"`
}

func (r *menuItemRequest) toModel(id uuid.UUID) *models.MenuItem {
	return &models.MenuItem{
		ID:              id,
		CategoryID:      r.CategoryID,
		NameEN:          r.NameEN,
		NameAR:          r.NameAR,
		DescriptionEN:   r.DescriptionEN,
		DescriptionAR:   r.DescriptionAR,
		ImageURL:        r.ImageURL,
		IsAvailable:     r.IsAvailable,
		PrepTimeMinutes: r.PrepTimeMinutes,
		DisplayOrder:    r.DisplayOrder,
	}
}

func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	id, err := h.service.Store().CreateMenuItem(r.Context(), req.toModel(uuid.Nil))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req menuItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.Store().UpdateMenuItem(r.Context(), req.toModel(id)); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id})
}

type availabilityRequest struct {
	Available bool `json:"available"`
}

func (h *Handler) ToggleAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if err := h.service.Store().SetMenuItemAvailability(r.Context(), id, req.Available); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "available": req.Available})
}

func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.service.Store().DeleteMenuItem)
}

type itemPriceRequest struct {
	ItemID       uuid.UUID `json:"item_id" validate:"required"`
	SizeEN       string    `json:"size_en" validate:"required"`
	SizeAR       string    `json:"size_ar" validate:"required"`
	Price        float64   `json:"price" validate:"gte=0"`
	DisplayOrder int       `json:"display_order"`
}

func (h *Handler) CreateItemPrice(w http.ResponseWriter, r *http.Request) {
	var req itemPriceRequest
	if !h.decode(w, r, &req) {
		return
	}

	p := &models.ItemPrice{
		ItemID:       req.ItemID,
		SizeEN:       req.SizeEN,
		SizeAR:       req.SizeAR,
		Price:        req.Price,
		DisplayOrder: req.DisplayOrder,
	}
	id, err := h.service.Store().CreateItemPrice(r.Context(), p)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (h *Handler) DeleteItemPrice(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.service.Store().DeleteItemPrice)
}

func (h *Handler) QuickActions(w http.ResponseWriter, r *http.Request) {
	actions, err := h.service.Store().GetQuickActions(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, actions)
}

type quickActionRequest struct {
	ActionEN     string `json:"action_en" validate:"required"`
	ActionAR     string `json:"action_ar" validate:"required"`
	Icon         string `json:"icon"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
}

func (h *Handler) CreateQuickAction(w http.ResponseWriter, r *http.Request) {
	var req quickActionRequest
	if !h.decode(w, r, &req) {
		return
	}

	a := &models.QuickAction{
		ActionEN:     req.ActionEN,
		ActionAR:     req.ActionAR,
		Icon:         req.Icon,
		DisplayOrder: req.DisplayOrder,
		IsActive:     req.IsActive,
	}
	id, err := h.service.Store().CreateQuickAction(r.Context(), a)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (h *Handler) UpdateQuickAction(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req quickActionRequest
	if !h.decode(w, r, &req) {
		return
	}

	a := &models.QuickAction{
		ID:           id,
		ActionEN:     req.ActionEN,
		ActionAR:     req.ActionAR,
		Icon:         req.Icon,
		DisplayOrder: req.DisplayOrder,
		IsActive:     req.IsActive,
	}
	if err := h.service.Store().UpdateQuickAction(r.Context(), a); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *Handler) DeleteQuickAction(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.service.Store().DeleteQuickAction)
}

func (h *Handler) Orders(w http.ResponseWriter, r *http.Request) {
	var status *string
	if s := r.URL.Query().Get("status"); s != "" && s != "all" {
		status = &s
	}

	orders, err := h.service.Store().GetOrders(r.Context(), status, nil)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) Order(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	order, err := h.service.Store().GetOrderWithItems(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if !confirmed(r) {
		writeError(w, http.StatusBadRequest, "Deletion requires confirm=true")
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteOrder(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteAllOrders(w http.ResponseWriter, r *http.Request) {
	if !confirmed(r) {
		writeError(w, http.StatusBadRequest, "Deletion requires confirm=true")
		return
	}

	if err := h.service.DeleteAllOrders(r.Context()); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parseDateRange(w, r)
	if !ok {
		return
	}

	sum, err := h.service.OrdersSummary(r.Context(), start, end)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parseDateRange(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(
		`attachment; filename="analytics_%s_to_%s.csv"`,
		start.Format("2006-01-02"), end.Format("2006-01-02")))

	if err := h.service.ExportAnalyticsCSV(r.Context(), w, start, end); err != nil {
		h.logger.Error("", "csv_export_failed", "Failed to export analytics CSV", err)
	}
}

// parseDateRange reads start/end query dates, defaulting to the trailing
// 30 days.
func parseDateRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	now := time.Now()
	start := now.AddDate(0, 0, -30)
	end := now

	if s := r.URL.Query().Get("start"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid start date")
			return start, end, false
		}
		start = t
	}
	if s := r.URL.Query().Get("end"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end date")
			return start, end, false
		}
		end = t
	}
	return start, end, true
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (h *Handler) deleteByID(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, id uuid.UUID) error) {
	if !confirmed(r) {
		writeError(w, http.StatusBadRequest, "Deletion requires confirm=true")
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := del(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, xerrors.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	h.logger.Error("", "request_failed", "Admin operation failed", err)
	writeError(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
