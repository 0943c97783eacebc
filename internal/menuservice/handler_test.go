package menuservice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"uno-qr-menu/pkg/logger"
	"uno-qr-menu/pkg/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestHandler(store *fakeStore) *Handler {
	svc := newTestService(store)
	return NewHandler(svc, logger.NewLogger("menu-handler-test"))
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_AddToCartAndSubmit(t *testing.T) {
	pizza := catalogItem("Pizza", 10.00)
	store := &fakeStore{items: []models.MenuItem{pizza}}
	h := newTestHandler(store)
	routes := h.Routes()

	rec := doJSON(t, routes, http.MethodPost, "/api/v1/tables/5/cart/items", map[string]any{
		"item_id":  pizza.ID,
		"price_id": pizza.Prices[0].ID,
		"quantity": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, routes, http.MethodGet, "/api/v1/tables/5/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var view CartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Lines, 1)
	require.InDelta(t, 22.00, view.Totals.Total, 1e-9)

	rec = doJSON(t, routes, http.MethodPost, "/api/v1/tables/5/order", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.createdOrders, 1)
}

func TestHandler_AddToCart_VariantRequired(t *testing.T) {
	pizza := catalogItem("Pizza", 10.00, 14.00)
	store := &fakeStore{items: []models.MenuItem{pizza}}
	routes := newTestHandler(store).Routes()

	rec := doJSON(t, routes, http.MethodPost, "/api/v1/tables/5/cart/items", map[string]any{
		"item_id": pizza.ID,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Please select a size")
}

func TestHandler_SubmitOrder_EmptyCart(t *testing.T) {
	routes := newTestHandler(&fakeStore{}).Routes()

	rec := doJSON(t, routes, http.MethodPost, "/api/v1/tables/5/order", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Your cart is empty")
}

func TestHandler_UpdateCartLine(t *testing.T) {
	pizza := catalogItem("Pizza", 10.00)
	store := &fakeStore{items: []models.MenuItem{pizza}}
	h := newTestHandler(store)
	routes := h.Routes()

	rec := doJSON(t, routes, http.MethodPost, "/api/v1/tables/5/cart/items", map[string]any{
		"item_id":  pizza.ID,
		"price_id": pizza.Prices[0].ID,
		"quantity": 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var line struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &line))

	path := fmt.Sprintf("/api/v1/tables/5/cart/items/%s", line.ID)

	rec = doJSON(t, routes, http.MethodPatch, path, map[string]any{"delta": 2})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, routes, http.MethodPatch, path, map[string]any{"quantity": "abc"})
	require.Equal(t, http.StatusOK, rec.Code)

	var view CartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Equal(t, 1, view.Lines[0].Quantity)

	// neither field present
	rec = doJSON(t, routes, http.MethodPatch, path, map[string]any{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, routes, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Empty(t, view.Lines)
}

func TestHandler_UpdateCartLine_UnknownLine(t *testing.T) {
	pizza := catalogItem("Pizza", 10.00)
	store := &fakeStore{items: []models.MenuItem{pizza}}
	routes := newTestHandler(store).Routes()

	// session exists but the line does not
	doJSON(t, routes, http.MethodPost, "/api/v1/tables/5/cart/items", map[string]any{
		"item_id":  pizza.ID,
		"price_id": pizza.Prices[0].ID,
		"quantity": 1,
	})

	path := fmt.Sprintf("/api/v1/tables/5/cart/items/%s", uuid.New())
	rec := doJSON(t, routes, http.MethodPatch, path, map[string]any{"delta": 1})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_ConfirmDiners(t *testing.T) {
	water := catalogItem("Mineral Water", 0.50)
	store := &fakeStore{items: []models.MenuItem{water}}
	routes := newTestHandler(store).Routes()

	rec := doJSON(t, routes, http.MethodPost, "/api/v1/tables/3/diners", map[string]any{"count": 4})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Diners    int `json:"diners"`
		WaterLine *struct {
			Quantity int `json:"quantity"`
		} `json:"water_line"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 4, resp.Diners)
	require.NotNil(t, resp.WaterLine)
	require.Equal(t, 4, resp.WaterLine.Quantity)
}

func TestHandler_ConfirmDiners_InvalidCount(t *testing.T) {
	routes := newTestHandler(&fakeStore{}).Routes()

	rec := doJSON(t, routes, http.MethodPost, "/api/v1/tables/3/diners", map[string]any{"count": 0})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_RaiseQuickAction(t *testing.T) {
	store := &fakeStore{}
	routes := newTestHandler(store).Routes()

	rec := doJSON(t, routes, http.MethodPost, "/api/v1/tables/7/quick-actions", map[string]any{
		"action_id": uuid.New(),
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.createdRequests, 1)
}
