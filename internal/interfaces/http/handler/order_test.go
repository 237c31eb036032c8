package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/smarthomes/backend/internal/domain/cart"
	"github.com/smarthomes/backend/internal/domain/order"
	"github.com/smarthomes/backend/internal/interfaces/http/dto"
	"github.com/smarthomes/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutResponse struct {
	Message string          `json:"message"`
	Order   json.RawMessage `json:"order"`
}

func homeCheckout() map[string]any {
	return map[string]any{
		"name":           "Ada Lovelace",
		"creditCard":     "4111111111111111",
		"deliveryOption": "home",
		"address": map[string]any{
			"street": "1 Main St",
			"city":   "Chicago",
			"state":  "IL",
			"zip":    "60601",
		},
	}
}

func checkout(t *testing.T, api *testAPI, body any, headers ...string) (order.DetailedOrder, *checkoutResponse) {
	t.Helper()
	w := api.do(t, http.MethodPost, "/api/orders/checkout", body, headers...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[checkoutResponse](t, w)
	o, err := order.Decode(resp.Order)
	require.NoError(t, err)
	d, ok := o.Detailed()
	require.True(t, ok)
	return d, &resp
}

func TestOrderHandler_Checkout(t *testing.T) {
	api := newTestAPI(t)
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/api/cart/items", map[string]any{"productId": 1}).Code)

	d, resp := checkout(t, api, homeCheckout())
	assert.Equal(t, "Order placed successfully", resp.Message)
	assert.Equal(t, "100001", d.ConfirmationNumber)
	assert.Equal(t, d.ConfirmationNumber, d.OrderID)
	assert.Equal(t, "1111", d.CreditCard)
	assert.Equal(t, order.StatusProcessing, d.Status)
	assert.Equal(t, "99.99", d.Total.Fixed())
	require.Len(t, d.Cart, 1)

	// The cart was cleared by checkout
	w := api.do(t, http.MethodGet, "/api/cart", nil)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = api.do(t, http.MethodGet, "/api/orders/100001", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestOrderHandler_CheckoutStorePickup(t *testing.T) {
	api := newTestAPI(t)
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/api/cart/items", map[string]any{"productId": 6}).Code)

	d, _ := checkout(t, api, map[string]any{
		"name":           "Grace Hopper",
		"creditCard":     "5500000000000004",
		"deliveryOption": "store",
		"storeLocation":  map[string]any{"id": 5},
	})
	require.NotNil(t, d.StoreLocation)
	assert.Equal(t, "11201", d.StoreLocation.ZipCode)
	assert.Nil(t, d.Address)
}

func TestOrderHandler_CheckoutValidation(t *testing.T) {
	api := newTestAPI(t)
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/api/cart/items", map[string]any{"productId": 1}).Code)

	missingZip := homeCheckout()
	missingZip["address"].(map[string]any)["zip"] = ""

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"creditCard": "4111", "deliveryOption": "home"}},
		{"missing zip", missingZip},
		{"unknown store", map[string]any{"name": "A", "creditCard": "4111", "deliveryOption": "store", "storeLocation": 42}},
		{"unknown delivery option", map[string]any{"name": "A", "creditCard": "4111", "deliveryOption": "drone"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(t, http.MethodPost, "/api/orders/checkout", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, dto.ErrCodeValidation, decodeError(t, w).Error.Code)
		})
	}

	// Failed checkouts leave the cart and ledger alone
	w := api.do(t, http.MethodGet, "/api/cart", nil)
	assert.Len(t, decode[[]cart.Line](t, w), 1)
	w = api.do(t, http.MethodGet, "/api/orders", nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestOrderHandler_CheckoutIdempotency(t *testing.T) {
	api := newTestAPI(t)
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/api/cart/items", map[string]any{"productId": 1}).Code)

	first, _ := checkout(t, api, homeCheckout(), middleware.IdempotencyKeyHeader, "retry-1")

	w := api.do(t, http.MethodPost, "/api/orders/checkout", homeCheckout(), middleware.IdempotencyKeyHeader, "retry-1")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "true", w.Header().Get(ReplayedHeader))
	replayed, err := order.Decode(decode[checkoutResponse](t, w).Order)
	require.NoError(t, err)
	assert.Equal(t, first.ConfirmationNumber, replayed.ConfirmationNumber())

	w = api.do(t, http.MethodGet, "/api/orders", nil)
	assert.Len(t, decode[[]json.RawMessage](t, w), 1)
}

func TestOrderHandler_PlaceAndSummary(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/orders", `{"orderId":7,"product":"Nest Thermostat","status":"Shipped"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Order placed successfully", message(t, w))

	w = api.do(t, http.MethodPost, "/api/orders", `{"orderId":"7","product":"Duplicate","status":"Shipped"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodPost, "/api/orders", `{"product":"No status"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/api/orders", `[1,2]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, "/api/orders/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	summaries := decode[[]order.Summary](t, w)
	require.Len(t, summaries, 1)
	assert.Equal(t, order.Summary{OrderID: "7", Products: "Nest Thermostat", Status: order.StatusShipped}, summaries[0])

	// Legacy records keep their bare shape
	w = api.do(t, http.MethodGet, "/api/orders", nil)
	assert.JSONEq(t, `[{"orderId":"7","product":"Nest Thermostat","status":"Shipped"}]`, w.Body.String())
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	api := newTestAPI(t)
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/api/orders", `{"orderId":7,"product":"Lamp","status":"Processing"}`).Code)

	w := api.do(t, http.MethodPut, "/api/orders/7", map[string]any{"status": "Delivered"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[checkoutResponse](t, w)
	assert.Equal(t, "Order status updated successfully", resp.Message)
	assert.JSONEq(t, `{"orderId":"7","product":"Lamp","status":"Delivered"}`, string(resp.Order))

	w = api.do(t, http.MethodPut, "/api/orders/8", map[string]any{"status": "Delivered"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Order not found", decodeError(t, w).Error.Message)

	w = api.do(t, http.MethodPut, "/api/orders/7", map[string]any{"status": "Lost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHandler_Cancel(t *testing.T) {
	api := newTestAPI(t)
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/api/cart/items", map[string]any{"productId": 1}).Code)
	placed, _ := checkout(t, api, homeCheckout())
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/api/orders", `{"orderId":9,"product":"Bulb","status":"Shipped"}`).Code)

	w := api.do(t, http.MethodDelete, "/api/orders/9", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, dto.ErrCodeInvalidState, resp.Error.Code)
	assert.Equal(t, "Cannot cancel order. Current status is Shipped.", resp.Error.Message)

	w = api.do(t, http.MethodDelete, "/api/orders/"+placed.ConfirmationNumber, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Order canceled successfully", decode[checkoutResponse](t, w).Message)

	w = api.do(t, http.MethodGet, "/api/orders/"+placed.ConfirmationNumber, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = api.do(t, http.MethodDelete, "/api/orders/"+placed.ConfirmationNumber, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderHandler_Export(t *testing.T) {
	api := newTestAPI(t)
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/api/orders", `{"orderId":7,"product":"Lamp","status":"Processing"}`).Code)

	w := api.do(t, http.MethodGet, "/api/orders/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	rows := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, rows, 2)
	assert.True(t, strings.HasPrefix(rows[0], "order_id,kind,status,products"))
	assert.True(t, strings.HasPrefix(rows[1], "7,legacy,Processing,Lamp"))
}
