package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	customerapp "github.com/smarthomes/backend/internal/application/customer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerHandler_CRUD(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/customers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	for _, name := range []string{"Ada", "Grace"} {
		w = api.do(t, http.MethodPost, "/api/customers", map[string]any{"name": name, "email": "same@example.com"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "Customer added successfully", message(t, w))
	}

	w = api.do(t, http.MethodGet, "/api/customers", nil)
	customers := decode[[]customerapp.CustomerResponse](t, w)
	require.Len(t, customers, 2)
	assert.Equal(t, int64(2), customers[1].ID)

	w = api.do(t, http.MethodPut, "/api/customers/2", map[string]any{"email": "grace@example.com", "id": 40})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Customer updated successfully", message(t, w))

	w = api.do(t, http.MethodGet, "/api/customers/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, customerapp.CustomerResponse{ID: 2, Name: "Grace", Email: "grace@example.com"}, decode[customerapp.CustomerResponse](t, w))

	w = api.do(t, http.MethodDelete, "/api/customers/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Customer deleted successfully", message(t, w))
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/customers/1", nil).Code)

	// Absent customers are a no-op
	assert.Equal(t, http.StatusOK, api.do(t, http.MethodDelete, "/api/customers/1", nil).Code)
	assert.Equal(t, http.StatusOK, api.do(t, http.MethodPut, "/api/customers/1", map[string]any{"name": "Ghost"}).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodDelete, "/api/customers/first", nil).Code)
}

func TestCustomerHandler_DeletePurgesOrders(t *testing.T) {
	api := newTestAPI(t)
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/api/customers", map[string]any{"name": "Ada", "email": "ada@example.com"}).Code)
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/api/orders", `{"orderId":1,"product":"Lamp","status":"Processing","customerId":1}`).Code)
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/api/orders", `{"orderId":2,"product":"Bulb","status":"Processing","customerId":"2"}`).Code)

	require.Equal(t, http.StatusOK, api.do(t, http.MethodDelete, "/api/customers/1", nil).Code)

	w := api.do(t, http.MethodGet, "/api/orders", nil)
	orders := decode[[]json.RawMessage](t, w)
	require.Len(t, orders, 1)
	assert.JSONEq(t, `{"orderId":"2","product":"Bulb","status":"Processing","customerId":"2"}`, string(orders[0]))
}
