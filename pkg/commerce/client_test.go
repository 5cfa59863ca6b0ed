package commerce_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appErrors "github.com/medikart/pharmacy-storefront/internal/errors"
	"github.com/medikart/pharmacy-storefront/pkg/commerce"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*commerce.Client, *httptest.Server) {
	server := httptest.NewServer(handler)

	return commerce.NewClient(server.URL, 5*time.Second), server
}

func TestListProducts(t *testing.T) {
	ctx := t.Context()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/products", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"id":"1","name":"Paracetamol 500mg","price":"5.99","rating":4.5}]`))
		})
		defer server.Close()

		// Act
		products, err := client.ListProducts(ctx)

		// Assert
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, int64(1), products[0].ID)
		assert.InDelta(t, 5.99, products[0].Price, 0.001)
	})

	t.Run("Failure - Non-2xx Status", func(t *testing.T) {
		// Arrange
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		})
		defer server.Close()

		// Act
		products, err := client.ListProducts(ctx)

		// Assert
		assert.Nil(t, products)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeUpstream, appErr.Code)
	})

	t.Run("Failure - Error Envelope With 200", func(t *testing.T) {
		// Arrange: the PHP API reports some failures in-band.
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"error":"database connection failed"}`))
		})
		defer server.Close()

		// Act
		products, err := client.ListProducts(ctx)

		// Assert
		assert.Nil(t, products)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeUpstream, appErr.Code)
		assert.Contains(t, appErr.Detail, "database connection failed")
	})

	t.Run("Failure - Malformed Payload", func(t *testing.T) {
		// Arrange
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"not":"an array"}`))
		})
		defer server.Close()

		// Act
		products, err := client.ListProducts(ctx)

		// Assert
		assert.Nil(t, products)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeMalformedResponse, appErr.Code)
	})

	t.Run("Failure - Unreachable Host", func(t *testing.T) {
		// Arrange
		client := commerce.NewClient("http://127.0.0.1:1", 500*time.Millisecond)

		// Act
		_, err := client.ListProducts(ctx)

		// Assert
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeUpstream, appErr.Code)
	})
}

func TestCartEndpoints(t *testing.T) {
	ctx := t.Context()

	t.Run("AddCartItem Posts Product And Quantity", func(t *testing.T) {
		// Arrange
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/cart", r.URL.Path)

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.EqualValues(t, 7, body["product_id"])
			assert.EqualValues(t, 2, body["quantity"])

			w.Write([]byte(`{"success":true}`))
		})
		defer server.Close()

		// Act + Assert
		assert.NoError(t, client.AddCartItem(ctx, 7, 2))
	})

	t.Run("RemoveCartItem Deletes By Id", func(t *testing.T) {
		// Arrange
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "42", r.URL.Query().Get("id"))
			w.Write([]byte(`{"success":true}`))
		})
		defer server.Close()

		// Act + Assert
		assert.NoError(t, client.RemoveCartItem(ctx, 42))
	})

	t.Run("ClearCart Sends Clear-All Flag", func(t *testing.T) {
		// Arrange
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "1", r.URL.Query().Get("all"))
			w.Write([]byte(`{"success":true}`))
		})
		defer server.Close()

		// Act + Assert
		assert.NoError(t, client.ClearCart(ctx))
	})

	t.Run("FetchCart Parses Joined Rows", func(t *testing.T) {
		// Arrange
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"id":1,"product_id":7,"quantity":"2","name":"Paracetamol 500mg","price":"5.99"}]`))
		})
		defer server.Close()

		// Act
		items, err := client.FetchCart(ctx)

		// Assert
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, int64(1), items[0].ID)
		assert.Equal(t, int64(7), items[0].Product.ID)
		assert.Equal(t, 2, items[0].Quantity)
	})
}

func TestOrderEndpoints(t *testing.T) {
	ctx := t.Context()

	t.Run("UpdateOrderStatus Patches Status", func(t *testing.T) {
		// Arrange
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "/orders/9/status", r.URL.Path)
			w.Write([]byte(`{"success":true}`))
		})
		defer server.Close()

		// Act + Assert
		assert.NoError(t, client.UpdateOrderStatus(ctx, 9, "shipped"))
	})

	t.Run("ListOrders Parses MySQL Timestamps", func(t *testing.T) {
		// Arrange
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"id":9,"customer_id":3,"total":"18.49","status":"pending","created_at":"2026-08-01 10:30:00"}]`))
		})
		defer server.Close()

		// Act
		orders, err := client.ListOrders(ctx)

		// Assert
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, int64(9), orders[0].ID)
		assert.InDelta(t, 18.49, orders[0].Total, 0.001)
		assert.Equal(t, 2026, orders[0].CreatedAt.Year())
	})
}
