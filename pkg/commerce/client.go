// Package commerce is the typed HTTP client for the remote commerce API
// that owns products, cart, customers and orders. All persistence lives on
// the remote side; this client validates and coerces responses at the
// boundary and everything above it works with well-typed models.
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/medikart/pharmacy-storefront/internal/errors"
	"github.com/medikart/pharmacy-storefront/internal/metrics"
	"github.com/medikart/pharmacy-storefront/internal/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// API is the surface the services consume. Kept as an interface so tests can
// substitute a fake without a live commerce backend.
type API interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (*models.Product, error)

	FetchCart(ctx context.Context) ([]models.CartItem, error)
	AddCartItem(ctx context.Context, productID int64, quantity int) error
	RemoveCartItem(ctx context.Context, cartItemID int64) error
	ClearCart(ctx context.Context) error

	ListCustomers(ctx context.Context) ([]models.Customer, error)
	CreateCustomer(ctx context.Context, req *models.CreateCustomerRequest) (*models.Customer, error)

	ListOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) error
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// apiError is the error envelope the remote API uses. It can arrive with a
// 2xx status, so every response body is probed for it.
type apiError struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (data []byte, err error) {

	defer func() { metrics.ObserveUpstreamRequest(method+" "+path, err) }()

	var reqBody io.Reader

	if body != nil {

		payload, err := json.Marshal(body)
		if err != nil {
			return nil, errors.InternalError("Failed to encode request body").WithError(err)
		}

		reqBody = bytes.NewReader(payload)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, errors.InternalError("Failed to build request").WithError(err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.UpstreamError("Commerce API is unreachable").WithError(err)
	}

	defer resp.Body.Close()

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.UpstreamError("Failed to read commerce API response").WithError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.UpstreamError(fmt.Sprintf("Commerce API returned status %d", resp.StatusCode)).
			WithDetail(string(data))
	}

	var apiErr apiError
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error != "" {
		return nil, errors.UpstreamError("Commerce API reported an error").WithDetail(apiErr.Error)
	}

	return data, nil
}

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {

	data, err := c.do(ctx, http.MethodGet, "/products", nil, nil)
	if err != nil {
		return nil, err
	}

	var records []productRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.MalformedResponseError("Unexpected product list payload").WithError(err)
	}

	products := make([]models.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toProduct())
	}

	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*models.Product, error) {

	data, err := c.do(ctx, http.MethodGet, "/products/"+strconv.FormatInt(id, 10), nil, nil)
	if err != nil {
		return nil, err
	}

	var record productRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.MalformedResponseError("Unexpected product payload").WithError(err)
	}

	product := record.toProduct()

	return &product, nil
}

func (c *Client) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {

	data, err := c.do(ctx, http.MethodPost, "/products", nil, req)
	if err != nil {
		return nil, err
	}

	var record productRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.MalformedResponseError("Unexpected product payload").WithError(err)
	}

	product := record.toProduct()

	return &product, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (*models.Product, error) {

	data, err := c.do(ctx, http.MethodPut, "/products/"+strconv.FormatInt(id, 10), nil, req)
	if err != nil {
		return nil, err
	}

	var record productRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.MalformedResponseError("Unexpected product payload").WithError(err)
	}

	product := record.toProduct()

	return &product, nil
}

func (c *Client) FetchCart(ctx context.Context) ([]models.CartItem, error) {

	data, err := c.do(ctx, http.MethodGet, "/cart", nil, nil)
	if err != nil {
		return nil, err
	}

	var records []cartRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.MalformedResponseError("Unexpected cart payload").WithError(err)
	}

	items := make([]models.CartItem, 0, len(records))
	for i := range records {
		items = append(items, records[i].toCartItem())
	}

	return items, nil
}

func (c *Client) AddCartItem(ctx context.Context, productID int64, quantity int) error {

	body := map[string]any{
		"product_id": productID,
		"quantity":   quantity,
	}

	_, err := c.do(ctx, http.MethodPost, "/cart", nil, body)

	return err
}

func (c *Client) RemoveCartItem(ctx context.Context, cartItemID int64) error {

	query := url.Values{}
	query.Set("id", strconv.FormatInt(cartItemID, 10))

	_, err := c.do(ctx, http.MethodDelete, "/cart", query, nil)

	return err
}

func (c *Client) ClearCart(ctx context.Context) error {

	query := url.Values{}
	query.Set("all", "1")

	_, err := c.do(ctx, http.MethodDelete, "/cart", query, nil)

	return err
}

func (c *Client) ListCustomers(ctx context.Context) ([]models.Customer, error) {

	data, err := c.do(ctx, http.MethodGet, "/customers", nil, nil)
	if err != nil {
		return nil, err
	}

	var records []customerRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.MalformedResponseError("Unexpected customer list payload").WithError(err)
	}

	customers := make([]models.Customer, 0, len(records))

	for i := range records {
		customers = append(customers, models.Customer{
			ID:        int64(records[i].ID),
			Name:      records[i].Name,
			Email:     records[i].Email,
			Phone:     records[i].Phone,
			Address:   records[i].Address,
			CreatedAt: parseTimestamp(records[i].CreatedAt),
		})
	}

	return customers, nil
}

func (c *Client) CreateCustomer(ctx context.Context, req *models.CreateCustomerRequest) (*models.Customer, error) {

	data, err := c.do(ctx, http.MethodPost, "/customers", nil, req)
	if err != nil {
		return nil, err
	}

	var record customerRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.MalformedResponseError("Unexpected customer payload").WithError(err)
	}

	return &models.Customer{
		ID:        int64(record.ID),
		Name:      record.Name,
		Email:     record.Email,
		Phone:     record.Phone,
		Address:   record.Address,
		CreatedAt: parseTimestamp(record.CreatedAt),
	}, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {

	data, err := c.do(ctx, http.MethodGet, "/orders", nil, nil)
	if err != nil {
		return nil, err
	}

	var records []orderRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.MalformedResponseError("Unexpected order list payload").WithError(err)
	}

	orders := make([]models.Order, 0, len(records))

	for i := range records {

		items := make([]models.OrderItem, 0, len(records[i].Items))
		for _, item := range records[i].Items {
			items = append(items, models.OrderItem{
				ProductID: int64(item.ProductID),
				Name:      item.Name,
				Quantity:  int(item.Quantity),
				UnitPrice: float64(item.UnitPrice),
			})
		}

		orders = append(orders, models.Order{
			ID:         int64(records[i].ID),
			CustomerID: int64(records[i].CustomerID),
			Items:      items,
			Total:      float64(records[i].Total),
			Status:     models.OrderStatus(records[i].Status),
			CreatedAt:  parseTimestamp(records[i].CreatedAt),
		})
	}

	return orders, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) error {

	body := map[string]any{"status": status}

	_, err := c.do(ctx, http.MethodPatch, "/orders/"+strconv.FormatInt(id, 10)+"/status", nil, body)

	return err
}

// parseTimestamp handles the MySQL datetime format the API emits, falling
// back to RFC 3339. A zero time is returned for anything unparseable.
func parseTimestamp(s string) time.Time {

	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}

	return time.Time{}
}
