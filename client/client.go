// Package client is the Go counterpart of the storefront's cart and checkout
// flow: a bearer-token REST client, a shared cart-count store, a cart
// session, and a checkout pipeline with best-effort compensation.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
)

// ErrUnauthorized is returned on a 401; callers treat it as session-fatal
// and force a logout.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNotFound is returned when a resource does not exist.
var ErrNotFound = errors.New("not found")

// APIError carries a server-provided error message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New builds a client for the given API base URL (e.g.
// "http://localhost:3001/api"). An empty token means no session.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{},
	}
}

// HasToken reports whether the client carries a session token.
func (c *Client) HasToken() bool {
	return c.token != ""
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// doJSON performs a request and decodes the response body into out (when out
// is non-nil). Error responses are mapped to ErrUnauthorized, ErrNotFound,
// or *APIError with the server's message.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: serverMessage(data)}
	}

	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}

func serverMessage(data []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}

// ---- Resource views ----

type User struct {
	UserID    uint   `json:"user_id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

type Product struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Status    string  `json:"status"`
	Image     string  `json:"image"`
}

type CartItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// CartAggregate is the server-held cart record.
type CartAggregate struct {
	UserID     uint       `json:"user_id"`
	Items      []CartItem `json:"items"`
	TotalPrice float64    `json:"total_price"`
}

type OrderLine struct {
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type PlacedOrder struct {
	OrderID    uint    `json:"order_id"`
	OrderRef   string  `json:"order_ref"`
	TotalPrice float64 `json:"total_price"`
	Status     string  `json:"status"`
}

// ---- Endpoint calls ----

func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodGet, "/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetCart(ctx context.Context, userID uint) (*CartAggregate, error) {
	var cart CartAggregate
	path := fmt.Sprintf("/cart/getcart/%d", userID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) GetProduct(ctx context.Context, productID uint) (*Product, error) {
	var product Product
	path := fmt.Sprintf("/products/product/%d", productID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) UpdateTotalPrice(ctx context.Context, userID uint, totalPrice float64) (*CartAggregate, error) {
	in := map[string]interface{}{"user_id": userID, "total_price": totalPrice}
	var cart CartAggregate
	if err := c.doJSON(ctx, http.MethodPut, "/cart/updatetotalprice", in, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, userID, productID uint, quantity int) (*CartAggregate, error) {
	in := map[string]interface{}{"user_id": userID, "product_id": productID, "quantity": quantity}
	var cart CartAggregate
	if err := c.doJSON(ctx, http.MethodPut, "/cart/updatecartitem", in, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) RemoveFromCart(ctx context.Context, userID, productID uint) (*CartAggregate, error) {
	in := map[string]interface{}{"user_id": userID, "product_id": productID}
	var cart CartAggregate
	if err := c.doJSON(ctx, http.MethodDelete, "/cart/removefromcart", in, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) ClearCart(ctx context.Context, userID uint) error {
	path := fmt.Sprintf("/cart/clearcart/%d", userID)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) CartCount(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/cart/count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *Client) RestoreCart(ctx context.Context, userID uint, items []CartItem) error {
	in := map[string]interface{}{"user_id": userID, "items": items}
	return c.doJSON(ctx, http.MethodPost, "/cart/restore", in, nil)
}

// ---- Order creation ----

// SlipFile is an in-memory payment-slip attachment.
type SlipFile struct {
	Name        string
	ContentType string
	Data        []byte
}

type CreateOrderRequest struct {
	UserID          uint
	Email           string
	ShippingAddress string
	TotalPrice      float64
	PaymentMethod   string
	Slip            *SlipFile
	Items           []OrderLine
}

// CreateOrder submits the multipart order form. A 2xx response without an
// "order" object is still a failure.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*PlacedOrder, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"user_id":          strconv.FormatUint(uint64(req.UserID), 10),
		"email":            req.Email,
		"shipping_address": req.ShippingAddress,
		"total_price":      strconv.FormatFloat(req.TotalPrice, 'f', -1, 64),
		"payment_method":   req.PaymentMethod,
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, err
		}
	}
	for i, item := range req.Items {
		prefix := fmt.Sprintf("items[%d]", i)
		if err := writer.WriteField(prefix+"[product_id]", strconv.FormatUint(uint64(item.ProductID), 10)); err != nil {
			return nil, err
		}
		if err := writer.WriteField(prefix+"[quantity]", strconv.Itoa(item.Quantity)); err != nil {
			return nil, err
		}
		if err := writer.WriteField(prefix+"[price]", strconv.FormatFloat(item.Price, 'f', -1, 64)); err != nil {
			return nil, err
		}
	}
	if req.Slip != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="payment_slip"; filename=%q`, req.Slip.Name))
		header.Set("Content-Type", req.Slip.ContentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(req.Slip.Data); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/orders/create", &buf, writer.FormDataContentType())
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: serverMessage(data)}
	}

	var payload struct {
		Order *PlacedOrder `json:"order"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	if payload.Order == nil {
		// a success status without an order payload means the backend did
		// not actually place the order
		return nil, &APIError{Status: resp.StatusCode, Message: "order missing from response"}
	}
	return payload.Order, nil
}
