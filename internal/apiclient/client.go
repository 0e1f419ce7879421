package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"acaihouse/internal/domain"
)

// ErrUnauthorized is returned when the server rejects the bearer token.
var ErrUnauthorized = errors.New("unauthorized")

// APIError carries the status code and server-side message of a failed call.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// Client is a thin JSON client for the storefront API. The token function is
// consulted per request so the client always sends the current session token.
type Client struct {
	baseURL string
	httpc   *http.Client
	token   func() string
}

func New(baseURL string, token func() string) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
		token:   token,
	}
}

// LoginResult is the payload of a successful login.
type LoginResult struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int          `json:"expiresIn"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Signup(ctx context.Context, email, password, name, phone, address string) (*domain.User, error) {
	var out domain.User
	err := c.do(ctx, http.MethodPost, "/auth/signup", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
		"phone":    phone,
		"address":  address,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// GetProfile fails with ErrUnauthorized if the token is invalid or expired.
func (c *Client) GetProfile(ctx context.Context) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodGet, "/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCart(ctx context.Context) (*domain.Cart, error) {
	var out domain.Cart
	if err := c.do(ctx, http.MethodGet, "/cart", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddToCart(ctx context.Context, productID string, quantity int, complementIDs []string) error {
	return c.do(ctx, http.MethodPost, "/cart/items", map[string]interface{}{
		"productId":     productID,
		"quantity":      quantity,
		"complementIds": complementIDs,
	}, nil)
}

func (c *Client) AddCustomAcaiToCart(ctx context.Context, payload domain.CustomPayload, quantity int) error {
	return c.do(ctx, http.MethodPost, "/cart/custom-acai", map[string]interface{}{
		"quantity": quantity,
		"custom":   payload,
	}, nil)
}

func (c *Client) AddCustomProductToCart(ctx context.Context, name string, payload domain.CustomPayload, quantity int) error {
	return c.do(ctx, http.MethodPost, "/cart/custom-product", map[string]interface{}{
		"name":     name,
		"quantity": quantity,
		"custom":   payload,
	}, nil)
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID string, quantity int) error {
	return c.do(ctx, http.MethodPatch, "/cart/items/"+itemID, map[string]int{
		"quantity": quantity,
	}, nil)
}

func (c *Client) RemoveFromCart(ctx context.Context, itemID string) error {
	return c.do(ctx, http.MethodDelete, "/cart/items/"+itemID, nil, nil)
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/cart", nil, nil)
}

func (c *Client) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	var out domain.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t := c.token(); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		var envelope struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		return &APIError{Status: resp.StatusCode, Message: envelope.Error}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
