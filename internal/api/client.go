package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/nathanaelowenk/bookrental/internal/domain"
)

// Service is the operation surface of the rental API consumed by the rest of
// the core. *Client implements it directly; Resilient wraps it.
type Service interface {
	Login(ctx context.Context, username, password string) (*Credentials, error)
	Register(ctx context.Context, username, password string) (*Credentials, error)
	ListBooks(ctx context.Context) ([]domain.Book, error)
	RentBook(ctx context.Context, bookID, rentLength int) (*RentOrder, error)
	TransactionStatus(ctx context.Context, orderID string) (*domain.Transaction, error)
	RentedBooks(ctx context.Context) ([]domain.RentedBook, error)
	TransactionHistory(ctx context.Context) ([]domain.HistoryEntry, error)
	BookAccess(ctx context.Context, bookID int) (string, error)
}

// Credentials is the payload of a successful login or registration.
type Credentials struct {
	Token string
	User  domain.User
}

// RentOrder is the payload of a successful rent call. PaymentURL points at
// the hosted checkout page; OrderID identifies the transaction for status
// polling.
type RentOrder struct {
	Message    string `json:"message"`
	OrderID    string `json:"orderId"`
	SnapToken  string `json:"snapToken"`
	PaymentURL string `json:"paymentUrl"`
}

// Config holds settings for constructing a Client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client // optional, defaults to a tuned client
}

// Client is a typed HTTP client for the rental service. It holds the bearer
// token as its one piece of mutable state: successful authentication calls
// install the token as a side effect, and the session layer installs or
// clears it on restore and sign-out.
//
// The client performs no retries; callers treat every failure as the outcome
// of the operation that produced it.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

var _ Service = (*Client)(nil)

// NewClient creates a client for the service at the given base URL.
func NewClient(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = newHTTPClient()
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: hc,
	}
}

// SetToken installs the bearer token attached to authenticated requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken removes the held bearer token.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// Token returns the currently held bearer token, empty when absent.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// authResponse tolerates both login ({token,user}) and signup
// ({token,trimmedUser}) shapes.
type authResponse struct {
	Token       string       `json:"token"`
	User        *domain.User `json:"user"`
	TrimmedUser *domain.User `json:"trimmedUser"`
}

// Login authenticates and installs the returned bearer token on the client.
func (c *Client) Login(ctx context.Context, username, password string) (*Credentials, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", authRequest{Username: username, Password: password}, &resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return c.credentials(resp)
}

// Register creates an account and installs the returned bearer token on the
// client.
func (c *Client) Register(ctx context.Context, username, password string) (*Credentials, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/auth/signup", authRequest{Username: username, Password: password}, &resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return c.credentials(resp)
}

func (c *Client) credentials(resp authResponse) (*Credentials, error) {
	user := resp.User
	if user == nil {
		user = resp.TrimmedUser
	}
	if user == nil || resp.Token == "" {
		return nil, &DecodeError{Err: errors.New("auth response missing token or user")}
	}
	c.SetToken(resp.Token)
	return &Credentials{Token: resp.Token, User: *user}, nil
}

// ListBooks fetches the full catalog.
func (c *Client) ListBooks(ctx context.Context) ([]domain.Book, error) {
	var books []domain.Book
	if err := c.do(ctx, http.MethodGet, "/items", nil, &books, http.StatusOK); err != nil {
		return nil, err
	}
	return books, nil
}

type rentRequest struct {
	RentLength int `json:"rentLength"`
}

// RentBook initiates a rental and returns the payment order. The service
// answers 200 or 201 depending on version.
func (c *Client) RentBook(ctx context.Context, bookID, rentLength int) (*RentOrder, error) {
	var order RentOrder
	path := fmt.Sprintf("/rent/item/%d", bookID)
	err := c.do(ctx, http.MethodPost, path, rentRequest{RentLength: rentLength}, &order, http.StatusOK, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

type transactionStatusResponse struct {
	Message string `json:"message"`
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// TransactionStatus fetches the current payment status for an order.
func (c *Client) TransactionStatus(ctx context.Context, orderID string) (*domain.Transaction, error) {
	var resp transactionStatusResponse
	path := "/rent/transaction-status/" + url.PathEscape(orderID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return &domain.Transaction{
		OrderID: resp.OrderID,
		Status:  domain.TransactionStatus(resp.Status),
	}, nil
}

// RentedBooks fetches the books currently held by the authenticated user.
func (c *Client) RentedBooks(ctx context.Context) ([]domain.RentedBook, error) {
	var rented []domain.RentedBook
	if err := c.do(ctx, http.MethodGet, "/items/rented", nil, &rented, http.StatusOK); err != nil {
		return nil, err
	}
	return rented, nil
}

type historyResponse struct {
	Message            string                `json:"message"`
	TransactionHistory []domain.HistoryEntry `json:"transactionHistory"`
}

// TransactionHistory fetches the raw transaction history in server order.
func (c *Client) TransactionHistory(ctx context.Context) ([]domain.HistoryEntry, error) {
	var resp historyResponse
	if err := c.do(ctx, http.MethodGet, "/rent/history", nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.TransactionHistory, nil
}

type accessResponse struct {
	Message string `json:"message"`
	Content string `json:"content"`
}

// BookAccess fetches the hosted content URL for a rented book. The URL is
// handed to the embedded web viewer as-is.
func (c *Client) BookAccess(ctx context.Context, bookID int) (string, error) {
	var resp accessResponse
	path := fmt.Sprintf("/items/%d/access", bookID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp, http.StatusOK); err != nil {
		return "", err
	}
	return resp.Content, nil
}

// do performs one request/response cycle: marshal the body, attach headers
// and the bearer token if held, check the status against the accepted set and
// decode into out. Every failure mode maps onto exactly one member of the
// error taxonomy.
func (c *Client) do(ctx context.Context, method, path string, body, out any, accepted ...int) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	u, err := url.Parse(c.baseURL + path)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %s%s", ErrInvalidEndpoint, c.baseURL, path)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if !statusAccepted(resp.StatusCode, accepted) {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Code: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

func statusAccepted(code int, accepted []int) bool {
	for _, a := range accepted {
		if code == a {
			return true
		}
	}
	return false
}
