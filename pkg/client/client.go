// Package client is a Go SDK for the deckroom API. It mirrors the server's
// validation contracts: UUID path params, URLs, string limits, and the upload
// size cap are all checked before a request is issued, so bad input never
// reaches the wire.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/marko/deckroom-api/pkg/dto"
	"github.com/marko/deckroom-api/pkg/validate"
)

const (
	maxNameLen        = 255
	maxDescriptionLen = 2000

	// DefaultMaxDeckBytes matches the server's default upload cap.
	DefaultMaxDeckBytes = 10 << 20
)

var (
	ErrInvalidID     = errors.New("id must be a valid UUID")
	ErrInvalidURL    = errors.New("url must be a valid http(s) URL")
	ErrInvalidEmail  = errors.New("a valid email address is required")
	ErrEmptyName     = errors.New("name is required")
	ErrFileTooLarge  = errors.New("file exceeds the upload size limit")
	ErrEmptyFile     = errors.New("file content is empty")
	ErrMissingToken  = errors.New("not authenticated, call ExchangeCode or SetToken first")
	ErrVersionNeeded = errors.New("version is required for deck updates")
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode     int
	Code           string
	Message        string
	CurrentVersion int
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

type Client struct {
	http         *resty.Client
	maxDeckBytes int64
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

func WithToken(token string) Option {
	return func(c *Client) { c.http.SetAuthToken(token) }
}

// WithMaxDeckBytes overrides the client-side upload cap. It should match the
// server's MAX_DECK_BYTES or uploads the client accepts may still be rejected.
func WithMaxDeckBytes(n int64) Option {
	return func(c *Client) { c.maxDeckBytes = n }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(1 * time.Minute),
		maxDeckBytes: DefaultMaxDeckBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken sets the bearer token used on subsequent requests.
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return err
	}
	if resp.IsSuccess() {
		return nil
	}
	return parseAPIError(resp)
}

func parseAPIError(resp *resty.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode()}

	var body struct {
		Error          string `json:"error"`
		Message        string `json:"message"`
		CurrentVersion int    `json:"current_version"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Error != "" {
		apiErr.Code = body.Error
		apiErr.Message = body.Message
		apiErr.CurrentVersion = body.CurrentVersion
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
	}
	return apiErr
}

func checkID(id string) error {
	if !validate.IsUUID(id) {
		return ErrInvalidID
	}
	return nil
}

func checkEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// checkOptionalURL normalizes an optional URL field in place; a present but
// invalid value fails the whole call before any request is made.
func checkOptionalURL(s *string) error {
	if s == nil || *s == "" {
		return nil
	}
	normalized, ok := validate.NormalizeURL(*s)
	if !ok {
		return ErrInvalidURL
	}
	*s = normalized
	return nil
}

func clipOptional(s *string, max int) {
	if s != nil {
		*s = validate.SanitizeString(*s, max)
	}
}

// --- Auth ---

// ConsentURL returns the provider's OAuth consent URL.
func (c *Client) ConsentURL(ctx context.Context, provider string) (string, error) {
	var resp dto.ConsentURLResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/auth/"+provider+"/consent", nil, &resp)
	if err != nil {
		return "", err
	}
	return resp.URL, nil
}

// ExchangeCode trades a one-time auth code for a token pair and stores the
// access token on the client.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*dto.TokenResponse, error) {
	var resp dto.TokenResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/exchange", dto.ExchangeCodeRequest{Code: code}, &resp)
	if err != nil {
		return nil, err
	}
	c.SetToken(resp.AccessToken)
	return &resp, nil
}

// RefreshToken rotates the refresh token and stores the new access token.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	var resp dto.TokenResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/refresh", dto.RefreshTokenRequest{RefreshToken: refreshToken}, &resp)
	if err != nil {
		return nil, err
	}
	c.SetToken(resp.AccessToken)
	return &resp, nil
}

func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/logout", dto.RefreshTokenRequest{RefreshToken: refreshToken}, nil)
}

func (c *Client) LogoutAll(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/logout-all", nil, nil)
}

// --- Users ---

func (c *Client) Me(ctx context.Context) (*dto.UserResponse, error) {
	var resp dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/users/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateMe(ctx context.Context, name string) (*dto.UserResponse, error) {
	name = validate.SanitizeString(name, maxNameLen)
	if name == "" {
		return nil, ErrEmptyName
	}
	var resp dto.UserResponse
	if err := c.do(ctx, http.MethodPatch, "/api/v1/users/me", dto.UpdateUserRequest{Name: name}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Health ---

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/v1/health", nil, nil)
}
