package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultTimeout bounds the whole login round trip.
	DefaultTimeout = 15 * time.Second
	// DefaultTokenHeader is the response header carrying the session token.
	DefaultTokenHeader = "Authorization"

	maxResponseBody = 1 << 20
)

var (
	// ErrInvalidCredentials is the normalized form of an HTTP 400 rejection.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrServerRejected covers every other non-200 status.
	ErrServerRejected = errors.New("server rejected login request")
	// ErrNoResponse means the request was sent but no usable response came back.
	ErrNoResponse = errors.New("no response from authentication server")
	// ErrRequestFailed means the request could not be constructed or sent.
	ErrRequestFailed = errors.New("login request could not be sent")
)

// ServerError carries the status and server-supplied message of a rejected
// login. It is joined with [ErrServerRejected] so callers can both match the
// kind and surface the message verbatim.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("login rejected with status %d", e.StatusCode)
	}
	return fmt.Sprintf("login rejected with status %d: %s", e.StatusCode, e.Message)
}

// Config controls the client.
type Config struct {
	Endpoint    string
	TokenHeader string
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// Client issues the login request to the remote authentication service and
// normalizes the raw response into a typed result. It is stateless and safe
// to retry; retries are never automatic.
type Client struct {
	endpoint    string
	tokenHeader string
	http        *http.Client
}

// New validates cfg and returns a ready Client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("login endpoint required")
	}
	parsed, err := url.Parse(cfg.Endpoint)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("invalid login endpoint %q", cfg.Endpoint)
	}

	tokenHeader := cfg.TokenHeader
	if tokenHeader == "" {
		tokenHeader = DefaultTokenHeader
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		endpoint:    cfg.Endpoint,
		tokenHeader: tokenHeader,
		http:        httpClient,
	}, nil
}

// LoginResponse is the normalized success result: HTTP 200 with the
// subject identifier from the body and the token from the response header.
// SubjectID and Token may still be empty; the flow enforces their presence.
type LoginResponse struct {
	StatusCode int
	SubjectID  string
	Token      string
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// subjectID tolerates servers that emit the identifier as a JSON number.
type subjectID string

func (s *subjectID) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*s = subjectID(asString)
		return nil
	}
	var asNumber json.Number
	if err := json.Unmarshal(data, &asNumber); err == nil {
		*s = subjectID(asNumber.String())
		return nil
	}
	return fmt.Errorf("unsupported subject identifier value %s", data)
}

type loginBody struct {
	UserID subjectID `json:"userId"`
}

type rejectionBody struct {
	Message string `json:"message"`
}

// Login posts the credentials and returns the normalized response.
// Cancellation propagates through ctx.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	payload, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoResponse, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoResponse, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, rejectionError(resp.StatusCode, body)
	}

	var parsed loginBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.Join(ErrServerRejected, &ServerError{
			StatusCode: resp.StatusCode,
			Message:    "malformed login response body",
		})
	}

	return &LoginResponse{
		StatusCode: resp.StatusCode,
		SubjectID:  string(parsed.UserID),
		Token:      c.tokenFromHeader(resp.Header),
	}, nil
}

func rejectionError(status int, body []byte) error {
	if status == http.StatusBadRequest {
		return ErrInvalidCredentials
	}

	var parsed rejectionBody
	message := ""
	if err := json.Unmarshal(body, &parsed); err == nil {
		message = strings.TrimSpace(parsed.Message)
	}

	return errors.Join(ErrServerRejected, &ServerError{StatusCode: status, Message: message})
}

func (c *Client) tokenFromHeader(header http.Header) string {
	raw := strings.TrimSpace(header.Get(c.tokenHeader))
	return strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
}
