package einvoice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenSlack is how long before expiry a cached token is refreshed.
const tokenSlack = 30 * time.Second

// fallbackTokenTTL is assumed when the provider token carries no
// readable exp claim.
const fallbackTokenTTL = 15 * time.Minute

// Client talks to the e-invoice provider over HTTP. It logs in with
// account credentials, caches the bearer token and re-authenticates
// when the token's exp claim is close.
type Client struct {
	baseURL  string
	username string
	password string
	httpc    *http.Client

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

func NewClient(baseURL, username, password string, timeout time.Duration) *Client {
	return &Client{
		baseURL:  baseURL,
		username: username,
		password: password,
		httpc:    &http.Client{Timeout: timeout},
	}
}

type submitResponse struct {
	Success bool       `json:"success"`
	Data    *IssueData `json:"data"`
	Message string     `json:"message"`
}

// Submit implements Provider.
func (c *Client) Submit(ctx context.Context, req *SubmitRequest) (*IssueData, error) {
	token, err := c.bearer(ctx)
	if err != nil {
		return nil, &ProviderError{Message: "authentication failed", Err: err}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, &ProviderError{Message: "encoding payload", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/invoices/publish", bytes.NewReader(body))
	if err != nil {
		return nil, &ProviderError{Message: "building request", Err: err}
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, &ProviderError{Message: "submitting invoice", Err: err}
	}
	defer resp.Body.Close()

	var parsed submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &ProviderError{Message: fmt.Sprintf("decoding response (status %d)", resp.StatusCode), Err: err}
	}

	if !parsed.Success || parsed.Data == nil {
		message := parsed.Message
		if message == "" {
			message = fmt.Sprintf("submission rejected with status %d", resp.StatusCode)
		}

		return nil, &ProviderError{Message: message}
	}

	return parsed.Data, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

func (c *Client) bearer(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExp.Add(-tokenSlack)) {
		return c.token, nil
	}

	body, err := json.Marshal(loginRequest{Username: c.username, Password: c.password})
	if err != nil {
		return "", fmt.Errorf("encoding login: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building login request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("logging in: %w", err)
	}
	defer resp.Body.Close()

	var parsed loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding login response (status %d): %w", resp.StatusCode, err)
	}

	if !parsed.Success || parsed.Token == "" {
		return "", fmt.Errorf("login rejected: %s", parsed.Message)
	}

	c.token = parsed.Token
	c.tokenExp = tokenExpiry(parsed.Token)

	return c.token, nil
}

// tokenExpiry reads the exp claim without verifying the signature; the
// token is the provider's, we only need to know when to refresh it.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Now().Add(fallbackTokenTTL)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Now().Add(fallbackTokenTTL)
	}

	return exp.Time
}
