package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"binderkeeper/internal/api"
	"binderkeeper/internal/binder"
	"binderkeeper/internal/common"
)

// HTTPClient implements Client over the sync server's JSON API. It keeps the
// access/refresh token pair and transparently refreshes once when a request
// comes back 401, replaying the original call with the new token.
type HTTPClient struct {
	baseURL      string
	httpClient   *http.Client
	userID       string
	accessToken  string
	refreshToken string
}

// NewHTTPClient returns a client for the server at baseURL (scheme://host:port).
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) CurrentUserID() string {
	return c.userID
}

// Logout drops the session; subsequent calls run as guest.
func (c *HTTPClient) Logout() {
	c.userID = ""
	c.accessToken = ""
	c.refreshToken = ""
}

// RestoreSession reinstates a previously saved token pair, e.g. loaded from
// the local auth_state table on startup.
func (c *HTTPClient) RestoreSession(userID, accessToken, refreshToken string) {
	c.userID = userID
	c.accessToken = accessToken
	c.refreshToken = refreshToken
}

// Session returns the current token pair for persisting across restarts.
func (c *HTTPClient) Session() (userID, accessToken, refreshToken string) {
	return c.userID, c.accessToken, c.refreshToken
}

func (c *HTTPClient) Register(ctx context.Context, username, password string) error {
	return c.do(ctx, http.MethodPost, "/api/register",
		api.RegisterRequest{Username: username, Password: password}, nil)
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, error) {
	var resp api.TokenResponse
	err := c.do(ctx, http.MethodPost, "/api/login",
		api.LoginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	c.userID = resp.UserID
	c.accessToken = resp.AccessToken
	c.refreshToken = resp.RefreshToken
	return resp.UserID, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/ping", nil, nil)
}

func (c *HTTPClient) FetchBinderCards(ctx context.Context, binderID string) ([]binder.CardEntry, error) {
	var resp api.CardsResponse
	err := c.do(ctx, http.MethodGet, "/api/binders/"+url.PathEscape(binderID)+"/cards", nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Cards, nil
}

func (c *HTTPClient) FetchBinderPreferences(ctx context.Context, binderID string) (json.RawMessage, error) {
	var resp api.PreferencesResponse
	err := c.do(ctx, http.MethodGet, "/api/binders/"+url.PathEscape(binderID)+"/preferences", nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Preferences, nil
}

func (c *HTTPClient) WriteBinderCard(ctx context.Context, binderID string, card binder.CardEntry) error {
	path := "/api/binders/" + url.PathEscape(binderID) + "/cards/" + url.PathEscape(card.ID)
	return c.do(ctx, http.MethodPut, path, card, nil)
}

func (c *HTTPClient) WriteBinderPreferences(ctx context.Context, binderID string, prefs binder.Preferences) error {
	path := "/api/binders/" + url.PathEscape(binderID) + "/preferences"
	return c.do(ctx, http.MethodPut, path, prefs, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	status, body, err := c.roundTrip(ctx, method, path, in)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && c.refreshToken != "" {
		if err := c.refresh(ctx); err != nil {
			return err
		}
		status, body, err = c.roundTrip(ctx, method, path, in)
		if err != nil {
			return err
		}
	}

	if status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if status < 200 || status > 299 {
		var er api.ErrorResponse
		if json.Unmarshal(body, &er) == nil && er.Error != "" {
			return fmt.Errorf("%w: %s", ErrRemote, er.Error)
		}
		return fmt.Errorf("%w: status %d", ErrRemote, status)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%w: decoding response: %v", ErrRemote, err)
		}
	}
	return nil
}

func (c *HTTPClient) roundTrip(ctx context.Context, method, path string, in any) (int, []byte, error) {
	var reqBody io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, nil, err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.accessToken != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp.StatusCode, body, nil
}

func (c *HTTPClient) refresh(ctx context.Context) error {
	status, body, err := c.roundTrip(ctx, http.MethodPost, "/api/refresh",
		api.RefreshRequest{RefreshToken: c.refreshToken})
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return ErrUnauthorized
	}

	var resp api.TokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("%w: decoding refresh response: %v", ErrRemote, err)
	}
	c.accessToken = resp.AccessToken
	c.refreshToken = resp.RefreshToken
	return nil
}
