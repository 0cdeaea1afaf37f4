// Package portal is the HTTP client for the municipal parking portal.
// Sessions are cookie-based; login is single-flight and data calls retry
// exactly once after a transparent re-login on an auth failure.
package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"parkbridge/internal/pkg/config"
	"parkbridge/internal/pkg/errs"
)

const defaultTimeout = 20 * time.Second

type Client struct {
	httpClient *http.Client
	baseURL    string
	creds      Credentials
	timeout    time.Duration
	log        *slog.Logger

	loginMu  sync.Mutex
	loggedIn bool
}

func New(cfg config.PortalConfig, log *slog.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errs.Wrap(err, "failed to create cookie jar")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		httpClient: &http.Client{Jar: jar},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		creds:      Credentials{Username: cfg.Username, Password: cfg.Password},
		timeout:    timeout,
		log:        log,
	}, nil
}

// Login establishes the session cookie using basic auth. Concurrent callers
// collapse onto one in-flight attempt; an existing session is reused unless
// force is set.
func (c *Client) Login(ctx context.Context, force bool) error {
	c.loginMu.Lock()
	defer c.loginMu.Unlock()

	if c.loggedIn && !force {
		return nil
	}

	c.log.Debug("logging in to parking portal")
	err := c.doOnce(ctx, http.MethodGet, "/api/session/0", map[string]string{
		"x-session-policy": "Keep-Alive",
	}, nil, nil, true)
	if err != nil {
		return err
	}
	c.loggedIn = true
	return nil
}

func (c *Client) FetchAccount(ctx context.Context) (*Account, error) {
	var account Account
	if err := c.do(ctx, http.MethodGet, "/api/account/0", nil, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) FetchReservations(ctx context.Context) ([]Reservation, error) {
	var reservations []Reservation
	if err := c.do(ctx, http.MethodGet, "/api/reservation", nil, nil, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

func (c *Client) FetchFavorites(ctx context.Context) ([]Favorite, error) {
	headers := map[string]string{
		"x-data-limit":  "100",
		"x-data-offset": "0",
	}
	var favorites []Favorite
	if err := c.do(ctx, http.MethodGet, "/api/favorite", headers, nil, &favorites); err != nil {
		return nil, err
	}
	return favorites, nil
}

// FetchEndTime returns the zone active window for a given instant.
func (c *Client) FetchEndTime(ctx context.Context, epochSeconds int64) (*ZoneWindow, error) {
	var window ZoneWindow
	path := fmt.Sprintf("/api/end-time/%d", epochSeconds)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &window); err != nil {
		return nil, err
	}
	return &window, nil
}

func (c *Client) CreateReservation(ctx context.Context, params ReservationParams) (*Reservation, error) {
	payload := reservationPayload{
		Name:         params.Name,
		LicensePlate: params.LicensePlate,
		StartTime:    formatUTC(params.StartTime),
		EndTime:      formatUTC(params.EndTime),
	}
	var created Reservation
	if err := c.do(ctx, http.MethodPost, "/api/reservation", nil, payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateReservation tries PUT on the resource and falls back to a POST of the
// full payload when the backend answers 404; older portal versions only
// support the latter. The fallback is attempted at most once.
func (c *Client) UpdateReservation(ctx context.Context, id int64, params ReservationParams) (*Reservation, error) {
	payload := reservationPayload{
		ID:           &id,
		Name:         params.Name,
		LicensePlate: params.LicensePlate,
		StartTime:    formatUTC(params.StartTime),
		EndTime:      formatUTC(params.EndTime),
	}
	var updated Reservation
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/reservation/%d", id), nil, payload, &updated)
	if err == nil {
		return &updated, nil
	}
	if status, ok := ResponseStatus(err); !ok || status != http.StatusNotFound {
		return nil, err
	}
	if err := c.do(ctx, http.MethodPost, "/api/reservation", nil, payload, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) PatchReservationEndTime(ctx context.Context, id int64, endTime time.Time) (*Reservation, error) {
	payload := map[string]string{"end_time": formatUTC(endTime)}
	var updated Reservation
	path := fmt.Sprintf("/api/reservation/%d", id)
	if err := c.do(ctx, http.MethodPatch, path, nil, payload, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteReservation(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/reservation/%d", id), nil, nil, nil)
}

func (c *Client) CreateFavorite(ctx context.Context, name, licensePlate string) (*Favorite, error) {
	payload := favoritePayload{Name: name, LicensePlate: licensePlate}
	var created Favorite
	if err := c.do(ctx, http.MethodPost, "/api/favorite", nil, payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateFavorite tries PATCH and falls back to PUT when the backend answers
// 405; the supported verb varies by portal version. The fallback is attempted
// at most once.
func (c *Client) UpdateFavorite(ctx context.Context, id int64, name, licensePlate string) (*Favorite, error) {
	payload := favoritePayload{Name: name, LicensePlate: licensePlate}
	path := fmt.Sprintf("/api/favorite/%d", id)

	var updated Favorite
	err := c.do(ctx, http.MethodPatch, path, nil, payload, &updated)
	if err == nil {
		return &updated, nil
	}
	if status, ok := ResponseStatus(err); !ok || status != http.StatusMethodNotAllowed {
		return nil, err
	}
	if err := c.do(ctx, http.MethodPut, path, nil, payload, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteFavorite(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/favorite/%d", id), nil, nil, nil)
}

func (c *Client) isLoggedIn() bool {
	c.loginMu.Lock()
	defer c.loginMu.Unlock()
	return c.loggedIn
}

func (c *Client) invalidateLogin() {
	c.loginMu.Lock()
	defer c.loginMu.Unlock()
	c.loggedIn = false
}

// do ensures a session, issues the call, and on an auth failure re-logs-in
// and retries exactly once. A second auth failure propagates as ErrAuth.
func (c *Client) do(ctx context.Context, method, path string, headers map[string]string, body, out any) error {
	if !c.isLoggedIn() {
		if err := c.Login(ctx, false); err != nil {
			return err
		}
	}

	err := c.doOnce(ctx, method, path, headers, body, out, false)
	if !errs.Is(err, ErrAuth) {
		return err
	}

	c.invalidateLogin()
	if err := c.Login(ctx, true); err != nil {
		return err
	}
	return c.doOnce(ctx, method, path, headers, body, out, false)
}

func (c *Client) doOnce(ctx context.Context, method, path string, headers map[string]string, body, out any, basicAuth bool) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errs.Wrap(err, "failed to encode request body")
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errs.Wrap(err, "failed to build portal request")
	}

	req.Header.Set("accept", "application/json")
	req.Header.Set("x-requested-with", "angular")
	if body != nil {
		req.Header.Set("content-type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if basicAuth {
		req.SetBasicAuth(c.creds.Username, c.creds.Password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.Mark(err, ErrConnection)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return errs.Mark(fmt.Errorf("status %d on %s %s", resp.StatusCode, method, path), ErrAuth)
	}

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.Mark(err, ErrConnection)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return &ResponseError{Status: resp.StatusCode, Body: string(rawBody)}
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}

	if err := json.Unmarshal(rawBody, out); err != nil {
		return &ResponseError{Status: resp.StatusCode, Body: string(rawBody)}
	}
	return nil
}
