package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/qualityslop/backend/internal/api"
	"github.com/qualityslop/backend/internal/game"
)

// Client is a thin HTTP wrapper around the game API. Authenticated calls
// replay the session cookie captured at create/join time.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type createResponse struct {
	SessionID string `json:"session_id"`
}

func (c *Client) CreateSession(ctx context.Context, username string) (Session, error) {
	return c.enter(ctx, "/session/create", username)
}

func (c *Client) JoinSession(ctx context.Context, sessionID, username string) (Session, error) {
	return c.enter(ctx, "/session/"+url.PathEscape(sessionID)+"/join", username)
}

// enter posts a username to a create or join route and captures the session
// cookie from the response.
func (c *Client) enter(ctx context.Context, path, username string) (Session, error) {
	raw, err := json.Marshal(map[string]string{"username": username})
	if err != nil {
		return Session{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return Session{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Session{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return Session{}, apiError(resp)
	}
	var out createResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Session{}, err
	}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "token" || cookie.Name == "__Session-token" {
			return Session{
				Token:      cookie.Value,
				CookieName: cookie.Name,
				SessionID:  out.SessionID,
				Username:   username,
			}, nil
		}
	}
	return Session{}, fmt.Errorf("server did not set a session cookie")
}

func (c *Client) Logout(ctx context.Context, s Session) error {
	return c.jsonRequest(ctx, http.MethodGet, "/session/logout", s, nil, nil)
}

func (c *Client) StartGame(ctx context.Context, s Session) error {
	return c.jsonRequest(ctx, http.MethodPost, "/game/start", s, nil, nil)
}

func (c *Client) PauseGame(ctx context.Context, s Session) error {
	return c.jsonRequest(ctx, http.MethodPost, "/game/pause", s, nil, nil)
}

func (c *Client) StopGame(ctx context.Context, s Session) error {
	return c.jsonRequest(ctx, http.MethodPost, "/game/stop", s, nil, nil)
}

func (c *Client) SetTimeProgressionMultiplier(ctx context.Context, s Session, multiplier int) error {
	return c.jsonRequest(ctx, http.MethodPost, "/game/set-time-progression-multiplier", s, multiplier, nil)
}

func (c *Client) Poll(ctx context.Context, s Session) (game.PollView, error) {
	var out game.PollView
	err := c.jsonRequest(ctx, http.MethodGet, "/game/poll", s, nil, &out)
	return out, err
}

func (c *Client) StockPrices(ctx context.Context, s Session) (map[string]map[string]float64, error) {
	var out map[string]map[string]float64
	err := c.jsonRequest(ctx, http.MethodGet, "/game/stock-prices", s, nil, &out)
	return out, err
}

func (c *Client) Dividends(ctx context.Context, s Session) (map[string]map[string]float64, error) {
	var out map[string]map[string]float64
	err := c.jsonRequest(ctx, http.MethodGet, "/game/dividends", s, nil, &out)
	return out, err
}

func (c *Client) BuyStock(ctx context.Context, s Session, symbol string, quantity int) error {
	return c.jsonRequest(ctx, http.MethodPost, "/game/stock/"+url.PathEscape(symbol)+"/buy", s, quantity, nil)
}

func (c *Client) SellStock(ctx context.Context, s Session, symbol string, quantity int) error {
	return c.jsonRequest(ctx, http.MethodPost, "/game/stock/"+url.PathEscape(symbol)+"/sell", s, quantity, nil)
}

func (c *Client) LiquidateStock(ctx context.Context, s Session, symbol string) error {
	return c.jsonRequest(ctx, http.MethodPost, "/game/stock/"+url.PathEscape(symbol)+"/liquidate", s, nil, nil)
}

func (c *Client) SetMonthlyGroceryExpense(ctx context.Context, s Session, amount float64) error {
	return c.jsonRequest(ctx, http.MethodPost, "/game/set-monthly-grocery-expense", s, amount, nil)
}

func (c *Client) SetMonthlyLeisureExpense(ctx context.Context, s Session, amount float64) error {
	return c.jsonRequest(ctx, http.MethodPost, "/game/set-monthly-leisure-expense", s, amount, nil)
}

func (c *Client) Accommodations(ctx context.Context, s Session) ([]api.AccommodationOption, error) {
	var out []api.AccommodationOption
	err := c.jsonRequest(ctx, http.MethodGet, "/lifestyle/accommodations", s, nil, &out)
	return out, err
}

func (c *Client) MoveAccommodation(ctx context.Context, s Session, accommodationID string) error {
	return c.jsonRequest(ctx, http.MethodPost, "/lifestyle/accommodations/move", s, map[string]string{
		"accommodation_id": accommodationID,
	}, nil)
}

type explanationResponse struct {
	Explanation string `json:"explanation"`
}

func (c *Client) ExplainEvent(ctx context.Context, s Session, eventID int) (string, error) {
	var out explanationResponse
	err := c.jsonRequest(ctx, http.MethodPost, fmt.Sprintf("/events/%d/explanation", eventID), s, nil, &out)
	return out.Explanation, err
}

func (c *Client) ExplainText(ctx context.Context, s Session, text, contextHint string) (string, error) {
	var out explanationResponse
	err := c.jsonRequest(ctx, http.MethodPost, "/explain-text", s, map[string]string{
		"text":    text,
		"context": contextHint,
	}, &out)
	return out.Explanation, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, s Session, in any, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.Token != "" {
		name := s.CookieName
		if name == "" {
			name = "token"
		}
		req.AddCookie(&http.Cookie{Name: name, Value: s.Token})
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func apiError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		return fmt.Errorf("api status %d: %s", resp.StatusCode, body.Error)
	}
	return fmt.Errorf("api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
}
