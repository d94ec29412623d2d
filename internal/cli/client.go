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
)

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

func (c *Client) NewGame(ctx context.Context, name, zone string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/game/new", map[string]any{
		"name": name,
		"zone": zone,
	}, &out)
	return out, err
}

func (c *Client) Player(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/player", nil, &out)
	return out, err
}

func (c *Client) ListSaves(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/saves", nil, &out)
	return out, err
}

func (c *Client) Save(ctx context.Context, slot string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/saves/"+url.PathEscape(slot), nil, &out)
	return out, err
}

func (c *Client) Load(ctx context.Context, slot string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/saves/"+url.PathEscape(slot)+"/load", nil, &out)
	return out, err
}

func (c *Client) ListStocks(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/stocks", nil, &out)
	return out, err
}

func (c *Client) StockDetail(ctx context.Context, ticker string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/stocks/"+url.PathEscape(ticker), nil, &out)
	return out, err
}

func (c *Client) Buy(ctx context.Context, ticker string, amount float64) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/orders", map[string]any{
		"ticker": ticker,
		"side":   "buy",
		"amount": amount,
	}, &out)
	return out, err
}

func (c *Client) Sell(ctx context.Context, ticker string, shares float64) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/orders", map[string]any{
		"ticker": ticker,
		"side":   "sell",
		"shares": shares,
	}, &out)
	return out, err
}

func (c *Client) ListBills(ctx context.Context, unpaidOnly bool) (map[string]any, error) {
	path := "/v1/bills"
	if unpaidOnly {
		path = "/v1/bills?unpaid=1"
	}
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) PayBill(ctx context.Context, id string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/bills/"+url.PathEscape(id)+"/pay", nil, &out)
	return out, err
}

func (c *Client) PayAllBills(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/bills/pay-all", nil, &out)
	return out, err
}

func (c *Client) AdvanceDay(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/day/advance", nil, &out)
	return out, err
}

func (c *Client) LoadFeed(ctx context.Context, feed []byte) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/market/feed", json.RawMessage(feed), &out)
	return out, err
}

func (c *Client) MarketDay(ctx context.Context, day int) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, fmt.Sprintf("/v1/market/days/%d", day), nil, &out)
	return out, err
}

func (c *Client) Work(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/actions/work", nil, &out)
	return out, err
}

func (c *Client) Move(ctx context.Context, zone string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/actions/move", map[string]any{"zone": zone}, &out)
	return out, err
}

func (c *Client) Talk(ctx context.Context, npc string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/actions/talk", map[string]any{"npc": npc}, &out)
	return out, err
}

func (c *Client) ApplyEvent(ctx context.Context, key string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/actions/event", map[string]any{"key": key}, &out)
	return out, err
}

func (c *Client) Consume(ctx context.Context, item string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/actions/consume", map[string]any{"item": item}, &out)
	return out, err
}

func (c *Client) BuyItem(ctx context.Context, item string, qty int) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/actions/buy-item", map[string]any{
		"item": item,
		"qty":  qty,
	}, &out)
	return out, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
