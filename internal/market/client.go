package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Client fetches daily price and dividend history from a Yahoo-style chart
// endpoint. Results are cached per (symbols, period) so a session restart
// within the same process does not refetch.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.Mutex
	cache map[string]fetchResult
}

type fetchResult struct {
	prices    History
	dividends History
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		cache: make(map[string]fetchResult),
	}
}

// FetchSeries downloads daily history for every symbol over the period.
// The window is padded two weeks back and one day forward so the first
// simulated days always have an earlier observation to carry forward.
// The daily price is the high/low midpoint.
func (c *Client) FetchSeries(ctx context.Context, symbols []string, start, end time.Time) (History, History, error) {
	start = start.AddDate(0, 0, -14)
	end = end.AddDate(0, 0, 1)

	key := cacheKey(symbols, start, end)
	c.mu.Lock()
	if hit, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return hit.prices, hit.dividends, nil
	}
	c.mu.Unlock()

	prices := make(History, len(symbols))
	dividends := make(History, len(symbols))
	for _, symbol := range symbols {
		p, d, err := c.fetchSymbol(ctx, symbol, start, end)
		if err != nil {
			return nil, nil, fmt.Errorf("fetch %s: %w", symbol, err)
		}
		prices[symbol] = p
		dividends[symbol] = d
	}

	c.mu.Lock()
	c.cache[key] = fetchResult{prices: prices, dividends: dividends}
	c.mu.Unlock()
	return prices, dividends, nil
}

func cacheKey(symbols []string, start, end time.Time) string {
	return strings.Join(symbols, ",") + "|" + start.Format(DateFormat) + "|" + end.Format(DateFormat)
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					High []*float64 `json:"high"`
					Low  []*float64 `json:"low"`
				} `json:"quote"`
			} `json:"indicators"`
			Events struct {
				Dividends map[string]struct {
					Amount float64 `json:"amount"`
					Date   int64   `json:"date"`
				} `json:"dividends"`
			} `json:"events"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (c *Client) fetchSymbol(ctx context.Context, symbol string, start, end time.Time) (Series, Series, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=div",
		c.baseURL, url.PathEscape(symbol), start.Unix(), end.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Series{}, Series{}, err
	}
	req.Header.Set("User-Agent", "qualityslop/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Series{}, Series{}, fmt.Errorf("chart request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Series{}, Series{}, fmt.Errorf("chart status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Series{}, Series{}, fmt.Errorf("decode chart: %w", err)
	}
	if out.Chart.Error != nil {
		return Series{}, Series{}, fmt.Errorf("chart error %s: %s", out.Chart.Error.Code, out.Chart.Error.Description)
	}
	if len(out.Chart.Result) == 0 {
		return Series{}, Series{}, nil
	}

	result := out.Chart.Result[0]
	priceByDay := make(map[time.Time]float64, len(result.Timestamp))
	if len(result.Indicators.Quote) > 0 {
		quote := result.Indicators.Quote[0]
		for i, ts := range result.Timestamp {
			if i >= len(quote.High) || i >= len(quote.Low) {
				break
			}
			if quote.High[i] == nil || quote.Low[i] == nil {
				continue
			}
			day := time.Unix(ts, 0).UTC()
			priceByDay[day] = (*quote.High[i] + *quote.Low[i]) / 2
		}
	}

	divByDay := make(map[time.Time]float64, len(result.Events.Dividends))
	for _, div := range result.Events.Dividends {
		day := time.Unix(div.Date, 0).UTC()
		divByDay[day] = div.Amount
	}

	return NewSeries(priceByDay), NewSeries(divByDay), nil
}
