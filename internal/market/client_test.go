package market

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func chartBody(ts []int64, highs, lows []float64, divDate int64, divAmount float64) string {
	tsParts := make([]string, len(ts))
	highParts := make([]string, len(highs))
	lowParts := make([]string, len(lows))
	for i := range ts {
		tsParts[i] = fmt.Sprintf("%d", ts[i])
		highParts[i] = fmt.Sprintf("%g", highs[i])
		lowParts[i] = fmt.Sprintf("%g", lows[i])
	}
	dividends := "{}"
	if divDate != 0 {
		dividends = fmt.Sprintf(`{"%d":{"amount":%g,"date":%d}}`, divDate, divAmount, divDate)
	}
	return fmt.Sprintf(`{"chart":{"result":[{
		"timestamp":[%s],
		"indicators":{"quote":[{"high":[%s],"low":[%s]}]},
		"events":{"dividends":%s}
	}],"error":null}}`,
		strings.Join(tsParts, ","), strings.Join(highParts, ","), strings.Join(lowParts, ","), dividends)
}

func TestFetchSeries(t *testing.T) {
	day1 := time.Date(2008, time.January, 2, 14, 30, 0, 0, time.UTC)
	day2 := time.Date(2008, time.January, 3, 14, 30, 0, 0, time.UTC)

	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if !strings.HasPrefix(r.URL.Path, "/v8/finance/chart/") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("interval") != "1d" || r.URL.Query().Get("events") != "div" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		fmt.Fprint(w, chartBody(
			[]int64{day1.Unix(), day2.Unix()},
			[]float64{110, 120},
			[]float64{90, 100},
			day2.Unix(), 0.5,
		))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	prices, dividends, err := c.FetchSeries(context.Background(), []string{"AAPL"},
		time.Date(2008, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2008, time.February, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	// Price is the high/low midpoint.
	if got, ok := prices.At("AAPL", day1); !ok || got != 100 {
		t.Fatalf("day1 price: got %f ok=%v", got, ok)
	}
	if got, ok := prices.At("AAPL", day2); !ok || got != 110 {
		t.Fatalf("day2 price: got %f ok=%v", got, ok)
	}
	if got, ok := dividends.On("AAPL", day2); !ok || got != 0.5 {
		t.Fatalf("dividend: got %f ok=%v", got, ok)
	}

	// A second fetch over the same period hits the cache.
	if _, _, err := c.FetchSeries(context.Background(), []string{"AAPL"},
		time.Date(2008, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2008, time.February, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("cached fetch: %v", err)
	}
	if got := requests.Load(); got != 1 {
		t.Fatalf("expected 1 upstream request, got %d", got)
	}
}

func TestFetchSeriesSkipsNullQuotes(t *testing.T) {
	day1 := time.Date(2008, time.January, 2, 14, 30, 0, 0, time.UTC)
	day2 := time.Date(2008, time.January, 3, 14, 30, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"chart":{"result":[{
			"timestamp":[%d,%d],
			"indicators":{"quote":[{"high":[null,120],"low":[null,100]}]},
			"events":{}
		}],"error":null}}`, day1.Unix(), day2.Unix())
	}))
	defer server.Close()

	c := NewClient(server.URL)
	prices, _, err := c.FetchSeries(context.Background(), []string{"AAPL"}, day1, day2)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got := prices["AAPL"].Len(); got != 1 {
		t.Fatalf("expected the null row skipped, got %d points", got)
	}
}

func TestFetchSeriesChartError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
	}))
	defer server.Close()

	c := NewClient(server.URL)
	_, _, err := c.FetchSeries(context.Background(), []string{"NOPE"},
		time.Date(2008, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2008, time.February, 1, 0, 0, 0, 0, time.UTC))
	if err == nil {
		t.Fatalf("expected an error from the chart payload")
	}
	if !strings.Contains(err.Error(), "Not Found") {
		t.Fatalf("error should carry the chart code, got %v", err)
	}
}

func TestFetchSeriesHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewClient(server.URL)
	_, _, err := c.FetchSeries(context.Background(), []string{"AAPL"},
		time.Date(2008, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2008, time.February, 1, 0, 0, 0, 0, time.UTC))
	if err == nil {
		t.Fatalf("expected an error on a non-200 status")
	}
}
