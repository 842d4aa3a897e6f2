// Package predictionmarket is a polling REST client for the prediction-market
// venue: no streaming feed, so the price oracle falls back to the store for
// this venue (spec.md §4.1).
package predictionmarket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/shopspring/decimal"

	"github.com/rxtech-lab/papertrader/internal/types"
	pkgerrors "github.com/rxtech-lab/papertrader/pkg/errors"
)

const requestTimeout = 15 * time.Second

// Client polls the prediction-market venue's REST endpoint for market
// observations.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
}

// NewClient builds a polling client against baseURL.
func NewClient(baseURL string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.Logger = nil

	return &Client{baseURL: baseURL, http: rc}
}

type marketDTO struct {
	MarketID  string `json:"market_id"`
	Ts        int64  `json:"ts"`
	Title     string `json:"title"`
	Asset     string `json:"asset"`
	YesPrice  string `json:"yes_price"`
	NoPrice   string `json:"no_price"`
	Volume24h string `json:"volume_24h"`
	Liquidity string `json:"liquidity"`
	EndDate   *int64 `json:"end_date"`
}

// Markets fetches the current snapshot of markets classified under asset.
func (c *Client) Markets(ctx context.Context, asset string) ([]types.PredictionMarketObservation, error) {
	url := fmt.Sprintf("%s/markets?asset=%s", c.baseURL, asset)

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeVenueRequestFailed, "build request", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeVenueRequestFailed, "prediction market request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.Newf(pkgerrors.ErrCodeVenueRequestFailed, "prediction market venue returned status %d", resp.StatusCode)
	}

	var dtos []marketDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeVenueParseFailed, "decode prediction market response", err)
	}

	out := make([]types.PredictionMarketObservation, 0, len(dtos))
	for _, d := range dtos {
		obs := types.PredictionMarketObservation{
			MarketID: d.MarketID, Ts: time.Unix(d.Ts, 0).UTC(), Title: d.Title, Asset: d.Asset,
			YesPrice: parseDecimal(d.YesPrice), NoPrice: parseDecimal(d.NoPrice),
			Volume24h: parseDecimal(d.Volume24h), Liquidity: parseDecimal(d.Liquidity),
		}
		if d.EndDate != nil {
			end := time.Unix(*d.EndDate, 0).UTC()
			obs.EndDate = &end
		}

		out = append(out, obs)
	}

	return out, nil
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}

	return d
}
