// Package perpstream is the perp venue's HTTP client: candle and funding
// polling endpoints used by the market-data collectors. The venue's live
// mid-price feed lives in stream.go.
package perpstream

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

// requestTimeout is the spec's fixed HTTP timeout for external venue calls.
const requestTimeout = 15 * time.Second

// Client polls the perp venue's REST endpoints for candles and funding data.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
}

// NewClient builds a polling client against baseURL. The retry client is
// silenced (no default stdlib logger spam); callers observe failures via the
// returned errors.
func NewClient(baseURL string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.Logger = nil

	return &Client{baseURL: baseURL, http: rc}
}

type candleDTO struct {
	OpenTime int64  `json:"open_time"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	Volume   string `json:"volume"`
}

// Candles fetches recent candles for asset at the given interval.
func (c *Client) Candles(ctx context.Context, asset string, interval types.Interval) ([]types.Candle, error) {
	url := fmt.Sprintf("%s/candles?asset=%s&interval=%s", c.baseURL, asset, string(interval))

	var dtos []candleDTO
	if err := c.getJSON(ctx, url, &dtos); err != nil {
		return nil, err
	}

	out := make([]types.Candle, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, types.Candle{
			Venue: types.VenuePerp, Asset: asset, Interval: interval,
			OpenTime: time.Unix(d.OpenTime, 0).UTC(),
			Open:     parseDecimal(d.Open), High: parseDecimal(d.High),
			Low: parseDecimal(d.Low), Close: parseDecimal(d.Close), Volume: parseDecimal(d.Volume),
		})
	}

	return out, nil
}

type fundingDTO struct {
	Ts           int64   `json:"ts"`
	FundingRate  string  `json:"funding_rate"`
	OpenInterest *string `json:"open_interest"`
	MarkPrice    *string `json:"mark_price"`
}

// Funding fetches the latest funding observation for asset.
func (c *Client) Funding(ctx context.Context, asset string) (types.FundingSnapshot, error) {
	url := fmt.Sprintf("%s/funding?asset=%s", c.baseURL, asset)

	var d fundingDTO
	if err := c.getJSON(ctx, url, &d); err != nil {
		return types.FundingSnapshot{}, err
	}

	snap := types.FundingSnapshot{
		Venue: types.VenuePerp, Asset: asset, Ts: time.Unix(d.Ts, 0).UTC(),
		FundingRate: parseDecimal(d.FundingRate),
	}
	if d.OpenInterest != nil {
		oi := parseDecimal(*d.OpenInterest)
		snap.OpenInterest = &oi
	}
	if d.MarkPrice != nil {
		mp := parseDecimal(*d.MarkPrice)
		snap.MarkPrice = &mp
	}

	return snap, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.ErrCodeVenueRequestFailed, "build request", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.ErrCodeVenueRequestFailed, "perp venue request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return pkgerrors.Newf(pkgerrors.ErrCodeVenueRequestFailed, "perp venue returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.ErrCodeVenueParseFailed, "decode perp venue response", err)
	}

	return nil
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}

	return d
}
