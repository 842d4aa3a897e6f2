package perpstream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

const (
	readDeadline  = 90 * time.Second
	writeDeadline = 10 * time.Second
)

// allMidsMessage is the "all mids" channel payload: a flat map of asset
// symbol to mid-price string.
type allMidsMessage struct {
	Channel string            `json:"channel"`
	Mids    map[string]string `json:"mids"`
}

// Stream subscribes to the perp venue's "all mids" websocket channel. It
// implements oracle.Subscriber: Run blocks, delivering a price update for
// every asset in each message (the oracle keeps only tracked assets),
// until ctx is cancelled.
//
// Reconnection is the caller's responsibility (internal/oracle's stream
// loop already reconnects on any Run error); Stream.Run returns plain
// connect/read errors rather than retrying itself.
type Stream struct {
	url string
}

// NewStream builds a subscriber against the perp venue's websocket URL.
func NewStream(url string) *Stream {
	return &Stream{url: url}
}

// Run dials the venue, subscribes to "all mids", and delivers updates to
// onPrice until ctx is cancelled or the connection fails.
func (s *Stream) Run(ctx context.Context, onPrice func(asset string, price decimal.Decimal, ts time.Time)) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("perpstream: dial: %w", err)
	}
	defer conn.Close()

	sub := map[string]any{
		"method":  "subscribe",
		"channel": "allMids",
	}
	conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	if err := conn.WriteJSON(sub); err != nil {
		return fmt.Errorf("perpstream: subscribe: %w", err)
	}

	closed := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-closed:
		}
	}()
	defer close(closed)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		conn.SetReadDeadline(time.Now().Add(readDeadline))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			return fmt.Errorf("perpstream: read: %w", err)
		}

		var msg allMidsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}

		if msg.Channel != "allMids" {
			continue
		}

		now := time.Now().UTC()
		for asset, priceStr := range msg.Mids {
			price, err := decimal.NewFromString(priceStr)
			if err != nil {
				continue
			}

			onPrice(asset, price, now)
		}
	}
}
