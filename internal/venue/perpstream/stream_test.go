package perpstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestStreamDeliversTrackedMids(t *testing.T) {
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		var sub map[string]any
		require.NoError(t, conn.ReadJSON(&sub))

		require.NoError(t, conn.WriteJSON(map[string]any{
			"channel": "allMids",
			"mids":    map[string]string{"BTC": "65000.5", "ETH": "3400"},
		}))

		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	s := NewStream(wsURL)

	type update struct {
		asset string
		price decimal.Decimal
	}
	updates := make(chan update, 10)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := s.Run(ctx, func(asset string, price decimal.Decimal, ts time.Time) {
		updates <- update{asset, price}
	})
	require.Error(t, err) // server closes the connection; Run returns a read error

	close(updates)

	seen := map[string]string{}
	for u := range updates {
		seen[u.asset] = u.price.String()
	}

	require.Equal(t, "65000.5", seen["BTC"])
	require.Equal(t, "3400", seen["ETH"])
}
