package oracle

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/papertrader/internal/logger"
	"github.com/rxtech-lab/papertrader/internal/store"
	"github.com/rxtech-lab/papertrader/internal/types"
)

type fakeSubscriber struct {
	updates []fakeUpdate
	done    chan struct{}
}

type fakeUpdate struct {
	asset string
	price decimal.Decimal
}

func (f *fakeSubscriber) Run(ctx context.Context, onPrice func(asset string, price decimal.Decimal, ts time.Time)) error {
	for _, u := range f.updates {
		onPrice(u.asset, u.price, time.Now().UTC())
	}

	if f.done != nil {
		close(f.done)
	}

	<-ctx.Done()

	return ctx.Err()
}

type erroringSubscriber struct{}

func (erroringSubscriber) Run(ctx context.Context, onPrice func(asset string, price decimal.Decimal, ts time.Time)) error {
	return errors.New("boom")
}

type OracleTestSuite struct {
	suite.Suite
	st  *store.Store
	log *logger.Logger
}

func (s *OracleTestSuite) SetupTest() {
	log, err := logger.NewLogger()
	s.Require().NoError(err)
	s.log = log

	dsn := filepath.Join(s.T().TempDir(), "oracle.duckdb")
	st, err := store.Open(dsn, log)
	s.Require().NoError(err)
	s.st = st
}

func (s *OracleTestSuite) TearDownTest() {
	s.Require().NoError(s.st.Close())
}

func (s *OracleTestSuite) TestStreamUpdatesTrackedAssetsOnly() {
	done := make(chan struct{})
	sub := &fakeSubscriber{
		updates: []fakeUpdate{
			{asset: "BTC", price: decimal.NewFromFloat(65000)},
			{asset: "DOGE", price: decimal.NewFromFloat(0.1)},
		},
		done: done,
	}

	o := New(s.log, s.st, sub, []string{"BTC"}, 30, 600)
	ctx, cancel := context.WithCancel(context.Background())
	o.Start(ctx)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		s.FailNow("subscriber never delivered updates")
	}

	price, ok := o.GetPrice(context.Background(), "BTC", types.VenuePerp)
	s.True(ok)
	s.Equal("65000", price.String())

	_, ok = o.GetPrice(context.Background(), "DOGE", types.VenuePerp)
	s.False(ok)

	cancel()
	o.Stop()
}

func (s *OracleTestSuite) TestStalePriceNotReturned() {
	o := New(s.log, s.st, nil, []string{"BTC"}, 30, 600)
	o.perpCache.set("BTC", decimal.NewFromFloat(100), time.Now().Add(-time.Hour), SourceStream)

	_, ok := o.GetPrice(context.Background(), "BTC", types.VenuePerp)
	s.False(ok)
	s.True(o.IsStale("BTC", types.VenuePerp))
}

func (s *OracleTestSuite) TestPredictionMarketStoreFallback() {
	ctx := context.Background()
	s.Require().NoError(s.st.UpsertPredictionMarket(ctx, types.PredictionMarketObservation{
		MarketID: "m1", Ts: time.Now().UTC(), Title: "will BTC hit 100k", Asset: "BTC",
		YesPrice: decimal.NewFromFloat(0.42), NoPrice: decimal.NewFromFloat(0.58),
		Volume24h: decimal.NewFromFloat(1000), Liquidity: decimal.NewFromFloat(5000),
	}))

	o := New(s.log, s.st, nil, nil, 30, 600)
	price, ok := o.GetPrice(ctx, "BTC", types.VenuePredictionMkt)
	s.True(ok)
	s.Equal("0.42", price.String())
}

func (s *OracleTestSuite) TestPredictionMarketNoStoreNoFallback() {
	o := New(s.log, nil, nil, nil, 30, 600)
	_, ok := o.GetPrice(context.Background(), "BTC", types.VenuePredictionMkt)
	s.False(ok)
}

func (s *OracleTestSuite) TestManualUpdateOverride() {
	o := New(s.log, s.st, nil, nil, 30, 600)
	o.UpdatePrice("SOL", types.VenuePerp, decimal.NewFromFloat(150))

	price, ok := o.GetPrice(context.Background(), "SOL", types.VenuePerp)
	s.True(ok)
	s.Equal("150", price.String())
}

func (s *OracleTestSuite) TestStreamReconnectsOnError() {
	o := New(s.log, s.st, erroringSubscriber{}, []string{"BTC"}, 30, 600)
	ctx, cancel := context.WithCancel(context.Background())
	o.Start(ctx)

	time.Sleep(50 * time.Millisecond)
	cancel()
	o.Stop()
}

func TestOracleSuite(t *testing.T) {
	suite.Run(t, new(OracleTestSuite))
}
