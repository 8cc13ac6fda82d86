package marketdata

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/errors"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/logger"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/quant"
	redismock "github.com/thesushilsharma/Liquid-Matrix/pkg/redis/mock"
	marketdatav1 "github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/domain/market-data/v1"
	orderbookv1 "github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/domain/orderbook/v1"
)

type fakeEngine struct {
	mu    sync.Mutex
	depth orderbookv1.Depth
	stats orderbookv1.MarketStats
	reads int
}

func (f *fakeEngine) GetDepth(int) orderbookv1.Depth {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return f.depth
}

func (f *fakeEngine) GetMarketStats() orderbookv1.MarketStats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats
}

type testFixture struct {
	ctrl      *gomock.Controller
	redis     *redismock.MockClient
	engine    *fakeEngine
	publisher *Publisher
}

func setupTest(t *testing.T, ttl time.Duration) *testFixture {
	ctrl := gomock.NewController(t)
	rc := redismock.NewMockClient(ctrl)
	rc.EXPECT().Key(gomock.Any()).DoAndReturn(func(parts ...string) string {
		return "lm:" + strings.Join(parts, ":")
	}).AnyTimes()

	engine := &fakeEngine{
		depth: orderbookv1.Depth{
			Bids: []orderbookv1.DepthLevel{{Price: 10000, Quantity: 100000000, Cumulative: 100000000}},
			Asks: []orderbookv1.DepthLevel{},
		},
		stats: orderbookv1.MarketStats{BestBid: 10000, SpreadPercentage: decimal.Zero, VWAP: decimal.Zero},
	}

	p := NewPublisher(rc, engine, "BTC-USD", quant.DefaultScale(), 10, ttl, logger.NewNopLogger())
	p.clock = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }

	return &testFixture{ctrl: ctrl, redis: rc, engine: engine, publisher: p}
}

func TestPublisher_Publish(t *testing.T) {
	f := setupTest(t, 0)
	ctx := context.Background()

	f.publisher.HandleEvent(orderbookv1.Event{Sequence: 9})
	update := f.publisher.Snapshot()
	assert.Equal(t, uint64(9), update.Sequence)

	gomock.InOrder(
		f.redis.EXPECT().Set(ctx, "lm:BTC-USD:book", gomock.Any(), time.Duration(0)).
			DoAndReturn(func(_ context.Context, _ string, value any, _ time.Duration) error {
				var book marketdatav1.Book
				require.NoError(t, json.Unmarshal(value.([]byte), &book))
				assert.Equal(t, "100.00", book.Bids[0].Price)
				return nil
			}),
		f.redis.EXPECT().Set(ctx, "lm:BTC-USD:stats", gomock.Any(), time.Duration(0)).Return(nil),
		f.redis.EXPECT().Publish(ctx, "lm:BTC-USD:updates", gomock.Any()).Return(int64(0), nil),
	)

	require.NoError(t, f.publisher.Publish(ctx, update))
}

func TestPublisher_PublishErrors(t *testing.T) {
	testCases := []struct {
		name  string
		setup func(f *testFixture)
	}{
		{
			name: "book set fails",
			setup: func(f *testFixture) {
				f.redis.EXPECT().Set(gomock.Any(), "lm:BTC-USD:book", gomock.Any(), gomock.Any()).
					Return(errors.NewErrorDetails("Failed to set value in Redis", errors.RedisSetError.String(), "set"))
			},
		},
		{
			name: "publish fails",
			setup: func(f *testFixture) {
				f.redis.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
				f.redis.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(0), errors.NewErrorDetails("Failed to publish message to Redis", errors.RedisPublishError.String(), "publish"))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := setupTest(t, 0)
			tc.setup(f)

			err := f.publisher.Publish(context.Background(), f.publisher.Snapshot())
			assert.Error(t, err)
		})
	}
}

func TestPublisher_CoalescesSignals(t *testing.T) {
	f := setupTest(t, 0)

	var mu sync.Mutex
	published := 0
	f.redis.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.redis.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, any) (int64, error) {
			mu.Lock()
			defer mu.Unlock()
			published++
			return 1, nil
		}).AnyTimes()

	for i := range 100 {
		f.publisher.HandleEvent(orderbookv1.Event{Sequence: uint64(i + 1)})
	}

	f.publisher.Start(context.Background())
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return published >= 1
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, f.publisher.Stop(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, published, 2)
	assert.Equal(t, uint64(100), f.publisher.Sequence())
}

func TestPublisher_SnapshotKeysExpire(t *testing.T) {
	f := setupTest(t, time.Minute)
	ctx := context.Background()

	gomock.InOrder(
		f.redis.EXPECT().Set(ctx, "lm:BTC-USD:book", gomock.Any(), time.Minute).Return(nil),
		f.redis.EXPECT().Set(ctx, "lm:BTC-USD:stats", gomock.Any(), time.Minute).Return(nil),
		f.redis.EXPECT().Publish(ctx, "lm:BTC-USD:updates", gomock.Any()).Return(int64(1), nil),
	)

	require.NoError(t, f.publisher.Publish(ctx, f.publisher.Snapshot()))
}

func TestPublisher_RefreshesBeforeExpiry(t *testing.T) {
	f := setupTest(t, 40*time.Millisecond)

	var mu sync.Mutex
	published := 0
	f.redis.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), 40*time.Millisecond).Return(nil).AnyTimes()
	f.redis.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, any) (int64, error) {
			mu.Lock()
			defer mu.Unlock()
			published++
			return 0, nil
		}).AnyTimes()

	f.publisher.Start(context.Background())
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return published >= 3
	}, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, f.publisher.Stop(context.Background()))
}

func TestPublisher_SequenceNeverGoesBackwards(t *testing.T) {
	f := setupTest(t, 0)

	f.publisher.HandleEvent(orderbookv1.Event{Sequence: 5})
	f.publisher.HandleEvent(orderbookv1.Event{Sequence: 3})
	assert.Equal(t, uint64(5), f.publisher.Sequence())
	assert.Equal(t, uint64(5), f.publisher.Snapshot().Sequence)

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 1000 - w; i > 0; i -= 8 {
				f.publisher.HandleEvent(orderbookv1.Event{Sequence: uint64(i)})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(1000), f.publisher.Sequence())
}
