package marketdata

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/errors"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/logger"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/quant"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/redis"
	marketdatav1 "github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/domain/market-data/v1"
	orderbookv1 "github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/domain/orderbook/v1"
)

var _ marketdatav1.Publisher = (*Publisher)(nil)

// EngineReader is the read side of the engine the publisher snapshots.
type EngineReader interface {
	GetDepth(levels int) orderbookv1.Depth
	GetMarketStats() orderbookv1.MarketStats
}

// Publisher mirrors the latest book and stats of a pair into Redis. Change
// notifications are coalesced: a burst of events produces one publication.
// With a positive ttl the snapshot keys expire, and are rewritten every ttl/2
// so they outlive quiet periods but not the process.
type Publisher struct {
	redisclient redis.Client
	engine      EngineReader
	logger      *logger.Logger
	pair        string
	scale       quant.Scale
	depthLevels int
	ttl         time.Duration
	clock       func() time.Time

	signal   chan struct{}
	sequence atomic.Uint64
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewPublisher creates a market data publisher for pair. ttl <= 0 keeps the
// snapshot keys without expiration.
func NewPublisher(redisclient redis.Client, engine EngineReader, pair string, scale quant.Scale, depthLevels int, ttl time.Duration, log *logger.Logger) *Publisher {
	if ttl < 0 {
		ttl = 0
	}
	return &Publisher{
		redisclient: redisclient,
		engine:      engine,
		logger:      log.WithFields(logger.Field{Key: "component", Value: "market_data_publisher"}),
		pair:        pair,
		scale:       scale,
		depthLevels: depthLevels,
		ttl:         ttl,
		clock:       time.Now,
		signal:      make(chan struct{}, 1),
	}
}

func (p *Publisher) bookKey() string    { return p.redisclient.Key(p.pair, "book") }
func (p *Publisher) statsKey() string   { return p.redisclient.Key(p.pair, "stats") }
func (p *Publisher) updatesKey() string { return p.redisclient.Key(p.pair, "updates") }

// HandleEvent is an engine listener. It records the highest event sequence
// seen and wakes the publishing goroutine without blocking. Events may arrive
// out of order from concurrent writers.
func (p *Publisher) HandleEvent(evt orderbookv1.Event) {
	p.observe(evt.Sequence)
	select {
	case p.signal <- struct{}{}:
	default:
	}
}

func (p *Publisher) observe(seq uint64) {
	for {
		cur := p.sequence.Load()
		if seq <= cur || p.sequence.CompareAndSwap(cur, seq) {
			return
		}
	}
}

// Start launches the publishing goroutine and publishes the initial state.
func (p *Publisher) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run(ctx)

	p.HandleEvent(orderbookv1.Event{Sequence: p.sequence.Load()})
	p.logger.Info("Market data publisher started", logger.Field{Key: "pair", Value: p.pair})
}

// Stop waits for the publishing goroutine to exit.
func (p *Publisher) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("Market data publisher stopped")
		return nil
	case <-ctx.Done():
		p.logger.Warn("Market data publisher stop timeout exceeded")
		return ctx.Err()
	}
}

func (p *Publisher) run(ctx context.Context) {
	defer p.wg.Done()

	var refresh <-chan time.Time
	if p.ttl > 0 {
		ticker := time.NewTicker(max(p.ttl/2, time.Millisecond))
		defer ticker.Stop()
		refresh = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.signal:
			_ = p.Publish(ctx, p.Snapshot())
		case <-refresh:
			_ = p.Publish(ctx, p.Snapshot())
		}
	}
}

// Snapshot reads the engine and renders the current update.
func (p *Publisher) Snapshot() marketdatav1.Update {
	now := p.clock()
	return marketdatav1.Update{
		Sequence: p.sequence.Load(),
		Book:     marketdatav1.NewBook(p.pair, p.scale, p.engine.GetDepth(p.depthLevels), now),
		Stats:    marketdatav1.NewStats(p.pair, p.scale, p.engine.GetMarketStats(), now),
	}
}

// Sequence returns the highest event sequence seen.
func (p *Publisher) Sequence() uint64 {
	return p.sequence.Load()
}

// Publish stores the book and stats under their keys and publishes the
// combined update. Having no subscribers is not an error.
func (p *Publisher) Publish(ctx context.Context, update marketdatav1.Update) error {
	if err := p.redisclient.Set(ctx, p.bookKey(), marketdatav1.ToBytes(update.Book), p.ttl); err != nil {
		return p.fail(ctx, "market_data_book_error", err, update.Sequence)
	}
	if err := p.redisclient.Set(ctx, p.statsKey(), marketdatav1.ToBytes(update.Stats), p.ttl); err != nil {
		return p.fail(ctx, "market_data_stats_error", err, update.Sequence)
	}

	receivers, err := p.redisclient.Publish(ctx, p.updatesKey(), marketdatav1.ToBytes(update))
	if err != nil {
		return p.fail(ctx, "market_data_publish_error", err, update.Sequence)
	}

	p.logger.DebugContext(ctx, "Market data published",
		logger.Field{Key: "sequence", Value: update.Sequence},
		logger.Field{Key: "receivers", Value: receivers},
	)
	return nil
}

func (p *Publisher) fail(ctx context.Context, op string, err error, sequence uint64) error {
	traced := errors.NewTracer(op).Wrap(err)
	p.logger.ErrorContext(ctx, traced,
		logger.Field{Key: "pair", Value: p.pair},
		logger.Field{Key: "sequence", Value: sequence},
	)
	return traced
}
