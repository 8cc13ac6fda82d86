package matchpublisher

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/errors"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/logger"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/quant"
	matchpublisherv1 "github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/domain/match-publisher/v1"
	orderbookv1 "github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/domain/orderbook/v1"
	"github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/pkg/config"
)

const flushTimeout = 5 * time.Second

var _ matchpublisherv1.MatchPublisher = (*Publisher)(nil)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher represents a Kafka Publisher for publishing match events. It
// listens to the engine, queues the trades of each placement and writes them
// from its own goroutine so the engine never waits on the broker.
type Publisher struct {
	kafkaWriter messageWriter
	logger      *logger.Logger
	pair        string
	scale       quant.Scale

	queue   chan []*matchpublisherv1.MatchEvent
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	dropped atomic.Int64
	written atomic.Int64
}

// NewPublisher creates a new Kafka publisher for publishing match events.
func NewPublisher(config config.MatchPublisherConfig, pair string, scale quant.Scale, log *logger.Logger) *Publisher {
	kafkaWriter := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}

	return newPublisher(kafkaWriter, config.BufferSize, pair, scale, log)
}

func newPublisher(writer messageWriter, bufferSize int, pair string, scale quant.Scale, log *logger.Logger) *Publisher {
	if bufferSize <= 0 {
		bufferSize = 1024
	}
	return &Publisher{
		kafkaWriter: writer,
		logger:      log.WithFields(logger.Field{Key: "component", Value: "match_publisher"}),
		pair:        pair,
		scale:       scale,
		queue:       make(chan []*matchpublisherv1.MatchEvent, bufferSize),
	}
}

// HandleEvent is an engine listener. It never blocks: when the queue is full
// the trades are dropped and counted.
func (p *Publisher) HandleEvent(evt orderbookv1.Event) {
	if evt.Type != orderbookv1.EventOrderPlaced || len(evt.Trades) == 0 {
		return
	}

	batch := make([]*matchpublisherv1.MatchEvent, 0, len(evt.Trades))
	for _, trade := range evt.Trades {
		batch = append(batch, matchpublisherv1.CreateFromTrade(p.pair, p.scale, trade))
	}

	select {
	case p.queue <- batch:
	default:
		p.dropped.Add(int64(len(batch)))
		p.logger.Warn("Match queue full, trades dropped",
			logger.Field{Key: "count", Value: len(batch)},
			logger.Field{Key: "eventSequence", Value: evt.Sequence},
		)
	}
}

// Start launches the writer goroutine.
func (p *Publisher) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run(ctx)

	p.logger.Info("Match publisher started", logger.Field{Key: "pair", Value: p.pair})
}

// Stop flushes queued trades and closes the writer.
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
	case <-ctx.Done():
		p.logger.Warn("Match publisher stop timeout exceeded")
		return ctx.Err()
	}

	if err := p.kafkaWriter.Close(); err != nil {
		p.logger.Error(errors.NewTracer("match_writer_close_error").Wrap(err))
		return err
	}

	p.logger.Info("Match publisher stopped",
		logger.Field{Key: "written", Value: p.written.Load()},
		logger.Field{Key: "dropped", Value: p.dropped.Load()},
	)
	return nil
}

func (p *Publisher) run(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			p.flush()
			return
		case batch := <-p.queue:
			_ = p.PublishMatchEvents(ctx, batch...)
		}
	}
}

// flush writes whatever is still queued after shutdown was requested.
func (p *Publisher) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	for {
		select {
		case batch := <-p.queue:
			if err := p.PublishMatchEvents(ctx, batch...); err != nil {
				return
			}
		default:
			return
		}
	}
}

// PublishMatchEvents writes one message per event, keyed by pair so a pair's
// trades stay ordered within a partition.
func (p *Publisher) PublishMatchEvents(ctx context.Context, events ...*matchpublisherv1.MatchEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, evt := range events {
		msgs = append(msgs, kafka.Message{
			Key:   []byte(p.pair),
			Value: matchpublisherv1.ToBytes(evt),
		})
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msgs...); err != nil {
		p.logger.ErrorContext(ctx, errors.NewTracer(errors.KafkaPublishError.String()).Wrap(err),
			logger.Field{Key: "count", Value: len(events)},
			logger.Field{Key: "firstTradeID", Value: events[0].TradeID},
		)
		return errors.NewTracer("failed to publish match event").Wrap(err)
	}

	p.written.Add(int64(len(events)))
	return nil
}

// Dropped returns the number of trades discarded because the queue was full.
func (p *Publisher) Dropped() int64 {
	return p.dropped.Load()
}

// Written returns the number of trades successfully written.
func (p *Publisher) Written() int64 {
	return p.written.Load()
}
