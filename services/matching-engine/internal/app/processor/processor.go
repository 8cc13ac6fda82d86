package processor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/errors"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/logger"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/quant"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/util"
	orderreaderv1 "github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/domain/order-reader/v1"
	orderbookv1 "github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/domain/orderbook/v1"
)

const readBackoff = 100 * time.Millisecond

// Processor feeds commands from the order topic into the engine. Reading,
// applying and committing happen on a single goroutine so commands are
// applied in topic order.
type Processor struct {
	engine      orderbookv1.Engine
	orderReader orderreaderv1.OrderReader
	logger      *logger.Logger
	scale       quant.Scale

	cancel context.CancelFunc
	wg     sync.WaitGroup

	processed atomic.Int64
	rejected  atomic.Int64
}

// NewProcessor creates a processor applying commands to engine.
func NewProcessor(engine orderbookv1.Engine, orderReader orderreaderv1.OrderReader, scale quant.Scale, log *logger.Logger) *Processor {
	return &Processor{
		engine:      engine,
		orderReader: orderReader,
		logger:      log.WithFields(logger.Field{Key: "component", Value: "order_processor"}),
		scale:       scale,
	}
}

// Start launches the processing goroutine.
func (p *Processor) Start(ctx context.Context) error {
	ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run(ctx)

	p.logger.Info("Order processor started")
	return nil
}

// Stop gracefully shuts down the processor
func (p *Processor) Stop(ctx context.Context) error {
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
		p.logger.Info("Order processor stopped gracefully",
			logger.Field{Key: "processed", Value: p.processed.Load()},
			logger.Field{Key: "rejected", Value: p.rejected.Load()},
		)
		return nil
	case <-ctx.Done():
		p.logger.Warn("Order processor stop timeout exceeded")
		return ctx.Err()
	}
}

func (p *Processor) run(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Order processor shutting down")
			if err := p.orderReader.Close(); err != nil {
				p.logger.Error(errors.NewTracer("order_reader_close_error").Wrap(err))
			}
			return
		default:
			p.step(ctx)
		}
	}
}

// step reads one message, applies it and commits it.
func (p *Processor) step(ctx context.Context) {
	msg, cmd, err := p.orderReader.ReadMessage(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		if !errors.IsValidationError(err) {
			// Simple backoff
			sleep(ctx, readBackoff)
			return
		}
		// undecodable payload: skip it
		p.rejected.Add(1)
		p.commit(ctx, msg)
		return
	}

	reqCtx := util.WithRequestID(ctx, string(msg.Key))
	if err := p.Apply(reqCtx, cmd); err != nil {
		p.rejected.Add(1)
		p.logger.WarnContext(reqCtx, "Order command rejected",
			logger.Field{Key: "offset", Value: msg.Offset},
			logger.Field{Key: "action", Value: cmd.Action},
			logger.Field{Key: "error", Value: err.Error()},
		)
	} else {
		p.processed.Add(1)
	}

	p.commit(ctx, msg)
}

func (p *Processor) commit(ctx context.Context, msg kafka.Message) {
	if err := p.orderReader.CommitMessages(ctx, msg); err != nil {
		p.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "commit_order_message"})
	}
}

// Apply executes cmd against the engine. Malformed commands and engine
// validation failures return a ValidationError; cancelling an unknown or
// finished order is not an error.
func (p *Processor) Apply(ctx context.Context, cmd orderreaderv1.Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	switch cmd.Action {
	case orderreaderv1.ActionCancel:
		cancelled := p.engine.CancelOrder(cmd.OrderID)
		p.logger.DebugContext(ctx, "Cancel command applied",
			logger.Field{Key: "orderID", Value: cmd.OrderID},
			logger.Field{Key: "cancelled", Value: cancelled},
		)
		return nil
	case orderreaderv1.ActionReset:
		p.engine.Reset()
		p.logger.InfoContext(ctx, "Reset command applied")
		return nil
	default:
		req, err := cmd.ToPlaceOrderRequest(p.scale)
		if err != nil {
			return err
		}
		order, err := p.engine.PlaceOrder(req)
		if err != nil {
			return err
		}
		p.logger.DebugContext(ctx, "Place command applied",
			logger.Field{Key: "orderID", Value: order.ID},
			logger.Field{Key: "status", Value: order.Status},
		)
		return nil
	}
}

// Processed returns the number of commands applied.
func (p *Processor) Processed() int64 {
	return p.processed.Load()
}

// Rejected returns the number of commands that could not be applied.
func (p *Processor) Rejected() int64 {
	return p.rejected.Load()
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
