package orderreader

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/errors"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/logger"
	orderreaderv1 "github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/domain/order-reader/v1"
	"github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/pkg/config"
)

var _ orderreaderv1.OrderReader = (*Reader)(nil)

type messageFetcher interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Reader represents a Kafka Reader for consuming commands from the order topic.
type Reader struct {
	kafkaReader messageFetcher
	logger      *logger.Logger
}

// NewReader creates a consumer-group reader for the order topic. Offsets are
// committed explicitly once a command has been applied.
func NewReader(config config.KafkaConfig, log *logger.Logger) *Reader {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     config.Brokers,
		Topic:       config.Topic,
		GroupID:     config.GroupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})

	return newReader(kafkaReader, log)
}

func newReader(fetcher messageFetcher, log *logger.Logger) *Reader {
	return &Reader{
		kafkaReader: fetcher,
		logger:      log,
	}
}

// logError is a helper method to log errors consistently
func (r *Reader) logError(ctx context.Context, err error, operation string) {
	r.logger.ErrorContext(ctx, err,
		logger.Field{Key: "operation", Value: operation},
	)
}

// ReadMessage fetches a message from the order topic and decodes it as a Command.
// A payload that cannot be decoded is returned with its message so the caller
// can commit past it.
func (r *Reader) ReadMessage(ctx context.Context) (kafka.Message, orderreaderv1.Command, error) {
	msg, err := r.kafkaReader.FetchMessage(ctx)
	if err != nil {
		if ctx.Err() == nil {
			r.logError(ctx, err, "FetchMessage")
		}
		return kafka.Message{}, orderreaderv1.Command{}, errors.NewTracer(errors.KafkaReadError.String()).Wrap(err)
	}

	cmd, err := orderreaderv1.FromBytes(msg.Value)
	if err != nil {
		r.logger.WarnContext(ctx, "Undecodable order command",
			logger.Field{Key: "offset", Value: msg.Offset},
			logger.Field{Key: "partition", Value: msg.Partition},
			logger.Field{Key: "error", Value: err.Error()},
		)
		return msg, orderreaderv1.Command{}, err
	}

	r.logger.DebugContext(ctx, "ReadMessage",
		logger.Field{Key: "offset", Value: msg.Offset},
		logger.Field{Key: "action", Value: cmd.Action},
		logger.Field{Key: "side", Value: cmd.Side},
		logger.Field{Key: "type", Value: cmd.Type},
		logger.Field{Key: "price", Value: cmd.Price},
		logger.Field{Key: "quantity", Value: cmd.Quantity},
	)

	return msg, cmd, nil
}

// Close properly closes the Kafka reader.
func (r *Reader) Close() error {
	if err := r.kafkaReader.Close(); err != nil {
		r.logError(context.Background(), err, "Close")
		return err
	}
	return nil
}

// CommitMessages commits the messages to Kafka after processing.
func (r *Reader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	if err := r.kafkaReader.CommitMessages(ctx, msgs...); err != nil {
		r.logError(ctx, err, "CommitMessages")
		return errors.NewTracer(errors.KafkaCommitError.String()).Wrap(err)
	}
	return nil
}
