package orderreaderv1

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// OrderReader defines the interface for reading order commands from a source.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=orderreaderv1_mock
type OrderReader interface {
	// ReadMessage fetches the next message and decodes its command. A decode
	// failure returns the message together with the error so it can be committed.
	ReadMessage(ctx context.Context) (kafka.Message, Command, error)
	// Close closes the reader
	Close() error

	// CommitMessages commits the messages to Kafka after processing
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}
