package errors

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
)

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralNotFoundError represents a generic not found error.
	GeneralNotFoundError ErrorCode = "general_not_found_error"

	// OrderInvalidSide represents an order whose side is neither BUY nor SELL.
	OrderInvalidSide ErrorCode = "order_invalid_side"
	// OrderInvalidType represents an order whose type is neither LIMIT nor MARKET.
	OrderInvalidType ErrorCode = "order_invalid_type"
	// OrderInvalidQuantity represents an order with a non-positive quantity.
	OrderInvalidQuantity ErrorCode = "order_invalid_quantity"
	// OrderInvalidPrice represents a LIMIT order without a positive price.
	OrderInvalidPrice ErrorCode = "order_invalid_price"
	// OrderPriceNotAllowed represents a MARKET order that carries a price.
	OrderPriceNotAllowed ErrorCode = "order_price_not_allowed"
	// OrderQuantityTooLarge represents an order above the configured maximum quantity.
	OrderQuantityTooLarge ErrorCode = "order_quantity_too_large"
	// OrderPriceTooLarge represents a LIMIT order above the configured maximum price.
	OrderPriceTooLarge ErrorCode = "order_price_too_large"
	// OrderLevelFull represents an order whose remainder would overflow its price level.
	OrderLevelFull ErrorCode = "order_level_full"
	// OrderInvalidID represents a command that references an empty order id.
	OrderInvalidID ErrorCode = "order_invalid_id"

	// CommandInvalidAction represents a command with an unknown action.
	CommandInvalidAction ErrorCode = "command_invalid_action"
	// CommandInvalidPayload represents a command that cannot be decoded.
	CommandInvalidPayload ErrorCode = "command_invalid_payload"

	// QuantInvalidDecimal represents a decimal string that cannot be represented on the configured scale.
	QuantInvalidDecimal ErrorCode = "quant_invalid_decimal"

	// IntervalUnsupported represents a candle interval that is not registered.
	IntervalUnsupported ErrorCode = "interval_unsupported"

	// KafkaReadError represents an error when reading a message from Kafka.
	KafkaReadError ErrorCode = "kafka_read_error"
	// KafkaCommitError represents an error when committing offsets to Kafka.
	KafkaCommitError ErrorCode = "kafka_commit_error"
	// KafkaPublishError represents an error when writing messages to Kafka.
	KafkaPublishError ErrorCode = "kafka_publish_error"

	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisDisconnectionError represents an error when disconnecting from Redis.
	RedisDisconnectionError ErrorCode = "redis_disconnection_error"
	// RedisPingError represents an error when pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"
	// RedisGetError represents an error when getting a value from Redis.
	RedisGetError ErrorCode = "redis_get_error"
	// RedisSetError represents an error when setting a value in Redis.
	RedisSetError ErrorCode = "redis_set_error"
	// RedisDelError represents an error when deleting a value from Redis.
	RedisDelError ErrorCode = "redis_del_error"
	// RedisPublishError represents an error when publishing messages to channels in Redis.
	RedisPublishError ErrorCode = "redis_publish_error"
)

// String returns the code as a plain string.
func (c ErrorCode) String() string {
	return string(c)
}

// BaseError is an `error` type containing an array of ErrorDetails.
// This error provides basic functions for performing transformations
// on a list of ErrorDetails.
type BaseError struct {
	details []*ErrorDetails
}

// NewBaseError create BaseError with ErrorDetails
func NewBaseError(details ...*ErrorDetails) *BaseError {
	return &BaseError{details: details}
}

// AddErrorDetails add more ErrorDetails to BaseError
func (b *BaseError) AddErrorDetails(errors ...*ErrorDetails) {
	b.details = append(b.details, errors...)
}

// GetDetails get array ErrorDetails on BaseError
func (b *BaseError) GetDetails() []*ErrorDetails {
	return b.details
}

// HasDetails reports whether at least one ErrorDetails was recorded.
func (b *BaseError) HasDetails() bool {
	return len(b.details) > 0
}

// Error implement error interface
func (b *BaseError) Error() string {
	buff := bytes.NewBufferString("")

	buff.WriteString("Error on\n")
	for _, err := range b.details {
		buff.WriteString("code: ")
		buff.WriteString(err.Code)
		buff.WriteString("; error: ")
		buff.WriteString(err.Error())
		buff.WriteString("; field: ")
		buff.WriteString(err.Field)
		buff.WriteString("; object: ")
		if err.Object != nil {
			buff.WriteString(reflect.TypeOf(err.Object).String())
		}
		buff.WriteString("\n")
	}

	return strings.TrimSpace(buff.String())
}

// PrependFields prepend all field on ErrorDetails with given prefix. Will skip ErrorDetail without field
func (b *BaseError) PrependFields(prefix string) {
	for _, d := range b.GetDetails() {
		if d.Field == "" {
			continue
		}
		d.Field = fmt.Sprintf("%s%s", prefix, d.Field)
	}
}

// IsAllCodeEqual check if all ErrorDetails code is equal with given code
func (b *BaseError) IsAllCodeEqual(code string) bool {
	if len(b.details) == 0 {
		return false
	}

	for _, d := range b.GetDetails() {
		if d.Code != code {
			return false
		}
	}
	return true
}

// IsAnyCodeEqual check if any ErrorDetails code is equal with given code
func (b *BaseError) IsAnyCodeEqual(code string) bool {
	for _, d := range b.GetDetails() {
		if d.Code == code {
			return true
		}
	}
	return false
}

// GetNonObjectErrorDetailsMap group ErrorDetails that doesn't have object by field
func (b *BaseError) GetNonObjectErrorDetailsMap() map[string][]*ErrorDetails {
	errMap := make(map[string][]*ErrorDetails)

	for _, detail := range b.details {
		if detail.Object != nil {
			continue
		}

		errMap[detail.Field] = append(errMap[detail.Field], detail)
	}

	return errMap
}
