package orderreaderv1

import (
	"encoding/json"
	"strings"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/errors"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/quant"
	orderbookv1 "github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/domain/orderbook/v1"
)

// Action is the operation a Command asks the engine to perform.
type Action string

const (
	ActionPlace  Action = "place"
	ActionCancel Action = "cancel"
	// ActionReset clears the book, registry and trade history.
	ActionReset Action = "reset"
)

// Command is the JSON payload carried on the order topic. Prices and
// quantities are decimal strings so no precision is lost in transit.
type Command struct {
	Action   Action `json:"action"`
	OrderID  string `json:"orderID,omitempty"`
	Side     string `json:"side,omitempty"`
	Type     string `json:"type,omitempty"`
	Price    string `json:"price,omitempty"`
	Quantity string `json:"quantity,omitempty"`
}

// FromBytes decodes a Command.
func FromBytes(data []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		v := errors.NewValidationError()
		v.Add(errors.CommandInvalidPayload, "payload", err.Error())
		return Command{}, v
	}
	cmd.Action = Action(strings.ToLower(strings.TrimSpace(string(cmd.Action))))
	return cmd, nil
}

// ToBytes encodes the command.
func (c Command) ToBytes() []byte {
	data, err := json.Marshal(c)
	if err != nil {
		return nil
	}
	return data
}

// Validate checks the command shape. Order fields are checked by ToPlaceOrderRequest.
func (c Command) Validate() error {
	v := errors.NewValidationError()
	switch c.Action {
	case ActionPlace, ActionReset:
	case ActionCancel:
		if strings.TrimSpace(c.OrderID) == "" {
			v.Add(errors.OrderInvalidID, "orderID", "cancel requires an order id")
		}
	default:
		v.Add(errors.CommandInvalidAction, "action", "action must be place, cancel or reset")
	}
	return v.OrNil()
}

// ToPlaceOrderRequest converts a place command into scaled engine units.
// Every malformed field is reported in the returned ValidationError.
func (c Command) ToPlaceOrderRequest(scale quant.Scale) (orderbookv1.PlaceOrderRequest, error) {
	v := errors.NewValidationError()
	req := orderbookv1.PlaceOrderRequest{
		Side: orderbookv1.Side(strings.ToUpper(strings.TrimSpace(c.Side))),
		Type: orderbookv1.OrderType(strings.ToUpper(strings.TrimSpace(c.Type))),
	}

	qty, err := scale.ParseQuantity(c.Quantity)
	if err != nil {
		v.Add(errors.QuantInvalidDecimal, "quantity", err.Error())
	}
	req.Quantity = qty

	if c.Price != "" {
		price, err := scale.ParsePrice(c.Price)
		if err != nil {
			v.Add(errors.QuantInvalidDecimal, "price", err.Error())
		}
		req.Price = price
	}

	if err := v.OrNil(); err != nil {
		return orderbookv1.PlaceOrderRequest{}, err
	}
	return req, req.Validate()
}
