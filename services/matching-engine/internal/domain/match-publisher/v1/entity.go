package matchpublisherv1

import (
	"encoding/json"
	"time"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/quant"
	orderbookv1 "github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/domain/orderbook/v1"
)

// MatchEvent is the JSON payload written to the trade topic, one per trade.
type MatchEvent struct {
	TradeID      string    `json:"tradeID"`
	Pair         string    `json:"pair"`
	Price        string    `json:"price"`
	Quantity     string    `json:"quantity"`
	BuyOrderID   string    `json:"buyOrderID"`
	SellOrderID  string    `json:"sellOrderID"`
	MakerOrderID string    `json:"makerOrderID"`
	TakerOrderID string    `json:"takerOrderID"`
	TakerSide    string    `json:"takerSide"`
	Sequence     uint64    `json:"sequence"`
	Timestamp    time.Time `json:"timestamp"`
}

// CreateFromTrade renders a trade with decimal prices and quantities.
func CreateFromTrade(pair string, scale quant.Scale, trade orderbookv1.Trade) *MatchEvent {
	return &MatchEvent{
		TradeID:      trade.ID,
		Pair:         pair,
		Price:        scale.FormatPrice(trade.Price),
		Quantity:     scale.FormatQuantity(trade.Quantity),
		BuyOrderID:   trade.BuyOrderID,
		SellOrderID:  trade.SellOrderID,
		MakerOrderID: trade.MakerOrderID,
		TakerOrderID: trade.TakerOrderID,
		TakerSide:    string(trade.TakerSide),
		Sequence:     trade.Sequence,
		Timestamp:    trade.Timestamp,
	}
}

// ToBytes converts the match event to a byte array.
func ToBytes(matchEvent *MatchEvent) []byte {
	data, err := json.Marshal(matchEvent)
	if err != nil {
		return nil
	}

	return data
}

// FromBytes converts a byte array to a match event.
func FromBytes(data []byte) *MatchEvent {
	var matchEvent MatchEvent
	if err := json.Unmarshal(data, &matchEvent); err != nil {
		return nil
	}
	return &matchEvent
}
