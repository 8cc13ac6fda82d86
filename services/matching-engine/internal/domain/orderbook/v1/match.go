package orderbookv1

import "github.com/thesushilsharma/Liquid-Matrix/pkg/quant"

// Match is one fill between a resting maker and the incoming taker.
type Match struct {
	Maker    *Order         `json:"maker"`
	Taker    *Order         `json:"taker"`
	Quantity quant.Quantity `json:"quantity"`
	Price    quant.Price    `json:"price"`
}

// MakerIsFilled checks if the maker order is filled.
func (m *Match) MakerIsFilled() bool {
	return m.Maker.Remaining() == 0
}

// TakerIsFilled checks if the taker order is filled.
func (m *Match) TakerIsFilled() bool {
	return m.Taker.Remaining() == 0
}
