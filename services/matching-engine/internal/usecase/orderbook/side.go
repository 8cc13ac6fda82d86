package orderbook

import (
	"github.com/google/btree"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/quant"
	orderbookv1 "github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/domain/orderbook/v1"
)

const btreeDegree = 32

// bookSide keeps the price levels of one side ordered by matching priority,
// so Min is always the best level.
type bookSide struct {
	side   orderbookv1.Side
	levels *btree.BTreeG[*orderbookv1.Limit]
}

func newBookSide(side orderbookv1.Side) *bookSide {
	less := func(a, b *orderbookv1.Limit) bool { return a.Price < b.Price }
	if side == orderbookv1.SideBuy {
		less = func(a, b *orderbookv1.Limit) bool { return a.Price > b.Price }
	}

	return &bookSide{
		side:   side,
		levels: btree.NewG(btreeDegree, less),
	}
}

func (s *bookSide) get(price quant.Price) (*orderbookv1.Limit, bool) {
	return s.levels.Get(&orderbookv1.Limit{Price: price})
}

func (s *bookSide) getOrCreate(price quant.Price) *orderbookv1.Limit {
	if limit, ok := s.get(price); ok {
		return limit
	}
	limit := orderbookv1.NewLimit(price)
	s.levels.ReplaceOrInsert(limit)
	return limit
}

func (s *bookSide) delete(price quant.Price) {
	s.levels.Delete(&orderbookv1.Limit{Price: price})
}

func (s *bookSide) best() (*orderbookv1.Limit, bool) {
	return s.levels.Min()
}

func (s *bookSide) len() int {
	return s.levels.Len()
}

func (s *bookSide) clear() {
	s.levels.Clear(false)
}
