package processors

import (
	"strings"

	"github.com/username/portfoy/src/models"
)

// LotProcessor replays the transaction ledger through FIFO cost-basis
// matching. It owns no state of its own; every call recomputes from scratch.
type LotProcessor struct{}

func NewLotProcessor() *LotProcessor { return &LotProcessor{} }

// MatchResult is the output of one full replay: the open lot queue per symbol
// (oldest lot first) and the realized PnL accumulated across all sells.
type MatchResult struct {
	Queues      map[string][]models.Lot
	RealizedPnL float64
}

// MatchLots replays transactions, which must be ordered by (date, insertion
// order), and returns the open lots and total realized PnL.
//
// A buy appends a lot at the tail of its symbol's queue. A sell consumes lots
// from the head, realizing (sellPrice - lot.UnitCost) per consumed unit.
// Selling more than the queue holds drops the excess quantity: the queue is
// emptied and no negative lot is ever created. That oversell policy mirrors
// ledgers imported from sources that under-report purchases.
func (p *LotProcessor) MatchLots(txs []models.Transaction) MatchResult {
	return p.matchLots(txs, nil)
}

// RealizedPnLInRange replays the full ledger with identical lot-consumption
// mechanics, but only accumulates realized PnL for sells whose date falls
// within the inclusive [start, end] window. Either bound may be empty for
// unbounded. The window gates PnL recognition only; the queues evolve exactly
// as in an unrestricted run.
func (p *LotProcessor) RealizedPnLInRange(txs []models.Transaction, startDate, endDate string) float64 {
	inRange := func(date string) bool {
		if startDate != "" && date < startDate {
			return false
		}
		if endDate != "" && date > endDate {
			return false
		}
		return true
	}
	return p.matchLots(txs, inRange).RealizedPnL
}

func (p *LotProcessor) matchLots(txs []models.Transaction, recognize func(date string) bool) MatchResult {
	queues := make(map[string][]models.Lot)
	realized := 0.0

	for _, tx := range txs {
		symbol := strings.ToUpper(tx.Symbol)
		queue := queues[symbol]

		if NormalizeTradeSide(tx.Kind) == SideBuy {
			queues[symbol] = append(queue, models.Lot{
				Quantity:  tx.Quantity,
				UnitCost:  tx.Price,
				AssetType: tx.AssetType,
			})
			continue
		}

		counted := recognize == nil || recognize(tx.Date)
		remaining := tx.Quantity
		for remaining > 0 && len(queue) > 0 {
			head := &queue[0]
			if head.Quantity <= remaining {
				if counted {
					realized += (tx.Price - head.UnitCost) * head.Quantity
				}
				remaining -= head.Quantity
				queue = queue[1:]
			} else {
				if counted {
					realized += (tx.Price - head.UnitCost) * remaining
				}
				head.Quantity -= remaining
				remaining = 0
			}
		}
		queues[symbol] = queue
	}

	return MatchResult{Queues: queues, RealizedPnL: realized}
}

// OpenPositions reduces the matcher output to per-symbol totals, excluding
// symbols whose queue is empty or sums to a non-positive quantity.
func (r MatchResult) OpenPositions() map[string]Position {
	positions := make(map[string]Position)
	for symbol, queue := range r.Queues {
		if len(queue) == 0 {
			continue
		}
		var pos Position
		pos.AssetType = queue[0].AssetType
		for _, lot := range queue {
			pos.Quantity += lot.Quantity
			pos.TotalCost += lot.Quantity * lot.UnitCost
		}
		if pos.Quantity <= 0 {
			continue
		}
		positions[symbol] = pos
	}
	return positions
}

// Position is the aggregate of one symbol's open lots.
type Position struct {
	Quantity  float64
	TotalCost float64
	AssetType string
}
