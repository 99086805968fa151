package contracts

import "context"

// SignalSource produces the weekly Signal Records of a portfolio
// ⭐ SSOT: the only boundary between the data feed and the scoring core
type SignalSource interface {
	Name() string
	Load(ctx context.Context) ([]SignalRecord, error)
}
