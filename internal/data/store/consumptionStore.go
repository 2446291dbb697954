package store

import (
	"context"

	"github.com/fgiraldo/ragapi/internal/domain/ragModel"
)

// ConsumptionStore keeps the recent consumption records of answered
// questions. Record failures never fail the question that produced them.
type ConsumptionStore interface {
	Record(ctx context.Context, rec ragModel.ConsumptionRecord) error
	// Recent returns up to n records, newest first.
	Recent(ctx context.Context, n int) ([]ragModel.ConsumptionRecord, error)
}

// recentConsumptionCap bounds how much history the stores retain.
const recentConsumptionCap = 100
