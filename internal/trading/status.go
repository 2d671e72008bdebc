package trading

import (
	"context"
	"time"

	"quant_trader/internal/models"

	"github.com/shopspring/decimal"
)

// StatusSource looks up the execution state of a trade. A real execution
// backend replaces MockStatusSource without changing the HTTP contract.
type StatusSource interface {
	TradeStatus(ctx context.Context, tradeID string) (*models.TradeStatus, error)
}

// MockStatusSource reports every trade as completed with a fixed fill.
type MockStatusSource struct {
	FilledAmount decimal.Decimal
	FilledPrice  decimal.Decimal
	Now          func() time.Time
}

func NewMockStatusSource() *MockStatusSource {
	return &MockStatusSource{
		FilledAmount: decimal.NewFromInt(1000),
		FilledPrice:  decimal.RequireFromString("100.50"),
		Now:          func() time.Time { return time.Now().UTC() },
	}
}

func (m *MockStatusSource) TradeStatus(ctx context.Context, tradeID string) (*models.TradeStatus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &models.TradeStatus{
		Status:          "success",
		TradeID:         tradeID,
		ExecutionStatus: "completed",
		FilledAmount:    m.FilledAmount,
		FilledPrice:     m.FilledPrice,
		Timestamp:       m.Now(),
	}, nil
}
