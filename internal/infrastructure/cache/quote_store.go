package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/faiyaz92/pay-roll-sub001/internal/domain/model"
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/port"
)

const keyPrefix = "fleet-finance:prepayment-quote:"

// QuoteStore implements port.QuoteStore on Redis. Quotes expire with the
// key TTL.
type QuoteStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewQuoteStore(client redis.Cmdable, ttl time.Duration) *QuoteStore {
	return &QuoteStore{client: client, ttl: ttl}
}

type storedQuote struct {
	CreatedAt             time.Time       `json:"created_at"`
	LoanID                string          `json:"loan_id"`
	Amount                decimal.Decimal `json:"amount"`
	CurrentOutstanding    decimal.Decimal `json:"current_outstanding"`
	NewOutstanding        decimal.Decimal `json:"new_outstanding"`
	InterestSavings       decimal.Decimal `json:"interest_savings"`
	CurrentTenureMonths   int             `json:"current_tenure_months"`
	NewTenureMonths       int             `json:"new_tenure_months"`
	TenureReductionMonths int             `json:"tenure_reduction_months"`
	LoanVersion           int             `json:"loan_version"`
}

func (s *QuoteStore) Put(ctx context.Context, q port.PrepaymentQuote) error {
	payload, err := json.Marshal(storedQuote{
		CreatedAt:             q.CreatedAt,
		LoanID:                q.LoanID,
		Amount:                q.Result.Amount,
		CurrentOutstanding:    q.Result.CurrentOutstanding,
		NewOutstanding:        q.Result.NewOutstanding,
		InterestSavings:       q.Result.InterestSavings,
		CurrentTenureMonths:   q.Result.CurrentTenureMonths,
		NewTenureMonths:       q.Result.NewTenureMonths,
		TenureReductionMonths: q.Result.TenureReductionMonths,
		LoanVersion:           q.LoanVersion,
	})
	if err != nil {
		return fmt.Errorf("marshal quote: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+q.ID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("store quote %s: %w", q.ID, err)
	}
	return nil
}

func (s *QuoteStore) Get(ctx context.Context, id string) (port.PrepaymentQuote, error) {
	raw, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return port.PrepaymentQuote{}, fmt.Errorf("quote %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return port.PrepaymentQuote{}, fmt.Errorf("load quote %s: %w", id, err)
	}

	var sq storedQuote
	if err := json.Unmarshal(raw, &sq); err != nil {
		return port.PrepaymentQuote{}, fmt.Errorf("decode quote %s: %w", id, err)
	}
	return port.PrepaymentQuote{
		CreatedAt:   sq.CreatedAt,
		ID:          id,
		LoanID:      sq.LoanID,
		LoanVersion: sq.LoanVersion,
		Result: model.PrepaymentResult{
			Amount:                sq.Amount,
			CurrentOutstanding:    sq.CurrentOutstanding,
			NewOutstanding:        sq.NewOutstanding,
			InterestSavings:       sq.InterestSavings,
			CurrentTenureMonths:   sq.CurrentTenureMonths,
			NewTenureMonths:       sq.NewTenureMonths,
			TenureReductionMonths: sq.TenureReductionMonths,
		},
	}, nil
}

func (s *QuoteStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete quote %s: %w", id, err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (s *QuoteStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
