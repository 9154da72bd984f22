package welfare

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cdez-cactus-os/KristPay2/internal/economy"
	"github.com/cdez-cactus-os/KristPay2/internal/ledger"
)

// ErrNotDue indicates the account already received welfare within the
// configured interval.
var ErrNotDue = errors.New("welfare payment not due")

// Service pays periodic welfare into accounts through the transaction engine.
// Payments are plain deposits, so an exhausted reserve rejects them like any
// other issuance.
type Service struct {
	engine        *economy.Engine
	defaultAmount int64
	interval      time.Duration
	logger        *slog.Logger
}

// NewService builds a welfare service. defaultAmount applies to accounts that
// have not overridden their welfare amount; interval is the minimum time
// between two payments to the same account.
func NewService(engine *economy.Engine, defaultAmount int64, interval time.Duration, logger *slog.Logger) *Service {
	return &Service{engine: engine, defaultAmount: defaultAmount, interval: interval, logger: logger}
}

// Amount returns the welfare payment for acct, resolving the unset sentinel
// to the configured default.
func (s *Service) Amount(acct *ledger.Account) int64 {
	if amount := acct.WelfareAmount(); amount != ledger.WelfareAmountUnset {
		return amount
	}
	return s.defaultAmount
}

// Pay deposits one welfare payment into acct, bumping its welfare bookkeeping
// on success. Returns ErrNotDue when the interval has not elapsed.
func (s *Service) Pay(ctx context.Context, acct *ledger.Account) (economy.Result, error) {
	if s.interval > 0 && time.Since(acct.WelfareLastPayment()) < s.interval {
		return economy.Result{}, ErrNotDue
	}

	res, err := s.engine.Deposit(ctx, acct, s.Amount(acct))
	if err != nil {
		return res, err
	}

	if res.Success() {
		acct.IncrementWelfareCounter()
		acct.SetUnseenDeposit(acct.UnseenDeposit() + res.Amount)
		if err := s.engine.Ledger().Save(ctx); err != nil {
			return res, err
		}
	}
	return res, nil
}

// PayAll sweeps every account, paying those that are due. Accounts the
// reserve cannot fund are skipped and logged, not treated as errors.
func (s *Service) PayAll(ctx context.Context) (int, error) {
	paid := 0
	for _, acct := range s.engine.Ledger().Accounts() {
		res, err := s.Pay(ctx, acct)
		if errors.Is(err, ErrNotDue) {
			continue
		}
		if err != nil {
			return paid, err
		}
		if !res.Success() {
			if s.logger != nil {
				s.logger.Warn("welfare payment rejected", "owner", acct.Owner(), "reason", res.Reason)
			}
			continue
		}
		paid++
	}
	return paid, nil
}
