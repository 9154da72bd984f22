package economy

import (
	"context"
	"sync"

	"github.com/cdez-cactus-os/KristPay2/internal/krist"
	"github.com/cdez-cactus-os/KristPay2/internal/ledger"
)

// Engine applies balance transactions against ledger accounts. It is the only
// component allowed to move balances: it enforces non-negativity, checks
// issuance against the unallocated reserve, and triggers persistence after
// every committed mutation.
//
// One engine-wide mutex serializes every mutating operation so the
// read-check-write sequence, including the ledger-wide distributed total read,
// is atomic. Two concurrent deposits can therefore never jointly overdraw the
// reserve.
type Engine struct {
	mu sync.Mutex

	ledger          *ledger.Ledger
	reserve         krist.ReserveOracle
	startingBalance int64
}

// NewEngine builds an engine over the ledger and reserve oracle.
// startingBalance is the default balance a reset restores.
func NewEngine(l *ledger.Ledger, reserve krist.ReserveOracle, startingBalance int64) *Engine {
	return &Engine{ledger: l, reserve: reserve, startingBalance: startingBalance}
}

// Ledger returns the ledger the engine operates on.
func (e *Engine) Ledger() *ledger.Ledger {
	return e.ledger
}

// SetBalance sets the account to newAmount, funding any net increase from the
// reserve. The returned error is non-nil only for infrastructure failures
// (reserve lookup, persistence); domain outcomes are carried by the Result.
func (e *Engine) SetBalance(ctx context.Context, acct *ledger.Account, newAmount int64) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setBalance(ctx, acct, newAmount)
}

// setBalance is the single authoritative balance mutation. Callers hold e.mu.
func (e *Engine) setBalance(ctx context.Context, acct *ledger.Account, newAmount int64) (Result, error) {
	if newAmount < 0 {
		return Result{Account: acct, Kind: KindFailed, Op: OpWithdraw, Reason: ReasonNegativeBalance}, nil
	}

	delta := acct.Balance() - newAmount

	switch {
	case delta < 0:
		// Net increase: new issuance, check the reserve can fund it. The
		// distributed total is read before the mutation.
		increase := -delta

		masterBalance, err := e.reserve.ReserveBalance(ctx)
		if err != nil {
			return Result{Account: acct, Kind: KindFailed, Op: OpDeposit, Reason: "reserve lookup failed"}, err
		}
		available := masterBalance - e.ledger.TotalDistributed()

		if increase > available {
			return Result{Account: acct, Kind: KindFailed, Op: OpDeposit, Reason: ReasonReserveCantFund}, nil
		}

		acct.SetBalance(newAmount)
		if err := e.ledger.Save(ctx); err != nil {
			return Result{}, err
		}
		return Result{Account: acct, Amount: increase, Kind: KindSuccess, Op: OpDeposit}, nil

	case delta > 0:
		acct.SetBalance(newAmount)
		if err := e.ledger.Save(ctx); err != nil {
			return Result{}, err
		}
		return Result{Account: acct, Amount: delta, Kind: KindSuccess, Op: OpWithdraw}, nil

	default:
		// No change, nothing to persist.
		return Result{Account: acct, Kind: KindSuccess, Op: OpWithdraw}, nil
	}
}

// Deposit credits amount to the account, subject to the reserve check.
func (e *Engine) Deposit(ctx context.Context, acct *ledger.Account, amount int64) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setBalance(ctx, acct, acct.Balance()+amount)
}

// Withdraw debits amount from the account, failing fast when the balance
// cannot cover it. The pre-check avoids a reserve lookup on the failure path.
func (e *Engine) Withdraw(ctx context.Context, acct *ledger.Account, amount int64) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	newBalance := acct.Balance() - amount
	if newBalance < 0 {
		return Result{Account: acct, Amount: amount, Kind: KindAccountNoFunds, Op: OpWithdraw, Reason: ReasonInsufficientFund}, nil
	}
	return e.setBalance(ctx, acct, newBalance)
}

// Reset restores the account to the configured starting balance.
func (e *Engine) Reset(ctx context.Context, acct *ledger.Account) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setBalance(ctx, acct, e.startingBalance)
}

// Transfer moves amount from src to dst atomically. Transfers conserve the
// distributed total, so the reserve is never consulted here.
func (e *Engine) Transfer(ctx context.Context, src, dst *ledger.Account, amount int64) (TransferResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if dst == nil {
		return TransferResult{Source: src, Amount: amount, Kind: KindFailed, Reason: ReasonNoRecipient}, nil
	}
	if amount < 0 {
		return TransferResult{Source: src, Destination: dst, Amount: amount, Kind: KindFailed, Reason: ReasonNegativeAmount}, nil
	}
	if src.Balance()-amount < 0 {
		return TransferResult{Source: src, Destination: dst, Amount: amount, Kind: KindAccountNoFunds, Reason: ReasonInsufficientFund}, nil
	}

	src.SetBalance(src.Balance() - amount)
	dst.SetBalance(dst.Balance() + amount)

	if err := e.ledger.Save(ctx); err != nil {
		return TransferResult{}, err
	}

	return TransferResult{Source: src, Destination: dst, Amount: amount, Kind: KindSuccess}, nil
}
