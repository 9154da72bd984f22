package economy

import "github.com/cdez-cactus-os/KristPay2/internal/ledger"

// ResultKind classifies the outcome of a transaction.
type ResultKind string

const (
	// KindSuccess indicates the transaction committed.
	KindSuccess ResultKind = "success"
	// KindAccountNoFunds indicates the local balance cannot cover the amount.
	KindAccountNoFunds ResultKind = "account_no_funds"
	// KindFailed indicates a rejected transaction (invalid amount, unknown
	// recipient, or the reserve cannot fund the issuance).
	KindFailed ResultKind = "failed"
)

// Operation names what a transaction did.
type Operation string

const (
	// OpDeposit is a balance increase.
	OpDeposit Operation = "deposit"
	// OpWithdraw is a balance decrease.
	OpWithdraw Operation = "withdraw"
	// OpTransfer moves balance between two accounts.
	OpTransfer Operation = "transfer"
)

// Failure reasons reported to callers.
const (
	ReasonReserveCantFund  = "master wallet can't fund this"
	ReasonInsufficientFund = "insufficient funds"
	ReasonNoRecipient      = "recipient does not have an account"
	ReasonNegativeAmount   = "amount is less than zero"
	ReasonNegativeBalance  = "balance may not be negative"
)

// Result is the immutable outcome of a single-account transaction.
type Result struct {
	Account *ledger.Account
	Amount  int64
	Kind    ResultKind
	Op      Operation
	Reason  string
}

// Success reports whether the transaction committed.
func (r Result) Success() bool {
	return r.Kind == KindSuccess
}

// TransferResult is the immutable outcome of a two-account transfer.
type TransferResult struct {
	Source      *ledger.Account
	Destination *ledger.Account
	Amount      int64
	Kind        ResultKind
	Reason      string
}

// Success reports whether the transfer committed.
func (r TransferResult) Success() bool {
	return r.Kind == KindSuccess
}
