package ledger

import (
	"sync"
	"time"

	"github.com/cdez-cactus-os/KristPay2/internal/krist"
)

// WelfareAmountUnset is the sentinel meaning "use the configured default".
const WelfareAmountUnset = -1

// Account is the balance record for one owner. It is a plain state holder:
// setters apply the value and mark the account dirty, validation lives in the
// transaction engine.
type Account struct {
	mu sync.Mutex

	owner         string
	depositWallet krist.Wallet

	balance        int64
	unseenDeposit  int64
	unseenTransfer int64

	welfareCounter     int64
	welfareLastPayment time.Time
	welfareAmount      int64

	dirty bool
}

func newAccount(owner string, wallet krist.Wallet) *Account {
	return &Account{
		owner:         owner,
		depositWallet: wallet,
		welfareAmount: WelfareAmountUnset,
		dirty:         true,
	}
}

// Owner returns the account's unique owner identifier.
func (a *Account) Owner() string {
	return a.owner
}

// DepositWallet returns the wallet receiving external deposits for this
// account. Immutable after creation.
func (a *Account) DepositWallet() krist.Wallet {
	return a.depositWallet
}

// Equal reports whether both accounts belong to the same owner.
func (a *Account) Equal(other *Account) bool {
	return other != nil && a.owner == other.owner
}

// Balance returns the current balance.
func (a *Account) Balance() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// SetBalance applies a new balance and marks the account dirty. Callers are
// responsible for validation; the engine is the only component that should
// move balances.
func (a *Account) SetBalance(balance int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.balance = balance
	a.dirty = true
}

// UnseenDeposit returns the deposit amount not yet shown to the owner.
func (a *Account) UnseenDeposit() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.unseenDeposit
}

// SetUnseenDeposit records the deposit amount not yet shown to the owner.
func (a *Account) SetUnseenDeposit(amount int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.unseenDeposit = amount
	a.dirty = true
}

// UnseenTransfer returns the transfer amount not yet shown to the owner.
func (a *Account) UnseenTransfer() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.unseenTransfer
}

// SetUnseenTransfer records the transfer amount not yet shown to the owner.
func (a *Account) SetUnseenTransfer(amount int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.unseenTransfer = amount
	a.dirty = true
}

// WelfareCounter returns how many welfare payments this account received.
func (a *Account) WelfareCounter() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.welfareCounter
}

// WelfareLastPayment returns when the account last received welfare.
func (a *Account) WelfareLastPayment() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.welfareLastPayment
}

// IncrementWelfareCounter bumps the welfare counter and stamps the payment
// time in one step.
func (a *Account) IncrementWelfareCounter() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.welfareCounter++
	a.welfareLastPayment = time.Now().UTC()
	a.dirty = true
}

// WelfareAmount returns the per-account welfare override, or
// WelfareAmountUnset when the configured default applies.
func (a *Account) WelfareAmount() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.welfareAmount
}

// SetWelfareAmount overrides the welfare payment for this account.
func (a *Account) SetWelfareAmount(amount int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.welfareAmount = amount
	a.dirty = true
}

// Dirty reports whether the account holds unsaved mutations.
func (a *Account) Dirty() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dirty
}

func (a *Account) clearDirty() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dirty = false
}

// snapshot captures the persistable state of the account.
func (a *Account) snapshot() Record {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Record{
		Owner:              a.owner,
		Address:            a.depositWallet.Address,
		Password:           a.depositWallet.Password,
		Balance:            a.balance,
		UnseenDeposit:      a.unseenDeposit,
		UnseenTransfer:     a.unseenTransfer,
		WelfareCounter:     a.welfareCounter,
		WelfareLastPayment: a.welfareLastPayment,
		WelfareAmount:      a.welfareAmount,
	}
}
