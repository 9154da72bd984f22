package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cdez-cactus-os/KristPay2/internal/krist"
)

var (
	// ErrAccountNotFound indicates no account exists for the owner.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountExists indicates an account was already created for the owner.
	ErrAccountExists = errors.New("account already exists")
)

// Ledger owns the authoritative mapping from owner identifier to account and
// triggers persistence after committed mutations.
type Ledger struct {
	mu       sync.RWMutex
	accounts map[string]*Account

	store   Store
	wallets krist.WalletFactory
}

// New builds an empty ledger persisting through store and creating deposit
// wallets with wallets.
func New(store Store, wallets krist.WalletFactory) *Ledger {
	return &Ledger{
		accounts: make(map[string]*Account),
		store:    store,
		wallets:  wallets,
	}
}

// CreateAccount provisions a fresh zero-balance account with a new deposit
// wallet for owner.
func (l *Ledger) CreateAccount(owner string) (*Account, error) {
	wallet, err := l.wallets.NewWallet()
	if err != nil {
		return nil, fmt.Errorf("create deposit wallet: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.accounts[owner]; exists {
		return nil, ErrAccountExists
	}

	acct := newAccount(owner, wallet)
	l.accounts[owner] = acct
	return acct, nil
}

// ReconstructAccount rebuilds an account from persisted state and registers
// it. Used by the loading collaborator; the account starts clean.
func (l *Ledger) ReconstructAccount(owner string, wallet krist.Wallet, balance, unseenDeposit, unseenTransfer, welfareCounter int64, welfareLastPayment time.Time, welfareAmount int64) *Account {
	acct := &Account{
		owner:              owner,
		depositWallet:      wallet,
		balance:            balance,
		unseenDeposit:      unseenDeposit,
		unseenTransfer:     unseenTransfer,
		welfareCounter:     welfareCounter,
		welfareLastPayment: welfareLastPayment,
		welfareAmount:      welfareAmount,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts[owner] = acct
	return acct
}

// Lookup returns the account for owner.
func (l *Ledger) Lookup(owner string) (*Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	acct, ok := l.accounts[owner]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return acct, nil
}

// Accounts returns a snapshot slice of every account.
func (l *Ledger) Accounts() []*Account {
	l.mu.RLock()
	defer l.mu.RUnlock()

	accounts := make([]*Account, 0, len(l.accounts))
	for _, acct := range l.accounts {
		accounts = append(accounts, acct)
	}
	return accounts
}

// TotalDistributed sums every account balance. Recomputed fresh on each call
// so it always reflects the latest committed mutation.
func (l *Ledger) TotalDistributed() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var total int64
	for _, acct := range l.accounts {
		total += acct.Balance()
	}
	return total
}

// Save persists the current account set through the store. It is synchronous
// and idempotent; a failure here is fatal to the calling operation.
func (l *Ledger) Save(ctx context.Context) error {
	l.mu.RLock()
	records := make([]Record, 0, len(l.accounts))
	accounts := make([]*Account, 0, len(l.accounts))
	for _, acct := range l.accounts {
		records = append(records, acct.snapshot())
		accounts = append(accounts, acct)
	}
	l.mu.RUnlock()

	if err := l.store.SaveAll(ctx, records); err != nil {
		return fmt.Errorf("save accounts: %w", err)
	}

	for _, acct := range accounts {
		acct.clearDirty()
	}
	return nil
}

// Load replaces the account set with the store's persisted records.
func (l *Ledger) Load(ctx context.Context) error {
	records, err := l.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.accounts = make(map[string]*Account, len(records))
	for _, rec := range records {
		l.accounts[rec.Owner] = &Account{
			owner:              rec.Owner,
			depositWallet:      krist.Wallet{Address: rec.Address, Password: rec.Password},
			balance:            rec.Balance,
			unseenDeposit:      rec.UnseenDeposit,
			unseenTransfer:     rec.UnseenTransfer,
			welfareCounter:     rec.WelfareCounter,
			welfareLastPayment: rec.WelfareLastPayment,
			welfareAmount:      rec.WelfareAmount,
		}
	}
	return nil
}
