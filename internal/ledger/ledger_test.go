package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cdez-cactus-os/KristPay2/internal/krist"
)

func TestCreateAccountFresh(t *testing.T) {
	l := New(NewMemoryStore(), &SequentialWalletFactory{})

	owner := uuid.NewString()
	acct, err := l.CreateAccount(owner)
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	if acct.Owner() != owner {
		t.Fatalf("expected owner %s, got %s", owner, acct.Owner())
	}
	if acct.Balance() != 0 {
		t.Fatalf("expected zero balance, got %d", acct.Balance())
	}
	if acct.DepositWallet().Address == "" {
		t.Fatal("expected a deposit wallet address")
	}
	if acct.WelfareAmount() != WelfareAmountUnset {
		t.Fatalf("expected welfare amount sentinel, got %d", acct.WelfareAmount())
	}
	if !acct.Dirty() {
		t.Fatal("fresh account should be dirty until saved")
	}

	if _, err := l.CreateAccount(owner); !errors.Is(err, ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
}

func TestLookup(t *testing.T) {
	l := New(NewMemoryStore(), &SequentialWalletFactory{})

	owner := uuid.NewString()
	created, err := l.CreateAccount(owner)
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	found, err := l.Lookup(owner)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !found.Equal(created) {
		t.Fatal("lookup returned a different account")
	}

	if _, err := l.Lookup(uuid.NewString()); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestTotalDistributed(t *testing.T) {
	l := New(NewMemoryStore(), &SequentialWalletFactory{})

	a, _ := l.CreateAccount(uuid.NewString())
	b, _ := l.CreateAccount(uuid.NewString())
	c, _ := l.CreateAccount(uuid.NewString())

	a.SetBalance(100)
	b.SetBalance(250)
	c.SetBalance(0)

	if total := l.TotalDistributed(); total != 350 {
		t.Fatalf("expected distributed total 350, got %d", total)
	}

	b.SetBalance(300)
	if total := l.TotalDistributed(); total != 400 {
		t.Fatalf("expected recomputed total 400, got %d", total)
	}
}

func TestSaveClearsDirty(t *testing.T) {
	store := NewMemoryStore()
	l := New(store, &SequentialWalletFactory{})

	acct, _ := l.CreateAccount(uuid.NewString())
	acct.SetBalance(42)

	if err := l.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}

	if acct.Dirty() {
		t.Fatal("expected dirty flag cleared after save")
	}
	if store.Saves() != 1 {
		t.Fatalf("expected one save, got %d", store.Saves())
	}

	records, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 1 || records[0].Balance != 42 {
		t.Fatalf("unexpected persisted records: %+v", records)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	src := New(store, &SequentialWalletFactory{})
	owner := uuid.NewString()
	acct, _ := src.CreateAccount(owner)
	acct.SetBalance(1_200)
	acct.SetUnseenDeposit(30)
	acct.SetUnseenTransfer(15)
	acct.SetWelfareAmount(75)
	if err := src.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}

	dst := New(store, &SequentialWalletFactory{})
	if err := dst.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	loaded, err := dst.Lookup(owner)
	if err != nil {
		t.Fatalf("lookup after load: %v", err)
	}
	if loaded.Balance() != 1_200 {
		t.Fatalf("expected balance 1200, got %d", loaded.Balance())
	}
	if loaded.UnseenDeposit() != 30 || loaded.UnseenTransfer() != 15 {
		t.Fatalf("unseen counters lost: %d/%d", loaded.UnseenDeposit(), loaded.UnseenTransfer())
	}
	if loaded.WelfareAmount() != 75 {
		t.Fatalf("welfare amount lost: %d", loaded.WelfareAmount())
	}
	if loaded.DepositWallet() != acct.DepositWallet() {
		t.Fatal("deposit wallet changed across reload")
	}
}

func TestReconstructAccount(t *testing.T) {
	l := New(NewMemoryStore(), &SequentialWalletFactory{})

	owner := uuid.NewString()
	paid := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	wallet := krist.Wallet{Address: "krestored0", Password: "pw"}

	acct := l.ReconstructAccount(owner, wallet, 500, 10, 20, 3, paid, WelfareAmountUnset)

	if acct.Balance() != 500 || acct.WelfareCounter() != 3 {
		t.Fatalf("unexpected reconstructed state: %d/%d", acct.Balance(), acct.WelfareCounter())
	}
	if !acct.WelfareLastPayment().Equal(paid) {
		t.Fatalf("expected last payment %v, got %v", paid, acct.WelfareLastPayment())
	}
	if acct.Dirty() {
		t.Fatal("reconstructed account should start clean")
	}

	found, err := l.Lookup(owner)
	if err != nil || !found.Equal(acct) {
		t.Fatalf("reconstructed account not registered: %v", err)
	}
}

func TestIncrementWelfareCounter(t *testing.T) {
	l := New(NewMemoryStore(), &SequentialWalletFactory{})
	acct, _ := l.CreateAccount(uuid.NewString())

	before := time.Now().UTC()
	acct.IncrementWelfareCounter()
	acct.IncrementWelfareCounter()

	if acct.WelfareCounter() != 2 {
		t.Fatalf("expected counter 2, got %d", acct.WelfareCounter())
	}
	if acct.WelfareLastPayment().Before(before) {
		t.Fatal("expected last payment stamped with current time")
	}
}
