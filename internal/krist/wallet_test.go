package krist

import "testing"

func TestNewWalletShape(t *testing.T) {
	factory := RandomWalletFactory{}

	w, err := factory.NewWallet()
	if err != nil {
		t.Fatalf("new wallet: %v", err)
	}

	if len(w.Password) != 64 {
		t.Fatalf("expected 64 hex chars of password, got %d", len(w.Password))
	}
	if len(w.Address) != 10 || w.Address[0] != 'k' {
		t.Fatalf("unexpected address shape: %q", w.Address)
	}
	for _, r := range w.Address[1:] {
		if (r < '0' || r > '9') && (r < 'a' || r > 'z') {
			t.Fatalf("address %q contains character outside base36 alphabet", w.Address)
		}
	}
}

func TestAddressFromPasswordDeterministic(t *testing.T) {
	a := AddressFromPassword("correct horse battery staple")
	b := AddressFromPassword("correct horse battery staple")
	if a != b {
		t.Fatalf("derivation not deterministic: %q vs %q", a, b)
	}

	other := AddressFromPassword("a different password")
	if a == other {
		t.Fatalf("distinct passwords derived the same address %q", a)
	}
}

func TestNewWalletUnique(t *testing.T) {
	factory := RandomWalletFactory{}
	seen := map[string]bool{}
	for i := 0; i < 8; i++ {
		w, err := factory.NewWallet()
		if err != nil {
			t.Fatalf("new wallet: %v", err)
		}
		if seen[w.Address] {
			t.Fatalf("duplicate address %q", w.Address)
		}
		seen[w.Address] = true
	}
}
