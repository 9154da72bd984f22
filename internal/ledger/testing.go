package ledger

import (
	"fmt"

	"github.com/cdez-cactus-os/KristPay2/internal/krist"
)

// SequentialWalletFactory hands out predictable wallets so tests do not pay
// for key stretching.
type SequentialWalletFactory struct {
	n int
}

// NewWallet returns the next deterministic wallet.
func (f *SequentialWalletFactory) NewWallet() (krist.Wallet, error) {
	f.n++
	return krist.Wallet{
		Address:  fmt.Sprintf("ktest%05d", f.n),
		Password: fmt.Sprintf("password-%d", f.n),
	}, nil
}
