package krist

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
)

// Wallet holds the credentials of a deposit wallet. The password is kept so an
// external sweeper can later move received funds to the master wallet.
type Wallet struct {
	Address  string
	Password string
}

// WalletFactory creates deposit wallets. Implemented here and stubbed in tests.
type WalletFactory interface {
	NewWallet() (Wallet, error)
}

// RandomWalletFactory generates wallets from a fresh random password.
type RandomWalletFactory struct{}

// NewWallet creates a wallet with a random password and its derived address.
func (RandomWalletFactory) NewWallet() (Wallet, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return Wallet{}, fmt.Errorf("generate wallet password: %w", err)
	}
	password := hex.EncodeToString(buf)
	return Wallet{Address: AddressFromPassword(password), Password: password}, nil
}

// AddressFromPassword derives the v2 address for a wallet password.
func AddressFromPassword(password string) string {
	return makeV2Address(privateKey(password))
}

// privateKey applies the legacy wallet key-stretching scheme to a password.
func privateKey(password string) string {
	key := sha256Hex("KRISTWALLET" + password)
	for i := 0; i < 9999; i++ {
		key = sha256Hex(key)
	}
	return key + "-000"
}

// makeV2Address implements the node's v2 address derivation: nine protein
// bytes picked from a double-hash chain, mapped into base36 behind the "k"
// prefix.
func makeV2Address(key string) string {
	protein := make([]string, 9)
	stick := sha256Hex(sha256Hex(key))

	for i := 0; i < 9; i++ {
		protein[i] = stick[:2]
		stick = sha256Hex(sha256Hex(stick))
	}

	address := []byte{'k'}
	for i := 0; i < 9; {
		index := hexByte(stick[2*i:2*i+2]) % 9
		if protein[index] == "" {
			stick = sha256Hex(stick)
			continue
		}
		address = append(address, hexToBase36(hexByte(protein[index])))
		protein[index] = ""
		i++
	}
	return string(address)
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func hexByte(s string) int {
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0
	}
	return int(v)
}

// hexToBase36 squeezes a byte into the 36-character address alphabet.
func hexToBase36(input int) byte {
	for i := 6; i <= 251; i += 7 {
		if input <= i {
			if i <= 69 {
				return byte('0' + (i-6)/7)
			}
			return byte('a' + (i-76)/7)
		}
	}
	return 'e'
}
