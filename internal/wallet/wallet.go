// Package wallet checks that an agent's wallet address is usable before the
// agent is registered.
package wallet

import (
	"context"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// Validator reports whether an address is well formed for the target chain.
// A non-nil error means the check itself could not be completed.
type Validator interface {
	IsValid(ctx context.Context, address string) (bool, error)
}

// ValidatorFunc adapts a plain function to Validator.
type ValidatorFunc func(ctx context.Context, address string) (bool, error)

func (f ValidatorFunc) IsValid(ctx context.Context, address string) (bool, error) {
	return f(ctx, address)
}

// publicKeyLen is the size of an ed25519 public key, which is what a Solana
// address encodes.
const publicKeyLen = 32

// SolanaValidator accepts base58-encoded 32 byte public keys. It performs no
// RPC lookups; existence on chain is not checked.
type SolanaValidator struct{}

func NewSolanaValidator() *SolanaValidator {
	return &SolanaValidator{}
}

func (v *SolanaValidator) IsValid(ctx context.Context, address string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	address = strings.TrimSpace(address)
	// Base58 of 32 bytes is 32..44 characters.
	if len(address) < 32 || len(address) > 44 {
		return false, nil
	}
	raw, err := base58.Decode(address)
	if err != nil {
		return false, nil
	}
	return len(raw) == publicKeyLen, nil
}

// Describe is used in log lines; addresses are long so only the edges are kept.
func Describe(address string) string {
	if len(address) <= 10 {
		return address
	}
	return fmt.Sprintf("%s…%s", address[:4], address[len(address)-4:])
}
