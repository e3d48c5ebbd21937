package entities

import (
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/whiteelite/launchpad/pkg/shared/domain/entities"
)

type (
	PrivateKey string
	PublicKey  string
	Amount     decimal.Decimal
)

// Account is a base58-encoded ed25519 keypair as handed around between
// the keypair generator, the local wallet and tests. Ephemeral mint
// keypairs are represented the same way but never leave the issuance
// call that generated them.
type Account struct {
	entities.Entity

	PrivateKey PrivateKey
	PublicKey  PublicKey
}

// TokenDecimals is the fixed precision for launched tokens. SOL shares
// the same precision, so a single scale covers both flows.
const TokenDecimals = 9

// LamportsPerSOL is 10^TokenDecimals.
const LamportsPerSOL uint64 = 1_000_000_000

// TokenIntent is the immutable issuance input, built once at submit
// time from the form fields.
type TokenIntent struct {
	entities.Entity

	Name   string
	Symbol string
	URI    string
	Supply string // decimal string, scaled by 10^TokenDecimals
}

// TransferIntent is the immutable transfer input.
type TransferIntent struct {
	entities.Entity

	Recipient string // base58 address, parsed before any instruction is built
	Amount    string // decimal SOL string, scaled by 10^TokenDecimals
}

// TokenMetadata is the descriptive record written into a new mint.
// It must be fully populated before its encoded size is computed,
// since the size feeds the rent calculation.
type TokenMetadata struct {
	entities.Entity

	Name             string
	Symbol           string
	URI              string
	AdditionalFields [][2]string
}

// ToBaseUnits scales a user-entered decimal string by 10^decimals,
// truncating toward zero. Fractions below one base unit are dropped;
// callers needing exactness must pre-validate input precision.
func ToBaseUnits(s string, decimals int32) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	bi := d.Shift(decimals).Truncate(0).BigInt()
	if bi.Sign() < 0 {
		return 0, ErrNegativeAmount
	}
	if !bi.IsUint64() {
		return 0, ErrAmountOverflow
	}
	return bi.Uint64(), nil
}

// FromBaseUnits renders a base-unit amount as a decimal at the given
// precision, for notices and outcome events.
func FromBaseUnits(units uint64, decimals int32) Amount {
	return Amount(decimal.NewFromBigInt(new(big.Int).SetUint64(units), -decimals))
}

// String renders the amount in plain decimal notation.
func (a Amount) String() string { return decimal.Decimal(a).String() }

type amountError string

func (e amountError) Error() string { return string(e) }

const (
	ErrNegativeAmount amountError = "amount is negative"
	ErrAmountOverflow amountError = "amount exceeds uint64 base-unit range"
)

// LaunchEvent is the outcome record published after a token issuance
// attempt, successful or not.
type LaunchEvent struct {
	entities.Entity

	AttemptID uuid.UUID `json:"attemptId"`
	Mint      PublicKey `json:"mint,omitempty"`
	TokenAcct PublicKey `json:"tokenAccount,omitempty"`
	Name      string    `json:"name"`
	Symbol    string    `json:"symbol"`
	Supply    string    `json:"supply"`
	Signature string    `json:"signature,omitempty"`
	Error     string    `json:"error,omitempty"`
	At        time.Time `json:"at"`
}

// TransferEvent is the outcome record published after a SOL transfer
// attempt.
type TransferEvent struct {
	entities.Entity

	AttemptID uuid.UUID `json:"attemptId"`
	From      PublicKey `json:"from,omitempty"`
	To        PublicKey `json:"to,omitempty"`
	Lamports  uint64    `json:"lamports"`
	Signature string    `json:"signature,omitempty"`
	Error     string    `json:"error,omitempty"`
	At        time.Time `json:"at"`
}
