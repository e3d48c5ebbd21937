package sdk

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
	entities "github.com/whiteelite/launchpad/internal/domain/entities"
	"github.com/whiteelite/launchpad/internal/infrastructure/blockchain/solana/mappers"
	"github.com/whiteelite/launchpad/internal/infrastructure/blockchain/solana/models"
)

// NewKeypair generates a fresh ed25519 keypair. Issuance calls use it
// for the ephemeral mint signer; the private half is never persisted.
func NewKeypair() entities.Account {
	account := types.NewAccount()

	return mappers.FromAccount(models.Account{
		PrivateKey: base58.Encode(account.PrivateKey),
		PublicKey:  base58.Encode(account.PrivateKey[32:]),
	})
}

// SigningAccount decodes a base58 keypair entity back into an SDK
// account usable for signing.
func SigningAccount(acc entities.Account) (types.Account, error) {
	model := mappers.ToAccount(acc)
	priv, err := base58.Decode(model.PrivateKey)
	if err != nil {
		return types.Account{}, err
	}
	if len(priv) != 64 {
		return types.Account{}, fmt.Errorf("invalid private key length: expected 64 bytes, got %d", len(priv))
	}
	return types.AccountFromBytes(priv)
}
