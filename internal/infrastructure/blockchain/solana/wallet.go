package sdk

import (
	"context"
	"crypto/ed25519"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	entities "github.com/whiteelite/launchpad/internal/domain/entities"
	"github.com/whiteelite/launchpad/internal/domain/errs"
)

// Submitter is the one ledger capability a wallet needs to
// sign-and-submit in a single step.
type Submitter interface {
	SubmitRaw(ctx context.Context, raw []byte) (string, error)
}

// LocalWallet is an in-process wallet provider backed by a base58
// keypair. It satisfies the same capability set a browser wallet
// exposes: identity, sign, sign-and-submit.
type LocalWallet struct {
	account   types.Account
	ledger    Submitter
	connected bool
}

// NewLocalWallet builds a connected wallet from a keypair entity.
func NewLocalWallet(acc entities.Account, ledger Submitter) (*LocalWallet, error) {
	signer, err := SigningAccount(acc)
	if err != nil {
		return nil, err
	}
	return &LocalWallet{account: signer, ledger: ledger, connected: true}, nil
}

// DisconnectedWallet returns a wallet with no identity; every
// capability fails with ErrNotConnected.
func DisconnectedWallet() *LocalWallet {
	return &LocalWallet{}
}

func (w *LocalWallet) Identity() (common.PublicKey, error) {
	if !w.connected {
		return common.PublicKey{}, errs.ErrNotConnected
	}
	return w.account.PublicKey, nil
}

// Sign adds the wallet's signature over the envelope as currently
// signed. For issuance envelopes the ephemeral signature must already
// be present.
func (w *LocalWallet) Sign(_ context.Context, env *Envelope) error {
	if !w.connected {
		return errs.ErrNotConnected
	}
	message, err := env.MessageBytes()
	if err != nil {
		return err
	}
	return env.AddSignature(ed25519.Sign(w.account.PrivateKey, message))
}

// SignAndSubmit signs and submits in one step, collapsing the
// FullySigned and Submitted transitions.
func (w *LocalWallet) SignAndSubmit(ctx context.Context, env *Envelope) (string, error) {
	if err := w.Sign(ctx, env); err != nil {
		return "", err
	}
	raw, err := env.Serialize()
	if err != nil {
		return "", err
	}
	handle, err := w.ledger.SubmitRaw(ctx, raw)
	if err != nil {
		return "", err
	}
	if err := env.MarkSubmitted(handle); err != nil {
		return "", err
	}
	return handle, nil
}
