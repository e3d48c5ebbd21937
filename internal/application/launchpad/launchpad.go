// Package launchpad implements the two user flows: issuing a new
// Token-2022 fungible token with on-chain metadata, and transferring
// SOL to another account. It owns ordering: instructions within an
// envelope, signers within an envelope, and the causal order between
// the two issuance envelopes.
package launchpad

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/google/uuid"
	entities "github.com/whiteelite/launchpad/internal/domain/entities"
	"github.com/whiteelite/launchpad/internal/domain/errs"
	"github.com/whiteelite/launchpad/internal/domain/repositories"
	sdk "github.com/whiteelite/launchpad/internal/infrastructure/blockchain/solana"
	"github.com/whiteelite/launchpad/internal/infrastructure/blockchain/solana/models"
)

// Ledger is the consumed slice of the network client.
type Ledger interface {
	MinimumRentExemptBalance(ctx context.Context, size uint64) (uint64, error)
	LatestAnchor(ctx context.Context) (models.Anchor, error)
	SubmitRaw(ctx context.Context, raw []byte) (string, error)
	Confirm(ctx context.Context, handle string, anchor models.Anchor, commitment sdk.Commitment) error
}

// Wallet is the consumed capability set of a wallet provider.
type Wallet interface {
	Identity() (common.PublicKey, error)
	Sign(ctx context.Context, env *sdk.Envelope) error
	SignAndSubmit(ctx context.Context, env *sdk.Envelope) (string, error)
}

type Service struct {
	ledger     Ledger
	wallet     Wallet
	events     repositories.MessageQueueProducer
	commitment sdk.Commitment
}

type Option func(*Service)

// WithEvents attaches an outcome event producer.
func WithEvents(producer repositories.MessageQueueProducer) Option {
	return func(s *Service) { s.events = producer }
}

// WithCommitment overrides the confirmation commitment level.
func WithCommitment(c sdk.Commitment) Option {
	return func(s *Service) { s.commitment = c }
}

func NewService(ledger Ledger, wallet Wallet, opts ...Option) *Service {
	s := &Service{ledger: ledger, wallet: wallet, commitment: sdk.CommitmentConfirmed}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TokenIssuance is the user-visible outcome of a successful issuance.
type TokenIssuance struct {
	Mint            entities.PublicKey
	TokenAccount    entities.PublicKey
	Supply          uint64 // base units
	CreateSignature string
	MintSignature   string
}

// TransferReceipt is the user-visible outcome of a successful
// transfer.
type TransferReceipt struct {
	Recipient entities.PublicKey
	Lamports  uint64
	Signature string
}

// IssueToken creates a new mint at a fresh ephemeral keypair,
// initializes its metadata-pointer extension, the mint itself and its
// metadata record in one atomic envelope, then creates the wallet's
// associated token account and mints the initial supply in a second
// envelope. The second envelope is built only after the first
// confirms; the mint account must exist before the mint-to can
// execute. Each call generates a distinct ephemeral keypair, so
// identical inputs yield distinct mints.
func (s *Service) IssueToken(ctx context.Context, intent entities.TokenIntent) (*TokenIssuance, error) {
	attempt := uuid.New()

	issuance, err := s.issueToken(ctx, intent)
	s.publishLaunch(attempt, intent, issuance, err)
	return issuance, err
}

func (s *Service) issueToken(ctx context.Context, intent entities.TokenIntent) (*TokenIssuance, error) {
	owner, err := s.wallet.Identity()
	if err != nil {
		return nil, err
	}

	supply, err := entities.ToBaseUnits(intent.Supply, entities.TokenDecimals)
	if err != nil {
		return nil, fmt.Errorf("%w: supply %q: %v", errs.ErrInvalidInput, intent.Supply, err)
	}

	// Ephemeral mint signer; exists only for this invocation.
	mintKeypair := sdk.NewKeypair()
	mintSigner, err := sdk.SigningAccount(mintKeypair)
	if err != nil {
		return nil, err
	}
	mint := mintSigner.PublicKey

	meta := entities.TokenMetadata{
		Name:   intent.Name,
		Symbol: intent.Symbol,
		URI:    intent.URI,
	}

	// Rent covers the extended mint plus the metadata TLV entry the
	// metadata program will write; the account itself is allocated at
	// the mint size only.
	space := sdk.MintLen([]sdk.Extension{sdk.ExtensionMetadataPointer})
	rentSize := space + sdk.MetadataLen(meta, mint, owner)
	lamports, err := s.ledger.MinimumRentExemptBalance(ctx, rentSize)
	if err != nil {
		return nil, err
	}

	create := sdk.NewEnvelope(owner, sdk.BuildIssuanceInstructions(owner, mint, meta, lamports, space, entities.TokenDecimals)...)
	anchor, err := s.ledger.LatestAnchor(ctx)
	if err != nil {
		return nil, err
	}
	if err := create.Assemble(anchor); err != nil {
		return nil, err
	}
	// The ephemeral key signs first; the wallet signs over the
	// already partially signed envelope.
	if err := create.PartialSign(mintSigner); err != nil {
		return nil, err
	}
	createSig, err := s.wallet.SignAndSubmit(ctx, create)
	if err != nil {
		return nil, err
	}
	if err := s.resolve(ctx, create, createSig, anchor); err != nil {
		return nil, err
	}

	ata, err := sdk.DeriveAssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, err
	}

	supplyEnv := sdk.NewEnvelope(owner, sdk.BuildMintToInstructions(owner, mint, ata, supply)...)
	supplyAnchor, err := s.ledger.LatestAnchor(ctx)
	if err != nil {
		return nil, err
	}
	if err := supplyEnv.Assemble(supplyAnchor); err != nil {
		return nil, err
	}
	mintSig, err := s.wallet.SignAndSubmit(ctx, supplyEnv)
	if err != nil {
		return nil, err
	}
	if err := s.resolve(ctx, supplyEnv, mintSig, supplyAnchor); err != nil {
		return nil, err
	}

	return &TokenIssuance{
		Mint:            entities.PublicKey(mint.ToBase58()),
		TokenAccount:    entities.PublicKey(ata.ToBase58()),
		Supply:          supply,
		CreateSignature: createSig,
		MintSignature:   mintSig,
	}, nil
}

// SendSOL moves lamports from the wallet to the recipient. A zero
// amount still builds and submits a transfer; only an unparsable
// recipient or amount aborts locally.
func (s *Service) SendSOL(ctx context.Context, intent entities.TransferIntent) (*TransferReceipt, error) {
	attempt := uuid.New()

	receipt, err := s.sendSOL(ctx, intent)
	s.publishTransfer(attempt, intent, receipt, err)
	return receipt, err
}

func (s *Service) sendSOL(ctx context.Context, intent entities.TransferIntent) (*TransferReceipt, error) {
	from, err := s.wallet.Identity()
	if err != nil {
		return nil, err
	}

	to, err := sdk.ParseAddress(intent.Recipient)
	if err != nil {
		return nil, err
	}
	lamports, err := entities.ToBaseUnits(intent.Amount, entities.TokenDecimals)
	if err != nil {
		return nil, fmt.Errorf("%w: amount %q: %v", errs.ErrInvalidInput, intent.Amount, err)
	}

	env := sdk.NewEnvelope(from, sdk.TransferInstruction(from, to, lamports))
	anchor, err := s.ledger.LatestAnchor(ctx)
	if err != nil {
		return nil, err
	}
	if err := env.Assemble(anchor); err != nil {
		return nil, err
	}
	sig, err := s.wallet.SignAndSubmit(ctx, env)
	if err != nil {
		return nil, err
	}
	if err := s.resolve(ctx, env, sig, anchor); err != nil {
		return nil, err
	}

	return &TransferReceipt{
		Recipient: entities.PublicKey(to.ToBase58()),
		Lamports:  lamports,
		Signature: sig,
	}, nil
}

// resolve awaits confirmation and moves the envelope to its terminal
// state. None of the terminal outcomes are retried here: an expired
// envelope needs a full rebuild with a fresh anchor and a rejected
// one is discarded.
func (s *Service) resolve(ctx context.Context, env *sdk.Envelope, handle string, anchor models.Anchor) error {
	err := s.ledger.Confirm(ctx, handle, anchor, s.commitment)
	switch {
	case err == nil:
		return env.Resolve(sdk.StateConfirmed)
	case isProgramError(err):
		_ = env.Resolve(sdk.StateRejected)
		return err
	case isExpired(err):
		_ = env.Resolve(sdk.StateExpired)
		return err
	default:
		return err
	}
}

func isProgramError(err error) bool {
	var pe *errs.ProgramError
	return errors.As(err, &pe)
}

func isExpired(err error) bool {
	return errors.Is(err, errs.ErrExpired)
}

func (s *Service) publishLaunch(attempt uuid.UUID, intent entities.TokenIntent, issuance *TokenIssuance, err error) {
	if s.events == nil {
		return
	}
	event := entities.LaunchEvent{
		AttemptID: attempt,
		Name:      intent.Name,
		Symbol:    intent.Symbol,
		Supply:    intent.Supply,
		At:        time.Now().UTC(),
	}
	if issuance != nil {
		event.Mint = issuance.Mint
		event.TokenAcct = issuance.TokenAccount
		event.Signature = issuance.CreateSignature
	}
	if err != nil {
		event.Error = err.Error()
	}
	s.publish(event)
}

func (s *Service) publishTransfer(attempt uuid.UUID, intent entities.TransferIntent, receipt *TransferReceipt, err error) {
	if s.events == nil {
		return
	}
	event := entities.TransferEvent{
		AttemptID: attempt,
		To:        entities.PublicKey(intent.Recipient),
		At:        time.Now().UTC(),
	}
	if id, idErr := s.wallet.Identity(); idErr == nil {
		event.From = entities.PublicKey(id.ToBase58())
	}
	if receipt != nil {
		event.To = receipt.Recipient
		event.Lamports = receipt.Lamports
		event.Signature = receipt.Signature
	}
	if err != nil {
		event.Error = err.Error()
	}
	s.publish(event)
}

// publish never blocks the flow on a saturated queue.
func (s *Service) publish(event any) {
	select {
	case s.events.ToProduceBuffered() <- event:
	default:
	}
}
