package sdk

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
	"github.com/whiteelite/launchpad/internal/domain/errs"
	"github.com/whiteelite/launchpad/internal/infrastructure/blockchain/solana/models"
)

type Client struct {
	c *client.Client
}

// Network defines Solana cluster
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkDevnet  Network = "devnet"
	NetworkTestnet Network = "testnet"
)

func DefaultRPCURL(network Network) string {
	switch network {
	case NetworkMainnet:
		return "https://api.mainnet-beta.solana.com"
	case NetworkTestnet:
		return "https://api.testnet.solana.com"
	case NetworkDevnet:
		fallthrough
	default:
		return "https://api.devnet.solana.com"
	}
}

func NewClient(rpcURL string) *Client {
	return &Client{c: client.NewClient(rpcURL)}
}

func NewClientForNetwork(network Network) *Client {
	return NewClient(DefaultRPCURL(network))
}

// Commitment is the consensus finality required before a submitted
// envelope counts as confirmed.
type Commitment string

const (
	CommitmentProcessed Commitment = "processed"
	CommitmentConfirmed Commitment = "confirmed"
	CommitmentFinalized Commitment = "finalized"
)

func commitmentRank(c Commitment) int {
	switch c {
	case CommitmentProcessed:
		return 1
	case CommitmentConfirmed:
		return 2
	case CommitmentFinalized:
		return 3
	default:
		return 0
	}
}

// GetBalance returns balance in lamports for a given public key (base58)
func (c *Client) GetBalance(ctx context.Context, req models.BalanceRequest) (uint64, error) {
	bal, err := c.c.GetBalance(ctx, req.PublicKey)
	if err != nil {
		return 0, errs.Transport("getBalance", err)
	}
	return bal, nil
}

// RequestAirdrop requests airdrop to the given public key (base58) in lamports
func (c *Client) RequestAirdrop(ctx context.Context, req models.AirdropRequest) (string, error) {
	sig, err := c.c.RequestAirdrop(ctx, req.PublicKey, req.Lamports)
	if err != nil {
		return "", errs.Transport("requestAirdrop", err)
	}
	return sig, nil
}

// MinimumRentExemptBalance returns the lamports an account of the
// given size must hold to be exempt from rent collection. A failure
// here aborts issuance before any instruction is built.
func (c *Client) MinimumRentExemptBalance(ctx context.Context, size uint64) (uint64, error) {
	lamports, err := c.c.GetMinimumBalanceForRentExemption(ctx, size)
	if err != nil {
		return 0, errs.Transport("getMinimumBalanceForRentExemption", err)
	}
	return lamports, nil
}

// LatestAnchor fetches a fresh block reference. The slot is read
// first so the anchor's MinContextSlot is a lower bound on the slot
// the blockhash came from.
func (c *Client) LatestAnchor(ctx context.Context) (models.Anchor, error) {
	slot, err := c.c.GetSlot(ctx)
	if err != nil {
		return models.Anchor{}, errs.Transport("getSlot", err)
	}
	recent, err := c.c.GetLatestBlockhash(ctx)
	if err != nil {
		return models.Anchor{}, errs.Transport("getLatestBlockhash", err)
	}
	return models.Anchor{
		Blockhash:            recent.Blockhash,
		LastValidBlockHeight: recent.LatestValidBlockHeight,
		MinContextSlot:       slot,
	}, nil
}

// SubmitRaw sends fully signed envelope bytes and returns the
// signature handle.
func (c *Client) SubmitRaw(ctx context.Context, raw []byte) (string, error) {
	tx, err := types.TransactionDeserialize(raw)
	if err != nil {
		return "", fmt.Errorf("deserialize envelope: %w", err)
	}
	sig, err := c.c.SendTransaction(ctx, tx)
	if err != nil {
		return "", errs.Transport("sendTransaction", err)
	}
	return sig, nil
}

const confirmPollInterval = 2 * time.Second

// Confirm polls the signature status until the requested commitment
// is reached, the network reports an execution failure, or the
// anchor's validity window closes. An expired envelope must be
// rebuilt from a fresh anchor, never resubmitted.
func (c *Client) Confirm(ctx context.Context, handle string, anchor models.Anchor, commitment Commitment) error {
	for {
		status, err := c.c.GetSignatureStatus(ctx, handle)
		if err != nil {
			return errs.Transport("getSignatureStatus", err)
		}
		if status != nil {
			if status.Err != nil {
				return &errs.ProgramError{Signature: handle, Detail: fmt.Sprintf("%v", status.Err)}
			}
			if status.ConfirmationStatus != nil &&
				commitmentRank(Commitment(*status.ConfirmationStatus)) >= commitmentRank(commitment) {
				return nil
			}
		}

		// The client wrapper has no getBlockHeight convenience; go
		// through the raw rpc layer.
		height, err := c.c.RpcClient.GetBlockHeight(ctx)
		if err != nil {
			return errs.Transport("getBlockHeight", err)
		}
		if height.Error != nil {
			return errs.Transport("getBlockHeight", height.Error)
		}
		if height.Result > anchor.LastValidBlockHeight {
			return errs.ErrExpired
		}

		select {
		case <-ctx.Done():
			return errs.Transport("confirm", ctx.Err())
		case <-time.After(confirmPollInterval):
		}
	}
}

// GetTokenAccount returns minimal parsed info of a token account (ATA)
func (c *Client) GetTokenAccount(ctx context.Context, req models.GetTokenAccountRequest) (*models.TokenAccount, error) {
	acc, err := c.c.GetAccountInfo(ctx, req.ATA)
	if err != nil {
		return nil, errs.Transport("getAccountInfo", err)
	}
	if len(acc.Data) < 72 {
		return nil, fmt.Errorf("invalid token account data")
	}
	mint := base58.Encode(acc.Data[0:32])
	owner := base58.Encode(acc.Data[32:64])
	amount := binary.LittleEndian.Uint64(acc.Data[64:72])
	return &models.TokenAccount{Mint: mint, Owner: owner, Amount: amount}, nil
}
