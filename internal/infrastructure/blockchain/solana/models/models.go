package models

// Account is a base58 keypair as it crosses the SDK boundary.
type Account struct {
	PublicKey  string
	PrivateKey string
}

// Anchor is a recent-block reference bounding transaction validity.
// It is fetched immediately before assembly and never reused across
// unrelated envelopes. MinContextSlot records the slot observed when
// the anchor was fetched; the submission rpc takes no such option, so
// it is diagnostic only.
type Anchor struct {
	Blockhash            string
	LastValidBlockHeight uint64
	MinContextSlot       uint64
}

type BalanceRequest struct {
	PublicKey string
}

type AirdropRequest struct {
	PublicKey string
	Lamports  uint64
}

type GetTokenAccountRequest struct {
	ATA string
}

// TokenAccount is the minimal parsed view of an SPL token account.
type TokenAccount struct {
	Mint   string
	Owner  string
	Amount uint64
}
