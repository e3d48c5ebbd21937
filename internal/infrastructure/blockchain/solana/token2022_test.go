package sdk_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	entities "github.com/whiteelite/launchpad/internal/domain/entities"
	"github.com/whiteelite/launchpad/internal/domain/errs"
	sdk "github.com/whiteelite/launchpad/internal/infrastructure/blockchain/solana"
)

var token2022ID = common.PublicKeyFromString("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")

func testMetadata() entities.TokenMetadata {
	return entities.TokenMetadata{Name: "Avi", Symbol: "AVI", URI: "https://example.com/avi.png"}
}

func testKeys(t *testing.T, n int) []common.PublicKey {
	t.Helper()
	keys := make([]common.PublicKey, n)
	for i := range keys {
		signer, err := sdk.SigningAccount(sdk.NewKeypair())
		if err != nil {
			t.Fatalf("keypair: %v", err)
		}
		keys[i] = signer.PublicKey
	}
	return keys
}

func TestMintLen(t *testing.T) {
	if got := sdk.MintLen(nil); got != 82 {
		t.Fatalf("bare mint size = %d, want 82", got)
	}
	// 165 padded + 1 type byte + 4 header + 64 pointer payload
	if got := sdk.MintLen([]sdk.Extension{sdk.ExtensionMetadataPointer}); got != 234 {
		t.Fatalf("metadata-pointer mint size = %d, want 234", got)
	}
}

func TestPackTokenMetadata(t *testing.T) {
	keys := testKeys(t, 2)
	mint, authority := keys[0], keys[1]
	meta := entities.TokenMetadata{Name: "Avi", Symbol: "AVI", URI: "https://example.com/avi.png"}

	packed := sdk.PackTokenMetadata(meta, mint, authority)

	if !bytes.Equal(packed[:32], authority.Bytes()) {
		t.Fatalf("packed record does not start with the update authority")
	}
	if !bytes.Equal(packed[32:64], mint.Bytes()) {
		t.Fatalf("packed record does not carry the mint identity")
	}

	// name, symbol, uri as u32-length-prefixed strings, then an empty
	// additional-fields vector.
	rest := packed[64:]
	for _, want := range []string{meta.Name, meta.Symbol, meta.URI} {
		ln := binary.LittleEndian.Uint32(rest[:4])
		if int(ln) != len(want) {
			t.Fatalf("string length prefix = %d, want %d", ln, len(want))
		}
		if got := string(rest[4 : 4+ln]); got != want {
			t.Fatalf("packed string = %q, want %q", got, want)
		}
		rest = rest[4+ln:]
	}
	if binary.LittleEndian.Uint32(rest) != 0 {
		t.Fatalf("expected empty additional-fields vector")
	}
	if len(rest) != 4 {
		t.Fatalf("trailing bytes after additional-fields vector")
	}

	wantLen := uint64(2 + 2 + len(packed))
	if got := sdk.MetadataLen(meta, mint, authority); got != wantLen {
		t.Fatalf("MetadataLen = %d, want %d", got, wantLen)
	}
}

func TestBuildIssuanceInstructions_FixedOrder(t *testing.T) {
	keys := testKeys(t, 2)
	wallet, mint := keys[0], keys[1]
	meta := entities.TokenMetadata{Name: "Avi", Symbol: "AVI", URI: "https://example.com/avi.png"}

	const lamports, space = 3_000_000, 234
	ins := sdk.BuildIssuanceInstructions(wallet, mint, meta, lamports, space, entities.TokenDecimals)

	if len(ins) != 4 {
		t.Fatalf("expected 4 creation instructions, got %d", len(ins))
	}

	// (1) create-account on the system program, funded with exactly
	// the rent-exempt balance, owned by Token-2022.
	create := ins[0]
	if create.ProgramID != common.SystemProgramID {
		t.Fatalf("instruction 1 targets %s, want system program", create.ProgramID)
	}
	if binary.LittleEndian.Uint32(create.Data[:4]) != 0 {
		t.Fatalf("instruction 1 is not CreateAccount")
	}
	if got := binary.LittleEndian.Uint64(create.Data[4:12]); got != lamports {
		t.Fatalf("create-account lamports = %d, want %d", got, lamports)
	}
	if got := binary.LittleEndian.Uint64(create.Data[12:20]); got != space {
		t.Fatalf("create-account space = %d, want %d", got, space)
	}
	if !bytes.Equal(create.Data[20:52], token2022ID.Bytes()) {
		t.Fatalf("new account not owned by Token-2022")
	}
	if !create.Accounts[0].IsSigner || !create.Accounts[1].IsSigner {
		t.Fatalf("both funder and new account must sign create-account")
	}
	if create.Accounts[1].PubKey != mint {
		t.Fatalf("create-account target is not the ephemeral mint")
	}

	// (2) metadata pointer init, pointing the mint at itself.
	pointer := ins[1]
	if pointer.ProgramID != token2022ID {
		t.Fatalf("instruction 2 targets %s, want Token-2022", pointer.ProgramID)
	}
	if pointer.Data[0] != 39 || pointer.Data[1] != 0 {
		t.Fatalf("instruction 2 is not MetadataPointer/Initialize")
	}
	if !bytes.Equal(pointer.Data[2:34], wallet.Bytes()) {
		t.Fatalf("metadata pointer authority is not the wallet")
	}
	if !bytes.Equal(pointer.Data[34:66], mint.Bytes()) {
		t.Fatalf("metadata pointer does not target the mint itself")
	}

	// (3) initialize-mint with 9 decimals, wallet authority, no
	// freeze authority.
	initMint := ins[2]
	if initMint.ProgramID != token2022ID {
		t.Fatalf("instruction 3 targets %s, want Token-2022", initMint.ProgramID)
	}
	if initMint.Data[0] != 20 {
		t.Fatalf("instruction 3 is not InitializeMint2")
	}
	if initMint.Data[1] != entities.TokenDecimals {
		t.Fatalf("mint decimals = %d, want %d", initMint.Data[1], entities.TokenDecimals)
	}
	if !bytes.Equal(initMint.Data[2:34], wallet.Bytes()) {
		t.Fatalf("mint authority is not the wallet")
	}
	if initMint.Data[34] != 0 {
		t.Fatalf("expected no freeze authority")
	}

	// (4) metadata record write; mint authority signs.
	initMeta := ins[3]
	if initMeta.ProgramID != token2022ID {
		t.Fatalf("instruction 4 targets %s, want Token-2022", initMeta.ProgramID)
	}
	if !bytes.Contains(initMeta.Data, []byte("Avi")) || !bytes.Contains(initMeta.Data, []byte("AVI")) {
		t.Fatalf("metadata instruction does not carry the entered name/symbol")
	}
	if !initMeta.Accounts[3].IsSigner {
		t.Fatalf("mint authority must sign the metadata initialization")
	}
}

func TestBuildMintToInstructions_ATAPrecedesMintTo(t *testing.T) {
	keys := testKeys(t, 2)
	wallet, mint := keys[0], keys[1]
	ata, err := sdk.DeriveAssociatedTokenAddress(wallet, mint)
	if err != nil {
		t.Fatalf("derive ata: %v", err)
	}

	const supply = 100_000_000_000
	ins := sdk.BuildMintToInstructions(wallet, mint, ata, supply)
	if len(ins) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(ins))
	}

	if ins[0].ProgramID != common.SPLAssociatedTokenAccountProgramID {
		t.Fatalf("instruction 1 must create the associated token account")
	}
	if ins[0].Accounts[1].PubKey != ata {
		t.Fatalf("ata creation targets the wrong account")
	}

	mintTo := ins[1]
	if mintTo.ProgramID != token2022ID {
		t.Fatalf("mint-to targets %s, want Token-2022", mintTo.ProgramID)
	}
	if mintTo.Data[0] != 7 {
		t.Fatalf("instruction 2 is not MintTo")
	}
	if got := binary.LittleEndian.Uint64(mintTo.Data[1:9]); got != supply {
		t.Fatalf("mint-to amount = %d, want %d", got, supply)
	}
	if mintTo.Accounts[1].PubKey != ata {
		t.Fatalf("mint-to destination is not the derived ata")
	}
}

func TestDeriveAssociatedTokenAddress_PerMint(t *testing.T) {
	keys := testKeys(t, 3)
	owner, mintA, mintB := keys[0], keys[1], keys[2]

	a1, err := sdk.DeriveAssociatedTokenAddress(owner, mintA)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	a2, err := sdk.DeriveAssociatedTokenAddress(owner, mintA)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if a1 != a2 {
		t.Fatalf("ata derivation is not deterministic")
	}

	b, err := sdk.DeriveAssociatedTokenAddress(owner, mintB)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if a1 == b {
		t.Fatalf("distinct mints derived the same ata")
	}
}

func TestTransferInstruction(t *testing.T) {
	keys := testKeys(t, 2)
	from, to := keys[0], keys[1]

	ins := sdk.TransferInstruction(from, to, 1)
	if ins.ProgramID != common.SystemProgramID {
		t.Fatalf("transfer targets %s, want system program", ins.ProgramID)
	}
	if binary.LittleEndian.Uint32(ins.Data[:4]) != 2 {
		t.Fatalf("instruction is not Transfer")
	}
	if got := binary.LittleEndian.Uint64(ins.Data[4:12]); got != 1 {
		t.Fatalf("lamports = %d, want 1", got)
	}
	if !ins.Accounts[0].IsSigner || ins.Accounts[0].PubKey != from {
		t.Fatalf("sender must sign")
	}
	if ins.Accounts[1].IsSigner || ins.Accounts[1].PubKey != to {
		t.Fatalf("recipient must not sign")
	}

	// Zero-value transfers are still built.
	zero := sdk.TransferInstruction(from, to, 0)
	if got := binary.LittleEndian.Uint64(zero.Data[4:12]); got != 0 {
		t.Fatalf("zero transfer lamports = %d", got)
	}
}

func TestParseAddress(t *testing.T) {
	acc := sdk.NewKeypair()
	pub, err := sdk.ParseAddress(string(acc.PublicKey))
	if err != nil {
		t.Fatalf("valid address rejected: %v", err)
	}
	if pub.ToBase58() != string(acc.PublicKey) {
		t.Fatalf("parsed identity mismatch")
	}

	for _, bad := range []string{"", "0OIl", "abc", "!!!"} {
		if _, err := sdk.ParseAddress(bad); !errors.Is(err, errs.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %q, got %v", bad, err)
		}
	}
}
