package sdk

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
	entities "github.com/whiteelite/launchpad/internal/domain/entities"
	"github.com/whiteelite/launchpad/internal/domain/errs"
)

var token2022ProgramID = common.PublicKeyFromString("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")

// Extension identifies a Token-2022 mint extension by its on-chain
// extension-type id.
type Extension uint16

const ExtensionMetadataPointer Extension = 18

// extensionDataLen is the TLV payload size per supported extension.
// MetadataPointer stores an authority and a metadata address.
func extensionDataLen(ext Extension) uint64 {
	switch ext {
	case ExtensionMetadataPointer:
		return 64
	default:
		return 0
	}
}

const (
	// Legacy mint layout without extensions.
	mintBaseLen = 82
	// Extended mints are padded to the token-account size plus one
	// account-type byte before the TLV entries start.
	mintPaddedLen      = 165
	accountTypeLen     = 1
	extensionHeaderLen = 4 // 2-byte type tag + 2-byte length

	metadataTypeLen   = 2
	metadataLengthLen = 2
)

// MintLen returns the account size of a mint carrying the given
// extension set.
func MintLen(extensions []Extension) uint64 {
	if len(extensions) == 0 {
		return mintBaseLen
	}
	size := uint64(mintPaddedLen + accountTypeLen)
	for _, ext := range extensions {
		size += extensionHeaderLen + extensionDataLen(ext)
	}
	return size
}

// PackTokenMetadata encodes the spl-token-metadata record: update
// authority, mint, the three strings, then the additional-fields
// vector. Strings are u32-length-prefixed, all integers little-endian.
func PackTokenMetadata(meta entities.TokenMetadata, mint, updateAuthority common.PublicKey) []byte {
	var b bytes.Buffer
	b.Write(updateAuthority.Bytes())
	b.Write(mint.Bytes())
	writeBorshString(&b, meta.Name)
	writeBorshString(&b, meta.Symbol)
	writeBorshString(&b, meta.URI)
	_ = binary.Write(&b, binary.LittleEndian, uint32(len(meta.AdditionalFields)))
	for _, kv := range meta.AdditionalFields {
		writeBorshString(&b, kv[0])
		writeBorshString(&b, kv[1])
	}
	return b.Bytes()
}

// MetadataLen is the TLV space the packed record occupies inside the
// mint: a type tag, a length prefix, then the record itself. The mint
// metadata must be fully populated before calling this, since the
// result feeds the rent calculation.
func MetadataLen(meta entities.TokenMetadata, mint, updateAuthority common.PublicKey) uint64 {
	return metadataTypeLen + metadataLengthLen + uint64(len(PackTokenMetadata(meta, mint, updateAuthority)))
}

func writeBorshString(b *bytes.Buffer, s string) {
	_ = binary.Write(b, binary.LittleEndian, uint32(len(s)))
	b.WriteString(s)
}

// ParseAddress parses a base58 account identity. Failure is a local
// validation error; no instruction may be built from an unparsed
// address.
func ParseAddress(s string) (common.PublicKey, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("%w: address %q is not base58", errs.ErrInvalidInput, s)
	}
	if len(raw) != common.PublicKeyLength {
		return common.PublicKey{}, fmt.Errorf("%w: address %q decodes to %d bytes, want %d", errs.ErrInvalidInput, s, len(raw), common.PublicKeyLength)
	}
	return common.PublicKeyFromBytes(raw), nil
}

// CreateAccountInstruction funds a new account at newAccount with
// lamports, allocates space bytes and assigns it to owner. Both the
// funder and the new account must sign.
func CreateAccountInstruction(funder, newAccount, owner common.PublicKey, lamports, space uint64) types.Instruction {
	data := make([]byte, 4, 4+8+8+32)
	binary.LittleEndian.PutUint32(data, 0) // SystemProgram CreateAccount
	data = appendUint64(data, lamports)
	data = appendUint64(data, space)
	data = append(data, owner.Bytes()...)

	return types.Instruction{
		ProgramID: common.SystemProgramID,
		Accounts: []types.AccountMeta{
			{PubKey: funder, IsSigner: true, IsWritable: true},
			{PubKey: newAccount, IsSigner: true, IsWritable: true},
		},
		Data: data,
	}
}

// TransferInstruction moves lamports from the wallet to a recipient.
func TransferInstruction(from, to common.PublicKey, lamports uint64) types.Instruction {
	data := make([]byte, 4, 4+8)
	binary.LittleEndian.PutUint32(data, 2) // SystemProgram Transfer
	data = appendUint64(data, lamports)

	return types.Instruction{
		ProgramID: common.SystemProgramID,
		Accounts: []types.AccountMeta{
			{PubKey: from, IsSigner: true, IsWritable: true},
			{PubKey: to, IsSigner: false, IsWritable: true},
		},
		Data: data,
	}
}

// InitializeMetadataPointerInstruction initializes the metadata
// pointer extension on an uninitialized mint. Must run before the
// mint itself is initialized.
func InitializeMetadataPointerInstruction(mint, authority, metadataAddress common.PublicKey) types.Instruction {
	data := make([]byte, 0, 2+32+32)
	data = append(data, 39, 0) // MetadataPointerExtension, Initialize
	data = append(data, authority.Bytes()...)
	data = append(data, metadataAddress.Bytes()...)

	return types.Instruction{
		ProgramID: token2022ProgramID,
		Accounts: []types.AccountMeta{
			{PubKey: mint, IsSigner: false, IsWritable: true},
		},
		Data: data,
	}
}

// InitializeMint2Instruction initializes the mint with the given
// decimals and mint authority and no freeze authority.
func InitializeMint2Instruction(mint common.PublicKey, decimals uint8, mintAuthority common.PublicKey) types.Instruction {
	data := make([]byte, 0, 1+1+32+1)
	data = append(data, 20) // InitializeMint2
	data = append(data, decimals)
	data = append(data, mintAuthority.Bytes()...)
	data = append(data, 0) // no freeze authority

	return types.Instruction{
		ProgramID: token2022ProgramID,
		Accounts: []types.AccountMeta{
			{PubKey: mint, IsSigner: false, IsWritable: true},
		},
		Data: data,
	}
}

// Discriminator of spl_token_metadata_interface:initialize_account
// (first 8 bytes of its sha256).
var initializeMetadataDiscriminator = []byte{210, 225, 30, 162, 88, 184, 77, 141}

// InitializeTokenMetadataInstruction writes the metadata record into
// the account the mint's metadata pointer targets (here: the mint
// itself). The mint authority must sign.
func InitializeTokenMetadataInstruction(metadata, updateAuthority, mint, mintAuthority common.PublicKey, meta entities.TokenMetadata) types.Instruction {
	var b bytes.Buffer
	b.Write(initializeMetadataDiscriminator)
	writeBorshString(&b, meta.Name)
	writeBorshString(&b, meta.Symbol)
	writeBorshString(&b, meta.URI)

	return types.Instruction{
		ProgramID: token2022ProgramID,
		Accounts: []types.AccountMeta{
			{PubKey: metadata, IsSigner: false, IsWritable: true},
			{PubKey: updateAuthority, IsSigner: false, IsWritable: false},
			{PubKey: mint, IsSigner: false, IsWritable: false},
			{PubKey: mintAuthority, IsSigner: true, IsWritable: false},
		},
		Data: b.Bytes(),
	}
}

// DeriveAssociatedTokenAddress derives the ATA PDA for (owner, mint)
// under Token-2022. Derived per call, never cached across mints.
func DeriveAssociatedTokenAddress(owner, mint common.PublicKey) (common.PublicKey, error) {
	seeds := [][]byte{
		owner.Bytes(),
		token2022ProgramID.Bytes(),
		mint.Bytes(),
	}
	pda, _, err := common.FindProgramAddress(seeds, common.SPLAssociatedTokenAccountProgramID)
	if err != nil {
		return common.PublicKey{}, err
	}
	return pda, nil
}

// CreateAssociatedTokenAccountInstruction creates the owner's ATA for
// mint, funded by payer.
func CreateAssociatedTokenAccountInstruction(payer, ata, owner, mint common.PublicKey) types.Instruction {
	return types.Instruction{
		ProgramID: common.SPLAssociatedTokenAccountProgramID,
		Accounts: []types.AccountMeta{
			{PubKey: payer, IsSigner: true, IsWritable: true},
			{PubKey: ata, IsSigner: false, IsWritable: true},
			{PubKey: owner, IsSigner: false, IsWritable: false},
			{PubKey: mint, IsSigner: false, IsWritable: false},
			{PubKey: common.SystemProgramID, IsSigner: false, IsWritable: false},
			{PubKey: token2022ProgramID, IsSigner: false, IsWritable: false},
			{PubKey: common.SysVarRentPubkey, IsSigner: false, IsWritable: false},
		},
		Data: []byte{},
	}
}

// MintToInstruction mints amount base units into dest.
func MintToInstruction(mint, dest, authority common.PublicKey, amount uint64) types.Instruction {
	data := make([]byte, 0, 1+8)
	data = append(data, 7) // MintTo
	data = appendUint64(data, amount)

	return types.Instruction{
		ProgramID: token2022ProgramID,
		Accounts: []types.AccountMeta{
			{PubKey: mint, IsSigner: false, IsWritable: true},
			{PubKey: dest, IsSigner: false, IsWritable: true},
			{PubKey: authority, IsSigner: true, IsWritable: false},
		},
		Data: data,
	}
}

// BuildIssuanceInstructions produces the four creation instructions
// in their fixed order: create-account, initialize-metadata-pointer,
// initialize-mint, initialize-metadata. They must travel in a single
// atomic envelope; splitting them can leave the mint half-initialized
// and visible to other observers.
func BuildIssuanceInstructions(wallet, mint common.PublicKey, meta entities.TokenMetadata, lamports, space uint64, decimals uint8) []types.Instruction {
	return []types.Instruction{
		CreateAccountInstruction(wallet, mint, token2022ProgramID, lamports, space),
		InitializeMetadataPointerInstruction(mint, wallet, mint),
		InitializeMint2Instruction(mint, decimals, wallet),
		InitializeTokenMetadataInstruction(mint, wallet, mint, wallet, meta),
	}
}

// BuildMintToInstructions produces the supply envelope: the ATA
// creation must precede the mint-to within the same envelope.
func BuildMintToInstructions(wallet, mint, ata common.PublicKey, amount uint64) []types.Instruction {
	return []types.Instruction{
		CreateAssociatedTokenAccountInstruction(wallet, ata, wallet, mint),
		MintToInstruction(mint, ata, wallet, amount),
	}
}

func appendUint64(data []byte, v uint64) []byte {
	return append(data,
		byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
		byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56),
	)
}
