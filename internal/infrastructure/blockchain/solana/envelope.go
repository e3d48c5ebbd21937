package sdk

import (
	"crypto/ed25519"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/whiteelite/launchpad/internal/infrastructure/blockchain/solana/models"
)

// State tracks an envelope through its lifecycle. No state is
// re-enterable; once submitted the only next states are the three
// terminal ones.
type State uint8

const (
	StateDraft State = iota
	StateAssembled
	StatePartiallySigned
	StateFullySigned
	StateSubmitted
	StateConfirmed
	StateRejected
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateDraft:
		return "draft"
	case StateAssembled:
		return "assembled"
	case StatePartiallySigned:
		return "partially-signed"
	case StateFullySigned:
		return "fully-signed"
	case StateSubmitted:
		return "submitted"
	case StateConfirmed:
		return "confirmed"
	case StateRejected:
		return "rejected"
	case StateExpired:
		return "expired"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

func (s State) terminal() bool {
	return s == StateConfirmed || s == StateRejected || s == StateExpired
}

// Envelope is an ordered, atomically executed batch of instructions.
// The instruction order is fixed at construction and never reordered
// or dropped downstream. The envelope does not validate signature
// completeness; the network rejects an under-signed submission.
type Envelope struct {
	state        State
	feePayer     common.PublicKey
	instructions []types.Instruction
	anchor       models.Anchor
	tx           types.Transaction
	handle       string
}

func NewEnvelope(feePayer common.PublicKey, instructions ...types.Instruction) *Envelope {
	ins := make([]types.Instruction, len(instructions))
	copy(ins, instructions)
	return &Envelope{state: StateDraft, feePayer: feePayer, instructions: ins}
}

func (e *Envelope) transition(from, to State) error {
	if e.state != from {
		return fmt.Errorf("invalid envelope transition %s -> %s", e.state, to)
	}
	e.state = to
	return nil
}

// Assemble binds a freshness anchor fetched immediately beforehand
// and compiles the message. The anchor must not be reused from an
// unrelated envelope.
func (e *Envelope) Assemble(anchor models.Anchor) error {
	if err := e.transition(StateDraft, StateAssembled); err != nil {
		return err
	}
	message := types.NewMessage(types.NewMessageParam{
		FeePayer:        e.feePayer,
		RecentBlockhash: anchor.Blockhash,
		Instructions:    e.instructions,
	})
	tx, err := types.NewTransaction(types.NewTransactionParam{Message: message})
	if err != nil {
		e.state = StateDraft
		return err
	}
	e.tx = tx
	e.anchor = anchor
	return nil
}

// MessageBytes serializes the compiled message, the payload every
// signer signs over. Available from Assembled onward.
func (e *Envelope) MessageBytes() ([]byte, error) {
	if e.state == StateDraft {
		return nil, fmt.Errorf("no message in state %s", e.state)
	}
	return e.tx.Message.Serialize()
}

// PartialSign applies the ephemeral keypair's signature. It must run
// before the wallet signs: the ephemeral key authorizes the new
// account's existence and the wallet signs the envelope as already
// partially signed.
func (e *Envelope) PartialSign(signer types.Account) error {
	if e.state != StateAssembled {
		return fmt.Errorf("invalid envelope transition %s -> %s", e.state, StatePartiallySigned)
	}
	message, err := e.tx.Message.Serialize()
	if err != nil {
		return err
	}
	sig := ed25519.Sign(signer.PrivateKey, message)
	if err := e.tx.AddSignature(sig); err != nil {
		return err
	}
	e.state = StatePartiallySigned
	return nil
}

// AddSignature applies the wallet's signature, completing the
// signature set. Valid from Assembled (transfer flow) or
// PartiallySigned (issuance flow).
func (e *Envelope) AddSignature(sig []byte) error {
	if e.state != StateAssembled && e.state != StatePartiallySigned {
		return fmt.Errorf("invalid envelope transition %s -> %s", e.state, StateFullySigned)
	}
	if err := e.tx.AddSignature(sig); err != nil {
		return err
	}
	e.state = StateFullySigned
	return nil
}

// Serialize returns the signed envelope bytes for submission.
func (e *Envelope) Serialize() ([]byte, error) {
	if e.state != StateFullySigned && e.state != StateSubmitted {
		return nil, fmt.Errorf("cannot serialize envelope in state %s", e.state)
	}
	return e.tx.Serialize()
}

// MarkSubmitted records the network handle after submission.
func (e *Envelope) MarkSubmitted(handle string) error {
	if err := e.transition(StateFullySigned, StateSubmitted); err != nil {
		return err
	}
	e.handle = handle
	return nil
}

// Resolve moves a submitted envelope to one of the terminal states.
func (e *Envelope) Resolve(terminal State) error {
	if !terminal.terminal() {
		return fmt.Errorf("%s is not a terminal state", terminal)
	}
	return e.transition(StateSubmitted, terminal)
}

func (e *Envelope) State() State          { return e.state }
func (e *Envelope) Handle() string        { return e.handle }
func (e *Envelope) Anchor() models.Anchor { return e.anchor }

func (e *Envelope) FeePayer() common.PublicKey { return e.feePayer }

// Instructions returns a copy; the envelope's own order is immutable.
func (e *Envelope) Instructions() []types.Instruction {
	ins := make([]types.Instruction, len(e.instructions))
	copy(ins, e.instructions)
	return ins
}

// Signatures exposes the signature slots for inspection.
func (e *Envelope) Signatures() []types.Signature {
	return e.tx.Signatures
}
