// Package errs defines the error taxonomy shared by the launchpad
// flows. Locally recoverable conditions (bad input, user declined)
// are sentinels checked with errors.Is; network-side failures carry
// detail and are matched with errors.As.
package errs

import "fmt"

type sentinel string

func (e sentinel) Error() string { return string(e) }

const (
	// ErrNotConnected means no wallet identity is available. Flows
	// abort on it before any network call.
	ErrNotConnected sentinel = "wallet is not connected"

	// ErrInvalidInput means a form field failed local validation
	// (e.g. the recipient address does not parse). No instruction is
	// built and no network call is made.
	ErrInvalidInput sentinel = "invalid input"

	// ErrUserRejected means the wallet declined to sign.
	ErrUserRejected sentinel = "user rejected signing"

	// ErrExpired means the network's block height passed the anchor's
	// last valid height before confirmation. The transaction is
	// permanently unconfirmable; a new attempt needs a fresh anchor
	// and a full rebuild, never a resubmission of the same bytes.
	ErrExpired sentinel = "transaction expired before confirmation"
)

// TransportError wraps a failed RPC or wallet transport call. The
// envelope is discarded; nothing partial persists beyond the dropped
// ephemeral keypair.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *TransportError) Unwrap() error { return e.Err }

// Transport wraps err as a TransportError for the named operation.
func Transport(op string, err error) error {
	return &TransportError{Op: op, Err: err}
}

// ProgramError means the network executed the transaction and
// rejected it (insufficient funds, duplicate account, malformed
// instruction). Terminal; never retried.
type ProgramError struct {
	Signature string
	Detail    string
}

func (e *ProgramError) Error() string {
	if e.Signature == "" {
		return fmt.Sprintf("program error: %s", e.Detail)
	}
	return fmt.Sprintf("program error for %s: %s", e.Signature, e.Detail)
}
