package sdk_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/whiteelite/launchpad/internal/domain/errs"
	sdk "github.com/whiteelite/launchpad/internal/infrastructure/blockchain/solana"
	"github.com/whiteelite/launchpad/internal/infrastructure/blockchain/solana/models"
)

// rpcStub serves canned JSON-RPC responses keyed by method name.
func rpcStub(t *testing.T, responses map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read rpc request: %v", err)
			return
		}
		var req struct {
			Method string `json:"method"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("decode rpc request: %v", err)
			return
		}
		resp, ok := responses[req.Method]
		if !ok {
			t.Errorf("unexpected rpc method %q", req.Method)
			resp = `{"jsonrpc":"2.0","id":1,"result":null}`
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(resp))
	}))
}

func TestConfirm_CommitmentReached(t *testing.T) {
	srv := rpcStub(t, map[string]string{
		"getSignatureStatuses": `{"jsonrpc":"2.0","id":1,"result":{"context":{"slot":42},"value":[{"slot":41,"confirmations":3,"confirmationStatus":"confirmed","err":null}]}}`,
	})
	defer srv.Close()

	c := sdk.NewClient(srv.URL)
	anchor := models.Anchor{LastValidBlockHeight: 100}
	if err := c.Confirm(context.Background(), "sig-1", anchor, sdk.CommitmentConfirmed); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
}

func TestConfirm_ExpiresPastAnchorHeight(t *testing.T) {
	srv := rpcStub(t, map[string]string{
		"getSignatureStatuses": `{"jsonrpc":"2.0","id":1,"result":{"context":{"slot":42},"value":[null]}}`,
		"getBlockHeight":       `{"jsonrpc":"2.0","id":1,"result":101}`,
	})
	defer srv.Close()

	c := sdk.NewClient(srv.URL)
	anchor := models.Anchor{LastValidBlockHeight: 100}
	err := c.Confirm(context.Background(), "sig-1", anchor, sdk.CommitmentConfirmed)
	if !errors.Is(err, errs.ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestConfirm_ProgramFailure(t *testing.T) {
	srv := rpcStub(t, map[string]string{
		"getSignatureStatuses": `{"jsonrpc":"2.0","id":1,"result":{"context":{"slot":42},"value":[{"slot":41,"confirmations":null,"confirmationStatus":"confirmed","err":{"InstructionError":[0,{"Custom":1}]}}]}}`,
	})
	defer srv.Close()

	c := sdk.NewClient(srv.URL)
	err := c.Confirm(context.Background(), "sig-9", models.Anchor{LastValidBlockHeight: 100}, sdk.CommitmentConfirmed)
	var pe *errs.ProgramError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProgramError, got %v", err)
	}
	if pe.Signature != "sig-9" {
		t.Fatalf("program error carries signature %q, want sig-9", pe.Signature)
	}
}
