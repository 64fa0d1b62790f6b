package sign

import (
	"context"

	"github.com/status-im/hooked-wallet/transactions"
)

// MessageParams describes a message submitted for signing together with the
// account that should produce the signature. Extra carries any metadata from
// the optional trailing RPC parameter; the canonical from and data values
// always win over metadata spellings and are stripped from it.
type MessageParams struct {
	From  string
	Data  string
	Extra map[string]interface{}
}

// TypedMessageParams is the structured-document counterpart of MessageParams.
// Data holds the EIP-712 payload as the caller submitted it, either a JSON
// string or an already decoded object.
type TypedMessageParams struct {
	From  string
	Data  interface{}
	Extra map[string]interface{}
}

// RecoverParams carries a personal-message payload and the signature whose
// author should be recovered.
type RecoverParams struct {
	Data  string
	Sig   string
	Extra map[string]interface{}
}

// NewMessageParams builds MessageParams, pruning the canonical keys from extra.
func NewMessageParams(from, data string, extra map[string]interface{}) MessageParams {
	return MessageParams{From: from, Data: data, Extra: pruneExtra(extra, "from", "data")}
}

// NewTypedMessageParams builds TypedMessageParams, pruning the canonical keys
// from extra.
func NewTypedMessageParams(from string, data interface{}, extra map[string]interface{}) TypedMessageParams {
	return TypedMessageParams{From: from, Data: data, Extra: pruneExtra(extra, "from", "data")}
}

// NewRecoverParams builds RecoverParams, pruning the canonical keys from extra.
func NewRecoverParams(data, sig string, extra map[string]interface{}) RecoverParams {
	return RecoverParams{Data: data, Sig: sig, Extra: pruneExtra(extra, "data", "sig")}
}

func pruneExtra(extra map[string]interface{}, canonical ...string) map[string]interface{} {
	if extra == nil {
		return nil
	}
	pruned := make(map[string]interface{}, len(extra))
	for key, value := range extra {
		pruned[key] = value
	}
	for _, key := range canonical {
		delete(pruned, key)
	}
	return pruned
}

// ApproveTransactionFunc decides whether a transaction may proceed to signing.
type ApproveTransactionFunc func(ctx context.Context, args transactions.SendTxArgs) (bool, error)

// ApproveMessageFunc decides whether a message may proceed to signing.
type ApproveMessageFunc func(ctx context.Context, msg MessageParams) (bool, error)

// ApproveTypedMessageFunc decides whether a typed message may proceed to signing.
type ApproveTypedMessageFunc func(ctx context.Context, msg TypedMessageParams) (bool, error)

// SignMessageFunc produces a signature for msg, hex encoded.
type SignMessageFunc func(ctx context.Context, msg MessageParams) (string, error)

// SignTypedMessageFunc produces a signature for a typed message, hex encoded.
type SignTypedMessageFunc func(ctx context.Context, msg TypedMessageParams) (string, error)

// RecoverFunc recovers the address that produced a personal-message signature.
type RecoverFunc func(ctx context.Context, params RecoverParams) (string, error)
