package transactions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	// ErrInvalidSendTxArgs is returned when the structure of SendTxArgs is ambiguous.
	ErrInvalidSendTxArgs = errors.New("transaction arguments are invalid (are both 'input' and 'data' fields used?)")
	// ErrUnexpectedArgs is returned when args are of unexpected length.
	ErrUnexpectedArgs = errors.New("unexpected args")
)

// Caller emits outbound RPC requests to the ethereum node. It is satisfied by
// go-ethereum's rpc.Client and by any provider chain able to serve raw calls.
type Caller interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

// SignTransactionFunc signs a fully populated transaction and returns the raw
// signed payload, ready for broadcast.
type SignTransactionFunc func(ctx context.Context, args SendTxArgs) (hexutil.Bytes, error)

// EstimateGasFunc estimates the gas limit for a transaction. It always
// receives a detached copy of the arguments carrying only the canonical
// transaction fields.
type EstimateGasFunc func(ctx context.Context, args SendTxArgs) (hexutil.Uint64, error)

// SendTxArgs represents the arguments to submit a new transaction into the
// transaction pool. The layout follows go-ethereum's type in
// internal/ethapi/api.go, but we have freedom over the exact set of fields.
type SendTxArgs struct {
	From     *common.Address `json:"from"`
	To       *common.Address `json:"to"`
	Gas      *hexutil.Uint64 `json:"gas"`
	GasPrice *hexutil.Big    `json:"gasPrice"`
	Value    *hexutil.Big    `json:"value"`
	Nonce    *hexutil.Uint64 `json:"nonce"`
	// We keep both "input" and "data" for backward compatibility.
	// "input" is a preferred field.
	Input hexutil.Bytes `json:"input,omitempty"`
	Data  hexutil.Bytes `json:"data,omitempty"`
}

// Valid checks whether this structure is filled in correctly.
func (args SendTxArgs) Valid() bool {
	// if at least one of the fields is empty, it is a valid struct
	if isNilOrEmpty(args.Input) || isNilOrEmpty(args.Data) {
		return true
	}

	// we only allow both fields to be present if they carry the same data
	return bytes.Equal(args.Input, args.Data)
}

// GetInput returns either Input or Data field's value dependent on what is filled.
func (args SendTxArgs) GetInput() hexutil.Bytes {
	if !isNilOrEmpty(args.Input) {
		return args.Input
	}

	return args.Data
}

func isNilOrEmpty(bytes hexutil.Bytes) bool {
	return len(bytes) == 0
}

// SignTransactionResult is the payload of eth_signTransaction: the raw signed
// transaction next to the fully populated arguments it was built from.
type SignTransactionResult struct {
	Raw hexutil.Bytes `json:"raw"`
	Tx  SendTxArgs    `json:"tx"`
}

// RPCCallToSendTxArgs creates SendTxArgs based on RPC parameters.
func RPCCallToSendTxArgs(args ...interface{}) (SendTxArgs, error) {
	var txArgs SendTxArgs
	if len(args) != 1 {
		return txArgs, ErrUnexpectedArgs
	}
	data, err := json.Marshal(args[0])
	if err != nil {
		return txArgs, err
	}
	if err := json.Unmarshal(data, &txArgs); err != nil {
		return txArgs, err
	}

	return txArgs, nil
}
