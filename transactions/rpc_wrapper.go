package transactions

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// rpcWrapper provides a convenient interface over the ethereum RPC APIs the
// wallet needs while completing and publishing transactions.
type rpcWrapper struct {
	caller Caller
}

func newRPCWrapper(caller Caller) *rpcWrapper {
	return &rpcWrapper{caller: caller}
}

// PendingNonceAt returns the account nonce of the given account in the pending state.
// This is the nonce that should be used for the next transaction.
func (w *rpcWrapper) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	var result hexutil.Uint64
	err := w.caller.CallContext(ctx, &result, "eth_getTransactionCount", account, "pending")
	return uint64(result), err
}

// SuggestGasPrice retrieves the currently suggested gas price to allow a timely
// execution of a transaction.
func (w *rpcWrapper) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	var hex hexutil.Big
	if err := w.caller.CallContext(ctx, &hex, "eth_gasPrice"); err != nil {
		return nil, err
	}
	return (*big.Int)(&hex), nil
}

// EstimateGas tries to estimate the gas needed to execute a specific transaction based on
// the current pending state of the backend blockchain. There is no guarantee that this is
// the true gas limit requirement as other transactions may be added or removed by miners,
// but it should provide a basis for setting a reasonable default.
func (w *rpcWrapper) EstimateGas(ctx context.Context, args SendTxArgs) (uint64, error) {
	var hex hexutil.Uint64
	err := w.caller.CallContext(ctx, &hex, "eth_estimateGas", toCallArg(args))
	if err != nil {
		return 0, err
	}
	return uint64(hex), nil
}

// SendRawTransaction injects a signed transaction into the pending pool for
// execution and returns the transaction hash reported by the node.
func (w *rpcWrapper) SendRawTransaction(ctx context.Context, raw hexutil.Bytes) (common.Hash, error) {
	var hash common.Hash
	err := w.caller.CallContext(ctx, &hash, "eth_sendRawTransaction", raw)
	return hash, err
}

func toCallArg(args SendTxArgs) interface{} {
	arg := map[string]interface{}{
		"from": args.From,
		"to":   args.To,
	}
	if input := args.GetInput(); len(input) > 0 {
		arg["data"] = input
	}
	if args.Value != nil {
		arg["value"] = args.Value
	}
	if args.Gas != nil {
		arg["gas"] = args.Gas
	}
	if args.GasPrice != nil {
		arg["gasPrice"] = args.GasPrice
	}
	if args.Nonce != nil {
		arg["nonce"] = args.Nonce
	}
	return arg
}
