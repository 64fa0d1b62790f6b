package transactions

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/imdario/mergo"
	"go.uber.org/zap"

	"github.com/status-im/hooked-wallet/account"
	"github.com/status-im/hooked-wallet/async"
	"github.com/status-im/hooked-wallet/logutils"
)

// Transactor completes, signs and publishes transactions on behalf of the
// wallet. A single nonce lock serializes every finalize sequence, so two
// concurrent requests can never consume the same pending nonce.
type Transactor struct {
	rpcWrapper  *rpcWrapper
	signTx      SignTransactionFunc
	estimateGas EstimateGasFunc
	nonceLock   sync.Mutex
	logger      *zap.Logger
}

// NewTransactor returns a new Transactor. emitter carries the node calls used
// to resolve defaults and to broadcast; signTx produces the raw signed
// payload. A nil estimateGas falls back to eth_estimateGas through emitter.
func NewTransactor(emitter Caller, signTx SignTransactionFunc, estimateGas EstimateGasFunc) *Transactor {
	t := &Transactor{
		rpcWrapper:  newRPCWrapper(emitter),
		signTx:      signTx,
		estimateGas: estimateGas,
		logger:      logutils.ZapLogger().Named("Transactor"),
	}
	if t.estimateGas == nil {
		t.estimateGas = func(ctx context.Context, args SendTxArgs) (hexutil.Uint64, error) {
			gas, err := t.rpcWrapper.EstimateGas(ctx, args)
			return hexutil.Uint64(gas), err
		}
	}
	return t
}

// SendTransaction is an implementation of eth_sendTransaction. It fills in
// missing defaults, obtains a signature and broadcasts the raw transaction,
// returning the hash reported by the node. The nonce lock is held from the
// first default lookup until the broadcast response arrives, so transactions
// reach the network in nonce-assignment order.
func (t *Transactor) SendTransaction(ctx context.Context, args SendTxArgs) (common.Hash, error) {
	if args.From == nil || !args.Valid() {
		return common.Hash{}, ErrInvalidSendTxArgs
	}

	t.nonceLock.Lock()
	defer t.nonceLock.Unlock()

	if err := t.fillTransactionExtras(ctx, &args); err != nil {
		return common.Hash{}, err
	}
	raw, err := t.signTx(ctx, args)
	if err != nil {
		return common.Hash{}, err
	}
	hash, err := t.rpcWrapper.SendRawTransaction(ctx, raw)
	if err != nil {
		return common.Hash{}, err
	}
	t.logger.Info("transaction published",
		zap.Stringer("from", args.From),
		zap.Stringer("hash", hash),
		zap.Uint64("nonce", uint64(*args.Nonce)),
	)
	return hash, nil
}

// SignTransaction is an implementation of eth_signTransaction. It runs the
// same completion and signing sequence as SendTransaction but broadcasts
// nothing; the nonce lock is released once the signature is produced, since
// there is no publish ordering left to protect.
func (t *Transactor) SignTransaction(ctx context.Context, args SendTxArgs) (*SignTransactionResult, error) {
	if args.From == nil || !args.Valid() {
		return nil, ErrInvalidSendTxArgs
	}

	raw, filled, err := t.fillAndSign(ctx, args)
	if err != nil {
		return nil, err
	}
	return &SignTransactionResult{Raw: raw, Tx: filled}, nil
}

// fillAndSign owns the locked fill plus sign region of the sign-only pipeline.
func (t *Transactor) fillAndSign(ctx context.Context, args SendTxArgs) (hexutil.Bytes, SendTxArgs, error) {
	t.nonceLock.Lock()
	defer t.nonceLock.Unlock()

	if err := t.fillTransactionExtras(ctx, &args); err != nil {
		return nil, args, err
	}
	raw, err := t.signTx(ctx, args)
	return raw, args, err
}

// fillTransactionExtras resolves defaults for any of gasPrice, nonce and gas
// the caller left unset. The lookups run concurrently and the first failure
// aborts the whole stage with no partial merge. Resolved values are merged
// under the original arguments: a field the caller supplied is never replaced.
func (t *Transactor) fillTransactionExtras(ctx context.Context, args *SendTxArgs) error {
	var defaults SendTxArgs

	group := async.NewAtomicGroup(ctx)
	if args.GasPrice == nil {
		group.Add(func(ctx context.Context) error {
			price, err := t.rpcWrapper.SuggestGasPrice(ctx)
			if err != nil {
				return err
			}
			defaults.GasPrice = (*hexutil.Big)(price)
			return nil
		})
	}
	if args.Nonce == nil {
		from := *args.From
		group.Add(func(ctx context.Context) error {
			count, err := t.rpcWrapper.PendingNonceAt(ctx, from)
			if err != nil {
				return err
			}
			nonce := hexutil.Uint64(count)
			defaults.Nonce = &nonce
			return nil
		})
	}
	if args.Gas == nil {
		// the estimator sees the canonical fields only, without the defaults
		// resolved by the sibling lookups
		sanitized := *args
		group.Add(func(ctx context.Context) error {
			gas, err := t.estimateGas(ctx, sanitized)
			if err != nil {
				return err
			}
			defaults.Gas = &gas
			return nil
		})
	}
	group.Wait()
	if err := group.Error(); err != nil {
		return err
	}
	return mergo.Merge(args, defaults)
}

// ValidateSendArgs runs the validation stage for transaction requests: the
// sender must be present, the argument structure coherent, and the sender one
// of the wallet accounts. No other collaborator is consulted.
func ValidateSendArgs(ctx context.Context, accounts *account.Source, args SendTxArgs) error {
	if args.From == nil {
		return account.ErrMissingSender
	}
	if !args.Valid() {
		return ErrInvalidSendTxArgs
	}
	return accounts.ValidateSender(ctx, args.From.Hex())
}
