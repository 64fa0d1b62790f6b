package commands

import (
	"context"

	"github.com/status-im/hooked-wallet/account"
	"github.com/status-im/hooked-wallet/sign"
	"github.com/status-im/hooked-wallet/transactions"
)

// SendTransactionCommand serves eth_sendTransaction: validate, approve, then
// the nonce-serialized finalize that fills defaults, signs and broadcasts.
type SendTransactionCommand struct {
	Accounts   *account.Source
	Gate       *sign.Gate
	Transactor *transactions.Transactor
}

func (c *SendTransactionCommand) Execute(ctx context.Context, request RPCRequest) (interface{}, error) {
	args, err := transactions.RPCCallToSendTxArgs(request.Params...)
	if err != nil {
		return nil, err
	}
	if err := transactions.ValidateSendArgs(ctx, c.Accounts, args); err != nil {
		return nil, err
	}
	if err := c.Gate.ApproveTransaction(ctx, args); err != nil {
		return nil, err
	}
	hash, err := c.Transactor.SendTransaction(ctx, args)
	if err != nil {
		return nil, err
	}
	return hash.Hex(), nil
}

// SignTransactionCommand serves eth_signTransaction: the same pipeline as
// eth_sendTransaction with the broadcast left out. The response carries the
// raw signed payload together with the fully populated arguments.
type SignTransactionCommand struct {
	Accounts   *account.Source
	Gate       *sign.Gate
	Transactor *transactions.Transactor
}

func (c *SignTransactionCommand) Execute(ctx context.Context, request RPCRequest) (interface{}, error) {
	args, err := transactions.RPCCallToSendTxArgs(request.Params...)
	if err != nil {
		return nil, err
	}
	if err := transactions.ValidateSendArgs(ctx, c.Accounts, args); err != nil {
		return nil, err
	}
	if err := c.Gate.ApproveTransaction(ctx, args); err != nil {
		return nil, err
	}
	result, err := c.Transactor.SignTransaction(ctx, args)
	if err != nil {
		return nil, err
	}
	return result, nil
}
