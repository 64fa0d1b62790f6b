package commands

import (
	"context"

	"github.com/status-im/hooked-wallet/account"
	"github.com/status-im/hooked-wallet/sign"
)

// SignMessageCommand serves eth_sign. Params are ordered [address, message]
// with an optional trailing metadata object.
type SignMessageCommand struct {
	Accounts *account.Source
	Gate     *sign.Gate
	Sign     sign.SignMessageFunc
}

func (c *SignMessageCommand) Execute(ctx context.Context, request RPCRequest) (interface{}, error) {
	address, err := stringParam(request, 0)
	if err != nil {
		return nil, err
	}
	message, err := stringParam(request, 1)
	if err != nil {
		return nil, err
	}
	extra, err := extraParam(request, 2)
	if err != nil {
		return nil, err
	}

	msg := sign.NewMessageParams(address, message, extra)
	if err := sign.ValidateMessage(ctx, c.Accounts, msg); err != nil {
		return nil, err
	}
	if err := c.Gate.ApproveMessage(ctx, msg); err != nil {
		return nil, err
	}
	signature, err := c.Sign(ctx, msg)
	if err != nil {
		return nil, err
	}
	return signature, nil
}

// SignTypedDataCommand serves eth_signTypedData. Params are ordered
// [typedData, address] with an optional trailing metadata object.
type SignTypedDataCommand struct {
	Accounts *account.Source
	Gate     *sign.Gate
	Sign     sign.SignTypedMessageFunc
}

func (c *SignTypedDataCommand) Execute(ctx context.Context, request RPCRequest) (interface{}, error) {
	var data interface{}
	if len(request.Params) > 0 {
		data = request.Params[0]
	}
	address, err := stringParam(request, 1)
	if err != nil {
		return nil, err
	}
	extra, err := extraParam(request, 2)
	if err != nil {
		return nil, err
	}

	msg := sign.NewTypedMessageParams(address, data, extra)
	if err := sign.ValidateTypedMessage(ctx, c.Accounts, msg); err != nil {
		return nil, err
	}
	if err := c.Gate.ApproveTypedMessage(ctx, msg); err != nil {
		return nil, err
	}
	signature, err := c.Sign(ctx, msg)
	if err != nil {
		return nil, err
	}
	return signature, nil
}
