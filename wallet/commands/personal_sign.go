package commands

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/status-im/hooked-wallet/account"
	"github.com/status-im/hooked-wallet/logutils"
	"github.com/status-im/hooked-wallet/sign"
)

// PersonalSignCommand serves personal_sign. The canonical param order is
// [message, address]; requests still using the historical [address, message]
// order are corrected on a best-effort basis before validation.
type PersonalSignCommand struct {
	Accounts *account.Source
	Gate     *sign.Gate
	Sign     sign.SignMessageFunc

	legacyOrderWarning sync.Once
}

func (c *PersonalSignCommand) Execute(ctx context.Context, request RPCRequest) (interface{}, error) {
	first, err := stringParam(request, 0)
	if err != nil {
		return nil, err
	}
	second, err := stringParam(request, 1)
	if err != nil {
		return nil, err
	}
	extra, err := extraParam(request, 2)
	if err != nil {
		return nil, err
	}

	message, address := first, second
	if isLegacyParamOrder(first, second) {
		address, message = first, second
		c.legacyOrderWarning.Do(func() {
			logutils.ZapLogger().Warn("personal_sign params are in the deprecated [address, message] order, please switch to [message, address]")
		})
	}

	msg := sign.NewMessageParams(address, message, extra)
	if err := sign.ValidatePersonalMessage(ctx, c.Accounts, msg); err != nil {
		return nil, err
	}
	if err := c.Gate.ApprovePersonalMessage(ctx, msg); err != nil {
		return nil, err
	}
	signature, err := c.Sign(ctx, msg)
	if err != nil {
		return nil, err
	}
	return signature, nil
}

// isLegacyParamOrder reports whether the pair is unambiguously in the
// historical [address, message] order: the second param is hex data but not
// an address while the first is an address. Every address is itself a valid
// hex string, so an [address, address] pair stays in canonical order.
func isLegacyParamOrder(first, second string) bool {
	return sign.IsHexString(second) && !common.IsHexAddress(second) && common.IsHexAddress(first)
}

// PersonalRecoverCommand serves personal_ecRecover. Params are ordered
// [message, signature] with an optional trailing metadata object; the request
// goes straight to the recovery hook, with no validation or approval stage.
type PersonalRecoverCommand struct {
	Recover sign.RecoverFunc
}

func (c *PersonalRecoverCommand) Execute(ctx context.Context, request RPCRequest) (interface{}, error) {
	message, err := stringParam(request, 0)
	if err != nil {
		return nil, err
	}
	signature, err := stringParam(request, 1)
	if err != nil {
		return nil, err
	}
	extra, err := extraParam(request, 2)
	if err != nil {
		return nil, err
	}

	address, err := c.Recover(ctx, sign.NewRecoverParams(message, signature, extra))
	if err != nil {
		return nil, err
	}
	return address, nil
}
