package wallet

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/status-im/hooked-wallet/account"
	"github.com/status-im/hooked-wallet/sign"
	"github.com/status-im/hooked-wallet/transactions"
)

// MissingHookError is returned when a pipeline reaches a capability the
// subprovider was never given.
type MissingHookError struct {
	Hook string
}

func (e *MissingHookError) Error() string {
	return fmt.Sprintf("no %s hook is configured for this subprovider", e.Hook)
}

// Hooks is the capability set a subprovider is built from. Every field is
// optional: approval hooks default to auto-approval, the recovery hook to the
// built-in EIP-191 recovery, the gas estimator to an eth_estimateGas call
// through the emitter, and the remaining hooks to stubs failing with
// MissingHookError when their pipeline is exercised.
type Hooks struct {
	// GetAccounts lists the addresses this wallet signs for.
	GetAccounts account.GetAccountsFunc

	// Approval hooks decide whether a validated request may be signed.
	ApproveTransaction     sign.ApproveTransactionFunc
	ApproveMessage         sign.ApproveMessageFunc
	ApprovePersonalMessage sign.ApproveMessageFunc
	ApproveTypedMessage    sign.ApproveTypedMessageFunc

	// Signing hooks produce the signatures.
	SignTransaction     transactions.SignTransactionFunc
	SignMessage         sign.SignMessageFunc
	SignPersonalMessage sign.SignMessageFunc
	SignTypedMessage    sign.SignTypedMessageFunc

	// RecoverPersonalSignature recovers the author of a personal-message
	// signature.
	RecoverPersonalSignature sign.RecoverFunc

	// EstimateGas estimates the gas limit for transactions missing one.
	EstimateGas transactions.EstimateGasFunc
}

// withDefaults fills every absent capability with its documented default.
// Approval defaults live in sign.NewGate and the estimator default in
// transactions.NewTransactor.
func (h Hooks) withDefaults() Hooks {
	if h.GetAccounts == nil {
		h.GetAccounts = func(ctx context.Context) ([]string, error) {
			return nil, &MissingHookError{Hook: "getAccounts"}
		}
	}
	if h.SignTransaction == nil {
		h.SignTransaction = func(ctx context.Context, args transactions.SendTxArgs) (hexutil.Bytes, error) {
			return nil, &MissingHookError{Hook: "signTransaction"}
		}
	}
	if h.SignMessage == nil {
		h.SignMessage = missingSignMessage("signMessage")
	}
	if h.SignPersonalMessage == nil {
		h.SignPersonalMessage = missingSignMessage("signPersonalMessage")
	}
	if h.SignTypedMessage == nil {
		h.SignTypedMessage = func(ctx context.Context, msg sign.TypedMessageParams) (string, error) {
			return "", &MissingHookError{Hook: "signTypedMessage"}
		}
	}
	if h.RecoverPersonalSignature == nil {
		h.RecoverPersonalSignature = func(ctx context.Context, params sign.RecoverParams) (string, error) {
			return sign.RecoverPersonalSignature(params)
		}
	}
	return h
}

func missingSignMessage(hook string) sign.SignMessageFunc {
	return func(ctx context.Context, msg sign.MessageParams) (string, error) {
		return "", &MissingHookError{Hook: hook}
	}
}
