package wallet

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/status-im/hooked-wallet/account"
	"github.com/status-im/hooked-wallet/logutils"
	"github.com/status-im/hooked-wallet/rpcstats"
	"github.com/status-im/hooked-wallet/sign"
	"github.com/status-im/hooked-wallet/transactions"
	"github.com/status-im/hooked-wallet/wallet/commands"
)

// ErrMethodNotFound is returned for an unrecognized method when no next
// handler is installed.
var ErrMethodNotFound = fmt.Errorf("The method does not exist/is not available")

// Handler is the next stage of a provider chain. Unrecognized methods are
// forwarded to it unmodified.
type Handler func(ctx context.Context, request commands.RPCRequest) (interface{}, error)

// Subprovider emulates the high-level signing RPC methods on top of a
// transport that only accepts already-signed payloads. Recognized methods run
// their pipeline; everything else falls through to the next handler.
type Subprovider struct {
	registry *CommandRegistry
	next     Handler
	logger   *zap.Logger
}

// NewSubprovider wires the full method table from the given capability set.
// emitter carries the outbound node calls used to resolve transaction
// defaults and to broadcast raw transactions; go-ethereum's rpc.Client
// satisfies it directly.
func NewSubprovider(emitter transactions.Caller, hooks Hooks) *Subprovider {
	hooks = hooks.withDefaults()

	accounts := account.NewSource(hooks.GetAccounts)
	gate := sign.NewGate(sign.Approvers{
		Transaction:     hooks.ApproveTransaction,
		Message:         hooks.ApproveMessage,
		PersonalMessage: hooks.ApprovePersonalMessage,
		TypedMessage:    hooks.ApproveTypedMessage,
	})
	transactor := transactions.NewTransactor(emitter, hooks.SignTransaction, hooks.EstimateGas)

	registry := NewCommandRegistry()
	registry.Register("eth_coinbase", &commands.CoinbaseCommand{Accounts: accounts})
	registry.Register("eth_accounts", &commands.AccountsCommand{Accounts: accounts})
	registry.Register("eth_sendTransaction", &commands.SendTransactionCommand{
		Accounts:   accounts,
		Gate:       gate,
		Transactor: transactor,
	})
	registry.Register("eth_signTransaction", &commands.SignTransactionCommand{
		Accounts:   accounts,
		Gate:       gate,
		Transactor: transactor,
	})
	registry.Register("eth_sign", &commands.SignMessageCommand{
		Accounts: accounts,
		Gate:     gate,
		Sign:     hooks.SignMessage,
	})
	registry.Register("personal_sign", &commands.PersonalSignCommand{
		Accounts: accounts,
		Gate:     gate,
		Sign:     hooks.SignPersonalMessage,
	})
	registry.Register("personal_ecRecover", &commands.PersonalRecoverCommand{
		Recover: hooks.RecoverPersonalSignature,
	})
	registry.Register("eth_signTypedData", &commands.SignTypedDataCommand{
		Accounts: accounts,
		Gate:     gate,
		Sign:     hooks.SignTypedMessage,
	})

	return &Subprovider{
		registry: registry,
		logger:   logutils.ZapLogger().Named("Subprovider"),
	}
}

// SetNext installs the handler that receives every method this subprovider
// does not recognize. Install it before serving requests.
func (s *Subprovider) SetNext(next Handler) {
	s.next = next
}

// HandleRequest routes a request to its method pipeline and returns the
// uniform result/error pair. Unknown methods go to the next handler
// unmodified; without one, ErrMethodNotFound is returned.
func (s *Subprovider) HandleRequest(ctx context.Context, request commands.RPCRequest) (interface{}, error) {
	rpcstats.CountCall(request.Method)

	if command, exists := s.registry.GetCommand(request.Method); exists {
		result, err := command.Execute(ctx, request)
		if err != nil {
			s.logger.Debug("request failed", zap.String("method", request.Method), zap.Error(err))
		}
		return result, err
	}

	if s.next == nil {
		return nil, ErrMethodNotFound
	}
	return s.next(ctx, request)
}

// HandleRequestJSON parses a raw JSON-RPC payload and routes it through
// HandleRequest.
func (s *Subprovider) HandleRequestJSON(ctx context.Context, inputJSON string) (interface{}, error) {
	request, err := commands.RPCRequestFromJSON(inputJSON)
	if err != nil {
		return nil, err
	}
	return s.HandleRequest(ctx, request)
}
