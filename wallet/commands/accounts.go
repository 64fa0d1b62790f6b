package commands

import (
	"context"

	"github.com/status-im/hooked-wallet/account"
)

// AccountsCommand serves eth_accounts: the wallet account list, verbatim and
// in hook order.
type AccountsCommand struct {
	Accounts *account.Source
}

func (c *AccountsCommand) Execute(ctx context.Context, request RPCRequest) (interface{}, error) {
	accounts, err := c.Accounts.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// CoinbaseCommand serves eth_coinbase: the first wallet account, or null when
// the wallet manages none.
type CoinbaseCommand struct {
	Accounts *account.Source
}

func (c *CoinbaseCommand) Execute(ctx context.Context, request RPCRequest) (interface{}, error) {
	accounts, err := c.Accounts.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, nil
	}
	return accounts[0], nil
}
