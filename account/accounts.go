package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingSender is returned when a request carries no sender address at all.
	ErrMissingSender = errors.New("from address is required")
	// ErrUnknownAddress is returned when the sender is not one of the wallet accounts.
	ErrUnknownAddress = errors.New("unknown address")
)

// GetAccountsFunc reports the addresses the wallet can sign for, in display order.
type GetAccountsFunc func(ctx context.Context) ([]string, error)

// Source resolves and validates wallet accounts through a single injected
// account hook. The hook is consulted on every call, so the set may change
// between requests.
type Source struct {
	getAccounts GetAccountsFunc
}

// NewSource returns a Source backed by getAccounts. The hook must not be nil.
func NewSource(getAccounts GetAccountsFunc) *Source {
	return &Source{getAccounts: getAccounts}
}

// Accounts returns the current account list in the order the hook reports it.
func (s *Source) Accounts(ctx context.Context) ([]string, error) {
	return s.getAccounts(ctx)
}

// ValidateSender checks that address names an account managed by this wallet.
// An empty address is rejected up front, without consulting the hook.
// Membership is case-insensitive, so checksummed and lowercased spellings of
// the same account match.
func (s *Source) ValidateSender(ctx context.Context, address string) error {
	if address == "" {
		return ErrMissingSender
	}
	accounts, err := s.getAccounts(ctx)
	if err != nil {
		return err
	}
	for _, account := range accounts {
		if strings.EqualFold(account, address) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownAddress, address)
}
