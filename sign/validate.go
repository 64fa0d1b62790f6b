package sign

import (
	"context"
	"errors"

	"github.com/status-im/hooked-wallet/account"
)

var (
	// ErrMissingData is returned when a signing request omits the message payload.
	ErrMissingData = errors.New("message data is required")
	// ErrMessageNotHex is returned when a personal message payload is not hex encoded.
	ErrMessageNotHex = errors.New("message data must be a 0x-prefixed hex string")
)

// ValidateMessage runs the validation stage for eth_sign requests: the sender
// must be present and one of the wallet accounts. The payload shape is not
// constrained.
func ValidateMessage(ctx context.Context, accounts *account.Source, msg MessageParams) error {
	return accounts.ValidateSender(ctx, msg.From)
}

// ValidatePersonalMessage additionally requires the payload itself: personal
// messages must carry data encoded as a "0x"-prefixed sequence of hex digits.
func ValidatePersonalMessage(ctx context.Context, accounts *account.Source, msg MessageParams) error {
	if msg.From == "" {
		return account.ErrMissingSender
	}
	if msg.Data == "" {
		return ErrMissingData
	}
	if !IsHexString(msg.Data) {
		return ErrMessageNotHex
	}
	return accounts.ValidateSender(ctx, msg.From)
}

// ValidateTypedMessage requires both sender and payload. Typed payloads are
// structured documents, so no hex shape is enforced.
func ValidateTypedMessage(ctx context.Context, accounts *account.Source, msg TypedMessageParams) error {
	if msg.From == "" {
		return account.ErrMissingSender
	}
	if msg.Data == nil {
		return ErrMissingData
	}
	return accounts.ValidateSender(ctx, msg.From)
}

// IsHexString reports whether s is a "0x"-prefixed non-empty sequence of hex
// digits. The check runs over digits, not whole bytes, so an odd-length
// sequence is accepted.
func IsHexString(s string) bool {
	if len(s) < 3 || s[0] != '0' || s[1] != 'x' {
		return false
	}
	for _, c := range s[2:] {
		if !isHexDigit(c) {
			return false
		}
	}
	return true
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
