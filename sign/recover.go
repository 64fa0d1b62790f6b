package sign

import (
	"errors"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

const validSignatureSize = 65

// ErrInvalidSignatureSize is returned if a signature is not 65 bytes to avoid a panic from go-ethereum.
var ErrInvalidSignatureSize = errors.New("signature size must be 65")

// RecoverPersonalSignature is the built-in personal_ecRecover implementation.
// It hashes the payload with the EIP-191 personal-message prefix and returns
// the checksummed address that produced the signature.
func RecoverPersonalSignature(params RecoverParams) (string, error) {
	data, err := hexutil.Decode(params.Data)
	if err != nil {
		return "", err
	}
	sig, err := hexutil.Decode(params.Sig)
	if err != nil {
		return "", err
	}
	if len(sig) != validSignatureSize {
		return "", ErrInvalidSignatureSize
	}

	// go-ethereum expects the recovery id in the lower 0/1 form
	recoverable := make([]byte, len(sig))
	copy(recoverable, sig)
	if recoverable[64] >= 27 {
		recoverable[64] -= 27
	}

	pubkey, err := crypto.SigToPub(accounts.TextHash(data), recoverable)
	if err != nil {
		return "", err
	}
	return crypto.PubkeyToAddress(*pubkey).Hex(), nil
}
