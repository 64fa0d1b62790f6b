package typeddata

import (
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ChainIDKey is the domain field carrying the chain the document is bound to.
const ChainIDKey = "chainId"

// x19 to avoid collision with rlp encode. x01 version byte defined in EIP-191
var messagePadding = []byte{0x19, 0x01}

func hashToSign(typed TypedData) (rst common.Hash, err error) {
	domainSeparator, err := encodeData(eip712Domain, typed.Domain, typed.Types)
	if err != nil {
		return rst, err
	}
	primary, err := encodeData(typed.PrimaryType, typed.Message, typed.Types)
	if err != nil {
		return rst, err
	}
	return crypto.Keccak256Hash(messagePadding, domainSeparator[:], primary[:]), nil
}

// Sign TypedData with a given private key. Verifies that chainId in the typed
// data matches the currently selected chain.
func Sign(typed TypedData, prv *ecdsa.PrivateKey, chain *big.Int) ([]byte, error) {
	if err := typed.Validate(); err != nil {
		return nil, err
	}
	raw, exist := typed.Domain[ChainIDKey]
	if !exist {
		return nil, fmt.Errorf("domain misses chain key %s", ChainIDKey)
	}
	var chainID int64
	if err := json.Unmarshal(raw, &chainID); err != nil {
		return nil, fmt.Errorf("chainId is not an integer: %v", err)
	}
	if chainID != chain.Int64() {
		return nil, fmt.Errorf("chainId %d doesn't match selected chain %s", chainID, chain)
	}
	hash, err := hashToSign(typed)
	if err != nil {
		return nil, err
	}
	return crypto.Sign(hash[:], prv)
}
