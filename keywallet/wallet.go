package keywallet

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/status-im/hooked-wallet/account"
	"github.com/status-im/hooked-wallet/sign"
	"github.com/status-im/hooked-wallet/transactions"
	"github.com/status-im/hooked-wallet/typeddata"
	"github.com/status-im/hooked-wallet/wallet"
)

// Wallet holds plain ECDSA keys in memory and implements the full signing
// capability set expected by the subprovider. It is the batteries-included
// alternative to wiring your own hooks: construct it with the chain and the
// account keys and hand Hooks to wallet.NewSubprovider.
//
// Keys live unencrypted in process memory, which makes the type a fit for
// tests and tooling rather than end-user wallets.
type Wallet struct {
	chainID  *big.Int
	accounts []string
	keys     map[common.Address]*ecdsa.PrivateKey
}

// New returns a Wallet signing for the given keys on the given chain.
func New(chainID *big.Int, keys ...*ecdsa.PrivateKey) *Wallet {
	w := &Wallet{
		chainID: chainID,
		keys:    make(map[common.Address]*ecdsa.PrivateKey, len(keys)),
	}
	for _, key := range keys {
		address := crypto.PubkeyToAddress(key.PublicKey)
		w.accounts = append(w.accounts, address.Hex())
		w.keys[address] = key
	}
	return w
}

// Hooks assembles the capability set backed by the wallet keys.
func (w *Wallet) Hooks() wallet.Hooks {
	return wallet.Hooks{
		GetAccounts:         w.getAccounts,
		SignTransaction:     w.signTransaction,
		SignMessage:         w.signMessage,
		SignPersonalMessage: w.signMessage,
		SignTypedMessage:    w.signTypedMessage,
	}
}

func (w *Wallet) getAccounts(ctx context.Context) ([]string, error) {
	return append([]string(nil), w.accounts...), nil
}

func (w *Wallet) keyFor(address string) (*ecdsa.PrivateKey, error) {
	key, ok := w.keys[common.HexToAddress(address)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", account.ErrUnknownAddress, address)
	}
	return key, nil
}

// signTransaction builds a legacy transaction from fully populated args and
// returns the RLP-encoded signed payload.
func (w *Wallet) signTransaction(ctx context.Context, args transactions.SendTxArgs) (hexutil.Bytes, error) {
	key, err := w.keyFor(args.From.Hex())
	if err != nil {
		return nil, err
	}
	tx := buildTransaction(args)
	signedTx, err := gethtypes.SignTx(tx, gethtypes.NewLondonSigner(w.chainID), key)
	if err != nil {
		return nil, err
	}
	data, err := rlp.EncodeToBytes(signedTx)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// buildTransaction expects args completed by the transactor: nonce, gas and
// gasPrice must be present.
func buildTransaction(args transactions.SendTxArgs) *gethtypes.Transaction {
	value := (*big.Int)(args.Value)
	if value == nil {
		value = new(big.Int)
	}
	txData := &gethtypes.LegacyTx{
		Nonce:    uint64(*args.Nonce),
		GasPrice: (*big.Int)(args.GasPrice),
		Gas:      uint64(*args.Gas),
		Value:    value,
		Data:     args.GetInput(),
	}
	if args.To != nil {
		to := *args.To
		txData.To = &to
	}
	return gethtypes.NewTx(txData)
}

// signMessage signs a hex-encoded payload with the EIP-191 personal-message
// prefix, serving both eth_sign and personal_sign.
func (w *Wallet) signMessage(ctx context.Context, msg sign.MessageParams) (string, error) {
	key, err := w.keyFor(msg.From)
	if err != nil {
		return "", err
	}
	data, err := hexutil.Decode(msg.Data)
	if err != nil {
		return "", err
	}
	signature, err := crypto.Sign(accounts.TextHash(data), key)
	if err != nil {
		return "", err
	}
	// transform V from 0/1 to 27/28 per the yellow paper
	if signature[64] < 27 {
		signature[64] += 27
	}
	return hexutil.Encode(signature), nil
}

// signTypedMessage signs an EIP-712 document submitted either as a JSON string
// or as an already decoded object.
func (w *Wallet) signTypedMessage(ctx context.Context, msg sign.TypedMessageParams) (string, error) {
	key, err := w.keyFor(msg.From)
	if err != nil {
		return "", err
	}
	typed, err := decodeTypedData(msg.Data)
	if err != nil {
		return "", err
	}
	signature, err := typeddata.Sign(typed, key, w.chainID)
	if err != nil {
		return "", err
	}
	if signature[64] < 27 {
		signature[64] += 27
	}
	return hexutil.Encode(signature), nil
}

func decodeTypedData(data interface{}) (typeddata.TypedData, error) {
	var typed typeddata.TypedData
	switch payload := data.(type) {
	case string:
		if err := json.Unmarshal([]byte(payload), &typed); err != nil {
			return typed, err
		}
	default:
		raw, err := json.Marshal(payload)
		if err != nil {
			return typed, err
		}
		if err := json.Unmarshal(raw, &typed); err != nil {
			return typed, err
		}
	}
	return typed, nil
}
