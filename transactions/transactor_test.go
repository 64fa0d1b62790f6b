package transactions

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/suite"

	"github.com/status-im/hooked-wallet/account"
)

func TestTransactorSuite(t *testing.T) {
	suite.Run(t, new(TransactorSuite))
}

var (
	testFrom = common.HexToAddress("0xAdD522FD1bc3bc564a39F54a0777cF34B4D7a4a4")
	testTo   = common.HexToAddress("0x2FF93691673E9AC22b213eda2a95dBb08c33dc4C")
	testHash = common.HexToHash("0x3e2f66ffa48216849a69d3d2a10d769bc1ba75e7677439071250dd3b48e1b15d")
)

// fakeCaller serves the emitter methods the Transactor relies on with canned
// values and records every outbound call.
type fakeCaller struct {
	mu      sync.Mutex
	calls   []string
	rawSent hexutil.Bytes

	gasPrice    *big.Int
	nonce       uint64
	gas         uint64
	hash        common.Hash
	errByMethod map[string]error
}

func newFakeCaller() *fakeCaller {
	return &fakeCaller{
		gasPrice:    big.NewInt(20000000000),
		nonce:       5,
		gas:         21000,
		hash:        testHash,
		errByMethod: map[string]error{},
	}
}

func (f *fakeCaller) CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	f.mu.Lock()
	f.calls = append(f.calls, method)
	f.mu.Unlock()

	if err := f.errByMethod[method]; err != nil {
		return err
	}
	switch method {
	case "eth_gasPrice":
		*(result.(*hexutil.Big)) = hexutil.Big(*f.gasPrice)
	case "eth_getTransactionCount":
		*(result.(*hexutil.Uint64)) = hexutil.Uint64(f.nonce)
	case "eth_estimateGas":
		*(result.(*hexutil.Uint64)) = hexutil.Uint64(f.gas)
	case "eth_sendRawTransaction":
		raw := args[0].(hexutil.Bytes)
		f.mu.Lock()
		f.rawSent = append(hexutil.Bytes(nil), raw...)
		f.mu.Unlock()
		*(result.(*common.Hash)) = f.hash
	}
	return nil
}

func (f *fakeCaller) called(method string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, call := range f.calls {
		if call == method {
			return true
		}
	}
	return false
}

func staticSigner(raw hexutil.Bytes) SignTransactionFunc {
	return func(ctx context.Context, args SendTxArgs) (hexutil.Bytes, error) {
		return raw, nil
	}
}

func testArgs() SendTxArgs {
	from := testFrom
	to := testTo
	return SendTxArgs{From: &from, To: &to}
}

type TransactorSuite struct {
	suite.Suite
	caller *fakeCaller
}

func (s *TransactorSuite) SetupTest() {
	s.caller = newFakeCaller()
}

func (s *TransactorSuite) TestFillsMissingExtras() {
	var signed SendTxArgs
	signer := func(ctx context.Context, args SendTxArgs) (hexutil.Bytes, error) {
		signed = args
		return hexutil.Bytes{0x01}, nil
	}
	transactor := NewTransactor(s.caller, signer, nil)

	hash, err := transactor.SendTransaction(context.Background(), testArgs())
	s.Require().NoError(err)
	s.Require().Equal(testHash, hash)

	s.Require().NotNil(signed.GasPrice)
	s.Require().Equal("0x4a817c800", signed.GasPrice.String())
	s.Require().NotNil(signed.Nonce)
	s.Require().Equal(hexutil.Uint64(5), *signed.Nonce)
	s.Require().NotNil(signed.Gas)
	s.Require().Equal(hexutil.Uint64(21000), *signed.Gas)

	s.Require().True(s.caller.called("eth_gasPrice"))
	s.Require().True(s.caller.called("eth_getTransactionCount"))
	s.Require().True(s.caller.called("eth_estimateGas"))
}

func (s *TransactorSuite) TestKeepsProvidedExtras() {
	gas := hexutil.Uint64(42000)
	gasPrice := (*hexutil.Big)(big.NewInt(111))
	nonce := hexutil.Uint64(12)

	var signed SendTxArgs
	signer := func(ctx context.Context, args SendTxArgs) (hexutil.Bytes, error) {
		signed = args
		return hexutil.Bytes{0x01}, nil
	}
	transactor := NewTransactor(s.caller, signer, nil)

	args := testArgs()
	args.Gas = &gas
	args.GasPrice = gasPrice
	args.Nonce = &nonce

	_, err := transactor.SendTransaction(context.Background(), args)
	s.Require().NoError(err)

	s.Require().Equal(gas, *signed.Gas)
	s.Require().Equal(gasPrice, signed.GasPrice)
	s.Require().Equal(nonce, *signed.Nonce)

	s.Require().False(s.caller.called("eth_gasPrice"))
	s.Require().False(s.caller.called("eth_getTransactionCount"))
	s.Require().False(s.caller.called("eth_estimateGas"))
}

func (s *TransactorSuite) TestFillLooksUpOnlyMissingFields() {
	gasPrice := (*hexutil.Big)(big.NewInt(111))
	transactor := NewTransactor(s.caller, staticSigner(hexutil.Bytes{0x01}), nil)

	args := testArgs()
	args.GasPrice = gasPrice

	_, err := transactor.SendTransaction(context.Background(), args)
	s.Require().NoError(err)

	s.Require().False(s.caller.called("eth_gasPrice"))
	s.Require().True(s.caller.called("eth_getTransactionCount"))
	s.Require().True(s.caller.called("eth_estimateGas"))
}

func (s *TransactorSuite) TestFillFailsFastWithoutPartialMerge() {
	lookupErr := errors.New("gas price unavailable")
	s.caller.errByMethod["eth_gasPrice"] = lookupErr

	signerCalled := false
	signer := func(ctx context.Context, args SendTxArgs) (hexutil.Bytes, error) {
		signerCalled = true
		return hexutil.Bytes{0x01}, nil
	}
	transactor := NewTransactor(s.caller, signer, nil)

	args := testArgs()
	err := transactor.fillTransactionExtras(context.Background(), &args)
	s.Require().ErrorIs(err, lookupErr)
	// sibling lookups may have succeeded, but nothing is merged on failure
	s.Require().Nil(args.GasPrice)
	s.Require().Nil(args.Nonce)
	s.Require().Nil(args.Gas)

	_, err = transactor.SendTransaction(context.Background(), testArgs())
	s.Require().ErrorIs(err, lookupErr)
	s.Require().False(signerCalled)
	s.Require().False(s.caller.called("eth_sendRawTransaction"))
}

func (s *TransactorSuite) TestEstimatorReceivesCanonicalFieldsOnly() {
	var estimated SendTxArgs
	estimator := func(ctx context.Context, args SendTxArgs) (hexutil.Uint64, error) {
		estimated = args
		return hexutil.Uint64(30000), nil
	}
	transactor := NewTransactor(s.caller, staticSigner(hexutil.Bytes{0x01}), estimator)

	args := testArgs()
	args.Value = (*hexutil.Big)(big.NewInt(1))
	args.Data = hexutil.Bytes{0xde, 0xad}

	_, err := transactor.SendTransaction(context.Background(), args)
	s.Require().NoError(err)
	s.Require().False(s.caller.called("eth_estimateGas"))

	s.Require().Equal(testFrom, *estimated.From)
	s.Require().Equal(testTo, *estimated.To)
	s.Require().Equal(args.Value, estimated.Value)
	s.Require().Equal(args.Data, estimated.Data)
	// the estimate runs against the caller's view, before defaults resolve
	s.Require().Nil(estimated.Gas)
	s.Require().Nil(estimated.GasPrice)
	s.Require().Nil(estimated.Nonce)
}

func (s *TransactorSuite) TestSendTransactionPublishesSignedPayload() {
	raw := hexutil.Bytes{0xf8, 0x6b, 0x80}
	transactor := NewTransactor(s.caller, staticSigner(raw), nil)

	hash, err := transactor.SendTransaction(context.Background(), testArgs())
	s.Require().NoError(err)
	s.Require().Equal(testHash, hash)
	s.Require().Equal(raw, s.caller.rawSent)
}

func (s *TransactorSuite) TestSignTransactionDoesNotPublish() {
	raw := hexutil.Bytes{0xf8, 0x6b, 0x80}
	transactor := NewTransactor(s.caller, staticSigner(raw), nil)

	result, err := transactor.SignTransaction(context.Background(), testArgs())
	s.Require().NoError(err)
	s.Require().Equal(raw, result.Raw)
	s.Require().NotNil(result.Tx.Nonce)
	s.Require().Equal(hexutil.Uint64(5), *result.Tx.Nonce)
	s.Require().NotNil(result.Tx.Gas)
	s.Require().NotNil(result.Tx.GasPrice)
	s.Require().False(s.caller.called("eth_sendRawTransaction"))
}

func (s *TransactorSuite) TestSignerFailureAbortsPublish() {
	signerErr := errors.New("keystore locked")
	signer := func(ctx context.Context, args SendTxArgs) (hexutil.Bytes, error) {
		return nil, signerErr
	}
	transactor := NewTransactor(s.caller, signer, nil)

	_, err := transactor.SendTransaction(context.Background(), testArgs())
	s.Require().ErrorIs(err, signerErr)
	s.Require().False(s.caller.called("eth_sendRawTransaction"))
}

func (s *TransactorSuite) TestLockReleasedAfterSignerFailure() {
	failures := int32(1)
	signer := func(ctx context.Context, args SendTxArgs) (hexutil.Bytes, error) {
		if atomic.AddInt32(&failures, -1) >= 0 {
			return nil, errors.New("transient")
		}
		return hexutil.Bytes{0x01}, nil
	}
	transactor := NewTransactor(s.caller, signer, nil)

	_, err := transactor.SendTransaction(context.Background(), testArgs())
	s.Require().Error(err)

	// a deadlocked nonce lock would hang the suite here
	hash, err := transactor.SendTransaction(context.Background(), testArgs())
	s.Require().NoError(err)
	s.Require().Equal(testHash, hash)
}

func (s *TransactorSuite) TestFinalizeIsSerialized() {
	const workers = 8
	var inflight, maxInflight int32
	signer := func(ctx context.Context, args SendTxArgs) (hexutil.Bytes, error) {
		current := atomic.AddInt32(&inflight, 1)
		defer atomic.AddInt32(&inflight, -1)
		for {
			max := atomic.LoadInt32(&maxInflight)
			if current <= max || atomic.CompareAndSwapInt32(&maxInflight, max, current) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		return hexutil.Bytes{0x01}, nil
	}
	transactor := NewTransactor(s.caller, signer, nil)

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := transactor.SendTransaction(context.Background(), testArgs())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		s.Require().NoError(err)
	}
	s.Require().EqualValues(1, atomic.LoadInt32(&maxInflight))
}

func (s *TransactorSuite) TestInvalidArgsRejected() {
	transactor := NewTransactor(s.caller, staticSigner(hexutil.Bytes{0x01}), nil)

	args := testArgs()
	args.Input = hexutil.Bytes{0x01, 0x02}
	args.Data = hexutil.Bytes{0x02, 0x01}
	s.Require().False(args.Valid())

	_, err := transactor.SendTransaction(context.Background(), args)
	s.Require().ErrorIs(err, ErrInvalidSendTxArgs)

	_, err = transactor.SendTransaction(context.Background(), SendTxArgs{})
	s.Require().ErrorIs(err, ErrInvalidSendTxArgs)
}

func TestValidateSendArgs(t *testing.T) {
	ctx := context.Background()
	source := account.NewSource(func(ctx context.Context) ([]string, error) {
		return []string{testFrom.Hex()}, nil
	})

	t.Run("missing from", func(t *testing.T) {
		err := ValidateSendArgs(ctx, source, SendTxArgs{})
		if !errors.Is(err, account.ErrMissingSender) {
			t.Fatalf("expected ErrMissingSender, got %v", err)
		}
	})

	t.Run("ambiguous input and data", func(t *testing.T) {
		args := testArgs()
		args.Input = hexutil.Bytes{0x01}
		args.Data = hexutil.Bytes{0x02}
		err := ValidateSendArgs(ctx, source, args)
		if !errors.Is(err, ErrInvalidSendTxArgs) {
			t.Fatalf("expected ErrInvalidSendTxArgs, got %v", err)
		}
	})

	t.Run("unknown sender", func(t *testing.T) {
		unknown := common.HexToAddress("0x0000000000000000000000000000000000000001")
		args := SendTxArgs{From: &unknown}
		err := ValidateSendArgs(ctx, source, args)
		if !errors.Is(err, account.ErrUnknownAddress) {
			t.Fatalf("expected ErrUnknownAddress, got %v", err)
		}
	})

	t.Run("known sender", func(t *testing.T) {
		args := testArgs()
		if err := ValidateSendArgs(ctx, source, args); err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
	})
}
