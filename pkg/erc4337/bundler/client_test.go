package bundler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AvaProtocol/aa-sdk/pkg/smartwallet"
	"github.com/AvaProtocol/aa-sdk/pkg/userop"
)

// fakeBundler records the last JSON-RPC request and plays back a canned
// response body.
type fakeBundler struct {
	lastMethod string
	lastParams []json.RawMessage
	respond    func(method string) string
}

func (f *fakeBundler) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req struct {
			JSONRPC string            `json:"jsonrpc"`
			Method  string            `json:"method"`
			Params  []json.RawMessage `json:"params"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.JSONRPC != "2.0" {
			http.Error(w, "not jsonrpc 2.0", http.StatusBadRequest)
			return
		}
		f.lastMethod = req.Method
		f.lastParams = req.Params
		fmt.Fprint(w, f.respond(req.Method))
	}
}

func newTestClient(t *testing.T, fake *fakeBundler) *BundlerClient {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	bc, err := NewBundlerClient(nil, Config{
		BundlerURL: srv.URL,
		ChainID:    big.NewInt(11155111),
		Sender:     common.HexToAddress("0xe272b72E51a5bF8cB720fc6D6DF164a4D5E321C5"),
		Validator:  common.HexToAddress("0x0b9d0d3011f40ea81b0b25cd83f3d78a3988c721"),
		Kind:       smartwallet.KindMSASepolia,
	})
	require.NoError(t, err)
	return bc
}

func TestEstimateUserOperationGas(t *testing.T) {
	fake := &fakeBundler{respond: func(string) string {
		return `{"jsonrpc":"2.0","id":1,"result":{
			"preVerificationGas":"0xbd04",
			"verificationGasLimit":"0x249f0",
			"callGasLimit":"0x9c40",
			"paymasterVerificationGasLimit":"0x0",
			"paymasterPostOpGasLimit":"0x0"}}`
	}}
	bc := newTestClient(t, fake)

	sender := bc.Sender()
	op := &userop.UserOperationPartial{Sender: &sender, CallData: []byte{0x01}}
	est, err := bc.EstimateUserOperationGas(context.Background(), op)
	require.NoError(t, err)

	assert.Equal(t, "eth_estimateUserOperationGas", fake.lastMethod)
	require.Len(t, fake.lastParams, 2)
	assert.Equal(t, int64(0xbd04), est.PreVerificationGas.Int64())
	assert.Equal(t, int64(0x249f0), est.VerificationGasLimit.Int64())
	assert.Equal(t, int64(0x9c40), est.CallGasLimit.Int64())

	// Second param is the entry point; default deployment unless overridden.
	var ep common.Address
	require.NoError(t, json.Unmarshal(fake.lastParams[1], &ep))
	assert.Equal(t, bc.SupportedEntryPoint(), ep)
}

func TestSendUserOperation(t *testing.T) {
	opHash := "0x1fcb5a848b0d35c2c55b0d1d43cbdd7bd7b87dbcbbe295c0b440cd6b18bb2e0b"
	fake := &fakeBundler{respond: func(string) string {
		return fmt.Sprintf(`{"jsonrpc":"2.0","id":1,"result":"%s"}`, opHash)
	}}
	bc := newTestClient(t, fake)

	op := userop.UserOperation{
		Sender:    bc.Sender(),
		Nonce:     big.NewInt(1),
		Paymaster: userop.NoPaymaster,
		Signature: []byte{0x01},
	}
	hash, err := bc.SendUserOperation(context.Background(), op)
	require.NoError(t, err)
	assert.Equal(t, common.HexToHash(opHash), hash)
	assert.Equal(t, "eth_sendUserOperation", fake.lastMethod)

	// The operation travels as camelCase hex, paymaster sentinel included.
	var wire map[string]interface{}
	require.NoError(t, json.Unmarshal(fake.lastParams[0], &wire))
	assert.Equal(t, "0x1", wire["nonce"])
	assert.Equal(t, "0x", wire["paymaster"])
	assert.Equal(t, "0x01", wire["signature"])
}

func TestSendUserOperationClassifiesRejection(t *testing.T) {
	fake := &fakeBundler{respond: func(string) string {
		return `{"jsonrpc":"2.0","id":1,"error":{"code":-32500,"message":"Call gas limit 100 is lower than call gas estimation 250"}}`
	}}
	bc := newTestClient(t, fake)

	_, err := bc.SendUserOperation(context.Background(), userop.UserOperation{})
	var cgl *CallGasLimitError
	require.ErrorAs(t, err, &cgl)
	assert.Equal(t, uint64(100), cgl.Limit)
	assert.Equal(t, uint64(250), cgl.Estimation)
}

func TestGetUserOperationReceiptPending(t *testing.T) {
	fake := &fakeBundler{respond: func(string) string {
		return `{"jsonrpc":"2.0","id":1,"result":null}`
	}}
	bc := newTestClient(t, fake)

	receipt, err := bc.GetUserOperationReceipt(context.Background(), common.HexToHash("0x01"))
	require.NoError(t, err)
	assert.Nil(t, receipt)
}

func TestGetUserOperationReceipt(t *testing.T) {
	fake := &fakeBundler{respond: func(string) string {
		return `{"jsonrpc":"2.0","id":1,"result":{
			"userOpHash":"0x1fcb5a848b0d35c2c55b0d1d43cbdd7bd7b87dbcbbe295c0b440cd6b18bb2e0b",
			"sender":"0xe272b72e51a5bf8cb720fc6d6df164a4d5e321c5",
			"nonce":"0x2",
			"paymaster":null,
			"actualGasCost":"0x2710",
			"actualGasUsed":"0x1388",
			"success":true,
			"logs":[]}}`
	}}
	bc := newTestClient(t, fake)

	receipt, err := bc.GetUserOperationReceipt(context.Background(), common.HexToHash("0x01"))
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.True(t, receipt.Success)
	assert.Equal(t, int64(0x2710), receipt.ActualGasCost.ToInt().Int64())
	assert.Equal(t, bc.Sender(), receipt.Sender)

	// Unsponsored operations report a null paymaster.
	assert.Nil(t, receipt.Paymaster)
}

func TestGetUserOperationReceiptSponsored(t *testing.T) {
	fake := &fakeBundler{respond: func(string) string {
		return `{"jsonrpc":"2.0","id":1,"result":{
			"userOpHash":"0x1fcb5a848b0d35c2c55b0d1d43cbdd7bd7b87dbcbbe295c0b440cd6b18bb2e0b",
			"sender":"0xe272b72e51a5bf8cb720fc6d6df164a4d5e321c5",
			"nonce":"0x3",
			"paymaster":"0x00000000000000fb866daaa79352cc568a005d96",
			"actualGasCost":"0x2710",
			"actualGasUsed":"0x1388",
			"success":true,
			"logs":[]}}`
	}}
	bc := newTestClient(t, fake)

	receipt, err := bc.GetUserOperationReceipt(context.Background(), common.HexToHash("0x01"))
	require.NoError(t, err)
	require.NotNil(t, receipt)
	require.NotNil(t, receipt.Paymaster)
	assert.Equal(t, common.HexToAddress("0x00000000000000fb866daaa79352cc568a005d96"), *receipt.Paymaster)
}

func TestSupportedEntryPoints(t *testing.T) {
	fake := &fakeBundler{respond: func(string) string {
		return `{"jsonrpc":"2.0","id":1,"result":["0x0000000071727de22e5e9d8baf0edac6f37da032"]}`
	}}
	bc := newTestClient(t, fake)

	entryPoints, err := bc.SupportedEntryPoints(context.Background())
	require.NoError(t, err)
	require.Len(t, entryPoints, 1)
	assert.Equal(t, bc.SupportedEntryPoint(), entryPoints[0])
}

func TestTransportErrorsAreNotClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	bc, err := NewBundlerClient(nil, Config{
		BundlerURL: srv.URL,
		Sender:     common.HexToAddress("0x01"),
		Kind:       smartwallet.KindSimpleAccount,
	})
	require.NoError(t, err)

	_, err = bc.SupportedEntryPoints(context.Background())
	require.Error(t, err)
	var unknown *UnknownError
	assert.False(t, errors.As(err, &unknown), "HTTP failures must not look like bundler rejections")
}

func TestNewBundlerClientRejectsUnknownKind(t *testing.T) {
	_, err := NewBundlerClient(nil, Config{
		BundlerURL: "http://localhost:4337",
		Kind:       smartwallet.Kind("nonexistent-kind"),
	})
	var kindErr *smartwallet.UnsupportedWalletKindError
	require.ErrorAs(t, err, &kindErr)
}

func TestWalletMap(t *testing.T) {
	fake := &fakeBundler{respond: func(string) string { return `{}` }}
	bc := newTestClient(t, fake)

	account, ok := bc.Wallet(bc.Sender())
	require.True(t, ok, "configured sender must be tracked from construction")
	assert.Equal(t, smartwallet.KindMSASepolia, account.Kind())

	other := common.HexToAddress("0x02")
	_, ok = bc.Wallet(other)
	assert.False(t, ok)

	simple, err := smartwallet.DefaultRegistry().Account(smartwallet.KindSimpleAccount)
	require.NoError(t, err)
	bc.RegisterWallet(other, simple)
	account, ok = bc.Wallet(other)
	require.True(t, ok)
	assert.Equal(t, smartwallet.KindSimpleAccount, account.Kind())
}

func TestNonceKeyLayout(t *testing.T) {
	validator := common.HexToAddress("0x0b9d0d3011f40ea81b0b25cd83f3d78a3988c721")
	key := NonceKey(validator)

	// The key is the validator address shifted into bytes [8, 28) of a
	// 32-byte word: numerically validator << 32.
	want := new(big.Int).Lsh(validator.Big(), 32)
	assert.Zero(t, key.Cmp(want))

	var buf [32]byte
	key.FillBytes(buf[:])
	assert.Equal(t, validator.Bytes(), buf[8:28])
	assert.Equal(t, make([]byte, 8), buf[:8])
	assert.Equal(t, make([]byte, 4), buf[28:])
}
