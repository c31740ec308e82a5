package bundler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/go-resty/resty/v2"

	"github.com/AvaProtocol/aa-sdk/core/chainio/aa"
	"github.com/AvaProtocol/aa-sdk/pkg/logger"
	"github.com/AvaProtocol/aa-sdk/pkg/smartwallet"
	"github.com/AvaProtocol/aa-sdk/pkg/userop"
)

const defaultTimeout = 30 * time.Second

// Config carries everything a BundlerClient needs besides the chain client.
// EntryPoint defaults to the canonical v0.7 deployment and Registry to the
// default factory deployments when left zero.
type Config struct {
	BundlerURL string
	EntryPoint common.Address
	ChainID    *big.Int

	// Sender is the smart wallet the client acts for, Validator the module
	// whose nonce lane it consumes. Factory and Bootstrap identify the
	// deployment the wallet came from; they override nothing when zero.
	Sender    common.Address
	Validator common.Address
	Factory   common.Address
	Bootstrap common.Address

	Kind     smartwallet.Kind
	Registry *smartwallet.Registry

	Timeout time.Duration
	Logger  logger.Logger
}

// BundlerClient talks JSON-RPC to an ERC-4337 bundler and reads the entry
// point over a regular chain client. It is safe for concurrent use.
type BundlerClient struct {
	conn       *ethclient.Client
	http       *resty.Client
	url        string
	entryPoint *aa.EntryPoint

	entryPointAddress common.Address
	chainID           *big.Int
	sender            common.Address
	validator         common.Address
	factory           common.Address
	bootstrap         common.Address
	kind              smartwallet.Kind
	registry          *smartwallet.Registry

	requestID atomic.Int64
	logger    logger.Logger

	mu      sync.Mutex
	wallets map[common.Address]smartwallet.Account
}

// NewBundlerClient wires a bundler transport and an entry point binding. The
// configured sender's account capability is resolved eagerly so an unsupported
// kind fails here instead of on the first transfer.
func NewBundlerClient(conn *ethclient.Client, cfg Config) (*BundlerClient, error) {
	if cfg.BundlerURL == "" {
		return nil, fmt.Errorf("bundler url is required")
	}

	registry := cfg.Registry
	if registry == nil {
		registry = smartwallet.DefaultRegistry()
	}

	entryPointAddress := cfg.EntryPoint
	if entryPointAddress == (common.Address{}) {
		entryPointAddress = aa.EntrypointAddress
	}

	account, err := registry.Account(cfg.Kind)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	bc := &BundlerClient{
		conn: conn,
		http: resty.New().
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
		url:               cfg.BundlerURL,
		entryPointAddress: entryPointAddress,
		chainID:           cfg.ChainID,
		sender:            cfg.Sender,
		validator:         cfg.Validator,
		factory:           cfg.Factory,
		bootstrap:         cfg.Bootstrap,
		kind:              cfg.Kind,
		registry:          registry,
		logger:            logger.EnsureLogger(cfg.Logger),
		wallets: map[common.Address]smartwallet.Account{
			cfg.Sender: account,
		},
	}

	if conn != nil {
		bc.entryPoint, err = aa.NewEntryPoint(entryPointAddress, conn)
		if err != nil {
			return nil, fmt.Errorf("bind entry point: %w", err)
		}
	}
	return bc, nil
}

// SupportedEntryPoint returns the entry point this client targets. Purely
// local; use SupportedEntryPoints to ask the bundler.
func (bc *BundlerClient) SupportedEntryPoint() common.Address {
	return bc.entryPointAddress
}

func (bc *BundlerClient) ChainID() *big.Int         { return bc.chainID }
func (bc *BundlerClient) Sender() common.Address    { return bc.sender }
func (bc *BundlerClient) Validator() common.Address { return bc.validator }
func (bc *BundlerClient) Factory() common.Address   { return bc.factory }
func (bc *BundlerClient) Bootstrap() common.Address { return bc.bootstrap }
func (bc *BundlerClient) Kind() smartwallet.Kind    { return bc.kind }

// Wallet looks up a tracked smart wallet account by address.
func (bc *BundlerClient) Wallet(addr common.Address) (smartwallet.Account, bool) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	account, ok := bc.wallets[addr]
	return account, ok
}

// RegisterWallet tracks an additional smart wallet account. The entry for an
// existing address is replaced.
func (bc *BundlerClient) RegisterWallet(addr common.Address, account smartwallet.Account) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	bc.wallets[addr] = account
}

// NonceKey builds the 192-bit entry point nonce key for a validator module:
// the module address occupies bytes [8, 28) of the 32-byte key buffer, the
// rest stays zero. The layout is fixed by the deployed account contracts.
func NonceKey(validator common.Address) *big.Int {
	var key [32]byte
	copy(key[8:28], validator.Bytes())
	return new(big.Int).SetBytes(key[:])
}

// GetNonce reads the sender's next nonce from the entry point on the
// validator's nonce lane. Always a live chain read.
func (bc *BundlerClient) GetNonce(ctx context.Context) (*big.Int, error) {
	if bc.entryPoint == nil {
		return nil, fmt.Errorf("no chain client configured")
	}
	nonce, err := bc.entryPoint.GetNonce(&bind.CallOpts{Context: ctx}, bc.sender, NonceKey(bc.validator))
	if err != nil {
		return nil, fmt.Errorf("get nonce from entry point: %w", err)
	}
	return nonce, nil
}

// EstimateUserOperationGas submits a partial operation for estimation. The
// operation may miss gas and fee fields; bundlers fill them server side.
func (bc *BundlerClient) EstimateUserOperationGas(ctx context.Context, op *userop.UserOperationPartial) (*userop.GasEstimation, error) {
	body, err := bc.post(ctx, "eth_estimateUserOperationGas", op, bc.entryPointAddress)
	if err != nil {
		return nil, err
	}
	estimation := &userop.GasEstimation{}
	if err := bc.parseResult(body, estimation); err != nil {
		return nil, err
	}
	return estimation, nil
}

// SendUserOperation submits a signed operation and returns its hash.
func (bc *BundlerClient) SendUserOperation(ctx context.Context, op userop.UserOperation) (common.Hash, error) {
	body, err := bc.post(ctx, "eth_sendUserOperation", op, bc.entryPointAddress)
	if err != nil {
		return common.Hash{}, err
	}
	var hash common.Hash
	if err := bc.parseResult(body, &hash); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

// GetUserOperationReceipt fetches the receipt for an operation hash. A nil
// receipt with nil error means the operation is not included yet; polling is
// the caller's business.
func (bc *BundlerClient) GetUserOperationReceipt(ctx context.Context, hash common.Hash) (*userop.Receipt, error) {
	body, err := bc.post(ctx, "eth_getUserOperationReceipt", hash)
	if err != nil {
		return nil, err
	}
	receipt := &userop.Receipt{}
	if err := bc.parseResult(body, receipt); err != nil {
		if err == errNullResult {
			return nil, nil
		}
		return nil, err
	}
	return receipt, nil
}

// GetUserOperationByHash fetches an operation and its inclusion coordinates.
// Like the receipt lookup, nil-nil means the bundler does not know the hash
// yet.
func (bc *BundlerClient) GetUserOperationByHash(ctx context.Context, hash common.Hash) (*userop.ByHash, error) {
	body, err := bc.post(ctx, "eth_getUserOperationByHash", hash)
	if err != nil {
		return nil, err
	}
	found := &userop.ByHash{}
	if err := bc.parseResult(body, found); err != nil {
		if err == errNullResult {
			return nil, nil
		}
		return nil, err
	}
	return found, nil
}

// SupportedEntryPoints asks the bundler which entry point deployments it
// accepts operations for.
func (bc *BundlerClient) SupportedEntryPoints(ctx context.Context) ([]common.Address, error) {
	body, err := bc.post(ctx, "eth_supportedEntryPoints")
	if err != nil {
		return nil, err
	}
	var entryPoints []common.Address
	if err := bc.parseResult(body, &entryPoints); err != nil {
		return nil, err
	}
	return entryPoints, nil
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int64         `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

var errNullResult = fmt.Errorf("bundler returned null result")

func (bc *BundlerClient) post(ctx context.Context, method string, params ...interface{}) ([]byte, error) {
	if params == nil {
		params = []interface{}{}
	}
	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      bc.requestID.Add(1),
		Method:  method,
		Params:  params,
	}

	bc.logger.Debug("posting to bundler", "method", method, "url", bc.url)
	resp, err := bc.http.R().
		SetContext(ctx).
		SetBody(req).
		Post(bc.url)
	if err != nil {
		return nil, fmt.Errorf("send %s to bundler: %w", method, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("bundler returned status %d for %s: %s", resp.StatusCode(), method, resp.String())
	}
	return resp.Body(), nil
}

// parseResult decodes a JSON-RPC envelope in two stages: a present result is
// decoded into out, otherwise the error member goes through classification. A
// well-formed envelope with a null result yields errNullResult so callers can
// distinguish "not found" from failure.
func (bc *BundlerClient) parseResult(body []byte, out interface{}) error {
	var envelope rpcResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode bundler response: %w", err)
	}

	if envelope.Error != nil {
		err := ClassifyError(envelope.Error.Code, envelope.Error.Message)
		bc.logger.Warn("bundler rejected request", "code", envelope.Error.Code, "message", envelope.Error.Message)
		return err
	}

	if len(envelope.Result) == 0 || bytes.Equal(envelope.Result, []byte("null")) {
		return errNullResult
	}
	return json.Unmarshal(envelope.Result, out)
}
