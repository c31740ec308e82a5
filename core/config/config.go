// Package config loads the YAML runtime configuration shared by the CLI and
// anything embedding the SDK: chain endpoints, bundler endpoint, wallet
// identity, and logging level.
package config

import (
	"fmt"
	"math/big"
	"os"

	sdklogging "github.com/Layr-Labs/eigensdk-go/logging"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	"github.com/AvaProtocol/aa-sdk/pkg/smartwallet"
)

// ControllerPrivateKeyEnv overrides the controller_private_key file entry so
// deployments can keep key material out of config files.
const ControllerPrivateKeyEnv = "CONTROLLER_PRIVATE_KEY"

// ConfigRaw mirrors the YAML document on disk.
type ConfigRaw struct {
	Environment sdklogging.LogLevel `yaml:"environment"`

	EthRpcUrl  string `yaml:"eth_rpc_url" validate:"required,url"`
	BundlerUrl string `yaml:"bundler_url" validate:"required,url"`
	ChainID    int64  `yaml:"chain_id" validate:"required,gt=0"`

	EntryPoint string `yaml:"entry_point" validate:"omitempty,eth_addr"`
	Sender     string `yaml:"sender" validate:"required,eth_addr"`
	Validator  string `yaml:"validator" validate:"required,eth_addr"`
	Factory    string `yaml:"factory" validate:"omitempty,eth_addr"`
	Bootstrap  string `yaml:"bootstrap" validate:"omitempty,eth_addr"`

	WalletKind string `yaml:"wallet_kind" validate:"required"`
	Salt       uint64 `yaml:"salt"`

	ControllerPrivateKey string `yaml:"controller_private_key"`
}

// Config is the parsed, validated runtime configuration.
type Config struct {
	Logger sdklogging.Logger

	EthRpcUrl  string
	BundlerUrl string
	ChainID    *big.Int

	EntryPoint common.Address
	Sender     common.Address
	Validator  common.Address
	Factory    common.Address
	Bootstrap  common.Address

	WalletKind smartwallet.Kind
	Salt       uint64

	// json:"-" keeps key material out of any config dump.
	ControllerPrivateKey string `json:"-"`
}

// NewConfig reads and validates the YAML file at path. The controller private
// key may come from the environment instead of the file; the environment
// wins when both are set.
func NewConfig(path string) (*Config, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var raw ConfigRaw
	if err := yaml.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	if key := os.Getenv(ControllerPrivateKeyEnv); key != "" {
		raw.ControllerPrivateKey = key
	}

	if err := validator.New().Struct(raw); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	kind := smartwallet.Kind(raw.WalletKind)
	if !smartwallet.IsSupportedKind(kind) {
		return nil, &smartwallet.UnsupportedWalletKindError{Kind: raw.WalletKind}
	}

	logger, err := sdklogging.NewZapLogger(normalizeLogLevel(raw.Environment))
	if err != nil {
		return nil, err
	}

	return &Config{
		Logger:               logger,
		EthRpcUrl:            raw.EthRpcUrl,
		BundlerUrl:           raw.BundlerUrl,
		ChainID:              big.NewInt(raw.ChainID),
		EntryPoint:           common.HexToAddress(raw.EntryPoint),
		Sender:               common.HexToAddress(raw.Sender),
		Validator:            common.HexToAddress(raw.Validator),
		Factory:              common.HexToAddress(raw.Factory),
		Bootstrap:            common.HexToAddress(raw.Bootstrap),
		WalletKind:           kind,
		Salt:                 raw.Salt,
		ControllerPrivateKey: raw.ControllerPrivateKey,
	}, nil
}

func normalizeLogLevel(level sdklogging.LogLevel) sdklogging.LogLevel {
	if level == "" {
		return sdklogging.Production
	}
	return level
}
