package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"

	appconfig "github.com/AvaProtocol/aa-sdk/core/config"
	"github.com/AvaProtocol/aa-sdk/pkg/erc4337/bundler"
)

// newBundlerClient loads the config file behind the --config flag and wires
// the chain client and bundler client every subcommand needs.
func newBundlerClient() (*appconfig.Config, *bundler.BundlerClient, error) {
	cfg, err := appconfig.NewConfig(config)
	if err != nil {
		return nil, nil, err
	}

	conn, err := ethclient.Dial(cfg.EthRpcUrl)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to %s: %w", cfg.EthRpcUrl, err)
	}

	bc, err := bundler.NewBundlerClient(conn, bundler.Config{
		BundlerURL: cfg.BundlerUrl,
		EntryPoint: cfg.EntryPoint,
		ChainID:    cfg.ChainID,
		Sender:     cfg.Sender,
		Validator:  cfg.Validator,
		Factory:    cfg.Factory,
		Bootstrap:  cfg.Bootstrap,
		Kind:       cfg.WalletKind,
		Logger:     cfg.Logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, bc, nil
}
