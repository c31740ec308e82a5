package config

import "math/big"

type ChainEnv string

const (
	SepoliaEnv  = ChainEnv("sepolia")
	EthereumEnv = ChainEnv("ethereum")
)

var (
	MainnetChainID = big.NewInt(1)
	SepoliaChainID = big.NewInt(11155111)
)

// ChainEnvFor maps a chain id onto the named environments. Unknown networks
// get the Sepolia treatment for explorer links.
func ChainEnvFor(chainID *big.Int) ChainEnv {
	if chainID != nil && chainID.Cmp(MainnetChainID) == 0 {
		return EthereumEnv
	}
	return SepoliaEnv
}

func EtherscanURL(env ChainEnv) string {
	if env == EthereumEnv {
		return "https://etherscan.io"
	}
	return "https://sepolia.etherscan.io"
}
