package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/spf13/cobra"

	"github.com/AvaProtocol/aa-sdk/core/chainio/signer"
	"github.com/AvaProtocol/aa-sdk/pkg/userop"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Derive the counterfactual smart wallet address",
	Long: `Ask the configured factory which address the smart wallet for the
configured salt will deploy to. The wallet does not need to exist yet.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, bc, err := newBundlerClient()
		if err != nil {
			fmt.Printf("cannot initialize client: %v\n", err)
			os.Exit(1)
		}

		controller, err := signer.NewLocalSigner(cfg.ControllerPrivateKey, cfg.ChainID)
		if err != nil {
			fmt.Printf("cannot load controller key: %v\n", err)
			os.Exit(1)
		}

		conn, err := ethclient.Dial(cfg.EthRpcUrl)
		if err != nil {
			fmt.Printf("cannot connect: %v\n", err)
			os.Exit(1)
		}

		builder, err := userop.NewBuilder(conn, nil, controller.Address(), bc.Kind(), nil, &cfg.Salt)
		if err != nil {
			fmt.Printf("cannot resolve wallet kind: %v\n", err)
			os.Exit(1)
		}

		addr, err := builder.DeriveAddress(context.Background())
		if err != nil {
			fmt.Printf("cannot derive address: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wallet kind: %s\n", bc.Kind())
		fmt.Printf("salt:        %d\n", cfg.Salt)
		fmt.Printf("address:     %s\n", addr.Hex())
	},
}

func init() {
	rootCmd.AddCommand(walletCmd)
}
