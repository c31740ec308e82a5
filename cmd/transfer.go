package cmd

import (
	"context"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/AvaProtocol/aa-sdk/core/chainio/signer"
)

var (
	transferTo     string
	transferAmount string

	transferCmd = &cobra.Command{
		Use:   "transfer",
		Short: "Send native tokens from the smart wallet",
		Long: `Build a native transfer user operation for the configured smart wallet,
estimate its gas through the bundler, sign it with the controller key and
submit it.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, bc, err := newBundlerClient()
			if err != nil {
				fmt.Printf("cannot initialize client: %v\n", err)
				os.Exit(1)
			}

			if !common.IsHexAddress(transferTo) {
				fmt.Printf("invalid destination address: %s\n", transferTo)
				os.Exit(1)
			}
			amount, ok := new(big.Int).SetString(transferAmount, 10)
			if !ok {
				fmt.Printf("invalid amount in wei: %s\n", transferAmount)
				os.Exit(1)
			}

			controller, err := signer.NewLocalSigner(cfg.ControllerPrivateKey, cfg.ChainID)
			if err != nil {
				fmt.Printf("cannot load controller key: %v\n", err)
				os.Exit(1)
			}

			ctx := context.Background()
			partial, err := bc.BuildTransfer(ctx, common.HexToAddress(transferTo), amount)
			if err != nil {
				fmt.Printf("cannot build transfer: %v\n", err)
				os.Exit(1)
			}

			op := partial.ToUserOperation()
			signed, err := bc.SignUserOperation(op, controller)
			if err != nil {
				fmt.Printf("cannot sign operation: %v\n", err)
				os.Exit(1)
			}

			hash, err := bc.SendUserOperation(ctx, signed)
			if err != nil {
				fmt.Printf("bundler rejected operation: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("submitted user operation %s\n", hash.Hex())
		},
	}
)

func init() {
	transferCmd.Flags().StringVar(&transferTo, "to", "", "destination address")
	transferCmd.Flags().StringVar(&transferAmount, "amount", "", "amount in wei")
	transferCmd.MarkFlagRequired("to")
	transferCmd.MarkFlagRequired("amount")
	rootCmd.AddCommand(transferCmd)
}
