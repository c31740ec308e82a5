package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var receiptCmd = &cobra.Command{
	Use:   "receipt [userOpHash]",
	Short: "Look up a user operation receipt",
	Long:  `Query the bundler for the receipt of a submitted user operation.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, bc, err := newBundlerClient()
		if err != nil {
			fmt.Printf("cannot initialize client: %v\n", err)
			os.Exit(1)
		}

		receipt, err := bc.GetUserOperationReceipt(context.Background(), common.HexToHash(args[0]))
		if err != nil {
			fmt.Printf("cannot fetch receipt: %v\n", err)
			os.Exit(1)
		}
		if receipt == nil {
			fmt.Println("operation not included yet")
			return
		}

		fmt.Printf("userOpHash: %s\n", receipt.UserOpHash.Hex())
		fmt.Printf("sender:     %s\n", receipt.Sender.Hex())
		fmt.Printf("success:    %t\n", receipt.Success)
		fmt.Printf("gas cost:   %s\n", receipt.ActualGasCost.ToInt())
		fmt.Printf("gas used:   %s\n", receipt.ActualGasUsed.ToInt())
		if !receipt.Success && receipt.Reason != "" {
			fmt.Printf("reason:     %s\n", receipt.Reason)
		}
	},
}

func init() {
	rootCmd.AddCommand(receiptCmd)
}
