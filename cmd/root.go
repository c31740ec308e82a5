package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var (
	config  = "./config/aa-sdk.yaml"
	rootCmd = &cobra.Command{
		Use:   "aa-sdk",
		Short: "ERC-4337 smart wallet CLI",
		Long: `CLI to build, sign and relay ERC-4337 user operations through a bundler.

Each sub command performs one step of the flow, such as "aa-sdk transfer"
to send native tokens from a smart wallet or "aa-sdk receipt" to look up
an operation after submission.
`,
	}
)

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&config, "config", "c", "config/aa-sdk.yaml", "Path to config file")
}
