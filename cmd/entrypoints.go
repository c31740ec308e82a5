package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var entrypointsCmd = &cobra.Command{
	Use:   "entrypoints",
	Short: "List the bundler's supported entry points",
	Run: func(cmd *cobra.Command, args []string) {
		_, bc, err := newBundlerClient()
		if err != nil {
			fmt.Printf("cannot initialize client: %v\n", err)
			os.Exit(1)
		}

		entryPoints, err := bc.SupportedEntryPoints(context.Background())
		if err != nil {
			fmt.Printf("cannot query bundler: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("client entry point: %s\n", bc.SupportedEntryPoint().Hex())
		for _, ep := range entryPoints {
			fmt.Printf("bundler supports:   %s\n", ep.Hex())
		}
	},
}

func init() {
	rootCmd.AddCommand(entrypointsCmd)
}
