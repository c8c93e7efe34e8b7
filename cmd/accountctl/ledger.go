package main

import (
	"github.com/spf13/cobra"

	grpc_adapter "github.com/JoeShih716/go-account-ledger/internal/app/core/adapter/in/grpc"
)

var depositCmd = &cobra.Command{
	Use:   "deposit <account-id> <amount>",
	Short: "Deposit into an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, grpc_adapter.MethodDeposit, map[string]any{"accountId": args[0], "amount": args[1]})
	},
}

var payCmd = &cobra.Command{
	Use:   "pay <account-id> <amount>",
	Short: "Pay (withdraw) from an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, grpc_adapter.MethodPayment, map[string]any{"accountId": args[0], "amount": args[1]})
	},
}

var transferCmd = &cobra.Command{
	Use:   "transfer <source-id> <target-id> <amount>",
	Short: "Transfer between two accounts",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, grpc_adapter.MethodTransfer, map[string]any{
			"sourceId": args[0],
			"targetId": args[1],
			"amount":   args[2],
		})
	},
}

func init() {
	rootCmd.AddCommand(depositCmd, payCmd, transferCmd)
}
