package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	grpc_adapter "github.com/JoeShih716/go-account-ledger/internal/app/core/adapter/in/grpc"
	"github.com/JoeShih716/go-account-ledger/pkg/grpc"
)

// 全域旗標
var (
	serverAddr string
	timeout    time.Duration
)

var pool = grpc.NewPool()

var rootCmd = &cobra.Command{
	Use:          "accountctl",
	Short:        "Account ledger CLI",
	Long:         `A CLI tool to manage accounts and post ledger operations against the account ledger server.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "addr", "localhost:50051", "account ledger gRPC address")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "per-request timeout")
}

func main() {
	defer pool.Close()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		pool.Close()
		os.Exit(1)
	}
}

// newClient 從連線池取得連線
func newClient() (*grpc_adapter.Client, error) {
	conn, err := pool.GetConnection(serverAddr)
	if err != nil {
		return nil, err
	}
	return grpc_adapter.NewClient(conn), nil
}

// call 以 --timeout 呼叫並印出 JSON 結果
func call(cmd *cobra.Command, method string, req map[string]any) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	out, err := client.Call(ctx, method, req)
	if err != nil {
		return err
	}
	return printJSON(cmd, out)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
