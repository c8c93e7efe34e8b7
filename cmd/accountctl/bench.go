package main

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var benchCmd = &cobra.Command{
	Use:   "bench <account-id>",
	Short: "Fire concurrent payments at one account and report the outcome",
	Long: `Sends --count payments of --amount against a single account with at most
--concurrency requests in flight. Successful payments times the amount must
equal the drop in balance, and the balance never goes negative.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		count, _ := flags.GetInt("count")
		concurrency, _ := flags.GetInt("concurrency")
		amount, _ := flags.GetString("amount")
		if count <= 0 || concurrency <= 0 {
			return fmt.Errorf("count and concurrency must be positive")
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 120*time.Second)
		defer cancel()

		var (
			wg           sync.WaitGroup
			succeeded    atomic.Int64
			insufficient atomic.Int64
			failed       atomic.Int64
		)
		sem := make(chan struct{}, concurrency)
		start := time.Now()

		for i := 0; i < count; i++ {
			sem <- struct{}{}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() { <-sem }()

				_, err := client.Payment(ctx, args[0], amount)
				switch status.Code(err) {
				case codes.OK:
					succeeded.Add(1)
				case codes.FailedPrecondition:
					insufficient.Add(1)
				default:
					failed.Add(1)
				}
			}()
		}
		wg.Wait()
		elapsed := time.Since(start)

		return printJSON(cmd, map[string]any{
			"requests":     count,
			"succeeded":    succeeded.Load(),
			"insufficient": insufficient.Load(),
			"failed":       failed.Load(),
			"elapsed":      elapsed.String(),
			"tps":          fmt.Sprintf("%.2f", float64(count)/elapsed.Seconds()),
		})
	},
}

func init() {
	benchCmd.Flags().Int("count", 1000, "number of payments")
	benchCmd.Flags().Int("concurrency", 100, "max in-flight requests")
	benchCmd.Flags().String("amount", "1", "amount per payment")
	rootCmd.AddCommand(benchCmd)
}
