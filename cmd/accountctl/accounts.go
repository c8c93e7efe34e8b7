package main

import (
	"github.com/spf13/cobra"

	grpc_adapter "github.com/JoeShih716/go-account-ledger/internal/app/core/adapter/in/grpc"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Open a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		owner, _ := flags.GetString("owner")
		email, _ := flags.GetString("email")
		number, _ := flags.GetString("number")
		bank, _ := flags.GetString("bank")
		opening, _ := flags.GetString("opening")
		password, _ := flags.GetString("password")
		return call(cmd, grpc_adapter.MethodCreateAccount, map[string]any{
			"ownerName":      owner,
			"email":          email,
			"accountNumber":  number,
			"bank":           bank,
			"openingBalance": opening,
			"password":       password,
		})
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance <account-number>",
	Short: "Show owner and balance of an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, grpc_adapter.MethodGetBalance, map[string]any{"accountNumber": args[0]})
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Search, sort and page through accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		searchField, _ := flags.GetString("search-field")
		search, _ := flags.GetString("search")
		sortField, _ := flags.GetString("sort")
		direction, _ := flags.GetString("direction")
		page, _ := flags.GetInt("page")
		size, _ := flags.GetInt("size")
		sliced, _ := flags.GetBool("sliced")

		method := grpc_adapter.MethodListAccounts
		if sliced {
			method = grpc_adapter.MethodListAccountPage
		}
		return call(cmd, method, map[string]any{
			"searchField":   searchField,
			"searchValue":   search,
			"sortField":     sortField,
			"sortDirection": direction,
			"pageNumber":    page,
			"pageSize":      size,
		})
	},
}

func init() {
	createCmd.Flags().String("owner", "", "owner name")
	createCmd.Flags().String("email", "", "email address")
	createCmd.Flags().String("number", "", "account number")
	createCmd.Flags().String("bank", "", "bank name")
	createCmd.Flags().String("opening", "0", "opening balance, e.g. 100.00")
	createCmd.Flags().String("password", "", "account password")
	_ = createCmd.MarkFlagRequired("number")

	listCmd.Flags().String("search-field", "", "field to search: ownerName, email, accountNumber, bank")
	listCmd.Flags().String("search", "", "case-insensitive substring")
	listCmd.Flags().String("sort", "", "field to sort by (adds id and balance)")
	listCmd.Flags().String("direction", "asc", "asc or desc")
	listCmd.Flags().Int("page", 1, "page number, starting at 1")
	listCmd.Flags().Int("size", 10, "page size")
	listCmd.Flags().Bool("sliced", false, "return only the requested page, with email")

	rootCmd.AddCommand(createCmd, balanceCmd, listCmd)
}
