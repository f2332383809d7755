// Package cmd implements the lifeline CLI commands.
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/lifeline/internal/cli"
	"github.com/theirongolddev/lifeline/internal/currency"
	"github.com/theirongolddev/lifeline/internal/model"
	"github.com/theirongolddev/lifeline/internal/store"
)

var (
	flagAccountName     string
	flagAccountType     string
	flagAccountBalance  string
	flagAccountCurrency string
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List accounts",
	RunE:  runAccounts,
}

var accountsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an account",
	RunE:  runAccountsAdd,
}

var accountsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an account",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountsRm,
}

func init() {
	accountsAddCmd.Flags().StringVar(&flagAccountName, "name", "", "Account name")
	accountsAddCmd.Flags().StringVar(&flagAccountType, "type", "cash", "Account type: cash, bank, credit, wallet")
	accountsAddCmd.Flags().StringVar(&flagAccountBalance, "balance", "0", "Opening balance")
	accountsAddCmd.Flags().StringVar(&flagAccountCurrency, "currency", "", "Currency code (default: settings currency)")
	_ = accountsAddCmd.MarkFlagRequired("name")

	accountsCmd.AddCommand(accountsAddCmd)
	accountsCmd.AddCommand(accountsRmCmd)
	rootCmd.AddCommand(accountsCmd)
}

func runAccounts(_ *cobra.Command, _ []string) error {
	coord, closeStore, err := openCoordinator()
	if err != nil {
		return err
	}
	defer closeStore()

	snap := coord.Snapshot()
	if len(snap.Accounts) == 0 {
		fmt.Println("  No accounts. Add one with `lifeline accounts add --name ...`")
		return nil
	}

	code := snap.Settings.Currency
	rows := make([][]string, 0, len(snap.Accounts))
	for _, a := range snap.Accounts {
		rows = append(rows, []string{a.ID, a.Name, string(a.Type), cli.FormatMoney(a.Balance, code)})
	}
	rows = append(rows, []string{"---", "---", "---", "---"})
	rows = append(rows, []string{"", "Total", "", cli.FormatMoney(snap.TotalBalance, code)})

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Accounts",
		Headers: []string{"ID", "Name", "Type", "Balance"},
		Rows:    rows,
	}))
	return nil
}

func runAccountsAdd(_ *cobra.Command, _ []string) error {
	coord, closeStore, err := openCoordinator()
	if err != nil {
		return err
	}
	defer closeStore()

	code := flagAccountCurrency
	if code == "" {
		code = coord.Snapshot().Settings.Currency
	}

	id, err := coord.AddAccount(model.Account{
		Name:     flagAccountName,
		Type:     model.AccountType(flagAccountType),
		Balance:  currency.ParseInput(flagAccountBalance),
		Currency: code,
	})
	if err != nil {
		return err
	}

	fmt.Printf("  Added account %s (%s)\n", flagAccountName, id)
	return nil
}

func runAccountsRm(_ *cobra.Command, args []string) error {
	coord, closeStore, err := openCoordinator()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := coord.DeleteAccount(args[0]); err != nil {
		if errors.Is(err, store.ErrAccountInUse) {
			return errors.New("account still has transactions or rules; remove those first")
		}
		return err
	}

	fmt.Printf("  Deleted account %s\n", args[0])
	return nil
}
