package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/lifeline/internal/cli"
	"github.com/theirongolddev/lifeline/internal/currency"
	"github.com/theirongolddev/lifeline/internal/model"
	"github.com/theirongolddev/lifeline/internal/parser"
)

var (
	flagTxAccount  string
	flagTxAmount   string
	flagTxIncome   bool
	flagTxCategory string
	flagTxDesc     string
	flagTxMerchant string
	flagTxDate     string
	flagTxLimit    int
	flagTxApp      string
)

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "List recent transactions",
	RunE:  runTx,
}

var txAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a transaction",
	RunE:  runTxAdd,
}

var txRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a transaction (reverses its balance effect)",
	Args:  cobra.ExactArgs(1),
	RunE:  runTxRm,
}

var txParseCmd = &cobra.Command{
	Use:   "parse <text>",
	Short: "Record a transaction from a payment notification or bank SMS",
	Args:  cobra.ExactArgs(1),
	RunE:  runTxParse,
}

func init() {
	txCmd.Flags().IntVar(&flagTxLimit, "limit", 20, "Max transactions to show")

	txAddCmd.Flags().StringVar(&flagTxAccount, "account", "", "Account ID")
	txAddCmd.Flags().StringVar(&flagTxAmount, "amount", "", "Amount (always positive)")
	txAddCmd.Flags().BoolVar(&flagTxIncome, "income", false, "Record as income instead of expense")
	txAddCmd.Flags().StringVar(&flagTxCategory, "category", "other", "Category")
	txAddCmd.Flags().StringVar(&flagTxDesc, "desc", "", "Description")
	txAddCmd.Flags().StringVar(&flagTxMerchant, "merchant", "", "Merchant")
	txAddCmd.Flags().StringVar(&flagTxDate, "date", "", "Date (2006-01-02, default today)")
	_ = txAddCmd.MarkFlagRequired("account")
	_ = txAddCmd.MarkFlagRequired("amount")

	txParseCmd.Flags().StringVar(&flagTxAccount, "account", "", "Account ID")
	txParseCmd.Flags().StringVar(&flagTxApp, "app", "", "Source app package name (notification mode)")
	_ = txParseCmd.MarkFlagRequired("account")

	txCmd.AddCommand(txAddCmd)
	txCmd.AddCommand(txRmCmd)
	txCmd.AddCommand(txParseCmd)
	rootCmd.AddCommand(txCmd)
}

func runTx(_ *cobra.Command, _ []string) error {
	coord, closeStore, err := openCoordinator()
	if err != nil {
		return err
	}
	defer closeStore()

	snap := coord.Snapshot()
	if len(snap.Transactions) == 0 {
		fmt.Println("  No transactions yet.")
		return nil
	}

	code := snap.Settings.Currency
	txs := snap.Transactions
	if len(txs) > flagTxLimit {
		txs = txs[len(txs)-flagTxLimit:]
	}

	rows := make([][]string, 0, len(txs))
	for i := len(txs) - 1; i >= 0; i-- {
		t := txs[i]
		desc := t.Merchant
		if desc == "" {
			desc = t.Description
		}
		if desc == "" {
			desc = t.Category
		}
		sign := "-"
		if t.Direction == model.Income {
			sign = "+"
		}
		rows = append(rows, []string{
			t.ID,
			cli.FormatDate(t.Date),
			desc,
			sign + cli.FormatMoney(t.Amount, code),
			string(t.Source),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Transactions (last %d)", len(txs)),
		Headers: []string{"ID", "Date", "Description", "Amount", "Source"},
		Rows:    rows,
	}))
	return nil
}

func runTxAdd(_ *cobra.Command, _ []string) error {
	coord, closeStore, err := openCoordinator()
	if err != nil {
		return err
	}
	defer closeStore()

	dir := model.Expense
	if flagTxIncome {
		dir = model.Income
	}

	var date time.Time
	if flagTxDate != "" {
		date, err = time.Parse("2006-01-02", flagTxDate)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", flagTxDate, err)
		}
	}

	id, err := coord.AddTransaction(model.Transaction{
		AccountID:   flagTxAccount,
		Amount:      currency.ParseInput(flagTxAmount),
		Direction:   dir,
		Category:    flagTxCategory,
		Description: flagTxDesc,
		Merchant:    flagTxMerchant,
		Date:        date,
	})
	if err != nil {
		return err
	}

	snap := coord.Snapshot()
	fmt.Printf("  Recorded %s (%s)\n", flagTxAmount, id)
	fmt.Printf("  Total balance: %s\n", cli.FormatMoney(snap.TotalBalance, snap.Settings.Currency))
	return nil
}

func runTxRm(_ *cobra.Command, args []string) error {
	coord, closeStore, err := openCoordinator()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := coord.DeleteTransaction(args[0]); err != nil {
		return err
	}
	fmt.Printf("  Deleted transaction %s\n", args[0])
	return nil
}

func runTxParse(_ *cobra.Command, args []string) error {
	coord, closeStore, err := openCoordinator()
	if err != nil {
		return err
	}
	defer closeStore()

	text := args[0]
	var draft model.Transaction

	if flagTxApp != "" {
		res := parser.ParseNotification(flagTxApp, text)
		if !res.Success {
			return errors.New("could not parse an amount from the notification text")
		}
		draft = res.Transaction(flagTxAccount, time.Now())
		fmt.Printf("  Parsed %s notification\n", res.Source)
	} else {
		if !parser.IsBankSMS(text) {
			return errors.New("text does not look like a bank SMS (pass --app for app notifications)")
		}
		res := parser.ParseSMS(text)
		if !res.Success {
			return errors.New("could not parse an amount from the SMS text")
		}
		draft = res.Transaction(flagTxAccount, time.Now())
		fmt.Printf("  Parsed %s SMS", res.BankName)
		if res.CardLast4 != "" {
			fmt.Printf(" (card *%s)", res.CardLast4)
		}
		fmt.Println()
	}

	id, err := coord.AddTransaction(draft)
	if err != nil {
		return err
	}

	snap := coord.Snapshot()
	sign := "-"
	if draft.Direction == model.Income {
		sign = "+"
	}
	fmt.Printf("  Recorded %s%s (%s)\n",
		sign, cli.FormatMoney(draft.Amount, snap.Settings.Currency), id)
	return nil
}
