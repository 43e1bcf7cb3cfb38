package cmd

import (
	"github.com/spf13/cobra"

	"github.com/setquant/advisor/ledger"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Track cash, holdings and transactions",
	Long: `Query portfolio state and record executed trades.

Examples:
  advisor portfolio status --quotes quotes.json
  advisor portfolio buy --symbol PTT --amount 15000 --price 35.50
  advisor portfolio sell --symbol PTT --amount 8000 --price 38.00`,
}

var portfolioStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show portfolio status with holdings and P&L",
	Args:  cobra.NoArgs,
	RunE:  runPortfolioStatus,
}

var portfolioBuyCmd = &cobra.Command{
	Use:   "buy",
	Short: "Record an executed buy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPortfolioTrade(ledger.ActionBuy)
	},
}

var portfolioSellCmd = &cobra.Command{
	Use:   "sell",
	Short: "Record an executed sell",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPortfolioTrade(ledger.ActionSell)
	},
}

var (
	portfolioQuotes string
	tradeSymbol     string
	tradeAmount     float64
	tradePrice      float64
)

func init() {
	rootCmd.AddCommand(portfolioCmd)
	portfolioCmd.AddCommand(portfolioStatusCmd)
	portfolioCmd.AddCommand(portfolioBuyCmd)
	portfolioCmd.AddCommand(portfolioSellCmd)

	portfolioStatusCmd.Flags().StringVarP(&portfolioQuotes, "quotes", "q", "", "path to quotes JSON")

	for _, c := range []*cobra.Command{portfolioBuyCmd, portfolioSellCmd} {
		c.Flags().StringVar(&tradeSymbol, "symbol", "", "stock symbol (required)")
		c.Flags().Float64Var(&tradeAmount, "amount", 0, "trade amount (required)")
		c.Flags().Float64Var(&tradePrice, "price", 0, "price per share (required)")
		c.MarkFlagRequired("symbol")
		c.MarkFlagRequired("amount")
		c.MarkFlagRequired("price")
	}
}

func runPortfolioStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	prices, err := loadPrices(portfolioQuotes)
	if err != nil {
		return err
	}

	store, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	status, err := store.Status(prices)
	if err != nil {
		return err
	}
	return printJSON(status)
}

func runPortfolioTrade(action string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.RecordTransaction(tradeSymbol, action, tradeAmount, tradePrice)
	if err != nil {
		return err
	}
	return printJSON(rec)
}
