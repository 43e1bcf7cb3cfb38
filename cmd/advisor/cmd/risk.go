package cmd

import (
	"github.com/spf13/cobra"

	"github.com/setquant/advisor/risk"
)

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Run portfolio risk checks",
	Long: `Run risk checks against the current ledger state.

Examples:
  advisor risk check --quotes quotes.json
  advisor risk stop-losses --quotes quotes.json
  advisor risk check-buy --symbol PTT --amount 20000
  advisor risk snapshot --quotes quotes.json`,
}

var riskCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Full combined risk report",
	Args:  cobra.NoArgs,
	RunE:  runRiskCheck,
}

var riskStopLossCmd = &cobra.Command{
	Use:   "stop-losses",
	Short: "Check holdings against the stop-loss threshold",
	Args:  cobra.NoArgs,
	RunE:  runRiskStopLosses,
}

var riskCheckBuyCmd = &cobra.Command{
	Use:   "check-buy",
	Short: "Check whether a proposed BUY passes position limits",
	Args:  cobra.NoArgs,
	RunE:  runRiskCheckBuy,
}

var riskSnapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Record today's portfolio valuation snapshot",
	Args:  cobra.NoArgs,
	RunE:  runRiskSnapshot,
}

var (
	riskQuotes    string
	checkBuySym   string
	checkBuyValue float64
)

func init() {
	rootCmd.AddCommand(riskCmd)
	riskCmd.AddCommand(riskCheckCmd)
	riskCmd.AddCommand(riskStopLossCmd)
	riskCmd.AddCommand(riskCheckBuyCmd)
	riskCmd.AddCommand(riskSnapshotCmd)

	riskCmd.PersistentFlags().StringVarP(&riskQuotes, "quotes", "q", "", "path to quotes JSON")

	riskCheckBuyCmd.Flags().StringVar(&checkBuySym, "symbol", "", "stock symbol (required)")
	riskCheckBuyCmd.Flags().Float64Var(&checkBuyValue, "amount", 0, "proposed BUY amount (required)")
	riskCheckBuyCmd.MarkFlagRequired("symbol")
	riskCheckBuyCmd.MarkFlagRequired("amount")
}

func newRiskManager() (*risk.Manager, func() error, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	prices, err := loadPrices(riskQuotes)
	if err != nil {
		return nil, nil, err
	}
	store, err := openLedger(cfg)
	if err != nil {
		return nil, nil, err
	}
	return risk.NewManager(cfg.Risk, store, prices), store.Close, nil
}

func runRiskCheck(cmd *cobra.Command, args []string) error {
	rm, closeStore, err := newRiskManager()
	if err != nil {
		return err
	}
	defer closeStore()

	report, err := rm.CheckPortfolioRisk()
	if err != nil {
		return err
	}
	return printJSON(report)
}

func runRiskStopLosses(cmd *cobra.Command, args []string) error {
	rm, closeStore, err := newRiskManager()
	if err != nil {
		return err
	}
	defer closeStore()

	alerts, err := rm.CheckStopLosses()
	if err != nil {
		return err
	}
	return printJSON(alerts)
}

func runRiskCheckBuy(cmd *cobra.Command, args []string) error {
	rm, closeStore, err := newRiskManager()
	if err != nil {
		return err
	}
	defer closeStore()

	check, err := rm.CheckPositionLimits(checkBuySym, checkBuyValue)
	if err != nil {
		return err
	}
	return printJSON(check)
}

func runRiskSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	prices, err := loadPrices(riskQuotes)
	if err != nil {
		return err
	}
	store, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	snap, err := store.RecordDailySnapshot(prices)
	if err != nil {
		return err
	}
	return printJSON(snap)
}
