package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/setquant/advisor/market"
	"github.com/setquant/advisor/plan"
	"github.com/setquant/advisor/risk"
	"github.com/setquant/advisor/signal"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a daily action plan",
	Long: `Generate per-symbol BUY/SELL/HOLD recommendations from a signals file,
with position sizing and risk checks against the ledger.

Example:
  advisor plan --watchlist watchlist.json --signals signals.json --quotes quotes.json`,
	RunE: runPlan,
}

var (
	planBudget    float64
	planWatchlist string
	planSignals   string
	planQuotes    string
)

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().Float64VarP(&planBudget, "budget", "b", 0, "available budget (default ADVISOR_BUDGET or 100000)")
	planCmd.Flags().StringVarP(&planWatchlist, "watchlist", "w", "", "path to watchlist JSON (required)")
	planCmd.Flags().StringVarP(&planSignals, "signals", "s", "", "path to signals JSON (required)")
	planCmd.Flags().StringVarP(&planQuotes, "quotes", "q", "", "path to quotes JSON")
	planCmd.MarkFlagRequired("watchlist")
	planCmd.MarkFlagRequired("signals")
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	budget := planBudget
	if budget == 0 {
		budget = 100000
		if env := os.Getenv("ADVISOR_BUDGET"); env != "" {
			if v, err := strconv.ParseFloat(env, 64); err == nil && v > 0 {
				budget = v
			}
		}
	}

	watchlist, err := market.LoadWatchlist(planWatchlist)
	if err != nil {
		return err
	}
	signals, err := signal.LoadFile(planSignals)
	if err != nil {
		return err
	}
	prices, err := loadPrices(planQuotes)
	if err != nil {
		return err
	}

	store, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	rm := risk.NewManager(cfg.Risk, store, prices)
	planner := plan.New(cfg, rm, signals)

	actionPlan, err := planner.Generate(budget, watchlist)
	if err != nil {
		return fmt.Errorf("generate plan: %w", err)
	}
	return printJSON(actionPlan)
}
