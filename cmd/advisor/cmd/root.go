package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/setquant/advisor/config"
	"github.com/setquant/advisor/ledger"
	"github.com/setquant/advisor/market"
)

var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "A risk-bounded trading decision and ledger engine for SET stocks",
	Long: `Advisor turns precomputed market signals into bounded BUY/SELL/HOLD
decisions while enforcing capital-preservation rules.

It provides tools for:
  - Generating daily action plans from signal files
  - Tracking cash, holdings and transaction history
  - Running risk checks (position limits, stop-losses, daily-loss halt)
  - Keeping a trade journal with win-rate and strategy statistics`,
}

var (
	cfgPath string
	dbPath  string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	// A missing .env is fine; env vars may come from the shell.
	_ = godotenv.Load()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "path to SQLite database (overrides config and ADVISOR_DB)")
}

func loadConfig() (*config.Config, error) {
	if cfgPath != "" {
		return config.LoadFromFile(cfgPath)
	}
	return config.Default(), nil
}

// resolveDBPath prefers the --db flag, then ADVISOR_DB, then the config.
func resolveDBPath(cfg *config.Config) string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("ADVISOR_DB"); env != "" {
		return env
	}
	return cfg.Ledger.DBPath
}

func openLedger(cfg *config.Config) (*ledger.Store, error) {
	store, err := ledger.Open(resolveDBPath(cfg), cfg.Ledger.InitialCash)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	return store, nil
}

// loadPrices returns a quotes-file price source, or nil when no quotes
// file is given. A nil source makes every valuation fall back to
// average cost.
func loadPrices(quotesPath string) (market.PriceSource, error) {
	if quotesPath == "" {
		log.Println("no quotes file given; holdings valued at average cost")
		return nil, nil
	}
	src, err := market.LoadQuotes(quotesPath)
	if err != nil {
		return nil, fmt.Errorf("load quotes: %w", err)
	}
	return src, nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
