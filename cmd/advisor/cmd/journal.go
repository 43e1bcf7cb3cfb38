package cmd

import (
	"github.com/spf13/cobra"

	"github.com/setquant/advisor/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Record trades and review performance",
	Long: `Keep a journal of why each trade was entered and how it worked out.

Examples:
  advisor journal open --symbol PTT --trade-action BUY --price 35.50 --shares 400 --amount 14200
  advisor journal close --symbol PTT --exit-price 38.00 --outcome "took profit at resistance"
  advisor journal status
  advisor journal history --limit 20
  advisor journal winrate
  advisor journal strategies`,
}

var journalOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Open a journal entry for an executed trade",
	Args:  cobra.NoArgs,
	RunE:  runJournalOpen,
}

var journalCloseCmd = &cobra.Command{
	Use:   "close",
	Short: "Close an open entry and record realized P&L",
	Args:  cobra.NoArgs,
	RunE:  runJournalClose,
}

var journalStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List open entries",
	Args:  cobra.NoArgs,
	RunE:  runJournalStatus,
}

var journalHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List closed entries, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runJournalHistory,
}

var journalWinRateCmd = &cobra.Command{
	Use:   "winrate",
	Short: "Win rate, profit factor and Kelly fraction from closed trades",
	Args:  cobra.NoArgs,
	RunE:  runJournalWinRate,
}

var journalStrategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "Performance grouped by strategy label",
	Args:  cobra.NoArgs,
	RunE:  runJournalStrategies,
}

var (
	jOpenSymbol    string
	jOpenAction    string
	jOpenPrice     float64
	jOpenShares    float64
	jOpenAmount    float64
	jOpenReasoning string
	jOpenStrategy  string

	jCloseID        string
	jCloseSymbol    string
	jCloseExitPrice float64
	jCloseOutcome   string
	jCloseLessons   string
	jCloseStopped   bool

	jHistoryLimit int
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalOpenCmd)
	journalCmd.AddCommand(journalCloseCmd)
	journalCmd.AddCommand(journalStatusCmd)
	journalCmd.AddCommand(journalHistoryCmd)
	journalCmd.AddCommand(journalWinRateCmd)
	journalCmd.AddCommand(journalStrategiesCmd)

	journalOpenCmd.Flags().StringVar(&jOpenSymbol, "symbol", "", "stock symbol (required)")
	journalOpenCmd.Flags().StringVar(&jOpenAction, "trade-action", "BUY", "BUY or SELL")
	journalOpenCmd.Flags().Float64Var(&jOpenPrice, "price", 0, "entry price per share (required)")
	journalOpenCmd.Flags().Float64Var(&jOpenShares, "shares", 0, "number of shares")
	journalOpenCmd.Flags().Float64Var(&jOpenAmount, "amount", 0, "total entry amount")
	journalOpenCmd.Flags().StringVar(&jOpenReasoning, "reasoning", "", "why the trade was entered")
	journalOpenCmd.Flags().StringVar(&jOpenStrategy, "strategy", "", "strategy label (default composite)")
	journalOpenCmd.MarkFlagRequired("symbol")
	journalOpenCmd.MarkFlagRequired("price")

	journalCloseCmd.Flags().StringVar(&jCloseID, "id", "", "journal entry id")
	journalCloseCmd.Flags().StringVar(&jCloseSymbol, "symbol", "", "close the most recent open entry for this symbol")
	journalCloseCmd.Flags().Float64Var(&jCloseExitPrice, "exit-price", 0, "exit price per share (required)")
	journalCloseCmd.Flags().StringVar(&jCloseOutcome, "outcome", "", "how the trade worked out")
	journalCloseCmd.Flags().StringVar(&jCloseLessons, "lessons", "", "lessons learned")
	journalCloseCmd.Flags().BoolVar(&jCloseStopped, "stopped-out", false, "mark the entry STOPPED_OUT instead of CLOSED")
	journalCloseCmd.MarkFlagRequired("exit-price")

	journalHistoryCmd.Flags().IntVar(&jHistoryLimit, "limit", 20, "maximum entries to return")
}

func openJournal() (*journal.Journal, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return journal.Open(resolveDBPath(cfg))
}

func runJournalOpen(cmd *cobra.Command, args []string) error {
	jnl, err := openJournal()
	if err != nil {
		return err
	}
	defer jnl.Close()

	entry, err := jnl.OpenTrade(journal.OpenParams{
		Symbol:    jOpenSymbol,
		Action:    jOpenAction,
		Price:     jOpenPrice,
		Shares:    jOpenShares,
		Amount:    jOpenAmount,
		Reasoning: jOpenReasoning,
		Strategy:  jOpenStrategy,
	})
	if err != nil {
		return err
	}
	return printJSON(entry)
}

func runJournalClose(cmd *cobra.Command, args []string) error {
	jnl, err := openJournal()
	if err != nil {
		return err
	}
	defer jnl.Close()

	status := journal.StatusClosed
	if jCloseStopped {
		status = journal.StatusStoppedOut
	}
	entry, err := jnl.CloseTrade(journal.CloseParams{
		TradeID:   jCloseID,
		Symbol:    jCloseSymbol,
		ExitPrice: jCloseExitPrice,
		Outcome:   jCloseOutcome,
		Lessons:   jCloseLessons,
		Status:    status,
	})
	if err != nil {
		return err
	}
	return printJSON(entry)
}

func runJournalStatus(cmd *cobra.Command, args []string) error {
	jnl, err := openJournal()
	if err != nil {
		return err
	}
	defer jnl.Close()

	entries, err := jnl.OpenTrades()
	if err != nil {
		return err
	}
	return printJSON(entries)
}

func runJournalHistory(cmd *cobra.Command, args []string) error {
	jnl, err := openJournal()
	if err != nil {
		return err
	}
	defer jnl.Close()

	entries, err := jnl.History(jHistoryLimit)
	if err != nil {
		return err
	}
	return printJSON(entries)
}

func runJournalWinRate(cmd *cobra.Command, args []string) error {
	jnl, err := openJournal()
	if err != nil {
		return err
	}
	defer jnl.Close()

	stats, err := jnl.WinRate()
	if err != nil {
		return err
	}
	return printJSON(stats)
}

func runJournalStrategies(cmd *cobra.Command, args []string) error {
	jnl, err := openJournal()
	if err != nil {
		return err
	}
	defer jnl.Close()

	perf, err := jnl.StrategyPerformance()
	if err != nil {
		return err
	}
	return printJSON(perf)
}
