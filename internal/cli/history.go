package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kmarler/opsdesk/internal/core"
	"github.com/kmarler/opsdesk/pkg/models"
)

var historyLimitFlag int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show completed tasks, newest first",
}

var historySameDayCmd = &cobra.Command{
	Use:   "sameday",
	Short: "Show completed Same Day audits",
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("services not initialized")
		}
		tasks, err := Store.SameDayHistory(historyLimitFlag)
		if err != nil {
			return err
		}
		printSameDayHistory(cmd.OutOrStdout(), tasks)
		return nil
	},
}

var historyLMCPCmd = &cobra.Command{
	Use:   "lmcp",
	Short: "Show completed LMCP requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("services not initialized")
		}
		tasks, err := Store.LMCPHistory(historyLimitFlag)
		if err != nil {
			return err
		}
		printLMCPHistory(cmd.OutOrStdout(), tasks)
		return nil
	},
}

func printSameDayHistory(w io.Writer, tasks []models.SameDayTask) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No completed audits.")
		return
	}

	fmt.Fprintf(w, "%-6s %-8s %-9s %-8s %-8s %-10s %s\n",
		"ID", "STATION", "ROUTING", "ROUTES", "ROUTED", "DURATION", "COMPLETED")
	for _, t := range tasks {
		fmt.Fprintf(w, "%-6d %-8s %-9s %-8d %-8d %-10s %s\n",
			t.ID, t.StationCode, t.RoutingType, t.RouteCount, t.RoutedTbaCount,
			taskDuration(t.StartTime, t.EndTime), timestamp(t.EndTime))
	}
}

func printLMCPHistory(w io.Writer, tasks []models.LMCPTask) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No completed requests.")
		return
	}

	fmt.Fprintf(w, "%-6s %-8s %-10s %-10s %-8s %-14s %s\n",
		"ID", "STATION", "REQUESTED", "VALUE", "WEEK", "STATUS", "COMPLETED")
	for _, t := range tasks {
		status := core.Classify(float64(t.Requested), float64(t.CurrentLmcp), float64(t.CurrentAtrops))
		fmt.Fprintf(w, "%-6d %-8s %-10d %-10d %-8d %-14s %s\n",
			t.ID, t.StationCode, t.Requested, t.Value, t.Week, status, timestamp(t.EndTime))
	}
}

func taskDuration(start, end time.Time) string {
	if start.IsZero() || end.IsZero() {
		return "-"
	}
	return end.Sub(start).Round(time.Second).String()
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func init() {
	historyCmd.PersistentFlags().IntVar(&historyLimitFlag, "limit", 20, "maximum rows to show")
	historyCmd.AddCommand(historySameDayCmd, historyLMCPCmd)
	rootCmd.AddCommand(historyCmd)
}
