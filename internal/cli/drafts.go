package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kmarler/opsdesk/internal/storage"
)

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "List autosaved drafts",
	Long: `List the drafts autosaved by interrupted sameday and lmcp sessions.

Reopen one with "opsdesk sameday --resume <id>" or
"opsdesk lmcp --resume <id>"; discard one with "opsdesk drafts rm <id>".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Drafts == nil {
			return fmt.Errorf("draft store not initialized")
		}
		sameDay, err := Drafts.LoadSameDayDrafts()
		if err != nil {
			return fmt.Errorf("loading drafts: %w", err)
		}
		lmcp, err := Drafts.LoadLMCPDrafts()
		if err != nil {
			return fmt.Errorf("loading drafts: %w", err)
		}
		printDrafts(os.Stdout, sameDay, lmcp)
		return nil
	},
}

var draftsRmCmd = &cobra.Command{
	Use:   "rm <draft-id>",
	Short: "Discard an autosaved draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Drafts == nil {
			return fmt.Errorf("draft store not initialized")
		}
		if err := Drafts.RemoveDraft(args[0]); err != nil {
			return fmt.Errorf("removing draft: %w", err)
		}
		fmt.Printf("Removed draft %s\n", args[0])
		return nil
	},
}

func printDrafts(w io.Writer, sameDay []storage.SameDayDraftRecord, lmcp []storage.LMCPDraftRecord) {
	if len(sameDay) == 0 && len(lmcp) == 0 {
		fmt.Fprintln(w, "No autosaved drafts.")
		return
	}

	fmt.Fprintf(w, "%-12s %-8s %-8s %s\n", "ID", "TYPE", "STATION", "STARTED")
	for _, rec := range sameDay {
		fmt.Fprintf(w, "%-12s %-8s %-8s %s\n", rec.ID, "sameday", valueOrDash(rec.Inputs.StationCode), timestamp(rec.StartTime))
	}
	for _, rec := range lmcp {
		fmt.Fprintf(w, "%-12s %-8s %-8s %s\n", rec.ID, "lmcp", valueOrDash(rec.Inputs.StationCode), timestamp(rec.StartTime))
	}
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	draftsCmd.AddCommand(draftsRmCmd)
	rootCmd.AddCommand(draftsCmd)
}
