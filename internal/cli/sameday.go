package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kmarler/opsdesk/internal/core"
	"github.com/kmarler/opsdesk/internal/csvio"
	"github.com/kmarler/opsdesk/internal/observability"
)

var (
	sameDayImportFlag string
	sameDayResumeFlag string
)

var sameDayCmd = &cobra.Command{
	Use:   "sameday",
	Short: "Record a Same Day routing audit",
	Long: `Open the interactive Same Day routing audit form.

Fields validate as you type. Import a routing file with --import or
ctrl+o inside the form to prefill the station, routing type, and file
TBA count from the file. Completing the form persists the audit.

Open drafts autosave on every edit; reopen one with --resume (see
"opsdesk drafts" for the list).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil || IDGen == nil {
			return fmt.Errorf("services not initialized")
		}
		if sameDayResumeFlag != "" && sameDayImportFlag != "" {
			return fmt.Errorf("--import cannot be combined with --resume")
		}

		var draft *core.SameDayDraft
		if sameDayResumeFlag != "" {
			var err error
			draft, err = resumeSameDayDraft(sameDayResumeFlag)
			if err != nil {
				return err
			}
		} else {
			id, err := IDGen.GenerateDraftID()
			if err != nil {
				return fmt.Errorf("starting audit: %w", err)
			}
			draft = core.NewSameDayDraft(id, nil)
			if Config != nil && Config.DefaultStation != "" {
				draft.SetField(core.FieldStationCode, Config.DefaultStation)
			}
		}

		if sameDayImportFlag != "" {
			data, err := os.ReadFile(sameDayImportFlag)
			if err != nil {
				return fmt.Errorf("importing routing file: %w", err)
			}
			rows := csvio.Decode(string(data), csvio.DecodeOptions{Headers: true})
			if err := draft.ApplyImport(sameDayImportFlag, rows); err != nil {
				return fmt.Errorf("importing routing file: %w", err)
			}
			record(observability.FileImportedEvent(draft.ID, sameDayImportFlag, len(rows)))
		}

		model := newSameDayModel(draft)
		final, err := tea.NewProgram(model).Run()
		if err != nil {
			return fmt.Errorf("running form: %w", err)
		}

		m, ok := final.(sameDayModel)
		if !ok {
			return fmt.Errorf("unexpected form result")
		}
		return finishSameDay(m)
	},
}

// resumeSameDayDraft rebuilds an autosaved audit draft by ID.
func resumeSameDayDraft(id string) (*core.SameDayDraft, error) {
	if Drafts == nil {
		return nil, fmt.Errorf("draft store not initialized")
	}
	recs, err := Drafts.LoadSameDayDrafts()
	if err != nil {
		return nil, fmt.Errorf("loading drafts: %w", err)
	}
	for _, rec := range recs {
		if rec.ID == id {
			draft := core.NewSameDayDraft(rec.ID, nil)
			draft.Restore(rec.Inputs, rec.StartTime, rec.DpoCompleteTime)
			return draft, nil
		}
	}
	return nil, fmt.Errorf("no autosaved audit %q (run \"opsdesk drafts\" to list)", id)
}

func finishSameDay(m sameDayModel) error {
	if m.completed == nil {
		if Drafts != nil {
			_ = Drafts.RemoveDraft(m.draft.ID)
		}
		record(observability.TaskCancelledEvent("same_day", m.draft.ID))
		fmt.Println("Audit cancelled.")
		return nil
	}

	task := *m.completed
	rowID, err := Store.InsertSameDayTask(task)
	if err != nil {
		// The autosaved draft stays on disk so the audit can be retried
		// with --resume.
		return fmt.Errorf("saving audit: %w", err)
	}
	if Drafts != nil {
		_ = Drafts.RemoveDraft(m.draft.ID)
	}

	record(observability.TaskCompletedEvent("same_day", m.draft.ID, task.StationCode, "", rowID))

	total := core.TotalRoutes(task.RouteCount, task.BufferPercent)
	fmt.Printf("Completed audit %s\n", m.draft.ID)
	fmt.Printf("  Station:  %s (%s)\n", task.StationCode, task.RoutingType)
	fmt.Printf("  Routes:   %d total (%d + %d buffer)\n", total, task.RouteCount, total-task.RouteCount)
	fmt.Printf("  Routed:   %d TBAs\n", task.RoutedTbaCount)
	if task.FileTbaCount != nil {
		fmt.Printf("  File:     %d TBAs\n", *task.FileTbaCount)
	}
	return nil
}

func init() {
	sameDayCmd.Flags().StringVar(&sameDayImportFlag, "import", "", "routing file to prefill the form from")
	sameDayCmd.Flags().StringVar(&sameDayResumeFlag, "resume", "", "autosaved draft ID to reopen")
	rootCmd.AddCommand(sameDayCmd)
}
