package cli

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kmarler/opsdesk/internal/core"
	"github.com/kmarler/opsdesk/internal/csvio"
	"github.com/kmarler/opsdesk/internal/observability"
)

var (
	lmcpImportFlag string
	lmcpResumeFlag string
)

var lmcpCmd = &cobra.Command{
	Use:   "lmcp",
	Short: "Record an LMCP capacity-adjustment request",
	Long: `Open the interactive LMCP capacity-adjustment form.

Import a request export with --import or ctrl+o to prefill one request
per station; switch stations with pgup/pgdn. The status footer shows
the approval classification as the numbers change. Export the upload
file with ctrl+e and complete the task with ctrl+s.

Open drafts autosave on every edit; reopen one with --resume (see
"opsdesk drafts" for the list).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil || IDGen == nil {
			return fmt.Errorf("services not initialized")
		}
		if lmcpResumeFlag != "" && lmcpImportFlag != "" {
			return fmt.Errorf("--import cannot be combined with --resume")
		}

		var draft *core.LMCPDraft
		if lmcpResumeFlag != "" {
			var err error
			draft, err = resumeLMCPDraft(lmcpResumeFlag)
			if err != nil {
				return err
			}
		} else {
			id, err := IDGen.GenerateDraftID()
			if err != nil {
				return fmt.Errorf("starting request: %w", err)
			}
			draft = core.NewLMCPDraft(id, windowDays(), nil)
			if Config != nil && Config.DefaultStation != "" {
				draft.SetField(core.FieldStationCode, Config.DefaultStation)
			}
		}

		if lmcpImportFlag != "" {
			count, err := importRequestFile(draft, lmcpImportFlag)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d station(s) from %s\n", count, lmcpImportFlag)
		}

		model := newLMCPModel(draft)
		final, err := tea.NewProgram(model).Run()
		if err != nil {
			return fmt.Errorf("running form: %w", err)
		}

		m, ok := final.(lmcpModel)
		if !ok {
			return fmt.Errorf("unexpected form result")
		}
		return finishLMCP(m)
	},
}

// resumeLMCPDraft rebuilds an autosaved request draft by ID, including
// its per-station import cache.
func resumeLMCPDraft(id string) (*core.LMCPDraft, error) {
	if Drafts == nil {
		return nil, fmt.Errorf("draft store not initialized")
	}
	recs, err := Drafts.LoadLMCPDrafts()
	if err != nil {
		return nil, fmt.Errorf("loading drafts: %w", err)
	}
	for _, rec := range recs {
		if rec.ID == id {
			draft := core.NewLMCPDraft(rec.ID, windowDays(), nil)
			draft.Restore(rec.Inputs, rec.Imported, rec.Stations, rec.Selected, rec.StartTime, rec.ExportTime)
			return draft, nil
		}
	}
	return nil, fmt.Errorf("no autosaved request %q (run \"opsdesk drafts\" to list)", id)
}

func importRequestFile(draft *core.LMCPDraft, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("importing request export: %w", err)
	}
	rows := csvio.Decode(string(data), csvio.DecodeOptions{Headers: true})
	requests := csvio.ParseRequestRows(rows)
	if len(requests) == 0 {
		return 0, fmt.Errorf("importing request export: %s has no request rows", path)
	}
	count := draft.ApplyImport(requests)
	record(observability.FileImportedEvent(draft.ID, path, count))
	return count, nil
}

func finishLMCP(m lmcpModel) error {
	if m.completed == nil {
		if Drafts != nil {
			_ = Drafts.RemoveDraft(m.draft.ID)
		}
		record(observability.TaskCancelledEvent("lmcp", m.draft.ID))
		fmt.Println("Request cancelled.")
		return nil
	}

	task := *m.completed
	rowID, err := Store.InsertLMCPTask(task)
	if err != nil {
		// The autosaved draft stays on disk so the request can be retried.
		return fmt.Errorf("saving request: %w", err)
	}
	if Drafts != nil {
		_ = Drafts.RemoveDraft(m.draft.ID)
	}

	status := core.Classify(float64(task.Requested), float64(task.CurrentLmcp), float64(task.CurrentAtrops))
	record(observability.TaskCompletedEvent("lmcp", m.draft.ID, task.StationCode, string(status), rowID))

	fmt.Printf("Completed request %s\n", m.draft.ID)
	fmt.Printf("  Station:   %s\n", task.StationCode)
	fmt.Printf("  Requested: %d (net %d after PDR %d)\n", task.Requested, task.Value, task.Pdr)
	fmt.Printf("  Status:    %s\n", status)
	return nil
}

// Flags for the non-interactive export subcommand.
var (
	lmcpExportStation string
	lmcpExportLmcp    string
	lmcpExportAtrops  string
	lmcpExportPdr     string
	lmcpExportSimLink string
)

var lmcpExportCmd = &cobra.Command{
	Use:   "export <request-export.csv>",
	Short: "Validate one imported request and write its upload file",
	Long: `Non-interactive export: read a request export, pick the request for
--station (or the only station in the file), fill in the operator
fields from flags, validate, and write the upload file to the export
directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Exporter == nil {
			return fmt.Errorf("services not initialized")
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading request export: %w", err)
		}
		rows := csvio.Decode(string(data), csvio.DecodeOptions{Headers: true})
		requests := csvio.ParseRequestRows(rows)
		if len(requests) == 0 {
			return fmt.Errorf("no requests found in %s", args[0])
		}

		draft := core.NewLMCPDraft("export", windowDays(), nil)
		draft.ApplyImport(requests)

		station := lmcpExportStation
		if station == "" {
			stations := draft.Stations()
			if len(stations) > 1 {
				return fmt.Errorf("file holds %d stations, pick one with --station", len(stations))
			}
			station = stations[0]
		}
		if !draft.SelectStation(station) {
			return fmt.Errorf("station %s not present in %s", station, args[0])
		}

		draft.SetField(core.FieldCurrentLmcp, lmcpExportLmcp)
		draft.SetField(core.FieldCurrentAtrops, lmcpExportAtrops)
		draft.SetField(core.FieldPdr, lmcpExportPdr)
		draft.SetField(core.FieldSimLink, lmcpExportSimLink)

		task, err := draft.ExportRecord()
		if err != nil {
			for field, msg := range draft.Errors {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
			}
			return fmt.Errorf("validating request: %w", err)
		}

		fileName := csvio.UploadFileName(task.StationCode, time.Now())
		path, err := Exporter.WriteExport(fileName, csvio.EncodeUpload(task))
		if err != nil {
			return fmt.Errorf("writing upload file: %w", err)
		}

		record(observability.FileExportedEvent(draft.ID, path, task.StationCode))

		status := core.Classify(float64(task.Requested), float64(task.CurrentLmcp), float64(task.CurrentAtrops))
		fmt.Printf("Exported %s\n", path)
		fmt.Printf("  Requested: %d (net %d)\n", task.Requested, task.Value)
		fmt.Printf("  Status:    %s\n", status)
		return nil
	},
}

func init() {
	lmcpCmd.Flags().StringVar(&lmcpImportFlag, "import", "", "request export to prefill the form from")

	lmcpExportCmd.Flags().StringVar(&lmcpExportStation, "station", "", "station code to export (required with multi-station files)")
	lmcpExportCmd.Flags().StringVar(&lmcpExportLmcp, "current-lmcp", "", "current LMCP capacity")
	lmcpExportCmd.Flags().StringVar(&lmcpExportAtrops, "current-atrops", "", "current ATROPS capacity")
	lmcpExportCmd.Flags().StringVar(&lmcpExportPdr, "pdr", "", "planned delivery reduction")
	lmcpExportCmd.Flags().StringVar(&lmcpExportSimLink, "sim-link", "", "SIM ticket link")

	lmcpCmd.AddCommand(lmcpExportCmd)
	rootCmd.AddCommand(lmcpCmd)
}
