package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/kundanareddy2830/quantum-sight/internal/db"
	"github.com/kundanareddy2830/quantum-sight/internal/models"
)

var (
	historyLimit   int
	historySession string
	historyFollow  bool
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of events to show")
	historyCmd.Flags().StringVar(&historySession, "session", "", "only show events from this session")
	historyCmd.Flags().BoolVar(&historyFollow, "follow", false, "keep streaming new events (requires --jsonl)")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the transition journal",
	Long: `Show stage transitions recorded in the journal database.

The journal is written when journal.enabled is true and journal.path points
at a file. With --follow, new events are streamed as JSON lines.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := mustBeJSONLForFollow(); err != nil {
			return err
		}

		path, err := journalPath()
		if err != nil {
			return err
		}

		ctx := commandContext(cmd)
		database, err := openJournal(ctx, path)
		if err != nil {
			return err
		}
		defer database.Close()

		repo := db.NewEventRepository(database)
		out := cmd.OutOrStdout()

		if historyFollow {
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			config := DefaultStreamConfig()
			config.SessionID = historySession
			return NewEventStreamer(repo, out, config).Stream(ctx)
		}

		events, err := loadHistory(ctx, repo, historySession, historyLimit)
		if err != nil {
			return err
		}
		return writeHistory(out, events, time.Now())
	},
}

func mustBeJSONLForFollow() error {
	if historyFollow && !IsJSONLOutput() {
		return &PreflightError{
			Message:  "--follow streams JSON lines",
			Hint:     "Add --jsonl",
			NextStep: "foresight history --follow --jsonl",
		}
	}
	return nil
}

// journalPath returns the configured journal file. An in-memory journal
// lives only as long as the run that wrote it, so there is nothing to read.
func journalPath() (string, error) {
	path := strings.TrimSpace(currentConfig().Journal.Path)
	if path == "" || path == db.MemoryPath {
		return "", &PreflightError{
			Message:  "no journal file configured",
			Hint:     "Set journal.enabled: true and journal.path to a file, or FORESIGHT_JOURNAL_PATH",
			NextStep: "foresight config init",
		}
	}
	return path, nil
}

func loadHistory(ctx context.Context, repo *db.EventRepository, sessionID string, limit int) ([]*models.Event, error) {
	if sessionID != "" {
		return repo.ListByEntity(ctx, models.EntityTypeSession, sessionID, limit)
	}
	return repo.Recent(ctx, limit)
}

type historyPayload struct {
	StageID   string `json:"stage_id"`
	FromStage string `json:"from_stage"`
	Cursor    *int   `json:"cursor"`
	Length    int    `json:"length"`
}

func writeHistory(out io.Writer, events []*models.Event, now time.Time) error {
	if IsJSONOutput() || IsJSONLOutput() {
		if events == nil {
			events = []*models.Event{}
		}
		return WriteOutput(out, events)
	}
	if len(events) == 0 {
		_, err := fmt.Fprintln(out, "No journal events.")
		return err
	}

	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{
			humanize.RelTime(e.Timestamp, now, "ago", "from now"),
			string(e.Type),
			describePayload(e),
			shortID(e.EntityID),
		})
	}
	return writeTable(out, []string{"WHEN", "EVENT", "STAGE", "SESSION"}, rows)
}

func describePayload(e *models.Event) string {
	if len(e.Payload) == 0 {
		return "-"
	}
	var p historyPayload
	if err := json.Unmarshal(e.Payload, &p); err != nil {
		return "-"
	}
	switch {
	case e.Type == models.EventTypeSequenceReset:
		return "from " + p.FromStage
	case p.Cursor != nil && p.Length > 0:
		return fmt.Sprintf("%s (%d/%d)", p.StageID, *p.Cursor+1, p.Length)
	case p.StageID != "":
		return p.StageID
	default:
		return "-"
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
