package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kundanareddy2830/quantum-sight/internal/clock"
	"github.com/kundanareddy2830/quantum-sight/internal/controller"
	"github.com/kundanareddy2830/quantum-sight/internal/narrative"
)

const playSubscriberID = "play"

var (
	playCatalog string
	playNarrate bool

	// playClock replaces the wall clock in tests.
	playClock clock.Clock
)

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().StringVar(&playCatalog, "catalog", "", "stage catalogue to play (default from config)")
	playCmd.Flags().BoolVar(&playNarrate, "narrate", false, "print the narrative of every stage entered")
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Run the auto-play tour headless",
	Long: `Run the auto-play tour without the TUI, printing every transition.

Ctrl-C stops auto-play at the current stage and exits.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalogs, err := loadCatalogs()
		if err != nil {
			return err
		}
		catalog, err := resolveCatalog(catalogs, currentConfig().Catalog)
		if err != nil {
			return err
		}

		var opts []controller.Option
		if playClock != nil {
			opts = append(opts, controller.WithClock(playClock))
		}
		s, err := openSession(commandContext(cmd), catalog, opts...)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var provider *narrative.Provider
		if playNarrate {
			provider = narrative.New()
		}
		summary, err := runPlay(ctx, cmd.OutOrStdout(), s.ctrl, provider)
		if err != nil {
			return err
		}
		if IsJSONOutput() {
			return WriteOutput(cmd.OutOrStdout(), summary)
		}
		return nil
	},
}

type playTransition struct {
	Time        time.Time `json:"time"`
	Action      string    `json:"action"`
	StageID     string    `json:"stage_id"`
	Current     string    `json:"current"`
	Position    int       `json:"position"`
	Completed   int       `json:"completed"`
	AutoPlaying bool      `json:"autoplaying"`
}

type playSummary struct {
	Catalog     string           `json:"catalog"`
	Finished    bool             `json:"finished"`
	Stopped     bool             `json:"stopped"`
	Current     string           `json:"current"`
	Completed   []string         `json:"completed"`
	Transitions []playTransition `json:"transitions"`
}

// runPlay starts auto-play and reports transitions until the tour finishes
// or ctx is cancelled, which stops auto-play where it stands.
func runPlay(ctx context.Context, out io.Writer, ctrl *controller.Controller, provider *narrative.Provider) (*playSummary, error) {
	registry := ctrl.Registry()

	// At most one change per auto-play step, plus start and stop.
	changes := make(chan controller.Change, len(registry.AutoPlaySequence())+4)
	if err := ctrl.SubscribeFunc(playSubscriberID, func(change controller.Change) {
		select {
		case changes <- change:
		default:
		}
	}); err != nil {
		return nil, err
	}
	defer func() { _ = ctrl.Unsubscribe(playSubscriberID) }()

	summary := &playSummary{Catalog: registry.Name()}

	if err := ctrl.StartAutoPlay(); err != nil {
		if errors.Is(err, controller.ErrNoAutoPlay) {
			return nil, &PreflightError{
				Message:  fmt.Sprintf("catalogue %q has no auto-play tour", registry.Name()),
				Hint:     "Use the TUI to step through it manually",
				NextStep: "foresight ui --catalog " + registry.Name(),
			}
		}
		return nil, err
	}

	handle := func(change controller.Change) (bool, error) {
		t := playTransition{
			Time:        change.Timestamp,
			Action:      string(change.Action),
			StageID:     change.StageID,
			Current:     change.Current.CurrentStageID,
			Position:    change.Current.CurrentIndex + 1,
			Completed:   len(change.Current.CompletedStageIDs),
			AutoPlaying: change.Current.AutoPlaying,
		}
		summary.Transitions = append(summary.Transitions, t)
		if err := writeTransition(out, ctrl, change, t, provider); err != nil {
			return false, err
		}
		switch {
		case change.AutoPlayFinished():
			summary.Finished = true
			return true, nil
		case change.Action == controller.ActionAutoPlayStop:
			summary.Stopped = true
			return true, nil
		}
		return false, nil
	}

	for {
		select {
		case change := <-changes:
			done, err := handle(change)
			if err != nil {
				return nil, err
			}
			if done {
				return finishPlay(out, ctrl, summary)
			}
		case <-ctx.Done():
			ctrl.StopAutoPlay()
		drain:
			for {
				select {
				case change := <-changes:
					if _, err := handle(change); err != nil {
						return nil, err
					}
				default:
					break drain
				}
			}
			if !summary.Finished {
				summary.Stopped = true
			}
			return finishPlay(out, ctrl, summary)
		}
	}
}

func finishPlay(out io.Writer, ctrl *controller.Controller, summary *playSummary) (*playSummary, error) {
	snap := ctrl.Snapshot()
	summary.Current = snap.CurrentStageID
	summary.Completed = snap.CompletedStageIDs

	if IsJSONOutput() || IsJSONLOutput() {
		return summary, nil
	}

	current := ctrl.Registry().At(snap.CurrentIndex)
	switch {
	case summary.Finished:
		fmt.Fprintf(out, "Tour finished at %s (%d of %d stages completed).\n",
			current.Title, len(snap.CompletedStageIDs), ctrl.Registry().Len())
	default:
		fmt.Fprintf(out, "Auto-play stopped at %s.\n", current.Title)
	}
	return summary, nil
}

func writeTransition(out io.Writer, ctrl *controller.Controller, change controller.Change, t playTransition, provider *narrative.Provider) error {
	if IsJSONLOutput() {
		return WriteOutput(out, t)
	}
	if IsJSONOutput() {
		return nil
	}

	registry := ctrl.Registry()
	current := registry.At(change.Current.CurrentIndex)
	fmt.Fprintf(out, "%s  %s  %s  %s %s\n",
		t.Time.Format("15:04:05.000"),
		colorize(fmt.Sprintf("%-16s", change.Action), actionColor(change.Action)),
		fmt.Sprintf("%2d/%d", t.Position, registry.Len()),
		truncateTitle(current.Title),
		colorize("("+current.ID+")", colorGray),
	)
	if provider != nil && change.Entered() {
		for _, line := range provider.Lines(current.ID) {
			fmt.Fprintf(out, "    %s\n", line)
		}
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
