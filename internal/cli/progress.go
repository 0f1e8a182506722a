package cli

import (
	"fmt"
	"io"
	"os"
	"time"
)

// setupStep prints "label... done (12ms)" on stderr around slow setup work
// such as opening and migrating the journal. It is silent for machine
// output and when progress is disabled.
type setupStep struct {
	out     io.Writer
	started time.Time
}

func startProgress(label string) *setupStep {
	if !progressEnabled() {
		return nil
	}
	fmt.Fprintf(os.Stderr, "%s... ", label)
	return &setupStep{out: os.Stderr, started: time.Now()}
}

// Done ends the line. detail, when set, is shown before the elapsed time.
func (s *setupStep) Done(detail string) {
	if s == nil {
		return
	}
	elapsed := formatDuration(time.Since(s.started))
	if detail != "" {
		fmt.Fprintf(s.out, "done, %s (%s)\n", detail, elapsed)
		return
	}
	fmt.Fprintf(s.out, "done (%s)\n", elapsed)
}

func (s *setupStep) Fail(err error) {
	if s == nil {
		return
	}
	fmt.Fprintf(s.out, "failed: %v\n", err)
}

func progressEnabled() bool {
	if noProgress || IsJSONOutput() || IsJSONLOutput() {
		return false
	}
	for _, key := range []string{"FORESIGHT_NO_PROGRESS", "NO_PROGRESS"} {
		if _, ok := os.LookupEnv(key); ok {
			return false
		}
	}
	return true
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.String()
	case d < time.Second:
		return d.Round(10 * time.Millisecond).String()
	default:
		return d.Round(100 * time.Millisecond).String()
	}
}
