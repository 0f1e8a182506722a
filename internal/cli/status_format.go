package cli

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/kundanareddy2830/quantum-sight/internal/controller"
)

const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
	colorGray    = "\033[90m"
)

func colorEnabled() bool {
	if noColor || IsJSONOutput() || IsJSONLOutput() {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

func colorize(text, color string) string {
	if color == "" || !colorEnabled() {
		return text
	}
	return color + text + colorReset
}

// stageState names where a stage stands in a snapshot.
func stageState(snap controller.Snapshot, id string) string {
	switch {
	case id == snap.CurrentStageID:
		return "current"
	case snap.IsCompleted(id):
		return "completed"
	case snap.IsAccessible(id):
		return "open"
	default:
		return "locked"
	}
}

func formatStageState(snap controller.Snapshot, id string) string {
	state := stageState(snap, id)
	label, color := statusLabelForStage(state)
	return colorize(fmt.Sprintf("%s %s", label, state), color)
}

func statusLabelForStage(state string) (string, string) {
	switch state {
	case "current":
		return ">>", colorCyan
	case "completed":
		return "OK", colorGreen
	case "open":
		return "--", colorYellow
	default:
		return "..", colorGray
	}
}

func actionColor(action controller.Action) string {
	switch action {
	case controller.ActionAutoPlayStart, controller.ActionAutoPlayAdvance:
		return colorCyan
	case controller.ActionAutoPlayFinish:
		return colorGreen
	case controller.ActionAutoPlayStop:
		return colorMagenta
	case controller.ActionReset:
		return colorRed
	default:
		return ""
	}
}
