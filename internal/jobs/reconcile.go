package jobs

import "math"

// BarState selects how a progress bar should render.
type BarState string

const (
	BarActive    BarState = "active"
	BarSuccess   BarState = "success"
	BarException BarState = "exception"
)

// Display is the derived, render-ready view of a single job. It is computed
// fresh from a fetched record and never cached across refreshes.
type Display struct {
	StatusLabel     string
	StatusColor     string // hex color, lipgloss-compatible
	ProgressPercent int
	BarState        BarState
}

// Status display colors, shared with the CLI theme.
const (
	ColorPending   = "#6C6C6C" // dim gray
	ColorRunning   = "#5FAFD7" // light blue
	ColorCompleted = "#00D787" // green
	ColorFailed    = "#FF005F" // red
	ColorStopped   = "#FFAF00" // amber
)

// Reconcile derives the display tuple for a job. Pure function over the
// fetched record.
//
// Progress is 100 for completed jobs and 0 for failed or stopped ones,
// regardless of step counters; otherwise it is the step ratio rounded to a
// percent, with TotalSteps <= 0 short-circuiting to 0.
func Reconcile(j TrainingJob) Display {
	switch j.Status {
	case StatusPending:
		return Display{"Pending", ColorPending, stepPercent(j), BarActive}
	case StatusRunning:
		return Display{"Running", ColorRunning, stepPercent(j), BarActive}
	case StatusCompleted:
		return Display{"Completed", ColorCompleted, 100, BarSuccess}
	case StatusFailed:
		return Display{"Failed", ColorFailed, 0, BarException}
	case StatusStopped:
		return Display{"Stopped", ColorStopped, 0, BarActive}
	default:
		// Unknown statuses degrade to the raw tag rather than faulting.
		return Display{string(j.Status), ColorPending, stepPercent(j), BarActive}
	}
}

func stepPercent(j TrainingJob) int {
	if j.TotalSteps <= 0 {
		return 0
	}
	pct := int(math.Round(float64(j.CurrentStep) / float64(j.TotalSteps) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
