package cli

import (
	"context"
	"fmt"
	"time"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"github.com/avollmer/tunectl/internal/jobs"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <job-id>",
	Short: "Watch a training job until it finishes",
	Long: `Watch a training job's progress interactively.

Polls the job list and renders live status, step progress, and telemetry
until the job reaches a terminal state. Ctrl+C detaches; the job keeps
running on the platform.

Examples:
  tunectl watch 42`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	id, err := parseJobID(args[0])
	if err != nil {
		return err
	}
	ctx := context.Background()

	if err := monitor.Refresh(ctx); err != nil {
		return err
	}
	job, ok := monitor.Job(id)
	if !ok {
		return fmt.Errorf("%w: %d", jobs.ErrJobNotFound, id)
	}
	if job.Status.Terminal() {
		// Nothing to watch, print the final state instead.
		return showJob(id)
	}

	return runWatchUI(id)
}

// tickMsg triggers polling the job status
type tickMsg time.Time

// jobUpdateMsg carries the refreshed job data
type jobUpdateMsg struct {
	job   jobs.TrainingJob
	found bool
	err   error
}

// watchModel is the bubbletea model for the live job view.
type watchModel struct {
	jobID    int64
	job      jobs.TrainingJob
	display  jobs.Display
	progress progress.Model
	theme    Theme
	done     bool
	quitting bool
	err      error
}

func newWatchModel(job jobs.TrainingJob) watchModel {
	prog := progress.New(
		progress.WithDefaultBlend(),
		progress.WithWidth(40),
	)

	return watchModel{
		jobID:    job.ID,
		job:      job,
		display:  jobs.Reconcile(job),
		progress: prog,
		theme:    defaultTheme,
	}
}

// Init returns the initial command (start polling).
func (m watchModel) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		m.progress.Init(),
	)
}

// Update handles messages and returns the updated model.
func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}

	case tickMsg:
		return m, fetchJobCmd(m.jobID)

	case jobUpdateMsg:
		if msg.err != nil {
			// Keep the last snapshot on fetch failure and keep polling; the
			// notification has already been raised by the monitor.
			return m, tickCmd()
		}
		if !msg.found {
			m.done = true
			m.err = fmt.Errorf("%w: %d", jobs.ErrJobNotFound, m.jobID)
			return m, tea.Quit
		}

		m.job = msg.job
		m.display = jobs.Reconcile(msg.job)

		if m.job.Status.Terminal() {
			m.done = true
			if m.job.Status == jobs.StatusFailed {
				if m.job.ErrorMessage != nil && *m.job.ErrorMessage != "" {
					m.err = fmt.Errorf("%s", *m.job.ErrorMessage)
				} else {
					m.err = fmt.Errorf("job failed with unknown error")
				}
			}
			return m, tea.Quit
		}

		return m, tickCmd()

	case progress.FrameMsg:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the live display.
func (m watchModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m watchModel) renderContent() string {
	if m.done {
		return m.finalView()
	}

	status := statusStyle(m.display).Render(fmt.Sprintf("[%s]", m.display.StatusLabel))
	bar := m.progress.ViewAs(float64(m.display.ProgressPercent) / 100)
	counts := fmt.Sprintf("%d/%d steps", m.job.CurrentStep, m.job.TotalSteps)

	telemetry := ""
	if m.job.TrainLoss != nil {
		telemetry = fmt.Sprintf("loss %s", formatFloat(m.job.TrainLoss))
		if m.job.ValLoss != nil {
			telemetry += fmt.Sprintf("  val %s", formatFloat(m.job.ValLoss))
		}
		telemetry += "\n"
	}

	hint := m.theme.hintStyle().Render("Press Ctrl+C to detach, the job keeps running")

	return fmt.Sprintf("%s %s %s\n%s%s\n", status, bar, counts, telemetry, hint)
}

func (m watchModel) finalView() string {
	if m.quitting {
		msg := fmt.Sprintf("\nJob %d continues on the platform.\nUse 'tunectl jobs %d' to check status.\n",
			m.jobID, m.jobID)
		return m.theme.hintStyle().Render(msg)
	}

	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(jobs.ColorFailed)).Bold(true)
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(jobs.ColorCompleted)).Bold(true)

	switch m.job.Status {
	case jobs.StatusCompleted:
		out := okStyle.Render("✓ Completed") + "\n\n"
		if m.job.ValLoss != nil {
			out += fmt.Sprintf("  Val loss:     %s\n", formatFloat(m.job.ValLoss))
		}
		if m.job.ValAccuracy != nil {
			out += fmt.Sprintf("  Val accuracy: %s\n", formatFloat(m.job.ValAccuracy))
		}
		out += fmt.Sprintf("  Duration:     %s\n", m.job.Duration(time.Now()).Round(time.Second))
		return out
	case jobs.StatusStopped:
		return m.theme.hintStyle().Render(fmt.Sprintf("\nJob %d was stopped.\n", m.jobID))
	default:
		if m.err != nil {
			return errStyle.Render(fmt.Sprintf("\n✗ Job failed: %s\n", m.err))
		}
		return errStyle.Render("\n✗ Job failed\n")
	}
}

// fetchJobCmd refreshes the snapshot and extracts the watched job.
// Runs as a command to avoid blocking Update().
func fetchJobCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := monitor.Refresh(ctx); err != nil {
			return jobUpdateMsg{err: err}
		}
		job, ok := monitor.Job(id)
		return jobUpdateMsg{job: job, found: ok}
	}
}

// tickCmd returns a command that sends a tick after the poll interval.
func tickCmd() tea.Cmd {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = time.Second
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// runWatchUI runs the interactive watch view until the job reaches a
// terminal state or the user detaches.
func runWatchUI(id int64) error {
	job, _ := monitor.Job(id)
	p := tea.NewProgram(newWatchModel(job))

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("watch UI error: %w", err)
	}

	if m, ok := finalModel.(watchModel); ok {
		// Detaching is not an error, the job continues server-side.
		if m.quitting {
			return nil
		}
		if m.err != nil {
			return m.err
		}
	}

	return nil
}
