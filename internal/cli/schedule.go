package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/terra-clan/sitetrack/internal/schedule"
	"github.com/terra-clan/sitetrack/internal/snapshots"
)

var (
	scheduleTasksFlag bool
	historyLimitFlag  int
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule [projectID]",
	Short: "Show the schedule report of a project",
	Long: `Renders the project timeline, phase breakdown and slippage summary
computed by the server at the time of the request.`,
	Args: cobra.ExactArgs(1),
	RunE: runSchedule,
}

var historyCmd = &cobra.Command{
	Use:   "history [projectID]",
	Short: "Show recorded schedule snapshots of a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(historyCmd)

	scheduleCmd.Flags().BoolVarP(&scheduleTasksFlag, "tasks", "t", false, "Include the per-task breakdown")
	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "n", 14, "Number of snapshots to show")
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dangerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func runSchedule(cmd *cobra.Command, args []string) error {
	report, err := api.GetSchedule(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get schedule: %w", err)
	}

	renderReport(cmd.OutOrStdout(), report, scheduleTasksFlag)
	return nil
}

// renderReport writes a human readable schedule report
func renderReport(out io.Writer, r *schedule.Report, withTasks bool) {
	fmt.Fprintln(out, titleStyle.Render(r.ProjectName))
	fmt.Fprintf(out, "%s %s -> %s\n", labelStyle.Render("Timeline:"),
		r.Timeline.StartDate.Format(time.DateOnly), r.Timeline.EndDate.Format(time.DateOnly))
	fmt.Fprintf(out, "%s %d of %d days elapsed (%d%%), %d remaining\n", labelStyle.Render("Elapsed: "),
		r.Timeline.DaysCompleted, r.Timeline.TotalDays, r.Timeline.PercentElapsed, r.Timeline.DaysRemaining)
	fmt.Fprintf(out, "%s %d%% from tasks, %d%% reported\n", labelStyle.Render("Progress:"),
		r.Summary.AverageProgress, r.Summary.ReportedProgress)

	delayed := fmt.Sprintf("%d delayed, max %d days late", r.Summary.DelayedTasks, r.Summary.MaxDelayDays)
	if r.Summary.DelayedTasks > 0 {
		delayed = dangerStyle.Render(delayed)
	} else {
		delayed = okStyle.Render(delayed)
	}
	fmt.Fprintf(out, "%s %d tasks, %d completed, %s, %d critical path, %d high risk\n",
		labelStyle.Render("Tasks:   "), r.Summary.TotalTasks, r.Summary.CompletedTasks, delayed,
		r.Summary.CriticalPathTasks, r.Summary.HighRiskTasks)

	fmt.Fprintln(out)
	fmt.Fprintln(out, titleStyle.Render("Phases"))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PHASE\tDURATION\tPROGRESS\tSTATUS\tTASKS")
	for _, p := range r.Phases {
		fmt.Fprintf(w, "%s\t%s\t%d%%\t%s\t%d\n", p.Name, p.Duration, p.Progress, phaseStatus(p.Status), len(p.TaskIDs))
	}
	w.Flush()

	if !withTasks || len(r.Tasks) == 0 {
		return
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, titleStyle.Render("Tasks"))
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DESCRIPTION\tSTATUS\tPROGRESS\tRISK\tCRITICAL\tDELAY")
	for _, t := range r.Tasks {
		critical := ""
		if t.IsCriticalPath {
			critical = "yes"
		}
		delay := "-"
		if t.Deviation.IsDelayed {
			delay = dangerStyle.Render(pluralDays(t.Deviation.DelayDays))
		}
		fmt.Fprintf(w, "%s\t%s\t%d%%\t%s\t%s\t%s\n",
			truncate(t.Description, 40), t.Status, t.Progress, riskLevel(t.RiskLevel), critical, delay)
	}
	w.Flush()
}

func runHistory(cmd *cobra.Command, args []string) error {
	history, err := api.GetScheduleHistory(cmd.Context(), args[0], historyLimitFlag)
	if err != nil {
		return fmt.Errorf("failed to get schedule history: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(history) == 0 {
		fmt.Fprintln(out, "No snapshots recorded yet.")
		return nil
	}

	renderHistory(out, history)
	return nil
}

func renderHistory(out io.Writer, history []snapshots.Snapshot) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TAKEN\tPROGRESS\tREPORTED\tDELAYED\tHIGH RISK\tMAX DELAY\tDAYS LEFT")
	for _, s := range history {
		fmt.Fprintf(w, "%s\t%d%%\t%d%%\t%d\t%d\t%s\t%d\n",
			s.TakenAt.Format(time.DateOnly), s.AverageProgress, s.ReportedProgress,
			s.DelayedTasks, s.HighRiskTasks, pluralDays(s.MaxDelayDays), s.DaysRemaining)
	}
	w.Flush()
}

func phaseStatus(s schedule.PhaseStatus) string {
	switch s {
	case schedule.PhaseCompleted, schedule.PhaseOnTrack:
		return okStyle.Render(string(s))
	case schedule.PhaseDelayed:
		return dangerStyle.Render(string(s))
	default:
		return labelStyle.Render(string(s))
	}
}

func riskLevel(r schedule.RiskLevel) string {
	switch r {
	case schedule.RiskHigh:
		return dangerStyle.Render(string(r))
	case schedule.RiskMedium:
		return warnStyle.Render(string(r))
	default:
		return string(r)
	}
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.DateOnly)
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
