package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/terra-clan/sitetrack/internal/models"
)

var (
	patchProgressFlag int
	patchDurationFlag int
	patchRemarkFlag   string
)

var patchTaskCmd = &cobra.Command{
	Use:   "patch-task [taskID]",
	Short: "Update progress, duration or remark of a task",
	Long: `Only the flags given on the command line are sent. --duration sets the
end date to the given number of days after the task's start date.`,
	Args: cobra.ExactArgs(1),
	RunE: runPatchTask,
}

func init() {
	rootCmd.AddCommand(patchTaskCmd)

	patchTaskCmd.Flags().IntVarP(&patchProgressFlag, "progress", "p", 0, "Progress percentage (0-100)")
	patchTaskCmd.Flags().IntVarP(&patchDurationFlag, "duration", "d", 0, "Duration in days from the start date")
	patchTaskCmd.Flags().StringVarP(&patchRemarkFlag, "remark", "r", "", "Free text remark")
}

// buildPatch collects the flags that were explicitly set
func buildPatch(cmd *cobra.Command) models.TaskPatch {
	var patch models.TaskPatch
	if cmd.Flags().Changed("progress") {
		progress := patchProgressFlag
		patch.Progress = &progress
	}
	if cmd.Flags().Changed("duration") {
		duration := patchDurationFlag
		patch.Duration = &duration
	}
	if cmd.Flags().Changed("remark") {
		remark := patchRemarkFlag
		patch.Remark = &remark
	}
	return patch
}

func runPatchTask(cmd *cobra.Command, args []string) error {
	patch := buildPatch(cmd)
	if patch.IsEmpty() {
		return fmt.Errorf("nothing to update: pass --progress, --duration or --remark")
	}

	task, err := api.PatchTask(cmd.Context(), args[0], patch)
	if err != nil {
		return fmt.Errorf("failed to patch task: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", okStyle.Render("Updated"), task.Description)
	fmt.Fprintf(out, "  %s %d%%\n", labelStyle.Render("Progress:"), task.Progress)
	fmt.Fprintf(out, "  %s %s\n", labelStyle.Render("End:     "), formatDate(task.EndDate))
	if task.Remark != "" {
		fmt.Fprintf(out, "  %s %s\n", labelStyle.Render("Remark:  "), task.Remark)
	}
	return nil
}
