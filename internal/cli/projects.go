package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/terra-clan/sitetrack/internal/models"
	"github.com/terra-clan/sitetrack/pkg/client"
)

var (
	projectsLimitFlag  int
	projectsOffsetFlag int

	tasksStatusFlag   string
	tasksCategoryFlag string
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects",
	RunE:  runProjects,
}

var tasksCmd = &cobra.Command{
	Use:   "tasks [projectID]",
	Short: "List the tasks of a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasks,
}

func init() {
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(tasksCmd)

	projectsCmd.Flags().IntVarP(&projectsLimitFlag, "limit", "n", 50, "Maximum number of projects")
	projectsCmd.Flags().IntVar(&projectsOffsetFlag, "offset", 0, "Number of projects to skip")

	tasksCmd.Flags().StringVarP(&tasksStatusFlag, "status", "s", "", "Filter by status")
	tasksCmd.Flags().StringVarP(&tasksCategoryFlag, "category", "c", "", "Filter by category")
}

func runProjects(cmd *cobra.Command, args []string) error {
	projects, err := api.ListProjects(cmd.Context(), client.ListOptions{
		Limit:  projectsLimitFlag,
		Offset: projectsOffsetFlag,
	})
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(projects) == 0 {
		fmt.Fprintln(out, "No projects found.")
		return nil
	}

	renderProjects(out, projects)
	return nil
}

func renderProjects(out io.Writer, projects []*models.Project) {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, headerStyle.Render("ID")+"\t"+headerStyle.Render("NAME")+"\t"+
		headerStyle.Render("START")+"\t"+headerStyle.Render("END")+"\t"+headerStyle.Render("PROGRESS"))
	for _, p := range projects {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d%%\n", p.ID, p.Name, formatDate(p.StartDate), formatDate(p.EndDate), p.Progress)
	}
	w.Flush()
}

func runTasks(cmd *cobra.Command, args []string) error {
	tasks, err := api.ListTasks(cmd.Context(), args[0], client.TaskListOptions{
		Status:   tasksStatusFlag,
		Category: tasksCategoryFlag,
	})
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDESCRIPTION\tCATEGORY\tSTATUS\tPROGRESS\tEND")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d%%\t%s\n",
			t.ID, truncate(t.Description, 40), t.Category, t.Status, t.Progress, formatDate(t.EndDate))
	}
	return w.Flush()
}
