package app

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// listTasks prints every task with its parameters and description, plus the
// services the compose file publishes, so `devrig -list` doubles as the
// project's cheat sheet.
func (a *App) listTasks() error {
	if a.model.Project != nil && a.model.Project.Name != "" {
		fmt.Fprintf(a.outW, "Project: %s\n\n", a.model.Project.Name)
	}

	tw := tabwriter.NewWriter(a.outW, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK\tPARAMS\tDESCRIPTION")
	for _, name := range a.model.TaskNames() {
		task := a.model.Tasks[name]

		var params []string
		for _, p := range task.Params {
			if p.Required {
				params = append(params, p.Name+"=<required>")
			} else {
				params = append(params, fmt.Sprintf("%s=%q", p.Name, p.Default))
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, strings.Join(params, " "), task.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if a.composeFile != nil {
		fmt.Fprintf(a.outW, "\nServices: %s\n", strings.Join(a.composeFile.ServiceNames(), ", "))
		for _, svc := range a.composeFile.ServiceNames() {
			for _, port := range a.composeFile.PublishedPorts(svc) {
				fmt.Fprintf(a.outW, "  %s publishes %s\n", svc, port)
			}
		}
	}
	return nil
}
