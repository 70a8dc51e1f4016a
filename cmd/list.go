package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"gitlab.com/chit-chat/kris/internal/ui"
)

var listService bool

func init() {
	listCmd.Flags().BoolVar(&listService, "service", false,
		"use this flag for service jobs (build image, copy from S3 etc)")
}

// resetListCommandState resets the list command's global state for testing.
func resetListCommandState() {
	listService = false
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print list of your jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}

		jobs, err := client.ListJobs(cmd.Context(), listService)
		if err != nil {
			return err
		}

		if len(jobs) == 0 {
			fmt.Println("No jobs")
			return nil
		}

		sort.Slice(jobs, func(i, j int) bool {
			return jobs[i].CreatedAt < jobs[j].CreatedAt
		})

		fmt.Println(ui.Warning.Sprint("started              status\tname"))
		fmt.Println(ui.Warning.Sprint(strings.Repeat("-", 79)))
		for _, job := range jobs {
			started := humanTime(job.CreatedAt)
			if listService {
				// Service jobs don't report creation time.
				started = strings.Repeat("?", 16)
			}
			fmt.Println(ui.Warning.Sprintf("%s  %s\t%s", started, job.Status, job.Name))
		}
		return nil
	},
}
