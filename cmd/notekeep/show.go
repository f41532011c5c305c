package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		controller, cleanup, err := openController()
		if err != nil {
			fatal("Failed to initialize store", err)
		}
		defer cleanup()

		n, err := controller.Open(context.Background(), args[0])
		if err != nil {
			fatal("Failed to get note", err)
		}

		fmt.Printf("%s\nid: %s\nupdated: %s\n\n%s\n",
			n.Title, n.ID, n.UpdatedAt.Format(time.RFC3339), n.Content)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
