package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search notes by title or content",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		controller, cleanup, err := openController()
		if err != nil {
			fatal("Failed to initialize store", err)
		}
		defer cleanup()

		if err := controller.Refresh(context.Background()); err != nil {
			fatal("Failed to list notes", err)
		}

		for _, n := range controller.Search(args[0]) {
			fmt.Printf("[%s] %s (updated: %s)\n", n.ID, n.Title, n.UpdatedAt.Format(time.RFC3339))
		}
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
