package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		controller, cleanup, err := openController()
		if err != nil {
			fatal("Failed to initialize store", err)
		}
		defer cleanup()

		if err := controller.DeleteNote(context.Background(), args[0]); err != nil {
			fatal("Failed to delete note", err)
		}

		fmt.Printf("Deleted note %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
