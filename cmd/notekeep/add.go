package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	addTitle   string
	addContent string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a note",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		controller, cleanup, err := openController()
		if err != nil {
			fatal("Failed to initialize store", err)
		}
		defer cleanup()

		n, err := controller.CreateNote(context.Background(), addTitle, addContent)
		if err != nil {
			fatal("Failed to create note", err)
		}

		fmt.Printf("Created note '%s' (%s)\n", n.Title, n.ID)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "Note title")
	addCmd.Flags().StringVarP(&addContent, "content", "c", "", "Note content")
}
