package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	listJSON bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all notes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		controller, cleanup, err := openController()
		if err != nil {
			fatal("Failed to initialize store", err)
		}
		defer cleanup()

		if err := controller.Refresh(context.Background()); err != nil {
			fatal("Failed to list notes", err)
		}

		all := controller.Notes()
		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(all); err != nil {
				fatal("Failed to encode notes", err)
			}
			return
		}

		for _, n := range all {
			fmt.Printf("[%s] %s (updated: %s)\n", n.ID, n.Title, n.UpdatedAt.Format(time.RFC3339))
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
}
