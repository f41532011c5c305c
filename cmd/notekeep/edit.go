package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a note interactively",
	Long: `Open a note and apply field edits read from stdin, one per line:

	title <text>     replace the title
	content <text>   replace the content
	quit             flush pending saves and exit

Rapid successive edits are coalesced into a single persisted write per
quiet period, the way the single-page UI saves while typing. EOF behaves
like quit.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		controller, cleanup, err := openController()
		if err != nil {
			fatal("Failed to initialize store", err)
		}
		defer cleanup()

		n, err := controller.Open(context.Background(), args[0])
		if err != nil {
			fatal("Failed to open note", err)
		}
		fmt.Printf("Editing '%s' (%s)\n", n.Title, n.ID)

		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := scanner.Text()
			field, value, _ := strings.Cut(line, " ")
			switch field {
			case "title":
				controller.EditTitle(value)
			case "content":
				controller.EditContent(value)
			case "quit", "q":
				controller.FlushDraft()
				return
			case "":
				// ignore blank lines
			default:
				fmt.Fprintf(os.Stderr, "unknown field: %s\n", field)
			}
		}
		controller.FlushDraft()
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
