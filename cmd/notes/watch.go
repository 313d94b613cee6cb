package main

import (
	"fmt"

	"notesync/internal/note/model"

	"github.com/spf13/cobra"
)

var watchImportant bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow changes to the notes as they happen",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newTransport()
		c := newController(client)
		if watchImportant {
			c.ToggleShowAll()
		}

		out := cmd.OutOrStdout()
		return client.Subscribe(cmd.Context(), func(ev model.NoteEvent) {
			c.Apply(ev)
			fmt.Fprintf(out, "--- %s\n", ev.Type)
			if err := renderNotes(out, c.Visible(), formatText); err != nil {
				log.Sugar().Errorf("render: %v", err)
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchImportant, "important", false, "Show only important notes")
}
