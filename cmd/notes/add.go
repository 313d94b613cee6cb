package main

import (
	"strings"

	"notesync/internal/client/controller"

	"github.com/spf13/cobra"
)

var addImportant bool

var addCmd = &cobra.Command{
	Use:   "add <content>",
	Short: "Add a note",
	Long: `Add a note with the given content. Without --important the note's
importance is picked at random.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts []controller.Option
		if cmd.Flags().Changed("important") {
			important := addImportant
			opts = append(opts, controller.WithImportance(func() bool { return important }))
		}

		c, err := loadedController(cmd.Context(), opts...)
		if err != nil {
			return err
		}
		c.SetDraft(strings.Join(args, " "))

		note, err := c.Submit(cmd.Context())
		if err != nil {
			reportNotice(c)
			return err
		}
		renderNote(cmd.OutOrStdout(), note)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().BoolVar(&addImportant, "important", false, "Mark the note important")
}
