package main

import (
	"github.com/spf13/cobra"
)

var (
	listImportant bool
	listOutput    string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes (* marks important ones)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadedController(cmd.Context())
		if err != nil {
			return err
		}
		if listImportant {
			c.ToggleShowAll()
		}
		return renderNotes(cmd.OutOrStdout(), c.Visible(), listOutput)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listImportant, "important", false, "Show only important notes")
	listCmd.Flags().StringVarP(&listOutput, "output", "o", formatText, "Output format: text, json or yaml")
}
