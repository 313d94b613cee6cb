package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a note between important and not important",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid note id %q", args[0])
		}

		c, err := loadedController(cmd.Context())
		if err != nil {
			return err
		}
		note, err := c.ToggleImportance(cmd.Context(), id)
		if err != nil {
			reportNotice(c)
			return err
		}
		renderNote(cmd.OutOrStdout(), note)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toggleCmd)
}
