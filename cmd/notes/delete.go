package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid note id %q", args[0])
		}

		c := newController(newTransport())
		if err := c.Delete(cmd.Context(), id); err != nil {
			reportNotice(c)
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %d\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
