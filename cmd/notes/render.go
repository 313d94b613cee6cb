package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"notesync/store"

	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func renderNotes(w io.Writer, notes []store.Note, format string) error {
	if notes == nil {
		notes = []store.Note{}
	}
	switch format {
	case formatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(notes)
	case formatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(notes); err != nil {
			return err
		}
		return encoder.Close()
	case formatText, "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, n := range notes {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", n.ID, importanceMark(n), n.Content)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

func renderNote(w io.Writer, n store.Note) {
	fmt.Fprintf(w, "%d %s %s\n", n.ID, importanceMark(n), n.Content)
}

func importanceMark(n store.Note) string {
	if n.Important {
		return "*"
	}
	return "-"
}
