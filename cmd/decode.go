package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/PeterBaptista/piano-midi/constants"
	"github.com/PeterBaptista/piano-midi/notes"
	"github.com/PeterBaptista/piano-midi/smf"
	"github.com/spf13/cobra"
)

var (
	decodeMerge    bool
	decodeMergeGap float64
)

func init() {
	decodeCmd.Flags().BoolVar(&decodeMerge, "merge", false, "merge rapid repetitions of the same pitch")
	decodeCmd.Flags().Float64Var(&decodeMergeGap, "merge-gap", constants.DefaultMergeNoteGap, "merge gap threshold in seconds")
	rootCmd.AddCommand(decodeCmd)
}

var decodeCmd = &cobra.Command{
	Use:   "decode <file>",
	Short: "Decodes a midi file and prints the note list as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		res, err := smf.DecodeFile(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to parse file, select another")
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}

		if decodeMerge {
			res.Notes = notes.MergeRepeated(res.Notes, decodeMergeGap)
			res.Duration = notes.TotalDuration(res.Notes)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			panic("Could not encode result: " + err.Error())
		}
	},
}
