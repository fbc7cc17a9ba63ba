
package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"speech-scraper/internal/ioformats"
)

var fetchInput string

func init() {
	fetchCmd.Flags().StringVarP(&fetchInput, "input", "i", "", "file of document ids (csv with a 'pid' column, ndjson, or one per line)")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [pid...]",
	Short: "Fetches the given documents by id.",
	RunE: func(cmd *cobra.Command, args []string) error {
		pids := args
		if fetchInput != "" {
			fromFile, err := ioformats.ReadIDs(fetchInput)
			if err != nil {
				return err
			}
			pids = append(pids, fromFile...)
		}
		if len(pids) == 0 {
			return errors.New("no document ids given")
		}
		return emit(cmd, scraper.Fetch(cmd.Context(), pids))
	},
}
