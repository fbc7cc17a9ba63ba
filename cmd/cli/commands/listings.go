
package commands

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"
)

var yearRe = regexp.MustCompile(`^\d{4}$`)

func yearArg(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return err
	}
	if !yearRe.MatchString(args[0]) {
		return fmt.Errorf("invalid year %q", args[0])
	}
	return nil
}

var (
	listingYear  int
	listingMonth int
)

func init() {
	listingCmd.Flags().IntVar(&listingYear, "year", 0, "year to list")
	listingCmd.Flags().IntVar(&listingMonth, "month", 0, "month to list (1-12)")
	listingCmd.MarkFlagRequired("year")

	rootCmd.AddCommand(inauguralsCmd, electionCmd, transitionCmd, listingCmd)
}

var inauguralsCmd = &cobra.Command{
	Use:   "inaugurals",
	Short: "Fetches every inaugural address.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return emit(cmd, scraper.Inaugurals(cmd.Context()))
	},
}

var electionCmd = &cobra.Command{
	Use:     "election <year>",
	Short:   "Fetches every candidate document of an election cycle.",
	Example: "  speech-scraper election 2016",
	Args:    yearArg,
	RunE: func(cmd *cobra.Command, args []string) error {
		return emit(cmd, scraper.Election(cmd.Context(), args[0]))
	},
}

var transitionCmd = &cobra.Command{
	Use:     "transition <year>",
	Short:   "Fetches the documents of a presidential transition.",
	Example: "  speech-scraper transition 2017",
	Args:    yearArg,
	RunE: func(cmd *cobra.Command, args []string) error {
		return emit(cmd, scraper.Transition(cmd.Context(), args[0]))
	},
}

var listingCmd = &cobra.Command{
	Use:   "listing --year <year> [--month <month>]",
	Short: "Fetches every document listed for a year or month, press releases included.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listingMonth < 0 || listingMonth > 12 {
			return fmt.Errorf("invalid month %d", listingMonth)
		}
		return emit(cmd, scraper.Listing(cmd.Context(), listingYear, listingMonth))
	},
}
