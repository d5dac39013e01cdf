// Package catalog has commands for inspecting the embedded plate deck.
package catalog

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/myrtti/sightline/internal/screening"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "catalog",
	Title: "Plate catalog",
}

var Cmd = &cobra.Command{
	Use:     "catalog",
	GroupID: "catalog",
	Short:   "Inspect the embedded plate deck",
}

func init() {
	Cmd.AddCommand(vet)
}

var vet = &cobra.Command{
	Use:   "vet",
	Short: "Validate the embedded plate deck",
	Long: `Validates the embedded plate deck: plate ids have to be unique, the deck has
to cover a full initial sample, and there have to be enough plates tagged with
deficiency readings to extend any session to the queue cap.`,
	Run: func(_ *cobra.Command, _ []string) {
		catalog, err := screening.LoadCatalog(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "plate deck is invalid: %v\n", err)
			os.Exit(1)
		}

		var discriminative int
		for _, plate := range catalog.PlateByID() {
			if plate.Discriminative() {
				discriminative++
			}
		}

		fmt.Printf("plates: %d\n", catalog.Size())
		fmt.Printf("discriminative plates: %d\n", discriminative)

		if _, err = catalog.SampleInitial(20); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "deck cannot cover an initial sample: %v\n", err)
			os.Exit(1)
		}
		// The initial sample of 20 may consist entirely of discriminative
		// plates, and 12 follow-ups are needed to reach the cap of 32.
		if discriminative < 32 {
			_, _ = fmt.Fprintln(os.Stderr, "deck has too few discriminative plates to reach the queue cap")
			os.Exit(1)
		}

		fmt.Println("plate deck is valid")
	},
}
