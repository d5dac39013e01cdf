// Package simulate runs scripted screening sessions against the embedded
// plate deck.
package simulate

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/myrtti/sightline/internal/models"
	"github.com/myrtti/sightline/internal/screening"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "simulate",
	Title: "Simulation",
}

var (
	profile string
	seed    uint64
)

func init() {
	Simulate.Flags().StringVar(&profile, "profile", "normal",
		"respondent profile: normal, protan, deutan or blank")
	Simulate.Flags().Uint64Var(&seed, "seed", 0,
		"deck shuffle seed, 0 picks a random one")
}

var Simulate = &cobra.Command{
	Use:     "simulate",
	GroupID: "simulate",
	Short:   "Run a scripted screening session",
	Long: `Runs a full screening session answering every plate the way the chosen
respondent profile would, and prints the resulting classification. Useful for
vetting deck and classifier changes without clicking through the web UI.`,
	Run: func(_ *cobra.Command, _ []string) {
		if seed == 0 {
			seed = rand.Uint64()
		}
		catalog, err := screening.LoadCatalog(rand.New(rand.NewPCG(seed, seed)))
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "load plate deck: %v\n", err)
			os.Exit(1)
		}

		session := screening.NewSession(catalog)
		if err = session.Start(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "start session: %v\n", err)
			os.Exit(1)
		}

		var result *models.ClassificationResult
		for result == nil {
			var plate models.Plate
			if plate, err = session.Current(); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "read current plate: %v\n", err)
				os.Exit(1)
			}

			answer := answerFor(plate)
			fmt.Printf("plate %2d/%2d %-12s answer %q\n",
				session.Position()+1, session.QueueLength(), plate.ID, answer)

			if result, err = session.Submit(answer); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "submit answer: %v\n", err)
				os.Exit(1)
			}
		}

		fmt.Printf("seed: %d\n", seed)
		fmt.Printf("score: %d%% (%d/%d correct)\n",
			result.ScorePercent, result.CorrectCount, result.TotalPlates)
		fmt.Printf("subtype: %s\n", result.Subtype)
	},
}

// answerFor gives the reading the chosen respondent profile reports for a
// plate. Profiles with a deficiency fall back to the normal reading on plates
// that do not probe their deficiency.
func answerFor(plate models.Plate) string {
	switch profile {
	case "protan":
		if plate.ExpectedProtan != "" {
			return plate.ExpectedProtan
		}
		return plate.ExpectedNormal
	case "deutan":
		if plate.ExpectedDeutan != "" {
			return plate.ExpectedDeutan
		}
		return plate.ExpectedNormal
	case "blank":
		return ""
	default:
		return plate.ExpectedNormal
	}
}
