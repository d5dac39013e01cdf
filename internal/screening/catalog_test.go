package screening_test

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/myrtti/sightline/internal/models"
	"github.com/myrtti/sightline/internal/screening"
	"github.com/stretchr/testify/require"
)

func newTestRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

// makeDeck builds a deck with the requested number of non-discriminative,
// protan-tagged, and deutan-tagged plates.
func makeDeck(plain, protan, deutan int) []models.Plate {
	var deck []models.Plate
	for i := 0; i < plain; i++ {
		deck = append(deck, models.Plate{
			ID:             fmt.Sprintf("plain-%02d", i),
			ImageRef:       fmt.Sprintf("/static/plates/plain-%02d.svg", i),
			ExpectedNormal: "5",
		})
	}
	for i := 0; i < protan; i++ {
		deck = append(deck, models.Plate{
			ID:             fmt.Sprintf("protan-%02d", i),
			ImageRef:       fmt.Sprintf("/static/plates/protan-%02d.svg", i),
			ExpectedNormal: "5",
			ExpectedProtan: "2",
		})
	}
	for i := 0; i < deutan; i++ {
		deck = append(deck, models.Plate{
			ID:             fmt.Sprintf("deutan-%02d", i),
			ImageRef:       fmt.Sprintf("/static/plates/deutan-%02d.svg", i),
			ExpectedNormal: "5",
			ExpectedDeutan: "3",
		})
	}
	return deck
}

func TestLoadCatalog(t *testing.T) {
	catalog, err := screening.LoadCatalog(newTestRand())
	require.NoError(t, err)
	require.GreaterOrEqual(t, catalog.Size(), 20, "deck must cover the initial sample")

	byID := catalog.PlateByID()
	require.Len(t, byID, catalog.Size(), "plate ids must be unique")

	discriminative := 0
	for _, plate := range byID {
		require.NotEmpty(t, plate.ExpectedNormal)
		if plate.Discriminative() {
			discriminative++
		}
	}
	// Even when the initial sample of 20 is drawn entirely from the
	// discriminative plates, 12 follow-up candidates must remain so a run of
	// incorrect answers can extend the queue all the way to the cap of 32.
	require.GreaterOrEqual(t, discriminative, 32, "deck needs follow-up material up to the queue cap")
}

func TestCatalog_SampleInitial(t *testing.T) {
	tests := []struct {
		name     string
		deckSize int
		n        int
		wantErr  error
	}{
		{name: "exact deck", deckSize: 20, n: 20},
		{name: "subset", deckSize: 36, n: 20},
		{name: "deck too small", deckSize: 19, n: 20, wantErr: screening.ErrDeckTooSmall},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := screening.NewCatalog(makeDeck(tt.deckSize, 0, 0), newTestRand())
			sample, err := catalog.SampleInitial(tt.n)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, sample, tt.n)

			seen := map[string]struct{}{}
			for _, plate := range sample {
				_, duplicate := seen[plate.ID]
				require.False(t, duplicate, "duplicate plate %s", plate.ID)
				seen[plate.ID] = struct{}{}
			}
		})
	}
}

func TestCatalog_SampleFollowUp(t *testing.T) {
	catalog := screening.NewCatalog(makeDeck(10, 3, 2), newTestRand())

	t.Run("only discriminative plates", func(t *testing.T) {
		sample := catalog.SampleFollowUp(map[string]struct{}{}, 2)
		require.Len(t, sample, 2)
		for _, plate := range sample {
			require.True(t, plate.Discriminative(), "plate %s is not discriminative", plate.ID)
		}
	})

	t.Run("honours exclusions", func(t *testing.T) {
		exclude := map[string]struct{}{
			"protan-00": {}, "protan-01": {}, "protan-02": {}, "deutan-00": {},
		}
		sample := catalog.SampleFollowUp(exclude, 2)
		require.Len(t, sample, 1)
		require.Equal(t, "deutan-01", sample[0].ID)
	})

	t.Run("returns short when exhausted", func(t *testing.T) {
		exclude := map[string]struct{}{
			"protan-00": {}, "protan-01": {}, "protan-02": {},
			"deutan-00": {}, "deutan-01": {},
		}
		require.Empty(t, catalog.SampleFollowUp(exclude, 2))
	})
}
