// Package screening implements the adaptive colour-vision screening engine:
// plate sampling, answer normalisation, the session state machine, and the
// score/subtype classification.
package screening

import (
	"encoding/json"
	"log/slog"
	"math/rand/v2"

	_ "embed"

	"github.com/myrtti/sightline/internal/errors"
	"github.com/myrtti/sightline/internal/models"
)

//go:embed plates.json
var plateDataset []byte

// ErrDeckTooSmall is returned when the catalog cannot supply the requested
// initial sample size. This is a configuration error and must surface to the
// caller before any session begins.
var ErrDeckTooSmall = errors.NewSentinel("plate deck smaller than requested sample")

// Catalog is an immutable deck of stimulus plates. The random source is
// injected so tests can assert distinctness and exclusion properties
// deterministically.
type Catalog struct {
	plates []models.Plate
	rng    *rand.Rand
}

// NewCatalog wraps an externally loaded plate deck. The deck is treated as
// read-only input and never mutated.
func NewCatalog(plates []models.Plate, rng *rand.Rand) *Catalog {
	return &Catalog{
		plates: plates,
		rng:    rng,
	}
}

// LoadCatalog parses the embedded plate dataset.
func LoadCatalog(rng *rand.Rand) (*Catalog, error) {
	var plates []models.Plate
	if err := json.Unmarshal(plateDataset, &plates); err != nil {
		return nil, errors.Wrap(err, "parse plate dataset")
	}
	seen := make(map[string]struct{}, len(plates))
	for _, plate := range plates {
		if _, ok := seen[plate.ID]; ok {
			return nil, errors.New("duplicate plate id in dataset", slog.String("plate_id", plate.ID))
		}
		seen[plate.ID] = struct{}{}
	}
	return NewCatalog(plates, rng), nil
}

// Size returns the number of plates in the deck.
func (c *Catalog) Size() int {
	return len(c.plates)
}

// PlateByID returns a lookup table over the whole deck.
func (c *Catalog) PlateByID() map[string]models.Plate {
	byID := make(map[string]models.Plate, len(c.plates))
	for _, plate := range c.plates {
		byID[plate.ID] = plate
	}
	return byID
}

// SampleInitial draws n distinct plates uniformly at random without
// replacement. It fails with ErrDeckTooSmall if n exceeds the deck size.
func (c *Catalog) SampleInitial(n int) ([]models.Plate, error) {
	if n > len(c.plates) {
		return nil, errors.Wrap(ErrDeckTooSmall, "sample initial plates",
			slog.Int("requested", n), slog.Int("deck_size", len(c.plates)))
	}
	sample := make([]models.Plate, 0, n)
	for _, i := range c.rng.Perm(len(c.plates))[:n] {
		sample = append(sample, c.plates[i])
	}
	return sample, nil
}

// SampleFollowUp selects up to maxCount discriminative plates whose id is not
// in excludeIDs. It returns fewer than maxCount when the deck is exhausted and
// never errors in that case.
func (c *Catalog) SampleFollowUp(excludeIDs map[string]struct{}, maxCount int) []models.Plate {
	var candidates []models.Plate
	for _, plate := range c.plates {
		if !plate.Discriminative() {
			continue
		}
		if _, excluded := excludeIDs[plate.ID]; excluded {
			continue
		}
		candidates = append(candidates, plate)
	}
	if maxCount > len(candidates) {
		maxCount = len(candidates)
	}
	sample := make([]models.Plate, 0, maxCount)
	for _, i := range c.rng.Perm(len(candidates))[:maxCount] {
		sample = append(sample, candidates[i])
	}
	return sample
}
