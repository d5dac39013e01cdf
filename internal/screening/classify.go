package screening

import "github.com/myrtti/sightline/internal/models"

const (
	// subtypeMatchThreshold is the minimum number of mistake plates tagged
	// for a deficiency class before that class is assigned.
	subtypeMatchThreshold = 3
	// deficiencyMistakeThreshold is the minimum number of mistakes for the
	// generic deficiency verdict when neither class reaches its threshold.
	deficiencyMistakeThreshold = 5
)

// Classify derives the score and diagnostic subtype from the full answer set.
// It is a pure function: callers must guarantee at least one answer and that
// every answer's plate id resolves in plateByID.
//
// The subtype rule is a decision list, not a scoring model. The thresholds and
// the strict > comparison between protan and deutan matches are behaviour
// contracts: equal match counts fall through to the deutan check and then to
// the generic deficiency check.
func Classify(answers []models.Answer, plateByID map[string]models.Plate) models.ClassificationResult {
	correctCount := 0
	var mistakes []models.Answer
	for _, answer := range answers {
		if answer.Correct {
			correctCount++
		} else {
			mistakes = append(mistakes, answer)
		}
	}

	totalPlates := len(answers)
	// Round half up.
	scorePercent := (200*correctCount + totalPlates) / (2 * totalPlates)

	subtype := models.SubtypeNormal
	if len(mistakes) >= subtypeMatchThreshold {
		protanMatches := 0
		deutanMatches := 0
		for _, mistake := range mistakes {
			plate := plateByID[mistake.PlateID]
			if plate.ExpectedProtan != "" {
				protanMatches++
			}
			if plate.ExpectedDeutan != "" {
				deutanMatches++
			}
		}
		switch {
		case protanMatches >= subtypeMatchThreshold && protanMatches > deutanMatches:
			subtype = models.SubtypeProtan
		case deutanMatches >= subtypeMatchThreshold:
			subtype = models.SubtypeDeutan
		case len(mistakes) >= deficiencyMistakeThreshold:
			subtype = models.SubtypeDeficiency
		}
	}

	return models.ClassificationResult{
		ScorePercent: scorePercent,
		Subtype:      subtype,
		TotalPlates:  totalPlates,
		CorrectCount: correctCount,
	}
}
