package models

// Plate is a single stimulus image in a colour-vision screening test. It carries
// the reading a person with typical colour vision reports and, for a subset of
// plates, the readings characteristic of the two red-green deficiency classes.
//
// A plate with neither ExpectedProtan nor ExpectedDeutan is non-discriminative:
// it can detect a deficiency but cannot help classify its subtype.
type Plate struct {
	ID             string `json:"id"`
	ImageRef       string `json:"image"`
	ExpectedNormal string `json:"normal"`
	ExpectedProtan string `json:"protan,omitempty"`
	ExpectedDeutan string `json:"deutan,omitempty"`
}

// Discriminative reports whether the plate helps distinguish the deficiency subtype.
func (p Plate) Discriminative() bool {
	return p.ExpectedProtan != "" || p.ExpectedDeutan != ""
}

// Answer records one reading submitted for a presented plate. Immutable once
// appended. RawInput is the verbatim user text, preserved for audit.
type Answer struct {
	PlateID            string `json:"plateId"`
	RawInput           string `json:"rawInput"`
	NormalizedInput    string `json:"normalizedInput"`
	NormalizedExpected string `json:"normalizedExpected"`
	Correct            bool   `json:"isCorrect"`
}

// Subtype summarises the detected pattern of mistakes.
type Subtype string

const (
	SubtypeNormal     Subtype = "normal"
	SubtypeProtan     Subtype = "protan"
	SubtypeDeutan     Subtype = "deutan"
	SubtypeDeficiency Subtype = "deficiency"
)

// ClassificationResult is derived once, at session completion, from the full
// answer sequence plus plate metadata.
type ClassificationResult struct {
	ScorePercent int     `json:"scorePercent"`
	Subtype      Subtype `json:"subtype"`
	TotalPlates  int     `json:"totalPlates"`
	CorrectCount int     `json:"correctCount"`
}
