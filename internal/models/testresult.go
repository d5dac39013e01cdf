package models

import "time"

// TestResult is the record emitted to the persistence collaborators when a
// screening session completes. Details is supplementary data for downstream
// reporting, serialised as JSON in storage.
type TestResult struct {
	ID           int64         `json:"-"`
	TestType     string        `json:"testType"`
	ScorePercent int           `json:"scorePercent"`
	XPEarned     int           `json:"xpEarned"`
	Details      ResultDetails `json:"details"`
	Narrative    string        `json:"narrative,omitempty"`
	CompletedAt  time.Time     `json:"-"`
}

// ResultDetails carries the full answer sequence and the derived classification.
type ResultDetails struct {
	Answers      []Answer `json:"answers"`
	Subtype      Subtype  `json:"subtype"`
	TotalPlates  int      `json:"totalPlates"`
	CorrectCount int      `json:"correctCount"`
}
