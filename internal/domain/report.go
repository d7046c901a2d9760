package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// CandidateSet is the decoded answer to a validation prompt.
type CandidateSet struct {
	Candidates []string `json:"candidates"`
}

// UnmarshalJSON rejects payloads without a candidates array so that a
// malformed model answer counts as a decode failure.
func (c *CandidateSet) UnmarshalJSON(data []byte) error {
	var raw struct {
		Candidates *[]string `json:"candidates"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Candidates == nil {
		return errors.New("candidates: missing")
	}
	c.Candidates = *raw.Candidates
	return nil
}

// FieldResult is the verdict for one checked field of an entry.
type FieldResult struct {
	Field      string   `json:"field"`
	Pass       bool     `json:"pass"`
	Candidates []string `json:"candidates"`
}

// NewFieldResult builds a FieldResult; a nil candidate list is stored as empty.
func NewFieldResult(field string, pass bool, candidates []string) FieldResult {
	if candidates == nil {
		candidates = []string{}
	}
	return FieldResult{Field: field, Pass: pass, Candidates: candidates}
}

// EntryReport aggregates the field verdicts for one word.
type EntryReport struct {
	Word    string        `json:"word"`
	Results []FieldResult `json:"results"`
}

// Summary counts checks and failures over a validation report.
type Summary struct {
	Checks int
	Failed int
}

// Summarize counts the checks and failed checks in reports.
func Summarize(reports []EntryReport) Summary {
	var s Summary
	for _, r := range reports {
		for _, res := range r.Results {
			s.Checks++
			if !res.Pass {
				s.Failed++
			}
		}
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("Checks: %d, failed: %d", s.Checks, s.Failed)
}
