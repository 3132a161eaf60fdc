// Package domain contains pure, dependency-free domain models and types
// for the simulation-fidelity evaluator.
package domain

import "fmt"

// ResponsePair is the unit of evaluation: one question answered by both a
// real human respondent and the AI simulation of that respondent.
// Pairs are constructed once at load time and treated as immutable; every
// scorer consumes them by reference.
type ResponsePair struct {
	// ID uniquely identifies this pair within a run.
	ID int `json:"id"`

	// PersonID identifies the respondent being simulated.
	PersonID string `json:"person_id"`

	// Category is the question category label used for grouped analysis.
	Category string `json:"question_category"`

	// Question is the prompt posed to both the human and the simulation.
	Question string `json:"question"`

	// HumanAnswer is the respondent's actual answer. It may be the empty
	// string but is never absent for a pair that reaches scoring.
	HumanAnswer string `json:"human_answer"`

	// AIAnswer is the simulation's answer, with the same presence guarantee
	// as HumanAnswer.
	AIAnswer string `json:"ai_answer"`
}

// Validate reports whether the pair carries every field the pipeline
// requires. Answers are allowed to be empty strings; identity and grouping
// fields are not.
func (p ResponsePair) Validate() error {
	if p.PersonID == "" {
		return fmt.Errorf("pair %d: %w: person_id", p.ID, ErrMissingField)
	}
	if p.Category == "" {
		return fmt.Errorf("pair %d: %w: question_category", p.ID, ErrMissingField)
	}
	if p.Question == "" {
		return fmt.Errorf("pair %d: %w: question", p.ID, ErrMissingField)
	}
	return nil
}

func (p ResponsePair) String() string {
	return fmt.Sprintf("ResponsePair(id=%d, person=%s, category=%s)", p.ID, p.PersonID, p.Category)
}
