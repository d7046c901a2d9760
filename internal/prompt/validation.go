// Package prompt assembles the natural-language requests sent to the model
// service. Everything here is pure string assembly.
package prompt

import (
	"strings"

	"github.com/heartmarshall/wortschatz/internal/domain"
)

// ValidationPrompt is one narrowly scoped validation question. It is built
// once by NewValidationPrompt and never mutated.
type ValidationPrompt struct {
	generalTask  string
	specificTask string
	rules        []string
	input        string
	inputLabel   string
}

type promptFields struct {
	GeneralTask  string   `json:"general_task"  validate:"required"`
	SpecificTask string   `json:"specific_task" validate:"required"`
	Rules        []string `json:"rules"         validate:"min=1,dive,required"`
	InputLabel   string   `json:"input_label"   validate:"required"`
}

// NewValidationPrompt validates and stores the prompt parts. The input
// payload itself may be empty; everything else is required.
func NewValidationPrompt(generalTask, specificTask string, rules []string, input, inputLabel string) (ValidationPrompt, error) {
	if err := domain.CheckStruct(promptFields{
		GeneralTask:  strings.TrimSpace(generalTask),
		SpecificTask: strings.TrimSpace(specificTask),
		Rules:        rules,
		InputLabel:   strings.TrimSpace(inputLabel),
	}); err != nil {
		return ValidationPrompt{}, err
	}
	return ValidationPrompt{
		generalTask:  generalTask,
		specificTask: specificTask,
		rules:        append([]string(nil), rules...),
		input:        input,
		inputLabel:   inputLabel,
	}, nil
}

// Rules returns a copy of the rule list.
func (p ValidationPrompt) Rules() []string { return append([]string(nil), p.rules...) }

// Input returns the payload the question is about.
func (p ValidationPrompt) Input() string { return p.input }

// Render produces the request text:
//
//	Task: <general task>
//	<specific task>
//	Rules:
//	- <rule>
//
//	<label>: <input>
func (p ValidationPrompt) Render() string {
	var b strings.Builder
	b.WriteString("Task: ")
	b.WriteString(p.generalTask)
	b.WriteString("\n")
	b.WriteString(p.specificTask)
	b.WriteString("\nRules:\n")
	for _, r := range p.rules {
		b.WriteString("- ")
		b.WriteString(r)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(p.inputLabel)
	b.WriteString(": ")
	b.WriteString(p.input)
	b.WriteString("\n")
	return b.String()
}

// String implements fmt.Stringer.
func (p ValidationPrompt) String() string { return p.Render() }
