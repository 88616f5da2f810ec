// Package prompt asks the operator yes/no questions.
package prompt

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
)

// Confirmer answers a yes/no question.
type Confirmer interface {
	Confirm(message string) (bool, error)
}

// Func adapts a plain function to Confirmer.
type Func func(message string) (bool, error)

func (f Func) Confirm(message string) (bool, error) { return f(message) }

// Survey asks on the terminal, defaulting to yes.
type Survey struct {
	Options []survey.AskOpt
}

func (s Survey) Confirm(message string) (bool, error) {
	answer := true
	q := &survey.Confirm{
		Message: message,
		Default: true,
	}
	if err := survey.AskOne(q, &answer, s.Options...); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return answer, nil
}

// Always returns a Confirmer that never asks and answers with answer.
func Always(answer bool) Confirmer {
	return Func(func(string) (bool, error) { return answer, nil })
}
