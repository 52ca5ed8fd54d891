// Package wizard implements the linear step controller that gates the planning form.
package wizard

import (
	"errors"
	"fmt"

	"github.com/Veraticus/finpilot/internal/model"
)

// Step identifies one screen of the wizard.
type Step int

const (
	StepProfile Step = iota
	StepAssetsLiabilities
	StepGoals
	StepReview
)

// Count is the number of steps, including the review/submit position.
const Count = int(StepReview) + 1

func (s Step) String() string {
	switch s {
	case StepProfile:
		return "Profile"
	case StepAssetsLiabilities:
		return "Assets & Liabilities"
	case StepGoals:
		return "Goals"
	case StepReview:
		return "Review"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// Number is the 1-based position shown to the user.
func (s Step) Number() int {
	return int(s) + 1
}

// ValidationError is returned when the active step is incomplete.
type ValidationError struct {
	Fields model.FieldErrors
	Step   Step
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s step is incomplete: %v", e.Step, e.Fields)
}

func (e *ValidationError) Unwrap() error {
	return e.Fields
}

// IsValidation reports whether err came from a wizard gate.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Controller tracks the active step. The zero value starts at StepProfile.
type Controller struct {
	current Step
}

// New returns a controller positioned at the first step.
func New() *Controller {
	return &Controller{}
}

// Current returns the active step.
func (c *Controller) Current() Step {
	return c.current
}

// ReadyToSubmit reports whether the wizard has reached the submit position.
func (c *Controller) ReadyToSubmit() bool {
	return c.current == StepReview
}

// Next advances one step if the active step's required fields are present.
// At the final step it does nothing.
func (c *Controller) Next(in *model.Input) error {
	if c.current == StepReview {
		return nil
	}
	if err := CheckStep(c.current, in); err != nil {
		return err
	}
	c.current++
	return nil
}

// Previous retreats one step. At the first step it does nothing.
func (c *Controller) Previous() {
	if c.current > StepProfile {
		c.current--
	}
}

// Reset returns to the first step.
func (c *Controller) Reset() {
	c.current = StepProfile
}

// CheckStep validates the fields owned by step. The review step checks everything.
func CheckStep(step Step, in *model.Input) error {
	var err error
	switch step {
	case StepProfile:
		err = in.ValidateProfile()
	case StepAssetsLiabilities:
		err = in.ValidateFinancials()
	case StepGoals:
		err = in.ValidateGoals()
	case StepReview:
		_, err = in.Validate()
	}
	if err == nil {
		return nil
	}
	var fields model.FieldErrors
	if !errors.As(err, &fields) {
		return err
	}
	return &ValidationError{Step: step, Fields: fields}
}
