package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidInput is wrapped by FieldErrors.
var ErrInvalidInput = errors.New("invalid input")

// MaxTimelineYears is the longest goal horizon accepted.
const MaxTimelineYears = 100

// FieldError describes one field that failed validation.
type FieldError struct {
	Path    string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// FieldErrors is every problem found in one validation pass.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, len(fe))
	for i, e := range fe {
		parts[i] = e.Error()
	}
	return fmt.Sprintf("%v: %s", ErrInvalidInput, strings.Join(parts, "; "))
}

func (fe FieldErrors) Unwrap() error {
	return ErrInvalidInput
}

// Has reports whether path is among the failures.
func (fe FieldErrors) Has(path string) bool {
	for _, e := range fe {
		if e.Path == path {
			return true
		}
	}
	return false
}

func (fe FieldErrors) orNil() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// GoalPath names a goal field in validation errors, e.g. goals[0].target_amount.
func GoalPath(index int, field string) string {
	return fmt.Sprintf("goals[%d].%s", index, field)
}

type checker struct {
	errs FieldErrors
}

func (c *checker) fail(path, format string, args ...any) {
	c.errs = append(c.errs, FieldError{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (c *checker) text(path, value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		c.fail(path, "is required")
	}
	return v
}

// number records a failure when a is empty or not a number. ok is false on failure.
func (c *checker) number(path string, a Amount) (float64, bool) {
	v, err := a.Float64()
	if err != nil {
		c.fail(path, "%s", err.Error())
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		c.fail(path, "%q is not a finite number", string(a))
		return 0, false
	}
	return v, true
}

func (c *checker) optionalNumber(path string, a Amount) (float64, bool) {
	if a.IsEmpty() {
		return 0, true
	}
	return c.number(path, a)
}

// ValidateProfile checks the profile step: required, numeric fields parse.
func (in *Input) ValidateProfile() error {
	var c checker
	c.text(FieldName, in.Name)
	c.number(FieldAge, in.Age)
	c.number(FieldMonthlyIncome, in.MonthlyIncome)
	c.number(FieldMonthlyExpenses, in.MonthlyExpenses)
	return c.errs.orNil()
}

// ValidateFinancials checks the assets and liabilities step.
func (in *Input) ValidateFinancials() error {
	var c checker
	c.number(FieldCashEquivalents, in.Assets.CashEquivalents)
	c.number(FieldEquityInvestments, in.Assets.EquityInvestments)
	c.optionalNumber(FieldOtherInvestments, in.Assets.OtherInvestments)
	c.number(FieldHighInterestDebt, in.Liabilities.HighInterestDebt)
	c.number(FieldLoansEMI, in.Liabilities.LoansEMI)
	return c.errs.orNil()
}

// ValidateGoals checks the goals step.
func (in *Input) ValidateGoals() error {
	var c checker
	if len(in.Goals) == 0 {
		c.fail("goals", "at least one goal is required")
	}
	for i, g := range in.Goals {
		c.text(GoalPath(i, GoalFieldName), g.Name)
		c.number(GoalPath(i, GoalFieldTargetAmount), g.TargetAmount)
		c.number(GoalPath(i, GoalFieldTimelineYears), g.TimelineYears)
	}
	return c.errs.orNil()
}

// Validate performs submission-time validation and converts the input into the
// payload sent to the planning service. Ranges follow the service's own contract.
func (in *Input) Validate() (*PlanRequest, error) {
	var c checker
	req := &PlanRequest{
		Name:        c.text(FieldName, in.Name),
		RiskAnswers: append([]int{}, in.RiskAnswers...),
	}

	if age, ok := c.number(FieldAge, in.Age); ok {
		switch {
		case age != math.Trunc(age):
			c.fail(FieldAge, "must be a whole number")
		case age <= 0 || age >= 100:
			c.fail(FieldAge, "must be between 1 and 99")
		default:
			req.Age = int(age)
		}
	}

	nonNegative := func(path string, a Amount, optional bool) float64 {
		var (
			v  float64
			ok bool
		)
		if optional {
			v, ok = c.optionalNumber(path, a)
		} else {
			v, ok = c.number(path, a)
		}
		if ok && v < 0 {
			c.fail(path, "cannot be negative")
		}
		return v
	}

	req.MonthlyIncome = nonNegative(FieldMonthlyIncome, in.MonthlyIncome, false)
	req.MonthlyExpenses = nonNegative(FieldMonthlyExpenses, in.MonthlyExpenses, false)
	req.Assets.CashEquivalents = nonNegative(FieldCashEquivalents, in.Assets.CashEquivalents, false)
	req.Assets.EquityInvestments = nonNegative(FieldEquityInvestments, in.Assets.EquityInvestments, false)
	req.Assets.OtherInvestments = nonNegative(FieldOtherInvestments, in.Assets.OtherInvestments, true)
	req.Liabilities.HighInterestDebt = nonNegative(FieldHighInterestDebt, in.Liabilities.HighInterestDebt, false)
	req.Liabilities.LoansEMI = nonNegative(FieldLoansEMI, in.Liabilities.LoansEMI, false)

	if len(in.Goals) == 0 {
		c.fail("goals", "at least one goal is required")
	}
	req.Goals = make([]GoalPayload, 0, len(in.Goals))
	for i, g := range in.Goals {
		goal := GoalPayload{Name: c.text(GoalPath(i, GoalFieldName), g.Name)}
		if target, ok := c.number(GoalPath(i, GoalFieldTargetAmount), g.TargetAmount); ok {
			if target <= 0 {
				c.fail(GoalPath(i, GoalFieldTargetAmount), "must be greater than zero")
			}
			goal.TargetAmount = target
		}
		if years, ok := c.number(GoalPath(i, GoalFieldTimelineYears), g.TimelineYears); ok {
			switch {
			case years != math.Trunc(years):
				c.fail(GoalPath(i, GoalFieldTimelineYears), "must be a whole number of years")
			case years <= 0:
				c.fail(GoalPath(i, GoalFieldTimelineYears), "must be greater than zero")
			case years > MaxTimelineYears:
				c.fail(GoalPath(i, GoalFieldTimelineYears), "must be at most %d years", MaxTimelineYears)
			default:
				goal.TimelineYears = int(years)
			}
		}
		req.Goals = append(req.Goals, goal)
	}

	if err := c.errs.orNil(); err != nil {
		return nil, err
	}
	return req, nil
}
