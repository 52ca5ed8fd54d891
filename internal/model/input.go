package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/finpilot/internal/common"
)

// Field paths accepted by Input.SetField. They match the planning service's JSON names.
const (
	FieldName              = "name"
	FieldAge               = "age"
	FieldMonthlyIncome     = "monthly_income"
	FieldMonthlyExpenses   = "monthly_expenses"
	FieldCashEquivalents   = "assets.cash_equivalents"
	FieldEquityInvestments = "assets.equity_investments"
	FieldOtherInvestments  = "assets.other_investments"
	FieldHighInterestDebt  = "liabilities.high_interest_debt"
	FieldLoansEMI          = "liabilities.loans_emi"
)

// Goal field names accepted by Input.SetGoalField.
const (
	GoalFieldName          = "name"
	GoalFieldTargetAmount  = "target_amount"
	GoalFieldTimelineYears = "timeline_years"
)

// Programming errors raised by Input mutators.
var (
	ErrUnknownField = fmt.Errorf("%w: unknown field", common.ErrProgramming)
	ErrGoalIndex    = fmt.Errorf("%w: goal index out of range", common.ErrProgramming)
)

// Amount is the raw text of a numeric field exactly as the user typed it.
// It is only parsed when asked for, so half-typed values survive editing.
type Amount string

// Float64 parses the amount. Thousands separators and surrounding spaces are tolerated.
func (a Amount) Float64() (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(string(a)), ",", "")
	if s == "" {
		return 0, fmt.Errorf("value is required")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", string(a))
	}
	return v, nil
}

// IsEmpty reports whether nothing has been entered.
func (a Amount) IsEmpty() bool {
	return strings.TrimSpace(string(a)) == ""
}

// AmountOf formats a number as an Amount.
func AmountOf(v float64) Amount {
	return Amount(strconv.FormatFloat(v, 'f', -1, 64))
}

// Assets holds the user's liquid and invested assets.
type Assets struct {
	CashEquivalents   Amount `yaml:"cash_equivalents"`
	EquityInvestments Amount `yaml:"equity_investments"`
	OtherInvestments  Amount `yaml:"other_investments,omitempty"`
}

// Liabilities holds the user's debt.
type Liabilities struct {
	HighInterestDebt Amount `yaml:"high_interest_debt"`
	LoansEMI         Amount `yaml:"loans_emi"`
}

// Goal is one financial goal. Goals are addressed by their position in Input.Goals.
type Goal struct {
	Name          string `yaml:"name"`
	TargetAmount  Amount `yaml:"target_amount"`
	TimelineYears Amount `yaml:"timeline_years"`
}

// Input is everything the user has entered in the wizard.
type Input struct {
	Name            string      `yaml:"name"`
	Age             Amount      `yaml:"age"`
	MonthlyIncome   Amount      `yaml:"monthly_income"`
	MonthlyExpenses Amount      `yaml:"monthly_expenses"`
	Assets          Assets      `yaml:"assets"`
	Liabilities     Liabilities `yaml:"liabilities"`
	Goals           []Goal      `yaml:"goals"`
	RiskAnswers     []int       `yaml:"risk_profile_answers,omitempty"`
}

// NewInput returns an empty input with a single blank goal, so the goals step is never empty.
func NewInput() *Input {
	return &Input{Goals: []Goal{{}}}
}

// SetField updates a flat or nested field by its dotted path.
func (in *Input) SetField(path, value string) error {
	target, err := in.textField(path)
	if err != nil {
		return err
	}
	target.set(value)
	return nil
}

// Field returns the current raw value of a dotted path.
func (in *Input) Field(path string) (string, error) {
	target, err := in.textField(path)
	if err != nil {
		return "", err
	}
	return target.get(), nil
}

// AddGoal appends a blank goal.
func (in *Input) AddGoal() {
	in.Goals = append(in.Goals, Goal{})
}

// SetGoalField updates one field of the goal at index.
func (in *Input) SetGoalField(index int, field, value string) error {
	if index < 0 || index >= len(in.Goals) {
		return fmt.Errorf("%w: %d (have %d goals)", ErrGoalIndex, index, len(in.Goals))
	}
	g := &in.Goals[index]
	switch field {
	case GoalFieldName:
		g.Name = value
	case GoalFieldTargetAmount:
		g.TargetAmount = Amount(value)
	case GoalFieldTimelineYears:
		g.TimelineYears = Amount(value)
	default:
		return fmt.Errorf("%w: goal field %q", ErrUnknownField, field)
	}
	return nil
}

// GoalField returns the raw value of one goal field.
func (in *Input) GoalField(index int, field string) (string, error) {
	if index < 0 || index >= len(in.Goals) {
		return "", fmt.Errorf("%w: %d (have %d goals)", ErrGoalIndex, index, len(in.Goals))
	}
	g := in.Goals[index]
	switch field {
	case GoalFieldName:
		return g.Name, nil
	case GoalFieldTargetAmount:
		return string(g.TargetAmount), nil
	case GoalFieldTimelineYears:
		return string(g.TimelineYears), nil
	default:
		return "", fmt.Errorf("%w: goal field %q", ErrUnknownField, field)
	}
}

// Clone returns a deep copy.
func (in *Input) Clone() *Input {
	if in == nil {
		return nil
	}
	out := *in
	out.Goals = append([]Goal(nil), in.Goals...)
	out.RiskAnswers = append([]int(nil), in.RiskAnswers...)
	return &out
}

// textAccessor reads and writes one leaf of Input.
type textAccessor struct {
	get func() string
	set func(string)
}

func stringLeaf(p *string) textAccessor {
	return textAccessor{
		get: func() string { return *p },
		set: func(v string) { *p = v },
	}
}

func amountLeaf(p *Amount) textAccessor {
	return textAccessor{
		get: func() string { return string(*p) },
		set: func(v string) { *p = Amount(v) },
	}
}

func (in *Input) textField(path string) (textAccessor, error) {
	switch path {
	case FieldName:
		return stringLeaf(&in.Name), nil
	case FieldAge:
		return amountLeaf(&in.Age), nil
	case FieldMonthlyIncome:
		return amountLeaf(&in.MonthlyIncome), nil
	case FieldMonthlyExpenses:
		return amountLeaf(&in.MonthlyExpenses), nil
	case FieldCashEquivalents:
		return amountLeaf(&in.Assets.CashEquivalents), nil
	case FieldEquityInvestments:
		return amountLeaf(&in.Assets.EquityInvestments), nil
	case FieldOtherInvestments:
		return amountLeaf(&in.Assets.OtherInvestments), nil
	case FieldHighInterestDebt:
		return amountLeaf(&in.Liabilities.HighInterestDebt), nil
	case FieldLoansEMI:
		return amountLeaf(&in.Liabilities.LoansEMI), nil
	}
	return textAccessor{}, fmt.Errorf("%w: %q", ErrUnknownField, path)
}
