package wizard

import (
	"fmt"

	"github.com/Veraticus/finpilot/internal/model"
)

// Field is one input on a wizard step. Goal fields carry the goal index and
// the goal field name; flat fields carry a dotted path and Goal -1.
type Field struct {
	Label       string
	Path        string
	GoalField   string
	Placeholder string
	Help        string
	Goal        int
	Optional    bool
}

// ErrorPath is the path validation reports for this field.
func (f Field) ErrorPath() string {
	if f.Goal >= 0 {
		return model.GoalPath(f.Goal, f.GoalField)
	}
	return f.Path
}

// Value reads the field's raw text from in.
func (f Field) Value(in *model.Input) (string, error) {
	if f.Goal >= 0 {
		return in.GoalField(f.Goal, f.GoalField)
	}
	return in.Field(f.Path)
}

// Apply writes value into in.
func (f Field) Apply(in *model.Input, value string) error {
	if f.Goal >= 0 {
		return in.SetGoalField(f.Goal, f.GoalField, value)
	}
	return in.SetField(f.Path, value)
}

// Fields lists the inputs shown on step, in display order. The review step
// has none.
func Fields(step Step, in *model.Input) []Field {
	flat := func(label, path, placeholder, help string) Field {
		return Field{Label: label, Path: path, Placeholder: placeholder, Help: help, Goal: -1}
	}
	switch step {
	case StepProfile:
		return []Field{
			flat("Name", model.FieldName, "Asha", ""),
			flat("Age", model.FieldAge, "30", "Whole years, 1 to 99."),
			flat("Monthly income", model.FieldMonthlyIncome, "150000", "Take-home pay per month."),
			flat("Monthly expenses", model.FieldMonthlyExpenses, "60000", "Everything except loan repayments."),
		}
	case StepAssetsLiabilities:
		other := flat("Other investments", model.FieldOtherInvestments, "optional", "Gold, real estate, provident funds.")
		other.Optional = true
		return []Field{
			flat("Cash & equivalents", model.FieldCashEquivalents, "500000", "Savings, deposits and liquid funds."),
			flat("Equity investments", model.FieldEquityInvestments, "800000", "Stocks and equity funds."),
			other,
			flat("High-interest debt", model.FieldHighInterestDebt, "0", "Credit cards and personal loans outstanding."),
			flat("Loan EMIs (monthly)", model.FieldLoansEMI, "0", "Total monthly loan repayments."),
		}
	case StepGoals:
		var out []Field
		for i := range in.Goals {
			out = append(out,
				Field{Label: fmt.Sprintf("Goal %d name", i+1), GoalField: model.GoalFieldName, Placeholder: "Retirement", Goal: i},
				Field{Label: "Target amount", GoalField: model.GoalFieldTargetAmount, Placeholder: "10000000", Goal: i},
				Field{Label: "Timeline (years)", GoalField: model.GoalFieldTimelineYears, Placeholder: "25", Goal: i},
			)
		}
		return out
	default:
		return nil
	}
}

// FieldsPerGoal is the number of inputs each goal contributes to the goals step.
const FieldsPerGoal = 3
