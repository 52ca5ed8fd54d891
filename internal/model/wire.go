package model

// PlanRequest is the validated profile in the planning service's wire format.
type PlanRequest struct {
	Name            string             `json:"name"`
	Age             int                `json:"age"`
	MonthlyIncome   float64            `json:"monthly_income"`
	MonthlyExpenses float64            `json:"monthly_expenses"`
	Assets          AssetsPayload      `json:"assets"`
	Liabilities     LiabilitiesPayload `json:"liabilities"`
	Goals           []GoalPayload      `json:"goals"`
	RiskAnswers     []int              `json:"risk_profile_answers"`
}

// AssetsPayload is the wire form of Assets.
type AssetsPayload struct {
	CashEquivalents   float64 `json:"cash_equivalents"`
	EquityInvestments float64 `json:"equity_investments"`
	OtherInvestments  float64 `json:"other_investments"`
}

// LiabilitiesPayload is the wire form of Liabilities.
type LiabilitiesPayload struct {
	HighInterestDebt float64 `json:"high_interest_debt"`
	LoansEMI         float64 `json:"loans_emi"`
}

// GoalPayload is the wire form of Goal.
type GoalPayload struct {
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"target_amount"`
	TimelineYears int     `json:"timeline_years"`
}

// Clone returns a deep copy.
func (r *PlanRequest) Clone() *PlanRequest {
	if r == nil {
		return nil
	}
	out := *r
	out.Goals = append([]GoalPayload(nil), r.Goals...)
	out.RiskAnswers = append([]int{}, r.RiskAnswers...)
	return &out
}

// MonthlySurplus is income left after expenses and loan repayments.
func (r *PlanRequest) MonthlySurplus() float64 {
	return r.MonthlyIncome - r.MonthlyExpenses - r.Liabilities.LoansEMI
}

// InvestedAssets is the starting corpus used for goal projections.
func (r *PlanRequest) InvestedAssets() float64 {
	return r.Assets.EquityInvestments + r.Assets.OtherInvestments
}

// EvaluationRequest is the body sent to the evaluation endpoint.
type EvaluationRequest struct {
	UserProfile   *PlanRequest   `json:"userProfile"`
	GeneratedPlan *GeneratedPlan `json:"generatedPlan"`
}

// SimulationRequest is the body sent to the scenario simulation endpoint.
type SimulationRequest struct {
	UserProfile *PlanRequest `json:"userProfile"`
}

// ChatRequest is the body sent to the plan Q&A endpoint.
type ChatRequest struct {
	UserProfile   *PlanRequest   `json:"userProfile"`
	GeneratedPlan *GeneratedPlan `json:"generatedPlan"`
	NewQuestion   string         `json:"newQuestion"`
	ChatHistory   []ChatMessage  `json:"chatHistory"`
}

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	// RoleUser marks messages typed by the user.
	RoleUser ChatRole = "user"
	// RoleAssistant marks answers from the planning service.
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn of the plan Q&A conversation.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}
