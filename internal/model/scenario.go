package model

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ScenarioParameters are the economic assumptions of a scenario, in annual percent.
type ScenarioParameters struct {
	AvgEquityReturn float64 `json:"avg_equity_return"`
	AvgBondReturn   float64 `json:"avg_bond_return"`
	AvgInflation    float64 `json:"avg_inflation"`
}

// Scenario is one simulated economic outlook with projected goal timelines.
type Scenario struct {
	ProjectedTimelines map[string]string  `json:"projected_timelines"`
	Name               string             `json:"name"`
	Narrative          string             `json:"narrative"`
	Parameters         ScenarioParameters `json:"parameters"`
}

// GoalNames returns the projected goals in a stable order.
func (s Scenario) GoalNames() []string {
	names := make([]string, 0, len(s.ProjectedTimelines))
	for k := range s.ProjectedTimelines {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// CloneScenarios returns a deep copy of scenarios.
func CloneScenarios(in []Scenario) []Scenario {
	if in == nil {
		return nil
	}
	out := make([]Scenario, len(in))
	for i, sc := range in {
		out[i] = sc
		out[i].ProjectedTimelines = cloneStrings(sc.ProjectedTimelines)
	}
	return out
}

// ParseScenarios decodes the simulation response.
func ParseScenarios(body []byte) ([]Scenario, error) {
	var resp struct {
		Scenarios []Scenario `json:"scenarios"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse scenarios: %w", err)
	}
	if len(resp.Scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios returned")
	}
	return resp.Scenarios, nil
}

// ParseChatAnswer accepts either a bare JSON string or an object with an answer field.
func ParseChatAnswer(body []byte) (string, error) {
	var answer string
	if err := json.Unmarshal(body, &answer); err == nil {
		return answer, nil
	}
	var obj struct {
		Answer   string `json:"answer"`
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &obj); err != nil {
		return "", fmt.Errorf("failed to parse chat answer: %w", err)
	}
	if obj.Answer != "" {
		return obj.Answer, nil
	}
	if obj.Response != "" {
		return obj.Response, nil
	}
	return "", fmt.Errorf("chat answer is empty")
}
