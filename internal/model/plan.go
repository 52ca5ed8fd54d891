package model

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
)

// Strategy is one of the two plans produced by the planning service. The service
// owns its shape: the known fields are decoded for display and the original JSON
// is kept so the plan can be sent back verbatim for evaluation and Q&A.
type Strategy struct {
	AssetAllocation map[string]string
	GoalTimelines   map[string]string
	Summary         string
	Recommendations []string
	raw             json.RawMessage
}

// UnmarshalJSON decodes the known fields leniently and keeps the raw object.
func (s *Strategy) UnmarshalJSON(data []byte) error {
	var known struct {
		Summary         string         `json:"summary"`
		AssetAllocation map[string]any `json:"asset_allocation"`
		GoalTimelines   map[string]any `json:"projected_goal_timeline_years"`
		Recommendations []any          `json:"recommendations"`
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if len(fields) == 0 {
		*s = Strategy{}
		return nil
	}
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	*s = Strategy{
		Summary:         known.Summary,
		AssetAllocation: stringifyMap(known.AssetAllocation),
		GoalTimelines:   stringifyMap(known.GoalTimelines),
		raw:             append(json.RawMessage(nil), data...),
	}
	for _, r := range known.Recommendations {
		s.Recommendations = append(s.Recommendations, fmt.Sprint(r))
	}
	return nil
}

// MarshalJSON returns the original object when there is one.
func (s Strategy) MarshalJSON() ([]byte, error) {
	if len(s.raw) > 0 {
		return s.raw, nil
	}
	return json.Marshal(struct {
		Summary         string            `json:"summary"`
		AssetAllocation map[string]string `json:"asset_allocation,omitempty"`
		GoalTimelines   map[string]string `json:"projected_goal_timeline_years,omitempty"`
		Recommendations []string          `json:"recommendations,omitempty"`
	}{s.Summary, s.AssetAllocation, s.GoalTimelines, s.Recommendations})
}

// AllocationKeys returns the asset classes in a stable order.
func (s Strategy) AllocationKeys() []string {
	keys := make([]string, 0, len(s.AssetAllocation))
	for k := range s.AssetAllocation {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsZero reports whether the strategy carries no content.
func (s Strategy) IsZero() bool {
	return len(s.raw) == 0 && s.Summary == "" && len(s.AssetAllocation) == 0 &&
		len(s.GoalTimelines) == 0 && len(s.Recommendations) == 0
}

// Clone returns a deep copy.
func (s Strategy) Clone() Strategy {
	out := s
	out.AssetAllocation = cloneStrings(s.AssetAllocation)
	out.GoalTimelines = cloneStrings(s.GoalTimelines)
	out.Recommendations = append([]string(nil), s.Recommendations...)
	out.raw = append(json.RawMessage(nil), s.raw...)
	return out
}

// GeneratedPlan is the planning service's response: a conservative and a growth plan.
type GeneratedPlan struct {
	Sentinel Strategy `json:"sentinel_plan"`
	Voyager  Strategy `json:"voyager_plan"`
}

// ParsePlan decodes a plan response body. Both strategies must be present.
func ParsePlan(body []byte) (*GeneratedPlan, error) {
	var plan GeneratedPlan
	if err := json.Unmarshal(body, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}
	if plan.Sentinel.IsZero() || plan.Voyager.IsZero() {
		return nil, fmt.Errorf("plan is missing sentinel_plan or voyager_plan")
	}
	return &plan, nil
}

// Clone returns a deep copy.
func (p *GeneratedPlan) Clone() *GeneratedPlan {
	if p == nil {
		return nil
	}
	return &GeneratedPlan{Sentinel: p.Sentinel.Clone(), Voyager: p.Voyager.Clone()}
}

// Fingerprint identifies the plan by value. Two plans with the same content share
// a fingerprint regardless of key order or whitespace in the response.
func (p *GeneratedPlan) Fingerprint() string {
	if p == nil {
		return ""
	}
	return fingerprint(p)
}

// Fingerprint identifies the request by value.
func (r *PlanRequest) Fingerprint() string {
	if r == nil {
		return ""
	}
	return fingerprint(r)
}

// EvaluationKey identifies one evaluation: a plan together with the profile it
// was generated for. It is empty unless both are present.
func EvaluationKey(req *PlanRequest, plan *GeneratedPlan) string {
	planKey, reqKey := plan.Fingerprint(), req.Fingerprint()
	if planKey == "" || reqKey == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(planKey + ":" + reqKey))
	return fmt.Sprintf("%x", hash)
}

func fingerprint(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	hash := sha256.Sum256(canonicalJSON(data))
	return fmt.Sprintf("%x", hash)
}

// canonicalJSON re-encodes data with sorted object keys and no insignificant whitespace.
func canonicalJSON(data []byte) []byte {
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return data
	}
	out, err := json.Marshal(v)
	if err != nil {
		return data
	}
	return out
}

func stringifyMap(in map[string]any) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = fmt.Sprint(v)
	}
	return out
}

func cloneStrings(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
