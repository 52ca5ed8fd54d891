package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EvaluationResult is either the evaluation service's payload or, when the call
// failed, a locally produced error message. Error is set only for failures.
type EvaluationResult struct {
	Verdict  string
	Analysis string
	Error    string
	Risks    []string
	Raw      json.RawMessage
	Score    float64
	HasScore bool
}

// ParseEvaluation decodes an evaluation payload. Only a JSON object is accepted;
// score, verdict, analysis and risks are read when present.
func ParseEvaluation(body []byte) (*EvaluationResult, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("failed to parse evaluation: %w", err)
	}

	result := &EvaluationResult{Raw: append(json.RawMessage(nil), body...)}
	if raw, ok := fields["score"]; ok {
		if err := json.Unmarshal(raw, &result.Score); err == nil {
			result.HasScore = true
		}
	}
	result.Verdict = textField(fields["verdict"])
	result.Analysis = textField(fields["analysis"])
	result.Risks = listField(fields["risks"])

	// Services that answer with {"error": "..."} in a 200 are still failures.
	var remoteErr string
	if err := json.Unmarshal(fields["error"], &remoteErr); err == nil && remoteErr != "" {
		return nil, fmt.Errorf("evaluation service reported: %s", remoteErr)
	}
	return result, nil
}

// textField decodes a JSON string. Any other value reads as empty.
func textField(raw json.RawMessage) string {
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}

// listField decodes the non-empty strings of a JSON array. Elements of any other
// type are skipped.
func listField(raw json.RawMessage) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	var out []string
	for _, item := range items {
		if v := textField(item); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// FailedEvaluation is the result recorded when the evaluation call fails.
func FailedEvaluation(message string) *EvaluationResult {
	return &EvaluationResult{Error: message}
}

// Failed reports whether this result records a failed evaluation.
func (r *EvaluationResult) Failed() bool {
	return r != nil && r.Error != ""
}

// Clone returns a deep copy.
func (r *EvaluationResult) Clone() *EvaluationResult {
	if r == nil {
		return nil
	}
	out := *r
	out.Risks = append([]string(nil), r.Risks...)
	out.Raw = append(json.RawMessage(nil), r.Raw...)
	return &out
}

// Markdown renders the result for display. Payloads with none of the known
// fields are shown as a JSON block.
func (r *EvaluationResult) Markdown() string {
	if r == nil {
		return ""
	}
	if r.Failed() {
		return "**Evaluation failed:** " + r.Error + "\n"
	}
	var b strings.Builder
	if r.Verdict != "" {
		fmt.Fprintf(&b, "# %s\n\n", r.Verdict)
	}
	if r.HasScore {
		fmt.Fprintf(&b, "**Score:** %.1f / 10\n\n", r.Score)
	}
	if r.Analysis != "" {
		b.WriteString(r.Analysis)
		b.WriteString("\n\n")
	}
	if len(r.Risks) > 0 {
		b.WriteString("## Risks\n\n")
		for _, risk := range r.Risks {
			fmt.Fprintf(&b, "- %s\n", risk)
		}
	}
	if b.Len() == 0 && len(r.Raw) > 0 {
		fmt.Fprintf(&b, "```json\n%s\n```\n", r.Raw)
	}
	return b.String()
}
