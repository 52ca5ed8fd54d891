package planner

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/Veraticus/finpilot/internal/common"
	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed contract.yaml
var contractDocument []byte

// Schema names in the embedded contract.
const (
	SchemaUserProfile   = "UserProfile"
	SchemaGeneratedPlan = "GeneratedPlan"
	SchemaEvaluation    = "Evaluation"
	SchemaScenarios     = "Scenarios"
	SchemaHealth        = "Health"
)

// Contract validates payloads against the planning service's OpenAPI document.
type Contract struct {
	doc *openapi3.T
}

// LoadContract parses and validates the embedded OpenAPI document.
func LoadContract(ctx context.Context) (*Contract, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(contractDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to load service contract: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("service contract is invalid: %w", err)
	}
	return &Contract{doc: doc}, nil
}

// Check validates a JSON document against the named schema.
func (c *Contract) Check(schema string, body []byte) error {
	ref, ok := c.doc.Components.Schemas[schema]
	if !ok || ref == nil || ref.Value == nil {
		return fmt.Errorf("%w: schema %q not in contract", common.ErrProgramming, schema)
	}

	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}
	if err := ref.Value.VisitJSON(value); err != nil {
		return fmt.Errorf("%w: does not match %s: %v", common.ErrMalformedResponse, schema, err)
	}
	return nil
}

// CheckValue marshals v and validates it against the named schema.
func (c *Contract) CheckValue(schema string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", schema, err)
	}
	return c.Check(schema, body)
}
