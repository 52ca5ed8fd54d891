package model

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML keeps whatever scalar the file holds as raw text.
func (a *Amount) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number, got %s", value.Line, nodeKind(value))
	}
	*a = Amount(value.Value)
	return nil
}

// MarshalYAML writes plain numbers unquoted, keeping the user's exact text.
func (a Amount) MarshalYAML() (any, error) {
	if _, err := strconv.ParseFloat(string(a), 64); err == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Value: string(a)}, nil
	}
	return string(a), nil
}

// LoadInput reads a profile document, for example one written by WriteYAML.
func LoadInput(r io.Reader) (*Input, error) {
	in := NewInput()
	in.Goals = nil

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(in); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("profile is empty")
		}
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	if len(in.Goals) == 0 {
		in.AddGoal()
	}
	return in, nil
}

// ExampleInput returns a filled-in profile used as a starting template.
func ExampleInput() *Input {
	return &Input{
		Name:            "Asha",
		Age:             "30",
		MonthlyIncome:   "150000",
		MonthlyExpenses: "60000",
		Assets: Assets{
			CashEquivalents:   "500000",
			EquityInvestments: "800000",
		},
		Liabilities: Liabilities{
			HighInterestDebt: "0",
			LoansEMI:         "0",
		},
		Goals: []Goal{
			{Name: "Retirement", TargetAmount: "50000000", TimelineYears: "25"},
			{Name: "House down payment", TargetAmount: "3000000", TimelineYears: "6"},
		},
	}
}

// WriteYAML writes the input as a profile document.
func (in *Input) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(in); err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	return enc.Close()
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "a mapping"
	case yaml.SequenceNode:
		return "a list"
	default:
		return "an unsupported node"
	}
}
