// Package model defines the data the planning wizard collects and the payloads
// exchanged with the planning service.
//
// Input holds numeric fields as raw text (Amount) so that a half-typed value is
// never rejected while the user is still editing; Validate converts the whole
// input into a PlanRequest at submission time.
package model
