// Package planner talks to the remote planning service. The service generates
// plans, evaluates them, simulates economic scenarios and answers follow-up
// questions; this package treats all of it as an opaque JSON-over-HTTP contract.
package planner
