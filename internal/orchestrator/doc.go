// Package orchestrator implements the cyclic decision loop at the heart of
// the service: a model turn picks zero or more tools, a tool-execution turn
// dispatches them and records tasks, and control loops back to the model so
// it can acknowledge the dispatch in natural language. The loop is an
// explicit finite-state machine driven by an external controller, so
// termination and step count stay observable.
package orchestrator
