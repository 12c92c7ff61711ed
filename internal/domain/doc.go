// Package domain contains the core business entities, value objects, and
// domain logic of the application: conversation messages, marketing tasks,
// and the per-thread state the orchestrator operates on. It is independent
// of any specific infrastructure or delivery mechanism.
package domain
