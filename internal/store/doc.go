// Package store defines the persistence abstractions for conversation
// threads. The durable store is keyed by an external thread ID, serializes
// updates within a thread, and survives process restarts; the underlying
// storage engine is swappable without touching the orchestration loop.
package store
