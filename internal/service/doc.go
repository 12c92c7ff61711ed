// Package service implements the request gateway's two operations,
// Converse and PatchState, on top of the durable conversation store and the
// orchestration loop.
package service
