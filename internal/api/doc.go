// Package api contains the HTTP gateway: request and response models,
// handlers for the chat, external-update, and health endpoints, and the
// mapping from internal errors to status codes and safe client messages.
package api
