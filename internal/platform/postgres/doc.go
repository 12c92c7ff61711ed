// Package postgres implements the durable conversation store on PostgreSQL
// via pgx. One JSONB row per thread holds the full conversation state;
// SELECT ... FOR UPDATE row locks give each thread a total order of updates
// while distinct threads proceed in parallel. The package also wraps pgxpool
// with a bounded waiting queue so saturation fails fast instead of queueing
// callers indefinitely.
package postgres
