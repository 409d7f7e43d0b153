// Package observability provides event logging and metrics calculation
// for opsdesk. It uses structured JSON Lines (JSONL) for event
// persistence and derives session metrics on-demand from the event log.
package observability
