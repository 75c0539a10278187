// Package store persists accepted candidate records. Two backends exist:
// an append-only JSONL file (one record per line, safe for a single writer)
// and a sqlite database for deployments that want transactional appends.
package store

import (
	"context"
	"time"
)

// Record is the normalized candidate record written on a pass decision.
type Record struct {
	RunID             string    `json:"run_id,omitempty"`
	Decision          string    `json:"decision"`
	EvaluationSummary string    `json:"evaluation_summary"`
	Remarks           string    `json:"remarks"`
	Timestamp         time.Time `json:"timestamp"`
}

// Store appends candidate records to durable storage.
type Store interface {
	Append(ctx context.Context, record Record) error
	List(ctx context.Context) ([]Record, error)
	Close() error
}
