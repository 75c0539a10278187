package store

import (
	"context"
	"path/filepath"
	"testing"
)

func TestJSONLAppendAndList(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "candidates.jsonl")
	s, err := NewJSONL(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()

	records := []Record{
		{RunID: "run-1", Decision: "Pass", EvaluationSummary: "Score: 85", Remarks: "Selected by AI hiring system"},
		{RunID: "run-2", Decision: "Pass", EvaluationSummary: "Score: 91", Remarks: "Selected by AI hiring system"},
	}

	for _, record := range records {
		if err := s.Append(ctx, record); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].RunID != "run-1" || got[1].RunID != "run-2" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[0].Timestamp.IsZero() {
		t.Fatalf("expected timestamp to be stamped on append")
	}
}

func TestJSONLListMissingFile(t *testing.T) {
	t.Parallel()

	s, err := NewJSONL(filepath.Join(t.TempDir(), "none.jsonl"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty list, got %d", len(records))
	}
}
