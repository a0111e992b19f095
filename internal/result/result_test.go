package result_test

import (
	"testing"

	"github.com/jmorrell/longquery/internal/backend"
	"github.com/jmorrell/longquery/internal/result"
)

func TestMaterialize(t *testing.T) {
	rows := []backend.Row{
		{"id": 1, "name": "Alice"},
		{"id": 2, "name": "Bob"},
		{"id": 3, "name": "Charlie"},
	}

	s := result.Materialize(rows)
	if s.RowCount != 3 {
		t.Errorf("expected row count 3, got %d", s.RowCount)
	}
	if s.Text != "Retrieved 3 rows" {
		t.Errorf("unexpected summary: %q", s.Text)
	}
	if len(s.Data) != 3 {
		t.Errorf("expected 3 rows of data, got %d", len(s.Data))
	}
}

func TestMaterializeEmpty(t *testing.T) {
	for _, rows := range [][]backend.Row{nil, {}} {
		s := result.Materialize(rows)
		if s.RowCount != 0 {
			t.Errorf("expected row count 0, got %d", s.RowCount)
		}
		if s.Text != "Retrieved 0 rows" {
			t.Errorf("unexpected summary: %q", s.Text)
		}
		if s.Data == nil {
			t.Error("data must be an empty slice, not nil")
		}
	}
}
